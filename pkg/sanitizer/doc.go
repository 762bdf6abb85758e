// Package sanitizer normalizes caller-supplied booking fields before validation and storage.
//
// All normalization functions are idempotent: applying them multiple times produces
// the same result. Invalid input is never an error here; it is passed through in a
// trimmed form and left for the validator to judge.
//
// Normalization includes:
//   - Free text (holder, title): collapse whitespace, trim leading/trailing spaces
//   - Time of day: "9:00" and "09:00:00" become "09:00"
//   - Contacts: phone numbers are converted to E.164 when they parse for the configured
//     region; anything else (an e-mail address, an extension) is kept as trimmed text
package sanitizer
