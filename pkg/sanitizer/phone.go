package sanitizer

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// NormalizeContact formats a phone number as E.164 when it is valid for region
// (or carries its own country code). Other contacts are returned trimmed.
func NormalizeContact(contact, region string) string {
	contact = TrimAndNormalize(contact)
	if contact == "" {
		return ""
	}
	if strings.Contains(contact, "@") {
		return contact
	}

	parsed, err := phonenumbers.Parse(contact, strings.ToUpper(region))
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		return contact
	}
	return phonenumbers.Format(parsed, phonenumbers.E164)
}
