package sanitizer

import "roombook/pkg/model"

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var timePipeline = Pipeline{TrimAndNormalize, NormalizeTimeOfDay}

// SanitizeBookingRequest normalizes req in place. The secret is left untouched.
func SanitizeBookingRequest(req *model.BookingRequest, region string) {
	req.Room = TrimAndNormalize(req.Room)
	req.Date = TrimAndNormalize(req.Date)
	req.Start = timePipeline.Apply(req.Start)
	req.End = timePipeline.Apply(req.End)
	req.Holder = NormalizeName(req.Holder)
	req.Title = TrimAndNormalize(req.Title)
	req.Contact = NormalizeContact(req.Contact, region)
}

func SanitizeBookingUpdate(upd *model.BookingUpdate) {
	upd.Room = TrimAndNormalize(upd.Room)
	upd.Date = TrimAndNormalize(upd.Date)
	upd.Start = timePipeline.Apply(upd.Start)
	upd.End = timePipeline.Apply(upd.End)
	upd.Title = TrimAndNormalize(upd.Title)
}
