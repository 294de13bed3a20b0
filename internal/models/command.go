package models

// Intent classifies what a parsed model reply asks the backend to do.
type Intent string

const (
	IntentBooking      Intent = "booking"
	IntentCancellation Intent = "cancellation"
	IntentModification Intent = "modification"
	IntentSameDay      Intent = "same_day"
	IntentPlainReply   Intent = "plain_reply"
)

// Command is the structured payload of a BOOKING_REQUEST or
// CANCELLATION_REQUEST line embedded in a model reply. The required
// fields (Name, Phone, Date, Time) are never empty when a command is
// emitted; a malformed line degrades to a plain reply instead.
type Command struct {
	Name          string  `json:"name"`
	Phone         string  `json:"phone"`
	Date          string  `json:"date"` // dd/mm/yyyy
	PartySize     int     `json:"party_size"`
	Time          string  `json:"time"` // HH:mm
	RiceType      *string `json:"rice_type,omitempty"`
	RiceServings  int     `json:"rice_servings,omitempty"`
	HighChairs    int     `json:"high_chairs,omitempty"`
	BabyStrollers int     `json:"baby_strollers,omitempty"`
}

// ParseMetadata carries extras detected in a plain reply.
type ParseMetadata struct {
	HasURLs bool     `json:"has_urls"`
	URLs    []string `json:"urls,omitempty"`
}

// ParseResult is the outcome of scanning one model reply.
type ParseResult struct {
	CleanedText string         `json:"cleaned_text"`
	Intent      Intent         `json:"intent"`
	Command     *Command       `json:"command,omitempty"`
	Metadata    *ParseMetadata `json:"metadata,omitempty"`
}
