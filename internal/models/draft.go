package models

// Dialogue stages derived from the extracted slot state
const (
	StageCollectingInfo       = "collecting_info"
	StageAwaitingConfirmation = "awaiting_confirmation"
)

// Canonical missing-field names. They are always reported in the order
// fecha, hora, personas, arroz_decision.
const (
	FieldDate         = "fecha"
	FieldTime         = "hora"
	FieldPartySize    = "personas"
	FieldRiceDecision = "arroz_decision"
)

// ReservationDraft is the aggregate slot state recomputed from the full
// conversation history on every turn. It is never mutated incrementally.
//
// RiceType distinguishes three states: nil means the rice decision is
// still unresolved, the empty string means the customer explicitly
// declined rice, and a non-empty value is the accepted dish name.
type ReservationDraft struct {
	Date          string   `json:"date"`       // dd/mm/yyyy
	Time          string   `json:"time"`       // stored as the customer wrote it
	PartySize     int      `json:"party_size"` // 0 when unknown
	RiceType      *string  `json:"rice_type"`
	RiceServings  int      `json:"rice_servings"`
	HighChairs    int      `json:"high_chairs"`
	BabyStrollers int      `json:"baby_strollers"`
	Stage         string   `json:"stage"`
	MissingFields []string `json:"missing_fields"`
	IsComplete    bool     `json:"is_complete"`
}

// RiceResolved reports whether the rice decision has been settled, either
// with a named dish or an explicit decline.
func (d *ReservationDraft) RiceResolved() bool {
	return d.RiceType != nil
}

// RiceAccepted reports whether a named rice dish has been agreed on.
func (d *ReservationDraft) RiceAccepted() bool {
	return d.RiceType != nil && *d.RiceType != ""
}
