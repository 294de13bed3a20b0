package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/MesaLista/mesabot-backend/internal/models"
)

// Slot patterns. All matching happens on accent-normalized lowercase
// text, so "sábado" and "sabado" behave the same.
var (
	explicitDatePattern = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)
	shortDatePattern    = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})\b`)
	weekdayPattern      = regexp.MustCompile(`\b(lunes|martes|miercoles|jueves|viernes|sabado|domingo)\b`)
	todayPattern        = regexp.MustCompile(`\bhoy\b`)

	explicitTimePattern = regexp.MustCompile(`\b(\d{1,2})[:.]([0-5]\d)\b`)
	bareHourPattern     = regexp.MustCompile(`\b(?:a|sobre)\s+las?\s+(\d{1,2})\b`)

	partySizePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(\d{1,2})\s+personas?\b`),
		regexp.MustCompile(`\bsomos\s+(\d{1,2})\b`),
		regexp.MustCompile(`\bpara\s+(\d{1,2})\b(?:\s|$|[,.!?])`),
	}

	servingsPattern    = regexp.MustCompile(`\b(\d{1,2})\s+racion(?:es)?\b`)
	highChairPattern   = regexp.MustCompile(`\b(\d{1,2})\s+tronas?\b`)
	oneHighChair       = regexp.MustCompile(`\buna\s+trona\b`)
	strollerPattern    = regexp.MustCompile(`\b(\d{1,2})\s+carritos?\b`)
	oneStroller        = regexp.MustCompile(`\bun\s+carrito\b`)
	riceDeclinePattern = regexp.MustCompile(`\bsin\s+arroz\b|\bno\s+(?:quiero|queremos|vamos\s+a\s+querer)\s+arroz\b|\bnada\s+de\s+arroz\b`)

	correctionPhrases = []string{"perdon", "en verdad", "mejor", "me he equivocado", "queria decir"}
)

// HasCorrectionLanguage reports whether a message explicitly corrects
// something said before ("perdón", "en verdad", "mejor, ..."). Only such
// messages may overwrite a slot that is already filled.
func HasCorrectionLanguage(text string) bool {
	normalized := normalizeSpanish(text)
	for _, phrase := range correctionPhrases {
		if strings.Contains(normalized, phrase) {
			return true
		}
	}
	return false
}

// SlotExtractor fills one reservation slot from a single message. The
// correction flag reports whether the user is explicitly correcting
// earlier information; without it a filled slot is never overwritten.
type SlotExtractor interface {
	Apply(draft *models.ReservationDraft, msg models.Message, correction bool)
}

// ExtractorService recomputes the reservation draft from the complete
// message history each turn. It never mutates persisted state, so two
// calls on the same history always produce the same draft.
type ExtractorService struct {
	extractors []SlotExtractor
}

// NewExtractorService creates an extractor wired with the restaurant's
// rice menu and a calendar for resolving relative dates.
func NewExtractorService(calendar *CalendarService, riceDishes []string) *ExtractorService {
	return &ExtractorService{
		extractors: []SlotExtractor{
			&dateExtractor{calendar: calendar},
			&timeExtractor{},
			&partySizeExtractor{},
			newRiceExtractor(riceDishes),
			&extrasExtractor{},
		},
	}
}

// ExtractState scans the history oldest to newest and returns the
// normalized reservation draft. Pure: no I/O, never fails; anything it
// cannot parse simply stays empty and shows up in MissingFields.
func (s *ExtractorService) ExtractState(history []models.Message) *models.ReservationDraft {
	draft := &models.ReservationDraft{Stage: models.StageCollectingInfo}

	// The correction flag of the latest user message also covers the
	// assistant reply that follows it, so an acknowledgement after
	// "mejor paella" may replace the previously accepted dish.
	correction := false
	for _, msg := range history {
		if msg.Role == models.RoleUser {
			correction = HasCorrectionLanguage(msg.Text)
		}
		for _, e := range s.extractors {
			e.Apply(draft, msg, correction)
		}
	}

	finalizeDraft(draft)
	return draft
}

// finalizeDraft computes the derived fields: missing slots in canonical
// order, completeness and the conversation stage.
func finalizeDraft(draft *models.ReservationDraft) {
	if !draft.RiceAccepted() {
		draft.RiceServings = 0
	}

	draft.MissingFields = nil
	if draft.Date == "" {
		draft.MissingFields = append(draft.MissingFields, models.FieldDate)
	}
	if draft.Time == "" {
		draft.MissingFields = append(draft.MissingFields, models.FieldTime)
	}
	if draft.PartySize == 0 {
		draft.MissingFields = append(draft.MissingFields, models.FieldPartySize)
	}
	if !draft.RiceResolved() {
		draft.MissingFields = append(draft.MissingFields, models.FieldRiceDecision)
	}

	draft.IsComplete = len(draft.MissingFields) == 0
	if draft.IsComplete {
		draft.Stage = models.StageAwaitingConfirmation
	} else {
		draft.Stage = models.StageCollectingInfo
	}
}

// Date

type dateExtractor struct {
	calendar *CalendarService
}

func (e *dateExtractor) Apply(draft *models.ReservationDraft, msg models.Message, correction bool) {
	if msg.Role != models.RoleUser {
		return
	}
	date := matchDate(msg.Text, e.calendar)
	if date == "" {
		return
	}
	if draft.Date == "" || correction {
		draft.Date = date
	}
}

// matchDate finds the best date mention in one message. An explicit
// dd/mm/yyyy wins over a bare dd/mm (completed to its nearest future
// occurrence), which wins over a weekday name and "hoy"/"mañana".
func matchDate(text string, calendar *CalendarService) string {
	normalized := normalizeSpanish(text)

	if m := explicitDatePattern.FindStringSubmatch(normalized); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		if day >= 1 && day <= 31 && month >= 1 && month <= 12 {
			return padDate(day, month, m[3])
		}
	}

	if m := shortDatePattern.FindStringSubmatch(normalized); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		if date := calendar.CompleteDate(day, month); date != "" {
			return date
		}
	}

	if m := weekdayPattern.FindStringSubmatch(normalized); m != nil {
		return calendar.NextWeekday(m[1])
	}

	if strings.Contains(normalized, "pasado mañana") {
		return FormatDate(calendar.Now().AddDate(0, 0, 2))
	}
	if strings.Contains(normalized, "mañana") && !strings.Contains(normalized, "la mañana") {
		return calendar.Tomorrow()
	}
	if todayPattern.MatchString(normalized) {
		return calendar.Today()
	}

	return ""
}

func padDate(day, month int, year string) string {
	return fmt.Sprintf("%02d/%02d/%s", day, month, year)
}

// Time

type timeExtractor struct{}

func (e *timeExtractor) Apply(draft *models.ReservationDraft, msg models.Message, correction bool) {
	if msg.Role != models.RoleUser {
		return
	}
	timeSlot := matchTime(msg.Text)
	if timeSlot == "" {
		return
	}
	if draft.Time == "" || correction {
		draft.Time = timeSlot
	}
}

// matchTime finds the best time mention in one message: HH:MM wins over
// a bare hour ("a las 2"). Values are stored as written; deciding
// whether "2" means 14:00 is left to the model.
func matchTime(text string) string {
	if m := explicitTimePattern.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		if hour <= 23 {
			return m[1] + ":" + m[2]
		}
	}
	if m := bareHourPattern.FindStringSubmatch(normalizeSpanish(text)); m != nil {
		hour, _ := strconv.Atoi(m[1])
		if hour <= 23 {
			return m[1]
		}
	}
	return ""
}

// Party size

type partySizeExtractor struct{}

func (e *partySizeExtractor) Apply(draft *models.ReservationDraft, msg models.Message, correction bool) {
	if msg.Role != models.RoleUser {
		return
	}
	size := matchPartySize(msg.Text)
	if size == 0 {
		return
	}
	if draft.PartySize == 0 || correction {
		draft.PartySize = size
	}
}

// matchPartySize recognizes "N personas", "somos N" and "para N".
func matchPartySize(text string) int {
	normalized := normalizeSpanish(text)
	for _, pattern := range partySizePatterns {
		if m := pattern.FindStringSubmatch(normalized); m != nil {
			size, _ := strconv.Atoi(m[1])
			if size > 0 {
				return size
			}
		}
	}
	return 0
}

// Rice decision

type riceExtractor struct {
	dishes     []string // canonical names, as shown to the customer
	normalized []string // accent-stripped lowercase, same order
}

func newRiceExtractor(dishes []string) *riceExtractor {
	e := &riceExtractor{dishes: dishes}
	for _, d := range dishes {
		e.normalized = append(e.normalized, normalizeSpanish(d))
	}
	return e
}

func (e *riceExtractor) Apply(draft *models.ReservationDraft, msg models.Message, correction bool) {
	switch msg.Role {
	case models.RoleAssistant:
		// Only an acknowledgement of exactly one dish counts; a message
		// naming several dishes is the menu being listed.
		dish := e.matchSingleDish(msg.Text)
		if dish != "" && (!draft.RiceResolved() || correction) {
			draft.RiceType = &dish
		}
	case models.RoleUser:
		normalized := normalizeSpanish(msg.Text)
		if riceDeclinePattern.MatchString(normalized) && (!draft.RiceResolved() || correction) {
			declined := ""
			draft.RiceType = &declined
		}
		if m := servingsPattern.FindStringSubmatch(normalized); m != nil {
			servings, _ := strconv.Atoi(m[1])
			if servings > 0 && (draft.RiceServings == 0 || correction) {
				draft.RiceServings = servings
			}
		}
	}
}

// matchSingleDish returns the canonical dish name when the text mentions
// exactly one dish from the menu, and "" otherwise.
func (e *riceExtractor) matchSingleDish(text string) string {
	normalized := normalizeSpanish(text)
	found := ""
	for i, dish := range e.normalized {
		if strings.Contains(normalized, dish) {
			if found != "" && found != e.dishes[i] {
				return ""
			}
			found = e.dishes[i]
		}
	}
	return found
}

// High chairs and strollers

type extrasExtractor struct{}

func (e *extrasExtractor) Apply(draft *models.ReservationDraft, msg models.Message, correction bool) {
	if msg.Role != models.RoleUser {
		return
	}
	normalized := normalizeSpanish(msg.Text)

	if chairs := matchCount(normalized, highChairPattern, oneHighChair); chairs > 0 {
		if draft.HighChairs == 0 || correction {
			draft.HighChairs = chairs
		}
	}
	if strollers := matchCount(normalized, strollerPattern, oneStroller); strollers > 0 {
		if draft.BabyStrollers == 0 || correction {
			draft.BabyStrollers = strollers
		}
	}
}

// matchCount resolves "N tronas"-style mentions, with a singular form
// ("una trona") counting as one.
func matchCount(normalized string, counted, singular *regexp.Regexp) int {
	if m := counted.FindStringSubmatch(normalized); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n
	}
	if singular.MatchString(normalized) {
		return 1
	}
	return 0
}
