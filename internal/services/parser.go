package services

import (
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/MesaLista/mesabot-backend/internal/models"
)

// Command tags the model is instructed to emit. Booking and
// cancellation carry pipe-separated fields; the other two are bare.
const (
	tagBooking      = "BOOKING_REQUEST"
	tagCancellation = "CANCELLATION_REQUEST"
	tagModification = "MODIFICATION_INTENT"
	tagSameDay      = "SAME_DAY_BOOKING"
)

// Fallback texts. The customer must always receive something readable,
// even when the model reply was only a command token.
const (
	sameDayFallbackText = "Lo siento, no puedo gestionar reservas para hoy mismo por aquí. Llámanos al 961 234 567 y te atendemos al momento."
	notUnderstoodText   = "Perdona, no te he entendido bien. ¿Me lo puedes repetir de otra forma?"
)

var (
	urlPattern       = regexp.MustCompile(`https?://[^\s]+`)
	boldPattern      = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	multiNewlines    = regexp.MustCompile(`\n{3,}`)
	commandUnescaper = strings.NewReplacer(`\|`, `|`, `\_`, `_`, `\*`, `*`)
)

// ParserService interprets one model reply: finds the command grammar,
// validates its fields, classifies the intent and cleans the text that
// goes back to the customer.
type ParserService struct {
	riceDishes []string
}

// NewParserService creates a parser that recognizes the restaurant's
// rice dishes in free text around a booking command.
func NewParserService(riceDishes []string) *ParserService {
	return &ParserService{riceDishes: riceDishes}
}

// Parse never fails: a malformed command degrades to a plain reply so
// the customer still gets the text. The draft supplies rice and
// accessibility details the command line itself does not carry.
func (s *ParserService) Parse(rawReply, latestUserMessage string, draft *models.ReservationDraft) *models.ParseResult {
	// Escaped pipes and markdown arrive from some model runs; unescape
	// first so both variants split identically.
	reply := commandUnescaper.Replace(rawReply)

	result := &models.ParseResult{Intent: models.IntentPlainReply}

	switch {
	case strings.Contains(reply, tagBooking):
		if cmd := s.parseFieldCommand(reply, tagBooking); cmd != nil {
			s.attachDetails(cmd, draft, reply+"\n"+latestUserMessage)
			result.Intent = models.IntentBooking
			result.Command = cmd
		}
	case strings.Contains(reply, tagCancellation):
		if cmd := s.parseFieldCommand(reply, tagCancellation); cmd != nil {
			result.Intent = models.IntentCancellation
			result.Command = cmd
		}
	case strings.Contains(reply, tagModification):
		result.Intent = models.IntentModification
	case strings.Contains(reply, tagSameDay):
		result.Intent = models.IntentSameDay
	}

	cleaned := CleanReplyText(stripCommandLines(reply))

	if result.Intent == models.IntentSameDay && cleaned == "" {
		cleaned = sameDayFallbackText
	}
	if cleaned == "" {
		cleaned = notUnderstoodText
	}
	result.CleanedText = cleaned

	if result.Intent == models.IntentPlainReply {
		if urls := urlPattern.FindAllString(reply, -1); len(urls) > 0 {
			result.Metadata = &models.ParseMetadata{HasURLs: true, URLs: urls}
		}
	}

	return result
}

// parseFieldCommand splits TAG|name|phone|date|partySize|time. Missing
// or empty required fields make the command invalid (nil); a
// non-numeric party size defaults to zero instead of failing.
func (s *ParserService) parseFieldCommand(reply, tag string) *models.Command {
	line := findCommandLine(reply, tag)
	if line == "" {
		return nil
	}

	fields := strings.Split(line[strings.Index(line, tag):], "|")
	if len(fields) < 6 {
		log.Printf("Malformed %s line, falling back to plain reply: %q", tag, line)
		return nil
	}

	cmd := &models.Command{
		Name:  strings.TrimSpace(fields[1]),
		Phone: strings.TrimSpace(fields[2]),
		Date:  strings.TrimSpace(fields[3]),
		Time:  strings.TrimSpace(fields[5]),
	}
	cmd.PartySize, _ = strconv.Atoi(strings.TrimSpace(fields[4]))

	if cmd.Name == "" || cmd.Phone == "" || cmd.Date == "" || cmd.Time == "" {
		log.Printf("Incomplete %s fields, falling back to plain reply: %q", tag, line)
		return nil
	}
	return cmd
}

// attachDetails fills the booking command's rice and accessibility
// fields from the draft, then from mentions in the surrounding text.
func (s *ParserService) attachDetails(cmd *models.Command, draft *models.ReservationDraft, freeText string) {
	if draft != nil {
		cmd.RiceType = draft.RiceType
		cmd.RiceServings = draft.RiceServings
		cmd.HighChairs = draft.HighChairs
		cmd.BabyStrollers = draft.BabyStrollers
	}

	normalized := normalizeSpanish(freeText)

	if cmd.RiceType == nil {
		matcher := newRiceExtractor(s.riceDishes)
		if dish := matcher.matchSingleDish(freeText); dish != "" {
			cmd.RiceType = &dish
		} else if riceDeclinePattern.MatchString(normalized) {
			declined := ""
			cmd.RiceType = &declined
		}
	}
	if cmd.RiceServings == 0 {
		if m := servingsPattern.FindStringSubmatch(normalized); m != nil {
			cmd.RiceServings, _ = strconv.Atoi(m[1])
		}
	}
	if cmd.HighChairs == 0 {
		cmd.HighChairs = matchCount(normalized, highChairPattern, oneHighChair)
	}
	if cmd.BabyStrollers == 0 {
		cmd.BabyStrollers = matchCount(normalized, strollerPattern, oneStroller)
	}
}

// findCommandLine returns the first line containing the tag.
func findCommandLine(reply, tag string) string {
	for _, line := range strings.Split(reply, "\n") {
		if strings.Contains(line, tag) {
			return line
		}
	}
	return ""
}

// stripCommandLines removes every line carrying a command tag, so the
// customer never sees the grammar.
func stripCommandLines(reply string) string {
	tags := []string{tagBooking, tagCancellation, tagModification, tagSameDay}

	var kept []string
	for _, line := range strings.Split(reply, "\n") {
		isCommand := false
		for _, tag := range tags {
			if strings.Contains(line, tag) {
				isCommand = true
				break
			}
		}
		if !isCommand {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// CleanReplyText normalizes a reply for WhatsApp delivery: double
// asterisk bold becomes single asterisk, whitespace-only lines are
// dropped, trailing spaces trimmed, runs of blank lines collapsed to
// one. Returns "" when nothing readable remains.
func CleanReplyText(text string) string {
	text = boldPattern.ReplaceAllString(text, "*$1*")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimRight(line, " \t")
		if trimmed == "" && line != "" {
			continue
		}
		lines = append(lines, trimmed)
	}

	text = strings.Join(lines, "\n")
	text = multiNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
