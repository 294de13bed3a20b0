package services

import (
	"fmt"
	"strings"
	"time"
)

// Spanish calendar names, indexed by time.Weekday / time.Month.
var spanishWeekdays = [7]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"}

var spanishMonths = [13]string{"", "enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"}

// WeekendDay is one weekend date, pre-formatted for prompts.
type WeekendDay struct {
	DayName   string // "sábado" or "domingo"
	Date      time.Time
	Formatted string // dd/mm/yyyy
	FullText  string // "sábado 30/08/2025"
}

// CalendarService resolves relative Spanish date expressions against a
// clock. The clock is injectable so tests can pin "today".
type CalendarService struct {
	Now func() time.Time
}

// NewCalendarService creates a calendar service using the system clock.
func NewCalendarService() *CalendarService {
	return &CalendarService{Now: time.Now}
}

// Today returns today's date formatted as dd/mm/yyyy.
func (s *CalendarService) Today() string {
	return FormatDate(s.Now())
}

// TodayWeekday returns today's Spanish weekday name.
func (s *CalendarService) TodayWeekday() string {
	return spanishWeekdays[s.Now().Weekday()]
}

// TodayLongForm returns today's date in long Spanish form, e.g.
// "sábado, 23 de agosto de 2025".
func (s *CalendarService) TodayLongForm() string {
	now := s.Now()
	return fmt.Sprintf("%s, %d de %s de %d",
		spanishWeekdays[now.Weekday()], now.Day(), spanishMonths[now.Month()], now.Year())
}

// GetUpcomingWeekends returns the next n weekend days (Saturdays and
// Sundays) strictly after today, in chronological order.
func (s *CalendarService) GetUpcomingWeekends(n int) []WeekendDay {
	weekends := make([]WeekendDay, 0, n)

	day := s.Now().AddDate(0, 0, 1)
	for len(weekends) < n {
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			name := spanishWeekdays[day.Weekday()]
			formatted := FormatDate(day)
			weekends = append(weekends, WeekendDay{
				DayName:   name,
				Date:      day,
				Formatted: formatted,
				FullText:  name + " " + formatted,
			})
		}
		day = day.AddDate(0, 0, 1)
	}

	return weekends
}

// WeekendSummary renders the upcoming weekend days as a single line for
// the system prompt, e.g. "sábado 30/08/2025, domingo 31/08/2025, ...".
func (s *CalendarService) WeekendSummary(n int) string {
	weekends := s.GetUpcomingWeekends(n)
	parts := make([]string, 0, len(weekends))
	for _, w := range weekends {
		parts = append(parts, w.FullText)
	}
	return strings.Join(parts, ", ")
}

// NextWeekday resolves a Spanish weekday name ("sábado", "domingo",
// "viernes"...) to the next matching date strictly after today, as
// dd/mm/yyyy. Accent-less spellings ("sabado", "miercoles") are
// accepted. Returns "" when the name is not a weekday.
func (s *CalendarService) NextWeekday(name string) string {
	target := -1
	normalized := normalizeSpanish(name)
	for i, weekday := range spanishWeekdays {
		if normalizeSpanish(weekday) == normalized {
			target = i
			break
		}
	}
	if target < 0 {
		return ""
	}

	day := s.Now()
	for {
		day = day.AddDate(0, 0, 1)
		if int(day.Weekday()) == target {
			return FormatDate(day)
		}
	}
}

// CompleteDate resolves a day/month mention without a year ("el 25/12")
// to its nearest future occurrence: this year while the date is today
// or still ahead, next year once it has passed. Returns "" for a day
// and month that form no valid date.
func (s *CalendarService) CompleteDate(day, month int) string {
	now := s.Now()
	candidate := time.Date(now.Year(), time.Month(month), day, 0, 0, 0, 0, now.Location())
	if candidate.Day() != day || candidate.Month() != time.Month(month) {
		return ""
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if candidate.Before(today) {
		candidate = time.Date(now.Year()+1, time.Month(month), day, 0, 0, 0, 0, now.Location())
		if candidate.Day() != day || candidate.Month() != time.Month(month) {
			return ""
		}
	}
	return FormatDate(candidate)
}

// Tomorrow returns tomorrow's date as dd/mm/yyyy.
func (s *CalendarService) Tomorrow() string {
	return FormatDate(s.Now().AddDate(0, 0, 1))
}

// IsToday reports whether a dd/mm/yyyy date equals today.
func (s *CalendarService) IsToday(date string) bool {
	return date == s.Today()
}

// FormatDate renders a time as dd/mm/yyyy.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// normalizeSpanish lowercases and strips the accented vowels that show
// up in weekday and month names, so "sábado" and "sabado" compare equal.
func normalizeSpanish(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	replacer := strings.NewReplacer("á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u")
	return replacer.Replace(s)
}
