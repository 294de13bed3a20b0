package services

import (
	"strconv"
	"strings"

	"github.com/MesaLista/mesabot-backend/internal/models"
)

// weekendDaysInPrompt is how many upcoming weekend days the system
// prompt lists for relative-date talk.
const weekendDaysInPrompt = 4

// ContextService builds the ordered key/value context consumed by the
// template engine: calendar facts, customer identity and the serialized
// reservation draft.
type ContextService struct {
	calendar *CalendarService
}

// NewContextService creates a context builder on top of the calendar.
func NewContextService(calendar *CalendarService) *ContextService {
	return &ContextService{calendar: calendar}
}

// BuildContext assembles the per-turn template context. Unfilled slots
// carry the "FALTA" sentinel so prompts can both print them and branch
// on them.
func (s *ContextService) BuildContext(phone string, msg models.Message, draft *models.ReservationDraft) models.TemplateContext {
	var ctx models.TemplateContext

	name := msg.DisplayName
	if name == "" {
		name = "cliente"
	}
	ctx.Set("nombre_cliente", name)
	ctx.Set("telefono_cliente", phone)

	ctx.Set("dia_semana", s.calendar.TodayWeekday())
	ctx.Set("fecha_hoy", s.calendar.Today())
	ctx.Set("proximos_fines_de_semana", s.calendar.WeekendSummary(weekendDaysInPrompt))

	ctx.Set("fecha", slotOrMissing(draft.Date))
	ctx.Set("hora", slotOrMissing(draft.Time))
	ctx.Set("personas", countOrMissing(draft.PartySize))
	ctx.Set("arroz", riceSlot(draft))
	ctx.Set("raciones_arroz", countOrMissing(draft.RiceServings))
	ctx.Set("tronas", strconv.Itoa(draft.HighChairs))
	ctx.Set("carritos", strconv.Itoa(draft.BabyStrollers))

	ctx.Set("datos_completos", draft.IsComplete)
	ctx.Set("campos_pendientes", strings.Join(draft.MissingFields, ", "))

	return ctx
}

func slotOrMissing(value string) string {
	if value == "" {
		return MissingValue
	}
	return value
}

func countOrMissing(value int) string {
	if value == 0 {
		return MissingValue
	}
	return strconv.Itoa(value)
}

// riceSlot renders the three-way rice decision: unresolved, explicitly
// declined, or an accepted dish name.
func riceSlot(draft *models.ReservationDraft) string {
	if draft.RiceType == nil {
		return MissingValue
	}
	if *draft.RiceType == "" {
		return "sin arroz"
	}
	return *draft.RiceType
}
