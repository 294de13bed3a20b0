package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/MesaLista/mesabot-backend/internal/models"
	"github.com/MesaLista/mesabot-backend/internal/storage"
)

// AssistantService runs one conversation turn end to end: session
// lookup, draft extraction, prompt assembly, model call, reply parsing
// and reservation dispatch.
type AssistantService struct {
	store        storage.Store
	sessions     *SessionManager
	extractor    *ExtractorService
	contexts     *ContextService
	templates    *TemplateService
	parser       *ParserService
	provider     ReplyProvider
	sender       MessageSender // nil disables admin notifications
	restaurantID string
	adminPhone   string
}

// AssistantConfig identifies the restaurant and where to send admin
// notifications.
type AssistantConfig struct {
	RestaurantID string
	AdminPhone   string
}

// NewAssistantService wires the conversation pipeline together.
func NewAssistantService(
	store storage.Store,
	sessions *SessionManager,
	extractor *ExtractorService,
	contexts *ContextService,
	templates *TemplateService,
	parser *ParserService,
	provider ReplyProvider,
	sender MessageSender,
	config AssistantConfig,
) *AssistantService {
	if config.RestaurantID == "" {
		config.RestaurantID = storage.DefaultRestaurantID
	}
	return &AssistantService{
		store:        store,
		sessions:     sessions,
		extractor:    extractor,
		contexts:     contexts,
		templates:    templates,
		parser:       parser,
		provider:     provider,
		sender:       sender,
		restaurantID: config.RestaurantID,
		adminPhone:   config.AdminPhone,
	}
}

// ProcessIncomingMessage handles one inbound WhatsApp message and
// returns the text to deliver back. The session is only updated once
// the model has replied: a provider failure leaves the history exactly
// as it was, so the customer can simply retry.
func (s *AssistantService) ProcessIncomingMessage(ctx context.Context, phone, displayName, text string) (string, error) {
	history := s.sessions.Get(phone)
	userMsg := models.NewUserMessage(text, displayName, time.Now())

	fullHistory := append(append([]models.Message(nil), history...), userMsg)
	draft := s.extractor.ExtractState(fullHistory)

	templateCtx := s.contexts.BuildContext(phone, userMsg, draft)
	systemPrompt := s.templates.AssembleSystemPrompt(s.restaurantID, templateCtx)

	reply, err := s.provider.Generate(ctx, systemPrompt, text, history)
	if err != nil {
		return "", fmt.Errorf("failed to generate reply for %s: %w", phone, err)
	}

	result := s.parser.Parse(reply, text, draft)

	response := result.CleanedText
	switch result.Intent {
	case models.IntentBooking:
		response = s.handleBooking(result)
	case models.IntentCancellation:
		response = s.handleCancellation(result)
	case models.IntentModification:
		log.Printf("Modification intent from %s, model guides the re-booking", phone)
	case models.IntentSameDay:
		log.Printf("Same-day booking attempt from %s rejected", phone)
	}

	s.sessions.AppendTurn(phone, userMsg, models.NewAssistantMessage(response, time.Now()))
	return response, nil
}

// handleBooking creates the reservation and returns the customer text
// with the confirmation summary appended. A storage failure keeps the
// model's text so the customer still gets an answer.
func (s *AssistantService) handleBooking(result *models.ParseResult) string {
	cmd := result.Command

	reservation := &models.Reservation{
		RestaurantID:  s.restaurantID,
		Name:          cmd.Name,
		Phone:         cmd.Phone,
		Date:          cmd.Date,
		Time:          cmd.Time,
		PartySize:     cmd.PartySize,
		RiceServings:  cmd.RiceServings,
		HighChairs:    cmd.HighChairs,
		BabyStrollers: cmd.BabyStrollers,
	}
	if cmd.RiceType != nil {
		reservation.RiceType = *cmd.RiceType
	}

	created, err := s.store.CreateReservation(reservation)
	if err != nil {
		log.Printf("Failed to create reservation for %s: %v", cmd.Phone, err)
		return result.CleanedText
	}
	log.Printf("Reservation %d created: %s, %s %s, %d personas", created.ID, created.Name, created.Date, created.Time, created.PartySize)

	s.notifyAdmin("Nueva reserva insertada por el Asistente IA:\n" + reservationSummary(created))

	return strings.TrimSpace(result.CleanedText + "\n\n" + confirmationMessage(created))
}

// handleCancellation cancels the matching confirmed reservation.
func (s *AssistantService) handleCancellation(result *models.ParseResult) string {
	cmd := result.Command

	cancelled, err := s.store.CancelReservation(cmd.Phone, cmd.Date, cmd.Time)
	if err != nil {
		log.Printf("Failed to cancel reservation for %s on %s: %v", cmd.Phone, cmd.Date, err)
		return result.CleanedText
	}
	log.Printf("Reservation %d cancelled: %s, %s %s", cancelled.ID, cancelled.Name, cancelled.Date, cancelled.Time)

	s.notifyAdmin("Reserva anulada por el Asistente IA:\n" + reservationSummary(cancelled))

	return result.CleanedText
}

// notifyAdmin sends a WhatsApp message to the restaurant's admin phone.
// Best effort: failures are logged, never surfaced to the customer.
func (s *AssistantService) notifyAdmin(message string) {
	if s.sender == nil || s.adminPhone == "" {
		return
	}
	if err := s.sender.SendWhatsAppMessage(s.adminPhone, message); err != nil {
		log.Printf("Failed to notify admin: %v", err)
	}
}

// reservationSummary is the plain-text detail block used in admin
// notifications.
func reservationSummary(r *models.Reservation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Nombre: %s\nTeléfono: %s\nFecha: %s\nHora: %s\nPersonas: %d", r.Name, r.Phone, r.Date, r.Time, r.PartySize)
	if r.RiceType != "" {
		fmt.Fprintf(&b, "\nArroz: %s (%d raciones)", r.RiceType, r.RiceServings)
	}
	if r.HighChairs > 0 {
		fmt.Fprintf(&b, "\nTronas: %d", r.HighChairs)
	}
	if r.BabyStrollers > 0 {
		fmt.Fprintf(&b, "\nCarritos: %d", r.BabyStrollers)
	}
	return b.String()
}

// confirmationMessage is the WhatsApp-formatted summary sent to the
// customer after the reservation is stored.
func confirmationMessage(r *models.Reservation) string {
	var b strings.Builder
	b.WriteString("*Confirmación de Reserva*\n")
	fmt.Fprintf(&b, "📅 Fecha: %s\n🕐 Hora: %s\n👥 Personas: %d", r.Date, r.Time, r.PartySize)
	if r.RiceType != "" {
		fmt.Fprintf(&b, "\n🥘 Arroz: %s (%d raciones)", r.RiceType, r.RiceServings)
	}
	if r.HighChairs > 0 {
		fmt.Fprintf(&b, "\n🪑 Tronas: %d", r.HighChairs)
	}
	if r.BabyStrollers > 0 {
		fmt.Fprintf(&b, "\n🍼 Carritos: %d", r.BabyStrollers)
	}
	b.WriteString("\n\n¡Te esperamos! 🥘")
	return b.String()
}
