package services

import (
	"testing"

	"github.com/MesaLista/mesabot-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestParser() *ParserService {
	return NewParserService(testDishes)
}

func TestParseBookingRequest(t *testing.T) {
	svc := newTestParser()

	reply := "Reserva lista.\nBOOKING_REQUEST|Juan Pérez|34612345678|25/12/2025|4|14:00\nGracias."
	result := svc.Parse(reply, "", &models.ReservationDraft{})

	assert.Equal(t, models.IntentBooking, result.Intent)
	require.NotNil(t, result.Command)
	assert.Equal(t, "Juan Pérez", result.Command.Name)
	assert.Equal(t, "34612345678", result.Command.Phone)
	assert.Equal(t, "25/12/2025", result.Command.Date)
	assert.Equal(t, 4, result.Command.PartySize)
	assert.Equal(t, "14:00", result.Command.Time)

	assert.Contains(t, result.CleanedText, "Reserva lista.")
	assert.Contains(t, result.CleanedText, "Gracias.")
	assert.NotContains(t, result.CleanedText, "BOOKING_REQUEST")
}

func TestParseEscapedBookingRequest(t *testing.T) {
	svc := newTestParser()

	reply := `BOOKING\_REQUEST\|Juan\|34612345678\|25/12/2025\|4\|14:00`
	result := svc.Parse(reply, "", &models.ReservationDraft{})

	assert.Equal(t, models.IntentBooking, result.Intent)
	require.NotNil(t, result.Command)
	assert.Equal(t, "Juan", result.Command.Name)
	assert.Equal(t, "14:00", result.Command.Time)
}

func TestParseBookingCarriesDraftDetails(t *testing.T) {
	svc := newTestParser()

	rice := "Arroz negro"
	draft := &models.ReservationDraft{
		RiceType:      &rice,
		RiceServings:  3,
		HighChairs:    1,
		BabyStrollers: 2,
	}

	reply := "BOOKING_REQUEST|Juan|34612345678|25/12/2025|4|14:00"
	result := svc.Parse(reply, "", draft)

	require.NotNil(t, result.Command)
	require.NotNil(t, result.Command.RiceType)
	assert.Equal(t, "Arroz negro", *result.Command.RiceType)
	assert.Equal(t, 3, result.Command.RiceServings)
	assert.Equal(t, 1, result.Command.HighChairs)
	assert.Equal(t, 2, result.Command.BabyStrollers)
}

func TestParseBookingScansFreeTextForDetails(t *testing.T) {
	svc := newTestParser()

	reply := "Os apunto el arroz a banda.\nBOOKING_REQUEST|Juan|34612345678|25/12/2025|4|14:00"
	result := svc.Parse(reply, "con 2 raciones y una trona, por favor", &models.ReservationDraft{})

	require.NotNil(t, result.Command)
	require.NotNil(t, result.Command.RiceType)
	assert.Equal(t, "Arroz a banda", *result.Command.RiceType)
	assert.Equal(t, 2, result.Command.RiceServings)
	assert.Equal(t, 1, result.Command.HighChairs)
}

func TestParseCancellationRequest(t *testing.T) {
	svc := newTestParser()

	reply := "Anulada.\nCANCELLATION_REQUEST|Juan|34612345678|25/12/2025|4|14:00"
	result := svc.Parse(reply, "", &models.ReservationDraft{})

	assert.Equal(t, models.IntentCancellation, result.Intent)
	require.NotNil(t, result.Command)
	assert.Equal(t, "25/12/2025", result.Command.Date)
	assert.NotContains(t, result.CleanedText, "CANCELLATION_REQUEST")
}

func TestParseModificationIntent(t *testing.T) {
	svc := newTestParser()

	result := svc.Parse("Claro, lo cambiamos.\nMODIFICATION_INTENT", "", &models.ReservationDraft{})
	assert.Equal(t, models.IntentModification, result.Intent)
	assert.Nil(t, result.Command)
	assert.Equal(t, "Claro, lo cambiamos.", result.CleanedText)
}

func TestParseSameDayFallback(t *testing.T) {
	svc := newTestParser()

	result := svc.Parse("SAME_DAY_BOOKING", "", &models.ReservationDraft{})
	assert.Equal(t, models.IntentSameDay, result.Intent)
	assert.Equal(t, sameDayFallbackText, result.CleanedText)
	assert.Regexp(t, `\d{3}`, result.CleanedText, "fallback must include a phone number")
}

func TestParseSameDayKeepsSurroundingText(t *testing.T) {
	svc := newTestParser()

	result := svc.Parse("Lo siento, hoy no puede ser.\nSAME_DAY_BOOKING", "", &models.ReservationDraft{})
	assert.Equal(t, models.IntentSameDay, result.Intent)
	assert.Equal(t, "Lo siento, hoy no puede ser.", result.CleanedText)
}

func TestParseMalformedCommandDegradesToPlainReply(t *testing.T) {
	svc := newTestParser()

	// Too few fields.
	result := svc.Parse("BOOKING_REQUEST|Juan|34612345678", "", &models.ReservationDraft{})
	assert.Equal(t, models.IntentPlainReply, result.Intent)
	assert.Nil(t, result.Command)
	assert.NotEmpty(t, result.CleanedText)

	// Empty required field.
	result = svc.Parse("BOOKING_REQUEST||34612345678|25/12/2025|4|14:00", "", &models.ReservationDraft{})
	assert.Equal(t, models.IntentPlainReply, result.Intent)
	assert.Nil(t, result.Command)
}

func TestParseNonNumericPartySizeDefaultsToZero(t *testing.T) {
	svc := newTestParser()

	result := svc.Parse("BOOKING_REQUEST|Juan|34612345678|25/12/2025|varios|14:00", "", &models.ReservationDraft{})
	assert.Equal(t, models.IntentBooking, result.Intent)
	require.NotNil(t, result.Command)
	assert.Equal(t, 0, result.Command.PartySize)
}

func TestParsePlainReplyNoTag(t *testing.T) {
	svc := newTestParser()

	result := svc.Parse("¿Para cuántas personas sería?", "", &models.ReservationDraft{})
	assert.Equal(t, models.IntentPlainReply, result.Intent)
	assert.Nil(t, result.Command)
	assert.Nil(t, result.Metadata)
	assert.Equal(t, "¿Para cuántas personas sería?", result.CleanedText)
}

func TestParseDetectsURLs(t *testing.T) {
	svc := newTestParser()

	result := svc.Parse("Mira la carta: https://marblau.example/carta", "", &models.ReservationDraft{})
	assert.Equal(t, models.IntentPlainReply, result.Intent)
	require.NotNil(t, result.Metadata)
	assert.True(t, result.Metadata.HasURLs)
	assert.Equal(t, []string{"https://marblau.example/carta"}, result.Metadata.URLs)
}

func TestParseEmptyReplyUsesFallback(t *testing.T) {
	svc := newTestParser()

	result := svc.Parse("   \n\n  ", "", &models.ReservationDraft{})
	assert.Equal(t, models.IntentPlainReply, result.Intent)
	assert.Equal(t, notUnderstoodText, result.CleanedText)
}

func TestCleanReplyText(t *testing.T) {
	cleaned := CleanReplyText("**Hola**\n   \n\n\n\nAdiós  ")
	assert.Equal(t, "*Hola*\n\nAdiós", cleaned)
}

func TestCleanReplyTextPreservesSingleBlankLine(t *testing.T) {
	cleaned := CleanReplyText("Primera línea.\n\nSegunda línea.")
	assert.Equal(t, "Primera línea.\n\nSegunda línea.", cleaned)
}
