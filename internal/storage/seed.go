package storage

import "github.com/MesaLista/mesabot-backend/internal/models"

// DefaultRestaurantID is the restaurant served when no override is configured.
const DefaultRestaurantID = "arroceria-mar-blau"

// defaultRiceDishes is the rice menu of the default restaurant.
func defaultRiceDishes() []*models.RiceDish {
	names := []string{
		"Paella valenciana",
		"Paella de verduras",
		"Arroz a banda",
		"Arroz negro",
		"Arroz de señoret",
		"Arroz de chorizo",
		"Arroz meloso de pulpo y gambones",
		"Arroz de carrillada con boletus",
	}

	dishes := make([]*models.RiceDish, 0, len(names))
	for _, name := range names {
		dishes = append(dishes, &models.RiceDish{RestaurantID: DefaultRestaurantID, Name: name})
	}
	return dishes
}

// defaultFragments is the prompt corpus of the default restaurant. The
// fragments are rendered together through the template engine, so they
// may reference context keys and use {{#if}} blocks. "FALTA" marks a
// slot the conversation has not filled yet.
func defaultFragments() []*models.PromptFragment {
	fragments := []*models.PromptFragment{
		{
			Name:     "identidad",
			Position: 1,
			Text: `Eres el asistente de reservas de la Arrocería Mar Blau. Atiendes por WhatsApp en español, con un tono cercano y profesional. Estás hablando con {{nombre_cliente}} (teléfono {{telefono_cliente}}).`,
		},
		{
			Name:     "calendario",
			Position: 2,
			Text: `Hoy es {{dia_semana}}, {{fecha_hoy}}.
Próximos fines de semana: {{proximos_fines_de_semana}}.
No aceptes reservas para hoy mismo: si el cliente pide mesa para hoy, responde únicamente con la línea SAME_DAY_BOOKING.`,
		},
		{
			Name:     "estado_reserva",
			Position: 3,
			Text: `Datos de la reserva hasta ahora:
- Fecha: {{fecha}}
- Hora: {{hora}}
- Personas: {{personas}}
- Arroz: {{arroz}}
- Raciones de arroz: {{raciones_arroz}}
- Tronas: {{tronas}} / Carritos: {{carritos}}
{{#if datos_completos}}Tienes todos los datos: resume la reserva y pide confirmación explícita al cliente.{{else}}Faltan estos datos: {{campos_pendientes}}. Pídelos de uno en uno, sin repetir los que ya tienes.{{/if}}`,
		},
		{
			Name:     "menu_arroces",
			Position: 4,
			Text: `Arroces de la casa (mínimo 2 raciones, un solo tipo de arroz por mesa): Paella valenciana, Paella de verduras, Arroz a banda, Arroz negro, Arroz de señoret, Arroz de chorizo, Arroz meloso de pulpo y gambones, Arroz de carrillada con boletus.
Si piden un arroz que no está en la lista, di "no tenemos" ese arroz y ofrece la lista. El arroz se encarga por adelantado; también pueden reservar sin arroz.`,
		},
		{
			Name:     "ordenes",
			Position: 5,
			Text: `{{#if datos_completos}}Cuando el cliente confirme la reserva, añade al final de tu respuesta una línea exacta con este formato:
BOOKING_REQUEST|{{nombre_cliente}}|{{telefono_cliente}}|{{fecha}}|{{personas}}|{{hora}}
{{/if}}Si el cliente quiere anular una reserva existente, añade la línea:
CANCELLATION_REQUEST|nombre|teléfono|fecha|personas|hora
Si quiere cambiar una reserva ya confirmada, añade la línea MODIFICATION_INTENT y explícale que anularemos la antigua y crearemos una nueva.`,
		},
	}

	for _, f := range fragments {
		f.RestaurantID = DefaultRestaurantID
	}
	return fragments
}
