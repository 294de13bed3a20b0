package storage

import (
	"testing"

	"github.com/MesaLista/mesabot-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreCreateAndGetReservation(t *testing.T) {
	store := NewMemoryStore()

	created, err := store.CreateReservation(&models.Reservation{
		RestaurantID: DefaultRestaurantID,
		Name:         "Ana García",
		Phone:        "34612345678",
		Date:         "25/12/2025",
		Time:         "14:00",
		PartySize:    4,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, models.ReservationStatusConfirmed, created.Status)

	fetched, err := store.GetReservation(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana García", fetched.Name)

	_, err = store.GetReservation(999)
	assert.Error(t, err)
}

func TestMemoryStoreReservationsByPhoneAndDate(t *testing.T) {
	store := NewMemoryStore()

	for _, date := range []string{"25/12/2025", "26/12/2025"} {
		_, err := store.CreateReservation(&models.Reservation{
			RestaurantID: DefaultRestaurantID,
			Name:         "Ana",
			Phone:        "34612345678",
			Date:         date,
			Time:         "14:00",
			PartySize:    2,
		})
		require.NoError(t, err)
	}

	byPhone, err := store.GetReservationsByPhone("34612345678")
	require.NoError(t, err)
	assert.Len(t, byPhone, 2)
	assert.Less(t, byPhone[0].ID, byPhone[1].ID)

	byDate, err := store.GetReservationsByDate(DefaultRestaurantID, "25/12/2025")
	require.NoError(t, err)
	require.Len(t, byDate, 1)
	assert.Equal(t, "25/12/2025", byDate[0].Date)
}

func TestMemoryStoreCancelReservation(t *testing.T) {
	store := NewMemoryStore()

	created, err := store.CreateReservation(&models.Reservation{
		RestaurantID: DefaultRestaurantID,
		Name:         "Ana",
		Phone:        "34612345678",
		Date:         "25/12/2025",
		Time:         "14:00",
		PartySize:    4,
	})
	require.NoError(t, err)

	cancelled, err := store.CancelReservation("34612345678", "25/12/2025", "14:00")
	require.NoError(t, err)
	assert.Equal(t, created.ID, cancelled.ID)
	assert.Equal(t, models.ReservationStatusCancelled, cancelled.Status)

	// Cancelled reservations no longer count for the date.
	byDate, err := store.GetReservationsByDate(DefaultRestaurantID, "25/12/2025")
	require.NoError(t, err)
	assert.Empty(t, byDate)

	// A second cancellation finds nothing.
	_, err = store.CancelReservation("34612345678", "25/12/2025", "14:00")
	assert.Error(t, err)
}

func TestMemoryStoreCancelWithoutTimeMatchesAny(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.CreateReservation(&models.Reservation{
		RestaurantID: DefaultRestaurantID,
		Name:         "Ana",
		Phone:        "34612345678",
		Date:         "25/12/2025",
		Time:         "21:30",
		PartySize:    4,
	})
	require.NoError(t, err)

	cancelled, err := store.CancelReservation("34612345678", "25/12/2025", "")
	require.NoError(t, err)
	assert.Equal(t, "21:30", cancelled.Time)
}

func TestMemoryStoreSeedsDefaultContent(t *testing.T) {
	store := NewMemoryStore()

	fragments, err := store.GetFragmentSequence(DefaultRestaurantID)
	require.NoError(t, err)
	require.NotEmpty(t, fragments)
	for i := 1; i < len(fragments); i++ {
		assert.LessOrEqual(t, fragments[i-1].Position, fragments[i].Position)
	}

	identity, err := store.GetFragment(DefaultRestaurantID, "identidad")
	require.NoError(t, err)
	assert.Contains(t, identity.Text, "Arrocería Mar Blau")

	dishes, err := store.GetRiceDishes(DefaultRestaurantID)
	require.NoError(t, err)
	assert.NotEmpty(t, dishes)
}

func TestMemoryStoreUpsertFragment(t *testing.T) {
	store := NewMemoryStore()

	require.NoError(t, store.UpsertFragment(&models.PromptFragment{
		RestaurantID: "otro", Name: "saludo", Position: 1, Text: "Hola.",
	}))
	require.NoError(t, store.UpsertFragment(&models.PromptFragment{
		RestaurantID: "otro", Name: "saludo", Position: 1, Text: "Buenas.",
	}))

	fragment, err := store.GetFragment("otro", "saludo")
	require.NoError(t, err)
	assert.Equal(t, "Buenas.", fragment.Text)

	fragments, err := store.GetFragmentSequence("otro")
	require.NoError(t, err)
	assert.Len(t, fragments, 1)
}

func TestMemoryStoreUnknownRestaurantIsEmptyNotError(t *testing.T) {
	store := NewMemoryStore()

	fragments, err := store.GetFragmentSequence("no-such")
	require.NoError(t, err)
	assert.Empty(t, fragments)

	dishes, err := store.GetRiceDishes("no-such")
	require.NoError(t, err)
	assert.Empty(t, dishes)
}
