package storage

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/MesaLista/mesabot-backend/internal/models"
)

// MemoryStore holds all data in memory. It is seeded with the default
// restaurant's prompt corpus and rice menu, so the bot works without a
// database (local development and tests).
type MemoryStore struct {
	reservations map[uint]*models.Reservation
	fragments    map[string][]*models.PromptFragment // keyed by restaurant ID
	riceDishes   map[string][]*models.RiceDish       // keyed by restaurant ID

	// Mutexes for thread safety
	reservationMu sync.RWMutex
	contentMu     sync.RWMutex

	// Counter for ID generation
	reservationCounter uint
}

// NewMemoryStore creates a new in-memory storage seeded with the default
// restaurant content.
func NewMemoryStore() *MemoryStore {
	m := &MemoryStore{
		reservations: make(map[uint]*models.Reservation),
		fragments:    make(map[string][]*models.PromptFragment),
		riceDishes:   make(map[string][]*models.RiceDish),
	}

	for _, f := range defaultFragments() {
		m.fragments[f.RestaurantID] = append(m.fragments[f.RestaurantID], f)
	}
	m.riceDishes[DefaultRestaurantID] = defaultRiceDishes()

	return m
}

// Reservation operations

func (m *MemoryStore) CreateReservation(res *models.Reservation) (*models.Reservation, error) {
	m.reservationMu.Lock()
	defer m.reservationMu.Unlock()

	m.reservationCounter++
	stored := *res
	stored.ID = m.reservationCounter
	stored.Status = models.ReservationStatusConfirmed
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt

	m.reservations[stored.ID] = &stored
	return &stored, nil
}

func (m *MemoryStore) GetReservation(id uint) (*models.Reservation, error) {
	m.reservationMu.RLock()
	defer m.reservationMu.RUnlock()

	res, exists := m.reservations[id]
	if !exists {
		return nil, fmt.Errorf("reservation not found")
	}
	return res, nil
}

func (m *MemoryStore) GetReservationsByPhone(phone string) ([]*models.Reservation, error) {
	m.reservationMu.RLock()
	defer m.reservationMu.RUnlock()

	var results []*models.Reservation
	for _, res := range m.reservations {
		if res.Phone == phone {
			results = append(results, res)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *MemoryStore) GetReservationsByDate(restaurantID, date string) ([]*models.Reservation, error) {
	m.reservationMu.RLock()
	defer m.reservationMu.RUnlock()

	var results []*models.Reservation
	for _, res := range m.reservations {
		if res.RestaurantID == restaurantID && res.Date == date && res.Status == models.ReservationStatusConfirmed {
			results = append(results, res)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *MemoryStore) CancelReservation(phone, date, timeSlot string) (*models.Reservation, error) {
	m.reservationMu.Lock()
	defer m.reservationMu.Unlock()

	for _, res := range m.reservations {
		if res.Status != models.ReservationStatusConfirmed {
			continue
		}
		if res.Phone != phone || res.Date != date {
			continue
		}
		if timeSlot != "" && res.Time != timeSlot {
			continue
		}

		res.Status = models.ReservationStatusCancelled
		res.UpdatedAt = time.Now()
		return res, nil
	}

	return nil, fmt.Errorf("reservation not found")
}

// Prompt fragment operations

func (m *MemoryStore) GetFragment(restaurantID, name string) (*models.PromptFragment, error) {
	m.contentMu.RLock()
	defer m.contentMu.RUnlock()

	for _, f := range m.fragments[restaurantID] {
		if f.Name == name {
			return f, nil
		}
	}
	return nil, fmt.Errorf("fragment not found")
}

func (m *MemoryStore) GetFragmentSequence(restaurantID string) ([]*models.PromptFragment, error) {
	m.contentMu.RLock()
	defer m.contentMu.RUnlock()

	sequence := make([]*models.PromptFragment, len(m.fragments[restaurantID]))
	copy(sequence, m.fragments[restaurantID])
	sort.Slice(sequence, func(i, j int) bool { return sequence[i].Position < sequence[j].Position })
	return sequence, nil
}

func (m *MemoryStore) UpsertFragment(fragment *models.PromptFragment) error {
	m.contentMu.Lock()
	defer m.contentMu.Unlock()

	for i, f := range m.fragments[fragment.RestaurantID] {
		if f.Name == fragment.Name {
			m.fragments[fragment.RestaurantID][i] = fragment
			return nil
		}
	}
	m.fragments[fragment.RestaurantID] = append(m.fragments[fragment.RestaurantID], fragment)
	return nil
}

// Rice menu operations

func (m *MemoryStore) GetRiceDishes(restaurantID string) ([]*models.RiceDish, error) {
	m.contentMu.RLock()
	defer m.contentMu.RUnlock()

	dishes := make([]*models.RiceDish, len(m.riceDishes[restaurantID]))
	copy(dishes, m.riceDishes[restaurantID])
	return dishes, nil
}
