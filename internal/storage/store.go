package storage

import (
	"github.com/MesaLista/mesabot-backend/internal/models"
)

// Store defines the interface for storage operations
type Store interface {
	// Reservation operations
	CreateReservation(res *models.Reservation) (*models.Reservation, error)
	GetReservation(id uint) (*models.Reservation, error)
	GetReservationsByPhone(phone string) ([]*models.Reservation, error)
	GetReservationsByDate(restaurantID, date string) ([]*models.Reservation, error)
	CancelReservation(phone, date, timeSlot string) (*models.Reservation, error)

	// Prompt fragment operations
	GetFragment(restaurantID, name string) (*models.PromptFragment, error)
	GetFragmentSequence(restaurantID string) ([]*models.PromptFragment, error)
	UpsertFragment(fragment *models.PromptFragment) error

	// Rice menu operations
	GetRiceDishes(restaurantID string) ([]*models.RiceDish, error)
}
