package storage

import (
	"errors"
	"fmt"

	"github.com/MesaLista/mesabot-backend/internal/models"
	"gorm.io/gorm"
)

// DatabaseStore persists everything in PostgreSQL via gorm.
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a database-backed store.
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// Reservation operations

func (s *DatabaseStore) CreateReservation(res *models.Reservation) (*models.Reservation, error) {
	res.Status = models.ReservationStatusConfirmed
	if err := s.db.Create(res).Error; err != nil {
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}
	return res, nil
}

func (s *DatabaseStore) GetReservation(id uint) (*models.Reservation, error) {
	var res models.Reservation
	if err := s.db.First(&res, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("reservation not found")
		}
		return nil, err
	}
	return &res, nil
}

func (s *DatabaseStore) GetReservationsByPhone(phone string) ([]*models.Reservation, error) {
	var results []*models.Reservation
	err := s.db.Where("phone = ?", phone).Order("id").Find(&results).Error
	return results, err
}

func (s *DatabaseStore) GetReservationsByDate(restaurantID, date string) ([]*models.Reservation, error) {
	var results []*models.Reservation
	err := s.db.
		Where("restaurant_id = ? AND date = ? AND status = ?", restaurantID, date, models.ReservationStatusConfirmed).
		Order("id").
		Find(&results).Error
	return results, err
}

func (s *DatabaseStore) CancelReservation(phone, date, timeSlot string) (*models.Reservation, error) {
	query := s.db.Where("phone = ? AND date = ? AND status = ?", phone, date, models.ReservationStatusConfirmed)
	if timeSlot != "" {
		query = query.Where("time = ?", timeSlot)
	}

	var res models.Reservation
	if err := query.First(&res).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("reservation not found")
		}
		return nil, err
	}

	res.Status = models.ReservationStatusCancelled
	if err := s.db.Save(&res).Error; err != nil {
		return nil, fmt.Errorf("failed to cancel reservation: %w", err)
	}
	return &res, nil
}

// Prompt fragment operations

func (s *DatabaseStore) GetFragment(restaurantID, name string) (*models.PromptFragment, error) {
	var fragment models.PromptFragment
	err := s.db.Where("restaurant_id = ? AND name = ?", restaurantID, name).First(&fragment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("fragment not found")
		}
		return nil, err
	}
	return &fragment, nil
}

func (s *DatabaseStore) GetFragmentSequence(restaurantID string) ([]*models.PromptFragment, error) {
	var sequence []*models.PromptFragment
	err := s.db.Where("restaurant_id = ?", restaurantID).Order("position").Find(&sequence).Error
	return sequence, err
}

func (s *DatabaseStore) UpsertFragment(fragment *models.PromptFragment) error {
	var existing models.PromptFragment
	err := s.db.Where("restaurant_id = ? AND name = ?", fragment.RestaurantID, fragment.Name).First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.db.Create(fragment).Error
		}
		return err
	}

	fragment.ID = existing.ID
	return s.db.Save(fragment).Error
}

// Rice menu operations

func (s *DatabaseStore) GetRiceDishes(restaurantID string) ([]*models.RiceDish, error) {
	var dishes []*models.RiceDish
	err := s.db.Where("restaurant_id = ?", restaurantID).Order("id").Find(&dishes).Error
	return dishes, err
}

// SeedDefaultContent inserts the default restaurant's prompt corpus and
// rice menu when the tables are empty, so a fresh database is usable
// right after migration.
func (s *DatabaseStore) SeedDefaultContent() error {
	var count int64
	if err := s.db.Model(&models.PromptFragment{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		for _, f := range defaultFragments() {
			if err := s.db.Create(f).Error; err != nil {
				return fmt.Errorf("failed to seed fragment %s: %w", f.Name, err)
			}
		}
	}

	if err := s.db.Model(&models.RiceDish{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		for _, d := range defaultRiceDishes() {
			if err := s.db.Create(d).Error; err != nil {
				return fmt.Errorf("failed to seed rice dish %s: %w", d.Name, err)
			}
		}
	}

	return nil
}
