package models

import "time"

// Reservation statuses
const (
	ReservationStatusConfirmed = "confirmed"
	ReservationStatusCancelled = "cancelled"
)

// Reservation is a confirmed booking persisted by the reservation store.
type Reservation struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	RestaurantID string `json:"restaurant_id" gorm:"index"`
	Name         string `json:"name"`
	Phone        string `json:"phone" gorm:"index"`
	Date         string `json:"date"` // dd/mm/yyyy
	Time         string `json:"time"` // HH:mm
	PartySize    int    `json:"party_size"`

	// Rice pre-order; empty RiceType means the party declined rice.
	RiceType     string `json:"rice_type"`
	RiceServings int    `json:"rice_servings"`

	// Accessibility extras
	HighChairs    int `json:"high_chairs"`
	BabyStrollers int `json:"baby_strollers"`

	Status string `json:"status"` // "confirmed" or "cancelled"

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
