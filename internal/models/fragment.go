package models

// PromptFragment is a named, reusable block of prompt text. Fragments
// belonging to one restaurant are assembled in Position order into the
// full system prompt.
type PromptFragment struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	RestaurantID string `json:"restaurant_id" gorm:"index:idx_fragment_lookup"`
	Name         string `json:"name" gorm:"index:idx_fragment_lookup"`
	Position     int    `json:"position"`
	Text         string `json:"text"`
}

// RiceDish is one entry of a restaurant's rice menu. The slot extractor
// uses the dish names to recognize which rice the assistant acknowledged.
type RiceDish struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	RestaurantID string `json:"restaurant_id" gorm:"index"`
	Name         string `json:"name"`
}
