package models

// Tag is a user-owned label that can be attached to expenses and incomes.
type Tag struct {
	Base
	UserID      string `gorm:"type:uuid;not null;index" json:"user_id"`
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
}
