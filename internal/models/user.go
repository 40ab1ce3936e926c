package models

import (
	"time"

	"fintrack/internal/uuid"

	"gorm.io/gorm"
)

// User represents the user model in the database. Users are keyed by
// UUIDv7 rather than an auto-increment ID.
type User struct {
	ID               string         `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
	Username         string         `gorm:"uniqueIndex;not null" json:"username"`
	Email            string         `gorm:"uniqueIndex;not null" json:"email"`
	Password         string         `gorm:"not null" json:"-"`
	RefreshTokenHash string         `gorm:"size:64" json:"-"`
	LastLoginAt      *time.Time     `json:"last_login_at,omitempty"`

	Categories []Category `gorm:"foreignKey:UserID" json:"categories,omitempty"`
	Tags       []Tag      `gorm:"foreignKey:UserID" json:"tags,omitempty"`
	Expenses   []Expense  `gorm:"foreignKey:UserID" json:"expenses,omitempty"`
	Incomes    []Income   `gorm:"foreignKey:UserID" json:"incomes,omitempty"`
}

// BeforeCreate hook generates a UUIDv7 for new users
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New()
	}
	return nil
}
