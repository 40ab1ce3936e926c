package models

import "time"

// TransactionFields contains the columns shared by expenses and incomes.
// Month, year, and week are derived from Date on the write path (see
// timeutil.Bucket) and stored redundantly for query efficiency; they are
// recomputed whenever Date changes.
type TransactionFields struct {
	UserID      string    `gorm:"type:uuid;not null;index" json:"user_id"`
	CategoryID  uint      `gorm:"not null;index" json:"category_id"`
	CurrencyID  uint      `gorm:"not null" json:"currency_id"`
	TagID       *uint     `json:"tag_id,omitempty"`
	Amount      float64   `gorm:"not null" json:"amount"`
	Date        time.Time `gorm:"not null" json:"date"`
	Description string    `json:"description"`
	Month       int       `gorm:"not null;index" json:"month"`
	Year        int       `gorm:"not null;index" json:"year"`
	Week        int       `gorm:"not null;index" json:"week"`
}

// Expense represents money spent against an expense category.
type Expense struct {
	Base
	TransactionFields

	Category Category `gorm:"foreignKey:CategoryID" json:"-"`
	Currency Currency `gorm:"foreignKey:CurrencyID" json:"-"`
	Tag      *Tag     `gorm:"foreignKey:TagID" json:"-"`
}

// Income represents money earned against an income category.
type Income struct {
	Base
	TransactionFields

	Category Category `gorm:"foreignKey:CategoryID" json:"-"`
	Currency Currency `gorm:"foreignKey:CurrencyID" json:"-"`
	Tag      *Tag     `gorm:"foreignKey:TagID" json:"-"`
}
