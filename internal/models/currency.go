package models

// Currency is a reference table of ISO 4217 currencies transactions are
// recorded in. No conversion is performed between currencies.
type Currency struct {
	Base
	Code   string `gorm:"size:3;uniqueIndex;not null" json:"code"`
	Name   string `gorm:"not null" json:"name"`
	Symbol string `json:"symbol"`
}
