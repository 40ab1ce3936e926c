package models

// CategoryType represents the type of category
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Category represents a user-owned transaction category. Expense
// categories may carry a monthly budget; a budget of 0 means no budget
// is set and the category is excluded from burn-down and streak
// calculations.
type Category struct {
	Base
	UserID      string       `gorm:"type:uuid;not null;index" json:"user_id"`
	Name        string       `gorm:"not null" json:"name"`
	Type        CategoryType `gorm:"not null" json:"type"`
	Description string       `json:"description"`
	Budget      float64      `gorm:"not null;default:0" json:"budget"`
}

// HasBudget reports whether the category participates in budget
// calculations.
func (c *Category) HasBudget() bool {
	return c.Budget > 0
}
