package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/timeutil"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique
// username and email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	n := nextID()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username: fmt.Sprintf("user%d", n),
		Email:    fmt.Sprintf("user%d@test.com", n),
		Password: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a category of the given type with no budget.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string, categoryType models.CategoryType) *models.Category {
	t.Helper()
	return CreateTestCategoryWithBudget(t, db, userID, categoryType, 0)
}

// CreateTestCategoryWithBudget creates a category of the given type with
// the given monthly budget amount.
func CreateTestCategoryWithBudget(t *testing.T, db *gorm.DB, userID string, categoryType models.CategoryType, budget float64) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: userID,
		Name:   fmt.Sprintf("Test Category %d", nextID()),
		Type:   categoryType,
		Budget: budget,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTag creates a tag for the given user.
func CreateTestTag(t *testing.T, db *gorm.DB, userID string) *models.Tag {
	t.Helper()

	tag := &models.Tag{
		UserID: userID,
		Name:   fmt.Sprintf("Test Tag %d", nextID()),
	}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("failed to create test tag: %v", err)
	}
	return tag
}

// CreateTestCurrency creates a currency with a unique three-letter code.
func CreateTestCurrency(t *testing.T, db *gorm.DB) *models.Currency {
	t.Helper()

	n := nextID()
	currency := &models.Currency{
		Code:   fmt.Sprintf("T%02d", n%100),
		Name:   fmt.Sprintf("Test Currency %d", n),
		Symbol: "$",
	}
	if err := db.Create(currency).Error; err != nil {
		t.Fatalf("failed to create test currency: %v", err)
	}
	return currency
}

// CreateTestExpense creates an expense on the given date. The month,
// year and week buckets are derived the same way the service derives
// them, since the fixture writes past the service layer.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID string, categoryID, currencyID uint, amount float64, date time.Time) *models.Expense {
	t.Helper()

	week, month, year := timeutil.Bucket(date)
	expense := &models.Expense{
		TransactionFields: models.TransactionFields{
			UserID:     userID,
			CategoryID: categoryID,
			CurrencyID: currencyID,
			Amount:     amount,
			Date:       date,
			Month:      month,
			Year:       year,
			Week:       week,
		},
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestIncome creates an income on the given date with buckets derived.
func CreateTestIncome(t *testing.T, db *gorm.DB, userID string, categoryID, currencyID uint, amount float64, date time.Time) *models.Income {
	t.Helper()

	week, month, year := timeutil.Bucket(date)
	income := &models.Income{
		TransactionFields: models.TransactionFields{
			UserID:     userID,
			CategoryID: categoryID,
			CurrencyID: currencyID,
			Amount:     amount,
			Date:       date,
			Month:      month,
			Year:       year,
			Week:       week,
		},
	}
	if err := db.Create(income).Error; err != nil {
		t.Fatalf("failed to create test income: %v", err)
	}
	return income
}
