package services

import (
	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/timeutil"
)

// budgetService handles budget-related business logic: the per-category
// budget amounts stored on expense categories and the monthly burn-down
// projection over them.
type budgetService struct {
	db         *gorm.DB
	users      UserServicer
	categories CategoryServicer
	expenses   ExpenseServicer
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB, users UserServicer, categories CategoryServicer, expenses ExpenseServicer) BudgetServicer {
	return &budgetService{
		db:         db,
		users:      users,
		categories: categories,
		expenses:   expenses,
	}
}

// GetBudgets returns the user's expense categories with their budget
// amounts, including categories with no budget set.
func (s *budgetService) GetBudgets(userID string) ([]models.Category, error) {
	exists, err := s.users.UserExists(userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrUserNotFound
	}

	return s.categories.ListUserCategories(userID, models.CategoryTypeExpense)
}

// ModifyBudgets applies a batch of budget updates to the user's expense
// categories. Updates naming categories the user does not own are
// ignored, mirroring the per-category ownership scoping of the reads.
func (s *budgetService) ModifyBudgets(userID string, updates []BudgetUpdate) error {
	exists, err := s.users.UserExists(userID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.ErrUserNotFound
	}

	for _, update := range updates {
		if update.NewBudget < 0 {
			return apperrors.ErrNegativeBudget
		}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, update := range updates {
			err := tx.Model(&models.Category{}).
				Where("id = ? AND user_id = ? AND type = ?", update.CategoryID, userID, models.CategoryTypeExpense).
				Update("budget", update.NewBudget).Error
			if err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		return nil
	})
}

// GetBurndown produces the cumulative daily spend and remaining budget
// curves for every budgeted category in the given month, plus an
// aggregate row over all of them. Month and year must be supplied by
// the caller; defaulting to the current month happens at the HTTP
// boundary, never here.
func (s *budgetService) GetBurndown(userID string, month, year int) (*BudgetBurndown, error) {
	exists, err := s.users.UserExists(userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrUserNotFound
	}

	categories, err := s.categories.ListUserCategories(userID, models.CategoryTypeExpense)
	if err != nil {
		return nil, err
	}

	monthlyExpenses, err := s.expenses.ListExpensesForMonth(userID, month, year)
	if err != nil {
		return nil, err
	}

	daysInMonth := timeutil.DaysInMonth(month, year)

	// Aggregate accumulators across all budgeted categories
	var totalBudget, totalSpent float64
	totalDaily := zeroDayMap(daysInMonth)

	rows := make([]BurndownRow, 0, len(categories)+1)

	for _, category := range categories {
		if !category.HasBudget() {
			continue
		}

		daily := zeroDayMap(daysInMonth)
		var categorySpent float64
		for _, expense := range monthlyExpenses {
			if expense.CategoryID != category.ID {
				continue
			}
			day := expense.Date.Day()
			daily[day] += expense.Amount
			totalDaily[day] += expense.Amount
			categorySpent += expense.Amount
		}

		categoryID := category.ID
		rows = append(rows, BurndownRow{
			CategoryID:      &categoryID,
			CategoryName:    category.Name,
			Budget:          category.Budget,
			TotalSpent:      categorySpent,
			DailySpending:   daily,
			RemainingBudget: remainingCurve(category.Budget, daily, daysInMonth),
		})

		totalBudget += category.Budget
		totalSpent += categorySpent
	}

	// The aggregate row derives its own cumulative remainder from the
	// summed daily spending, and is always present even with zero
	// qualifying categories.
	aggregate := BurndownRow{
		Aggregate:       true,
		CategoryName:    "All Categories",
		Budget:          totalBudget,
		TotalSpent:      totalSpent,
		DailySpending:   totalDaily,
		RemainingBudget: remainingCurve(totalBudget, totalDaily, daysInMonth),
	}

	return &BudgetBurndown{
		Month:      month,
		Year:       year,
		Categories: append([]BurndownRow{aggregate}, rows...),
	}, nil
}

// zeroDayMap returns a day→amount map initialized to zero for every day
// of the month.
func zeroDayMap(daysInMonth int) map[int]float64 {
	m := make(map[int]float64, daysInMonth)
	for day := 1; day <= daysInMonth; day++ {
		m[day] = 0
	}
	return m
}

// remainingCurve folds daily spending into the cumulative remaining
// budget per day: budget minus everything spent from day 1 through day
// d. Goes negative once the budget is overspent and stays there.
func remainingCurve(budget float64, daily map[int]float64, daysInMonth int) map[int]float64 {
	remaining := make(map[int]float64, daysInMonth)
	var running float64
	for day := 1; day <= daysInMonth; day++ {
		running += daily[day]
		remaining[day] = budget - running
	}
	return remaining
}
