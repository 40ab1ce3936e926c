package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/timeutil"
)

// expenseService handles expense-related business logic.
type expenseService struct {
	db *gorm.DB
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB) ExpenseServicer {
	return &expenseService{db: db}
}

// validateTransactionRefs checks category/currency/tag ownership and the
// amount sign for an expense or income write.
func validateTransactionRefs(db *gorm.DB, userID string, categoryID uint, categoryType models.CategoryType, currencyID uint, tagID *uint, amount float64) error {
	if amount < 0 {
		return apperrors.ErrNegativeAmount
	}

	var category models.Category
	if err := db.Where("id = ? AND user_id = ? AND type = ?", categoryID, userID, categoryType).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCategoryNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var currency models.Currency
	if err := db.First(&currency, currencyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCurrencyNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if tagID != nil {
		var tag models.Tag
		if err := db.Where("id = ? AND user_id = ?", *tagID, userID).First(&tag).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrTagNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return nil
}

// CreateExpense creates an expense, deriving the week/month/year buckets
// from the date.
func (s *expenseService) CreateExpense(
	userID string,
	categoryID, currencyID uint,
	tagID *uint,
	amount float64,
	date time.Time,
	description string,
) (*models.Expense, error) {
	if err := validateTransactionRefs(s.db, userID, categoryID, models.CategoryTypeExpense, currencyID, tagID, amount); err != nil {
		return nil, err
	}

	week, month, year := timeutil.Bucket(date)

	expense := &models.Expense{
		TransactionFields: models.TransactionFields{
			UserID:      userID,
			CategoryID:  categoryID,
			CurrencyID:  currencyID,
			TagID:       tagID,
			Amount:      amount,
			Date:        date,
			Description: description,
			Week:        week,
			Month:       month,
			Year:        year,
		},
	}

	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return expense, nil
}

// UpdateExpense replaces an expense's fields and recomputes all three
// date buckets from the new date.
func (s *expenseService) UpdateExpense(
	userID string,
	expenseID uint,
	categoryID, currencyID uint,
	tagID *uint,
	amount float64,
	date time.Time,
	description string,
) (*models.Expense, error) {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return nil, err
	}

	if err := validateTransactionRefs(s.db, userID, categoryID, models.CategoryTypeExpense, currencyID, tagID, amount); err != nil {
		return nil, err
	}

	week, month, year := timeutil.Bucket(date)

	expense.CategoryID = categoryID
	expense.CurrencyID = currencyID
	expense.TagID = tagID
	expense.Amount = amount
	expense.Date = date
	expense.Description = description
	expense.Week = week
	expense.Month = month
	expense.Year = year

	if err := s.db.Save(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return expense, nil
}

// DeleteExpense deletes an expense belonging to the user.
func (s *expenseService) DeleteExpense(userID string, expenseID uint) error {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(expense).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetExpenseByID retrieves an expense by ID for a specific user.
func (s *expenseService) GetExpenseByID(userID string, expenseID uint) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.Where("id = ? AND user_id = ?", expenseID, userID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// GetUserExpenses retrieves a paginated list of the user's expenses,
// newest first.
func (s *expenseService) GetUserExpenses(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
	page.Defaults()

	base := s.db.Model(&models.Expense{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := base.Scopes(pagination.Paginate(page)).Order("date DESC").Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func (s *expenseService) listExpenses(conds string, args ...interface{}) ([]models.Expense, error) {
	var expenses []models.Expense
	if err := s.db.Where(conds, args...).Order("date").Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expenses, nil
}

// ListAllExpenses returns the user's full expense history.
func (s *expenseService) ListAllExpenses(userID string) ([]models.Expense, error) {
	return s.listExpenses("user_id = ?", userID)
}

// ListExpensesForMonth returns the user's expenses bucketed to a month.
func (s *expenseService) ListExpensesForMonth(userID string, month, year int) ([]models.Expense, error) {
	return s.listExpenses("user_id = ? AND month = ? AND year = ?", userID, month, year)
}

// ListExpensesForYear returns the user's expenses bucketed to a year.
func (s *expenseService) ListExpensesForYear(userID string, year int) ([]models.Expense, error) {
	return s.listExpenses("user_id = ? AND year = ?", userID, year)
}

// ListExpensesForWeek returns the user's expenses bucketed to an ISO week.
func (s *expenseService) ListExpensesForWeek(userID string, week, year int) ([]models.Expense, error) {
	return s.listExpenses("user_id = ? AND week = ? AND year = ?", userID, week, year)
}

// ListExpensesForMonthByCategory restricts the month listing to one category.
func (s *expenseService) ListExpensesForMonthByCategory(userID string, month, year int, categoryID uint) ([]models.Expense, error) {
	return s.listExpenses("user_id = ? AND month = ? AND year = ? AND category_id = ?", userID, month, year, categoryID)
}

// ListExpensesForYearByCategory restricts the year listing to one category.
func (s *expenseService) ListExpensesForYearByCategory(userID string, year int, categoryID uint) ([]models.Expense, error) {
	return s.listExpenses("user_id = ? AND year = ? AND category_id = ?", userID, year, categoryID)
}

func (s *expenseService) sumExpenses(conds string, args ...interface{}) (float64, error) {
	var total float64
	err := s.db.Model(&models.Expense{}).
		Select("COALESCE(SUM(amount), 0)").
		Where(conds, args...).
		Scan(&total).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return total, nil
}

// TotalSpentForMonth sums the user's expenses for a month.
func (s *expenseService) TotalSpentForMonth(userID string, month, year int) (float64, error) {
	return s.sumExpenses("user_id = ? AND month = ? AND year = ?", userID, month, year)
}

// TotalSpentForYear sums the user's expenses for a year.
func (s *expenseService) TotalSpentForYear(userID string, year int) (float64, error) {
	return s.sumExpenses("user_id = ? AND year = ?", userID, year)
}

// TotalSpentForWeek sums the user's expenses for an ISO week.
func (s *expenseService) TotalSpentForWeek(userID string, week, year int) (float64, error) {
	return s.sumExpenses("user_id = ? AND week = ? AND year = ?", userID, week, year)
}

// TotalSpentForMonthByCategory sums one category's expenses for a month.
func (s *expenseService) TotalSpentForMonthByCategory(userID string, month, year int, categoryID uint) (float64, error) {
	return s.sumExpenses("user_id = ? AND month = ? AND year = ? AND category_id = ?", userID, month, year, categoryID)
}

// TotalSpentForYearByCategory sums one category's expenses for a year.
func (s *expenseService) TotalSpentForYearByCategory(userID string, year int, categoryID uint) (float64, error) {
	return s.sumExpenses("user_id = ? AND year = ? AND category_id = ?", userID, year, categoryID)
}

// periodTotal sums one category's expenses over a month- or year-scoped
// period.
func (s *expenseService) periodTotal(userID string, p Period, categoryID uint) (float64, error) {
	switch p.Type {
	case PeriodTypeMonth:
		return s.TotalSpentForMonthByCategory(userID, p.Value, p.Year, categoryID)
	case PeriodTypeYear:
		return s.TotalSpentForYearByCategory(userID, p.Value, categoryID)
	default:
		return 0, apperrors.ErrInvalidPeriodType
	}
}

// periodLabel renders a period for display: month periods as a full
// month name plus year, year periods as the bare year.
func periodLabel(p Period) string {
	switch p.Type {
	case PeriodTypeMonth:
		return fmt.Sprintf("%s %d", time.Month(p.Value).String(), p.Year)
	case PeriodTypeYear:
		return strconv.Itoa(p.Value)
	default:
		return fmt.Sprintf("%s %d", p.Type, p.Value)
	}
}

// validatePeriod rejects unknown period types and out-of-range month
// values before any per-category work begins.
func validatePeriod(p Period) error {
	switch p.Type {
	case PeriodTypeMonth:
		if p.Value < 1 || p.Value > 12 {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
		}
		if p.Year < 1 {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "year is required for month periods")
		}
		return nil
	case PeriodTypeYear:
		return nil
	default:
		return apperrors.ErrInvalidPeriodType
	}
}

// CompareCategories computes per-category spend deltas between two
// periods. Categories with no spend in either period are omitted, and
// the grand totals cover only the included categories.
func (s *expenseService) CompareCategories(userID string, current, previous Period) (*CategoryComparisonResponse, error) {
	if err := validatePeriod(current); err != nil {
		return nil, err
	}
	if err := validatePeriod(previous); err != nil {
		return nil, err
	}

	var exists int64
	if err := s.db.Model(&models.User{}).Where("id = ?", userID).Count(&exists).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if exists == 0 {
		return nil, apperrors.ErrUserNotFound
	}

	var categories []models.Category
	if err := s.db.Where("user_id = ? AND type = ?", userID, models.CategoryTypeExpense).Order("id").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	comparisons := make([]CategoryComparison, 0, len(categories))
	var totalCurrent, totalPrevious float64

	for _, category := range categories {
		currentTotal, err := s.periodTotal(userID, current, category.ID)
		if err != nil {
			return nil, err
		}
		previousTotal, err := s.periodTotal(userID, previous, category.ID)
		if err != nil {
			return nil, err
		}

		// Skip categories with no spend in either period
		if currentTotal == 0 && previousTotal == 0 {
			continue
		}

		difference := currentTotal - previousTotal
		var percentageChange float64
		switch {
		case previousTotal == 0 && currentTotal > 0:
			percentageChange = 100
		case previousTotal == 0:
			percentageChange = 0
		default:
			percentageChange = difference / previousTotal * 100
		}

		comparisons = append(comparisons, CategoryComparison{
			CategoryID:       category.ID,
			CategoryName:     category.Name,
			CurrentAmount:    currentTotal,
			PreviousAmount:   previousTotal,
			Difference:       difference,
			PercentageChange: percentageChange,
		})

		totalCurrent += currentTotal
		totalPrevious += previousTotal
	}

	totalDifference := totalCurrent - totalPrevious
	var totalPercentageChange float64
	switch {
	case totalPrevious == 0 && totalCurrent > 0:
		totalPercentageChange = 100
	case totalPrevious == 0:
		totalPercentageChange = 0
	default:
		totalPercentageChange = totalDifference / totalPrevious * 100
	}

	return &CategoryComparisonResponse{
		CurrentPeriodLabel:    periodLabel(current),
		PreviousPeriodLabel:   periodLabel(previous),
		Categories:            comparisons,
		TotalCurrentPeriod:    totalCurrent,
		TotalPreviousPeriod:   totalPrevious,
		TotalDifference:       totalDifference,
		TotalPercentageChange: totalPercentageChange,
	}, nil
}
