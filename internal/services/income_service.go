package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/timeutil"
)

// incomeService handles income-related business logic.
type incomeService struct {
	db *gorm.DB
}

// NewIncomeService creates a new IncomeServicer.
func NewIncomeService(db *gorm.DB) IncomeServicer {
	return &incomeService{db: db}
}

// CreateIncome creates an income, deriving the week/month/year buckets
// from the date.
func (s *incomeService) CreateIncome(
	userID string,
	categoryID, currencyID uint,
	tagID *uint,
	amount float64,
	date time.Time,
	description string,
) (*models.Income, error) {
	if err := validateTransactionRefs(s.db, userID, categoryID, models.CategoryTypeIncome, currencyID, tagID, amount); err != nil {
		return nil, err
	}

	week, month, year := timeutil.Bucket(date)

	income := &models.Income{
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

	if err := s.db.Create(income).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return income, nil
}

// UpdateIncome replaces an income's fields and recomputes all three
// date buckets from the new date.
func (s *incomeService) UpdateIncome(
	userID string,
	incomeID uint,
	categoryID, currencyID uint,
	tagID *uint,
	amount float64,
	date time.Time,
	description string,
) (*models.Income, error) {
	income, err := s.GetIncomeByID(userID, incomeID)
	if err != nil {
		return nil, err
	}

	if err := validateTransactionRefs(s.db, userID, categoryID, models.CategoryTypeIncome, currencyID, tagID, amount); err != nil {
		return nil, err
	}

	week, month, year := timeutil.Bucket(date)

	income.CategoryID = categoryID
	income.CurrencyID = currencyID
	income.TagID = tagID
	income.Amount = amount
	income.Date = date
	income.Description = description
	income.Week = week
	income.Month = month
	income.Year = year

	if err := s.db.Save(income).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return income, nil
}

// DeleteIncome deletes an income belonging to the user.
func (s *incomeService) DeleteIncome(userID string, incomeID uint) error {
	income, err := s.GetIncomeByID(userID, incomeID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(income).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetIncomeByID retrieves an income by ID for a specific user.
func (s *incomeService) GetIncomeByID(userID string, incomeID uint) (*models.Income, error) {
	var income models.Income
	if err := s.db.Where("id = ? AND user_id = ?", incomeID, userID).First(&income).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrIncomeNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &income, nil
}

// GetUserIncomes retrieves a paginated list of the user's incomes,
// newest first.
func (s *incomeService) GetUserIncomes(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Income], error) {
	page.Defaults()

	base := s.db.Model(&models.Income{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var incomes []models.Income
	if err := base.Scopes(pagination.Paginate(page)).Order("date DESC").Find(&incomes).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(incomes, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// ListIncomesForMonth returns the user's incomes bucketed to a month.
func (s *incomeService) ListIncomesForMonth(userID string, month, year int) ([]models.Income, error) {
	var incomes []models.Income
	if err := s.db.Where("user_id = ? AND month = ? AND year = ?", userID, month, year).Order("date").Find(&incomes).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return incomes, nil
}

// ListIncomesForYear returns the user's incomes bucketed to a year.
func (s *incomeService) ListIncomesForYear(userID string, year int) ([]models.Income, error) {
	var incomes []models.Income
	if err := s.db.Where("user_id = ? AND year = ?", userID, year).Order("date").Find(&incomes).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return incomes, nil
}

func (s *incomeService) sumIncomes(conds string, args ...interface{}) (float64, error) {
	var total float64
	err := s.db.Model(&models.Income{}).
		Select("COALESCE(SUM(amount), 0)").
		Where(conds, args...).
		Scan(&total).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return total, nil
}

// TotalEarnedForMonth sums the user's incomes for a month.
func (s *incomeService) TotalEarnedForMonth(userID string, month, year int) (float64, error) {
	return s.sumIncomes("user_id = ? AND month = ? AND year = ?", userID, month, year)
}

// TotalEarnedForYear sums the user's incomes for a year.
func (s *incomeService) TotalEarnedForYear(userID string, year int) (float64, error) {
	return s.sumIncomes("user_id = ? AND year = ?", userID, year)
}
