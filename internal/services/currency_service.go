package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// currencyService handles the currency reference table.
type currencyService struct {
	db *gorm.DB
}

// NewCurrencyService creates a new CurrencyServicer.
func NewCurrencyService(db *gorm.DB) CurrencyServicer {
	return &currencyService{db: db}
}

// CreateCurrency adds a currency to the reference table.
func (s *currencyService) CreateCurrency(code, name, symbol string) (*models.Currency, error) {
	if code == "" || name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "currency code and name are required")
	}

	currency := &models.Currency{
		Code:   strings.ToUpper(code),
		Name:   name,
		Symbol: symbol,
	}

	if err := s.db.Create(currency).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return currency, nil
}

// ListCurrencies returns all currencies.
func (s *currencyService) ListCurrencies() ([]models.Currency, error) {
	var currencies []models.Currency
	if err := s.db.Order("code").Find(&currencies).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return currencies, nil
}

// GetCurrencyByID retrieves a currency by ID.
func (s *currencyService) GetCurrencyByID(currencyID uint) (*models.Currency, error) {
	var currency models.Currency
	if err := s.db.First(&currency, currencyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCurrencyNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &currency, nil
}

// DeleteCurrency deletes a currency unless transactions reference it.
func (s *currencyService) DeleteCurrency(currencyID uint) error {
	currency, err := s.GetCurrencyByID(currencyID)
	if err != nil {
		return err
	}

	var expenseCount, incomeCount int64
	if err := s.db.Model(&models.Expense{}).Where("currency_id = ?", currencyID).Count(&expenseCount).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Model(&models.Income{}).Where("currency_id = ?", currencyID).Count(&incomeCount).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if expenseCount > 0 || incomeCount > 0 {
		return apperrors.ErrCurrencyInUse
	}

	if err := s.db.Delete(currency).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
