package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

// --- mock expense service ---

type mockExpenseService struct {
	createExpenseFn      func(userID string, categoryID, currencyID uint, tagID *uint, amount float64, date time.Time, description string) (*models.Expense, error)
	getUserExpensesFn    func(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error)
	compareCategoriesFn  func(userID string, current, previous services.Period) (*services.CategoryComparisonResponse, error)
	totalSpentForMonthFn func(userID string, month, year int) (float64, error)
	totalSpentForYearFn  func(userID string, year int) (float64, error)
}

func (m *mockExpenseService) CreateExpense(userID string, categoryID, currencyID uint, tagID *uint, amount float64, date time.Time, description string) (*models.Expense, error) {
	if m.createExpenseFn != nil {
		return m.createExpenseFn(userID, categoryID, currencyID, tagID, amount, date, description)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) UpdateExpense(string, uint, uint, uint, *uint, float64, time.Time, string) (*models.Expense, error) {
	return &models.Expense{}, nil
}

func (m *mockExpenseService) DeleteExpense(string, uint) error { return nil }

func (m *mockExpenseService) GetExpenseByID(string, uint) (*models.Expense, error) {
	return &models.Expense{}, nil
}

func (m *mockExpenseService) GetUserExpenses(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
	if m.getUserExpensesFn != nil {
		return m.getUserExpensesFn(userID, page)
	}
	resp := pagination.NewPageResponse([]models.Expense{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockExpenseService) ListAllExpenses(string) ([]models.Expense, error) { return nil, nil }

func (m *mockExpenseService) ListExpensesForMonth(string, int, int) ([]models.Expense, error) {
	return nil, nil
}

func (m *mockExpenseService) ListExpensesForYear(string, int) ([]models.Expense, error) {
	return nil, nil
}

func (m *mockExpenseService) ListExpensesForWeek(string, int, int) ([]models.Expense, error) {
	return nil, nil
}

func (m *mockExpenseService) ListExpensesForMonthByCategory(string, int, int, uint) ([]models.Expense, error) {
	return nil, nil
}

func (m *mockExpenseService) ListExpensesForYearByCategory(string, int, uint) ([]models.Expense, error) {
	return nil, nil
}

func (m *mockExpenseService) TotalSpentForMonth(userID string, month, year int) (float64, error) {
	if m.totalSpentForMonthFn != nil {
		return m.totalSpentForMonthFn(userID, month, year)
	}
	return 0, nil
}

func (m *mockExpenseService) TotalSpentForYear(userID string, year int) (float64, error) {
	if m.totalSpentForYearFn != nil {
		return m.totalSpentForYearFn(userID, year)
	}
	return 0, nil
}

func (m *mockExpenseService) TotalSpentForWeek(string, int, int) (float64, error) { return 0, nil }

func (m *mockExpenseService) TotalSpentForMonthByCategory(string, int, int, uint) (float64, error) {
	return 0, nil
}

func (m *mockExpenseService) TotalSpentForYearByCategory(string, int, uint) (float64, error) {
	return 0, nil
}

func (m *mockExpenseService) CompareCategories(userID string, current, previous services.Period) (*services.CategoryComparisonResponse, error) {
	if m.compareCategoriesFn != nil {
		return m.compareCategoriesFn(userID, current, previous)
	}
	return &services.CategoryComparisonResponse{}, nil
}

var _ services.ExpenseServicer = (*mockExpenseService)(nil)

func setupExpenseRouter(handler *ExpenseHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/expenses", handler.CreateExpense)
	auth.GET("/expenses", handler.GetExpenses)
	auth.GET("/expenses/compare", handler.CompareCategories)
	auth.GET("/expenses/monthly", handler.GetMonthlyExpenses)
	auth.GET("/expenses/total-spent", handler.GetTotalSpent)
	auth.GET("/expenses/:id", handler.GetExpense)
	auth.PUT("/expenses/:id", handler.UpdateExpense)
	auth.DELETE("/expenses/:id", handler.DeleteExpense)
	return r
}

func TestExpenseHandler_CreateExpense(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockExpenseService{
			createExpenseFn: func(userID string, categoryID, currencyID uint, _ *uint, amount float64, date time.Time, _ string) (*models.Expense, error) {
				return &models.Expense{
					Base: models.Base{ID: 1},
					TransactionFields: models.TransactionFields{
						UserID:     userID,
						CategoryID: categoryID,
						CurrencyID: currencyID,
						Amount:     amount,
						Date:       date,
					},
				}, nil
			},
		}
		handler := NewExpenseHandler(svc)
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "POST", "/expenses",
			`{"category_id":1,"currency_id":1,"amount":12.5,"date":"2025-01-06T00:00:00Z","description":"coffee"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		expense := parseJSON(t, rec)["expense"].(map[string]interface{})
		if expense["amount"].(float64) != 12.5 {
			t.Errorf("expected amount 12.5, got %v", expense["amount"])
		}
	})

	t.Run("returns 400 on missing category", func(t *testing.T) {
		handler := NewExpenseHandler(&mockExpenseService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "POST", "/expenses",
			`{"currency_id":1,"amount":12.5,"date":"2025-01-06T00:00:00Z"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 404 on unknown category", func(t *testing.T) {
		svc := &mockExpenseService{
			createExpenseFn: func(string, uint, uint, *uint, float64, time.Time, string) (*models.Expense, error) {
				return nil, apperrors.ErrCategoryNotFound
			},
		}
		handler := NewExpenseHandler(svc)
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "POST", "/expenses",
			`{"category_id":999,"currency_id":1,"amount":12.5,"date":"2025-01-06T00:00:00Z"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CATEGORY_NOT_FOUND")
	})
}

func TestExpenseHandler_CompareCategories(t *testing.T) {
	t.Run("forwards both periods", func(t *testing.T) {
		var gotCurrent, gotPrevious services.Period
		svc := &mockExpenseService{
			compareCategoriesFn: func(_ string, current, previous services.Period) (*services.CategoryComparisonResponse, error) {
				gotCurrent, gotPrevious = current, previous
				return &services.CategoryComparisonResponse{
					CurrentPeriodLabel:  "February 2025",
					PreviousPeriodLabel: "January 2025",
				}, nil
			},
		}
		handler := NewExpenseHandler(svc)
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "GET",
			"/expenses/compare?current_type=month&current_value=2&current_year=2025&previous_type=month&previous_value=1&previous_year=2025", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotCurrent != (services.Period{Type: services.PeriodTypeMonth, Value: 2, Year: 2025}) {
			t.Errorf("unexpected current period: %+v", gotCurrent)
		}
		if gotPrevious != (services.Period{Type: services.PeriodTypeMonth, Value: 1, Year: 2025}) {
			t.Errorf("unexpected previous period: %+v", gotPrevious)
		}
		if parseJSON(t, rec)["current_period_label"] != "February 2025" {
			t.Errorf("unexpected body: %s", rec.Body.String())
		}
	})

	t.Run("returns 400 on unknown period type", func(t *testing.T) {
		handler := NewExpenseHandler(&mockExpenseService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "GET",
			"/expenses/compare?current_type=quarter&current_value=1&previous_type=month&previous_value=1&previous_year=2025", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on missing periods", func(t *testing.T) {
		handler := NewExpenseHandler(&mockExpenseService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "GET", "/expenses/compare", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestExpenseHandler_GetExpense(t *testing.T) {
	t.Run("returns 400 on bad path id", func(t *testing.T) {
		handler := NewExpenseHandler(&mockExpenseService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "GET", "/expenses/abc", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestExpenseHandler_GetTotalSpent(t *testing.T) {
	t.Run("month param selects the monthly total", func(t *testing.T) {
		svc := &mockExpenseService{
			totalSpentForMonthFn: func(_ string, month, year int) (float64, error) {
				if month != 4 || year != 2025 {
					t.Errorf("expected 4/2025, got %d/%d", month, year)
				}
				return 321.5, nil
			},
		}
		router := setupExpenseRouter(NewExpenseHandler(svc))

		rec := doRequest(router, http.MethodGet, "/expenses/total-spent?month=4&year=2025", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["total_spent"].(float64) != 321.5 {
			t.Errorf("expected total 321.5, got %v", result["total_spent"])
		}
	})

	t.Run("year alone selects the yearly total", func(t *testing.T) {
		svc := &mockExpenseService{
			totalSpentForYearFn: func(_ string, year int) (float64, error) {
				if year != 2024 {
					t.Errorf("expected year 2024, got %d", year)
				}
				return 1000, nil
			},
		}
		router := setupExpenseRouter(NewExpenseHandler(svc))

		rec := doRequest(router, http.MethodGet, "/expenses/total-spent?year=2024", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["total_spent"].(float64) != 1000 {
			t.Errorf("expected total 1000, got %v", result["total_spent"])
		}
	})

	t.Run("returns 400 without year", func(t *testing.T) {
		router := setupExpenseRouter(NewExpenseHandler(&mockExpenseService{}))

		rec := doRequest(router, http.MethodGet, "/expenses/total-spent?month=4", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
	})
}

func TestExpenseHandler_GetMonthlyExpenses(t *testing.T) {
	t.Run("returns 400 for out of range month", func(t *testing.T) {
		router := setupExpenseRouter(NewExpenseHandler(&mockExpenseService{}))

		rec := doRequest(router, http.MethodGet, "/expenses/monthly?month=13&year=2025", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		assertErrorCode(t, result, "INVALID_INPUT")
	})

	t.Run("returns the month's expenses", func(t *testing.T) {
		router := setupExpenseRouter(NewExpenseHandler(&mockExpenseService{}))

		rec := doRequest(router, http.MethodGet, "/expenses/monthly?month=4&year=2025", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})
}
