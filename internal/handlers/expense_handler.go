package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

// ExpenseHandler handles expense-related requests.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// TransactionRequest is the shared payload for creating or updating an
// expense or income.
type TransactionRequest struct {
	CategoryID  uint      `json:"category_id" binding:"required"`
	CurrencyID  uint      `json:"currency_id" binding:"required"`
	TagID       *uint     `json:"tag_id"`
	Amount      float64   `json:"amount" binding:"required,min=0"`
	Date        time.Time `json:"date" binding:"required"`
	Description string    `json:"description" binding:"max=255"`
}

// ComparePeriodsRequest carries the two periods to compare, parsed from
// query parameters.
type ComparePeriodsRequest struct {
	CurrentType   services.PeriodType `form:"current_type" binding:"required,period_type"`
	CurrentValue  int                 `form:"current_value" binding:"required"`
	CurrentYear   int                 `form:"current_year"`
	PreviousType  services.PeriodType `form:"previous_type" binding:"required,period_type"`
	PreviousValue int                 `form:"previous_value" binding:"required"`
	PreviousYear  int                 `form:"previous_year"`
}

// CreateExpense handles the creation of a new expense.
// @Summary     Create an expense
// @Description Record a new expense
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body TransactionRequest true "Expense details"
// @Success     201 {object} models.Expense "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category, currency or tag not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expense, err := h.expenseService.CreateExpense(userID, req.CategoryID, req.CurrencyID, req.TagID, req.Amount, req.Date, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// GetExpenses handles listing the user's expenses.
// @Summary     Get expenses
// @Description Get a paginated list of expenses, newest first
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Expense] "Paginated expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [get]
func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.expenseService.GetUserExpenses(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetExpense handles fetching a single expense.
// @Summary     Get an expense
// @Description Get a single expense by ID
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Expense ID"
// @Success     200 {object} models.Expense "Expense"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.GetExpenseByID(userID, expenseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// UpdateExpense handles updating an expense.
// @Summary     Update an expense
// @Description Replace an expense's fields; date buckets are recomputed
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                true "Expense ID"
// @Param       request body TransactionRequest true "New expense fields"
// @Success     200 {object} models.Expense "Updated expense"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expense, err := h.expenseService.UpdateExpense(userID, expenseID, req.CategoryID, req.CurrencyID, req.TagID, req.Amount, req.Date, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// DeleteExpense handles deleting an expense.
// @Summary     Delete an expense
// @Description Delete an expense by ID
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Expense ID"
// @Success     204 "Expense deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.expenseService.DeleteExpense(userID, expenseID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// CompareCategories handles comparing per-category spending between two periods.
// @Summary     Compare category spending
// @Description Compare per-category spending between two month or year periods
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       current_type   query string true  "Current period type (month/year)"
// @Param       current_value  query int    true  "Current month (1-12) or year"
// @Param       current_year   query int    false "Current year (month periods only)"
// @Param       previous_type  query string true  "Previous period type (month/year)"
// @Param       previous_value query int    true  "Previous month (1-12) or year"
// @Param       previous_year  query int    false "Previous year (month periods only)"
// @Success     200 {object} services.CategoryComparisonResponse "Comparison result"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/compare [get]
func (h *ExpenseHandler) CompareCategories(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ComparePeriodsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	current := services.Period{Type: req.CurrentType, Value: req.CurrentValue, Year: req.CurrentYear}
	previous := services.Period{Type: req.PreviousType, Value: req.PreviousValue, Year: req.PreviousYear}

	result, err := h.expenseService.CompareCategories(userID, current, previous)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// MonthQuery binds a month and year pair from query parameters.
type MonthQuery struct {
	Month int `form:"month" binding:"required,min=1,max=12"`
	Year  int `form:"year" binding:"required,min=1"`
}

// YearQuery binds a year from query parameters.
type YearQuery struct {
	Year int `form:"year" binding:"required,min=1"`
}

// PeriodTotalQuery binds the period for a total query. Year alone sums
// the whole year; adding month or week narrows the period.
type PeriodTotalQuery struct {
	Month *int `form:"month" binding:"omitempty,min=1,max=12"`
	Week  *int `form:"week" binding:"omitempty,min=1,max=53"`
	Year  int  `form:"year" binding:"required,min=1"`
}

// GetMonthlyExpenses handles listing a month's expenses.
// @Summary     Get monthly expenses
// @Description List all expenses recorded in a given month
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       month query int true "Month (1-12)"
// @Param       year  query int true "Year"
// @Success     200 {object} map[string]interface{} "Expenses for the month"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/monthly [get]
func (h *ExpenseHandler) GetMonthlyExpenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q MonthQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expenses, err := h.expenseService.ListExpensesForMonth(userID, q.Month, q.Year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expenses": expenses})
}

// GetYearlyExpenses handles listing a year's expenses.
// @Summary     Get yearly expenses
// @Description List all expenses recorded in a given year
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       year query int true "Year"
// @Success     200 {object} map[string]interface{} "Expenses for the year"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/yearly [get]
func (h *ExpenseHandler) GetYearlyExpenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q YearQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expenses, err := h.expenseService.ListExpensesForYear(userID, q.Year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expenses": expenses})
}

// GetTotalSpent handles total spend queries for a year, month or week.
// @Summary     Get total spent
// @Description Total spent in a year, or in a month or ISO week of it
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       year  query int true  "Year"
// @Param       month query int false "Month (1-12)"
// @Param       week  query int false "ISO week (1-53)"
// @Success     200 {object} map[string]interface{} "Total spent"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/total-spent [get]
func (h *ExpenseHandler) GetTotalSpent(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q PeriodTotalQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var total float64
	switch {
	case q.Month != nil:
		total, err = h.expenseService.TotalSpentForMonth(userID, *q.Month, q.Year)
	case q.Week != nil:
		total, err = h.expenseService.TotalSpentForWeek(userID, *q.Week, q.Year)
	default:
		total, err = h.expenseService.TotalSpentForYear(userID, q.Year)
	}
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"total_spent": total})
}
