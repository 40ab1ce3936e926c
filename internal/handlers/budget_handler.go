package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/services"
)

// BudgetHandler handles budget-related requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer

	// now supplies the default month and year for burn-down requests
	// that omit them.
	now func() time.Time
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService, now: time.Now}
}

// ModifyBudgetsRequest carries a batch of per-category budget updates.
type ModifyBudgetsRequest struct {
	Updates []services.BudgetUpdate `json:"updates" binding:"required,min=1,dive"`
}

// GetBudgets handles listing the user's expense categories with budgets.
// @Summary     Get budgets
// @Description List the user's expense categories and their budget amounts
// @Tags        budget
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.Category "Expense categories with budgets"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget [get]
func (h *BudgetHandler) GetBudgets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categories, err := h.budgetService.GetBudgets(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budgets": categories})
}

// ModifyBudgets handles applying a batch of budget updates.
// @Summary     Modify budgets
// @Description Apply a batch of budget amount updates to expense categories
// @Tags        budget
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ModifyBudgetsRequest true "Budget updates"
// @Success     200 {object} map[string]string "Budgets updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget/modify [post]
func (h *BudgetHandler) ModifyBudgets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ModifyBudgetsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.budgetService.ModifyBudgets(userID, req.Updates); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "budgets updated"})
}

// GetBurndown handles the monthly budget burn-down projection. Month and
// year default to the current month when omitted; the service itself
// never defaults them.
// @Summary     Get budget burn-down
// @Description Get daily spending and remaining budget curves for a month
// @Tags        budget
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       month query int false "Month 1-12 (default: current month)"
// @Param       year  query int false "Year (default: current year)"
// @Success     200 {object} services.BudgetBurndown "Burn-down curves"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget/burndown [get]
func (h *BudgetHandler) GetBurndown(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	now := h.now()
	month := int(now.Month())
	year := now.Year()

	if v := c.Query("month"); v != "" {
		month, err = strconv.Atoi(v)
		if err != nil || month < 1 || month > 12 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12"))
			return
		}
	}
	if v := c.Query("year"); v != "" {
		year, err = strconv.Atoi(v)
		if err != nil || year < 1 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "year must be positive"))
			return
		}
	}

	burndown, err := h.budgetService.GetBurndown(userID, month, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, burndown)
}
