package services

import (
	"time"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	Register(username, email, password string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	UserExists(id string) (bool, error)
	AttemptLogin(username, password string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
	DeleteUser(userID string) error
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID, name, description string, categoryType models.CategoryType, budget float64) (*models.Category, error)
	GetUserCategories(userID string, categoryType models.CategoryType, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	ListUserCategories(userID string, categoryType models.CategoryType) ([]models.Category, error)
	GetCategoryByID(userID string, categoryID uint) (*models.Category, error)
	UpdateCategory(userID string, categoryID uint, name, description string, budget *float64) (*models.Category, error)
	DeleteCategory(userID string, categoryID uint) error
}

// TagServicer defines the contract for tag-related business logic.
type TagServicer interface {
	CreateTag(userID, name, description string) (*models.Tag, error)
	GetUserTags(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Tag], error)
	GetTagByID(userID string, tagID uint) (*models.Tag, error)
	UpdateTag(userID string, tagID uint, name, description string) (*models.Tag, error)
	DeleteTag(userID string, tagID uint) error
}

// CurrencyServicer defines the contract for the currency reference table.
type CurrencyServicer interface {
	CreateCurrency(code, name, symbol string) (*models.Currency, error)
	ListCurrencies() ([]models.Currency, error)
	GetCurrencyByID(currencyID uint) (*models.Currency, error)
	DeleteCurrency(currencyID uint) error
}

// PeriodType identifies the granularity of a comparison period.
type PeriodType string

const (
	PeriodTypeMonth PeriodType = "month"
	PeriodTypeYear  PeriodType = "year"
)

// Period describes a month- or year-scoped time window. Year is only
// consulted when Type is PeriodTypeMonth; for year periods Value carries
// the year itself.
type Period struct {
	Type  PeriodType
	Value int
	Year  int
}

// ExpenseServicer defines the contract for expense-related business logic.
type ExpenseServicer interface {
	CreateExpense(userID string, categoryID, currencyID uint, tagID *uint, amount float64, date time.Time, description string) (*models.Expense, error)
	UpdateExpense(userID string, expenseID uint, categoryID, currencyID uint, tagID *uint, amount float64, date time.Time, description string) (*models.Expense, error)
	DeleteExpense(userID string, expenseID uint) error
	GetExpenseByID(userID string, expenseID uint) (*models.Expense, error)
	GetUserExpenses(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error)

	ListAllExpenses(userID string) ([]models.Expense, error)
	ListExpensesForMonth(userID string, month, year int) ([]models.Expense, error)
	ListExpensesForYear(userID string, year int) ([]models.Expense, error)
	ListExpensesForWeek(userID string, week, year int) ([]models.Expense, error)
	ListExpensesForMonthByCategory(userID string, month, year int, categoryID uint) ([]models.Expense, error)
	ListExpensesForYearByCategory(userID string, year int, categoryID uint) ([]models.Expense, error)

	TotalSpentForMonth(userID string, month, year int) (float64, error)
	TotalSpentForYear(userID string, year int) (float64, error)
	TotalSpentForWeek(userID string, week, year int) (float64, error)
	TotalSpentForMonthByCategory(userID string, month, year int, categoryID uint) (float64, error)
	TotalSpentForYearByCategory(userID string, year int, categoryID uint) (float64, error)

	CompareCategories(userID string, current, previous Period) (*CategoryComparisonResponse, error)
}

// IncomeServicer defines the contract for income-related business logic.
type IncomeServicer interface {
	CreateIncome(userID string, categoryID, currencyID uint, tagID *uint, amount float64, date time.Time, description string) (*models.Income, error)
	UpdateIncome(userID string, incomeID uint, categoryID, currencyID uint, tagID *uint, amount float64, date time.Time, description string) (*models.Income, error)
	DeleteIncome(userID string, incomeID uint) error
	GetIncomeByID(userID string, incomeID uint) (*models.Income, error)
	GetUserIncomes(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Income], error)

	ListIncomesForMonth(userID string, month, year int) ([]models.Income, error)
	ListIncomesForYear(userID string, year int) ([]models.Income, error)

	TotalEarnedForMonth(userID string, month, year int) (float64, error)
	TotalEarnedForYear(userID string, year int) (float64, error)
}

// BurndownRow holds the burn-down curve for a single category, or for
// the aggregate of all budgeted categories when Aggregate is set (in
// which case CategoryID is nil). Day keys run 1..daysInMonth.
type BurndownRow struct {
	Aggregate       bool            `json:"aggregate"`
	CategoryID      *uint           `json:"category_id,omitempty"`
	CategoryName    string          `json:"category_name"`
	Budget          float64         `json:"budget"`
	TotalSpent      float64         `json:"total_spent"`
	DailySpending   map[int]float64 `json:"daily_spending"`
	RemainingBudget map[int]float64 `json:"remaining_budget"`
}

// BudgetBurndown is the burn-down result for one month. The aggregate
// row is always present and always first.
type BudgetBurndown struct {
	Month      int           `json:"month"`
	Year       int           `json:"year"`
	Categories []BurndownRow `json:"categories"`
}

// BudgetUpdate sets a new budget amount for one category.
type BudgetUpdate struct {
	CategoryID uint    `json:"category_id" binding:"required"`
	NewBudget  float64 `json:"new_budget" binding:"min=0"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	GetBudgets(userID string) ([]models.Category, error)
	ModifyBudgets(userID string, updates []BudgetUpdate) error
	GetBurndown(userID string, month, year int) (*BudgetBurndown, error)
}

// DaySpending is the date (ISO YYYY-MM-DD, or "N/A") and amount of a
// single day's spending.
type DaySpending struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// MonthSpending is the total spending of one calendar month.
type MonthSpending struct {
	Month  int     `json:"month"`
	Year   int     `json:"year"`
	Amount float64 `json:"amount"`
}

// CategorySpending is the all-time spending of one category.
type CategorySpending struct {
	CategoryID   uint    `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Amount       float64 `json:"amount"`
}

// HighestSpending groups the three maxima sub-analyses.
type HighestSpending struct {
	Day      DaySpending      `json:"highest_spending_day"`
	Month    MonthSpending    `json:"highest_spending_month"`
	Category CategorySpending `json:"highest_spending_category"`
}

// Savings holds the per-month savings percentages keyed "MM-YYYY" and
// their unweighted mean.
type Savings struct {
	AverageMonthlySavingsRate float64            `json:"average_monthly_savings_rate"`
	MonthlySavingsPercentage  map[string]float64 `json:"monthly_savings_percentage"`
}

// AverageSpending holds daily and weekly averages over recent windows.
type AverageSpending struct {
	AverageDailySpend  float64 `json:"average_daily_spend"`
	AverageWeeklySpend float64 `json:"average_weekly_spend"`
}

// BudgetStreak describes the longest run of consecutive days where
// every budgeted category stayed within its prorated budget.
type BudgetStreak struct {
	LongestStreakDays int    `json:"longest_streak_days"`
	StreakStartDate   string `json:"streak_start_date"`
	StreakEndDate     string `json:"streak_end_date"`
}

// StatisticalSummary composes the four independent statistics
// sub-analyses over a user's transaction history.
type StatisticalSummary struct {
	HighestSpending HighestSpending `json:"highest_spending"`
	Savings         Savings         `json:"savings"`
	AverageSpending AverageSpending `json:"average_spending"`
	BudgetStreak    BudgetStreak    `json:"budget_streak"`
}

// StatisticsServicer defines the contract for the statistics engine.
type StatisticsServicer interface {
	GetSummary(userID string) (*StatisticalSummary, error)
}

// CategoryComparison is the per-category spending delta between two periods.
type CategoryComparison struct {
	CategoryID       uint    `json:"category_id"`
	CategoryName     string  `json:"category_name"`
	CurrentAmount    float64 `json:"current_period_amount"`
	PreviousAmount   float64 `json:"previous_period_amount"`
	Difference       float64 `json:"difference"`
	PercentageChange float64 `json:"percentage_change"`
}

// CategoryComparisonResponse wraps per-category comparisons with period
// labels and grand totals over the included categories.
type CategoryComparisonResponse struct {
	CurrentPeriodLabel    string               `json:"current_period_label"`
	PreviousPeriodLabel   string               `json:"previous_period_label"`
	Categories            []CategoryComparison `json:"categories"`
	TotalCurrentPeriod    float64              `json:"total_current_period"`
	TotalPreviousPeriod   float64              `json:"total_previous_period"`
	TotalDifference       float64              `json:"total_difference"`
	TotalPercentageChange float64              `json:"total_percentage_change"`
}
