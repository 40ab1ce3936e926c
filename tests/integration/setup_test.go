package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"fintrack/internal/handlers"
	"fintrack/internal/logger"
	"fintrack/internal/middleware"
	"fintrack/internal/models"
	"fintrack/internal/services"
	"fintrack/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Category{},
		&models.Tag{},
		&models.Currency{},
		&models.Expense{},
		&models.Income{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	userService := services.NewUserService(db)
	categoryService := services.NewCategoryService(db)
	tagService := services.NewTagService(db)
	currencyService := services.NewCurrencyService(db)
	expenseService := services.NewExpenseService(db)
	incomeService := services.NewIncomeService(db)
	budgetService := services.NewBudgetService(db, userService, categoryService, expenseService)
	statisticsService := services.NewStatisticsService(userService, categoryService, expenseService, incomeService)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	tagHandler := handlers.NewTagHandler(tagService)
	currencyHandler := handlers.NewCurrencyHandler(currencyService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	incomeHandler := handlers.NewIncomeHandler(incomeService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	statisticsHandler := handlers.NewStatisticsHandler(statisticsService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)
	protected.DELETE("/profile", authHandler.DeleteAccount)

	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.GET("/:id", categoryHandler.GetCategory)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	tags := protected.Group("/tags")
	tags.POST("", tagHandler.CreateTag)
	tags.GET("", tagHandler.GetTags)
	tags.PUT("/:id", tagHandler.UpdateTag)
	tags.DELETE("/:id", tagHandler.DeleteTag)

	currencies := protected.Group("/currencies")
	currencies.POST("", currencyHandler.CreateCurrency)
	currencies.GET("", currencyHandler.GetCurrencies)
	currencies.DELETE("/:id", currencyHandler.DeleteCurrency)

	expenses := protected.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.GET("/compare", expenseHandler.CompareCategories)
	expenses.GET("/monthly", expenseHandler.GetMonthlyExpenses)
	expenses.GET("/yearly", expenseHandler.GetYearlyExpenses)
	expenses.GET("/total-spent", expenseHandler.GetTotalSpent)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	incomes := protected.Group("/incomes")
	incomes.POST("", incomeHandler.CreateIncome)
	incomes.GET("", incomeHandler.GetIncomes)
	incomes.GET("/monthly", incomeHandler.GetMonthlyIncomes)
	incomes.GET("/yearly", incomeHandler.GetYearlyIncomes)
	incomes.GET("/total-earned", incomeHandler.GetTotalEarned)
	incomes.GET("/:id", incomeHandler.GetIncome)
	incomes.PUT("/:id", incomeHandler.UpdateIncome)
	incomes.DELETE("/:id", incomeHandler.DeleteIncome)

	budget := protected.Group("/budget")
	budget.GET("", budgetHandler.GetBudgets)
	budget.POST("/modify", budgetHandler.ModifyBudgets)
	budget.GET("/burndown", budgetHandler.GetBurndown)

	statistics := protected.Group("/statistics")
	statistics.GET("/summary", statisticsHandler.GetSummary)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the access token, refresh
// token, and user ID. The username is the local part of the email.
func (app *testApp) registerUser(t *testing.T, email, password string) (accessToken, refreshToken, userID string) {
	t.Helper()
	username := strings.SplitN(email, "@", 2)[0]
	body := fmt.Sprintf(`{"username":%q,"email":%q,"password":%q}`, username, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["access_token"].(string), result["refresh_token"].(string), user["id"].(string)
}

// loginUser logs in with the username derived from the email and returns
// the access and refresh tokens.
func (app *testApp) loginUser(t *testing.T, email, password string) (accessToken, refreshToken string) {
	t.Helper()
	username := strings.SplitN(email, "@", 2)[0]
	body := fmt.Sprintf(`{"username":%q,"password":%q}`, username, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["access_token"].(string), result["refresh_token"].(string)
}

// createCategory creates a category and returns its ID.
func (app *testApp) createCategory(t *testing.T, token, name, categoryType string, budget float64) float64 {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"category_type":%q,"budget":%v}`, name, categoryType, budget)
	rec := app.request("POST", "/api/v1/categories", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create category failed: %d %s", rec.Code, rec.Body.String())
	}
	category := parseJSON(t, rec)["category"].(map[string]interface{})
	return category["id"].(float64)
}

// createCurrency creates a currency and returns its ID.
func (app *testApp) createCurrency(t *testing.T, token, code, name string) float64 {
	t.Helper()
	body := fmt.Sprintf(`{"code":%q,"name":%q,"symbol":"$"}`, code, name)
	rec := app.request("POST", "/api/v1/currencies", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create currency failed: %d %s", rec.Code, rec.Body.String())
	}
	currency := parseJSON(t, rec)["currency"].(map[string]interface{})
	return currency["id"].(float64)
}

// createExpense records an expense on the given date and returns its ID.
func (app *testApp) createExpense(t *testing.T, token string, categoryID, currencyID, amount float64, date string) float64 {
	t.Helper()
	body := fmt.Sprintf(`{"category_id":%.0f,"currency_id":%.0f,"amount":%v,"date":%q}`,
		categoryID, currencyID, amount, date)
	rec := app.request("POST", "/api/v1/expenses", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create expense failed: %d %s", rec.Code, rec.Body.String())
	}
	expense := parseJSON(t, rec)["expense"].(map[string]interface{})
	return expense["id"].(float64)
}
