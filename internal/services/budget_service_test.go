package services

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"fintrack/internal/models"
	"fintrack/internal/testutil"
	"fintrack/internal/timeutil"
)

func newBudgetService(db *gorm.DB) BudgetServicer {
	return NewBudgetService(db, NewUserService(db), NewCategoryService(db), NewExpenseService(db))
}

func TestGetBudgets(t *testing.T) {
	t.Run("includes_unbudgeted_expense_categories", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestCategoryWithBudget(t, db, user.ID, models.CategoryTypeExpense, 200)
		testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
		testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeIncome)

		categories, err := svc.GetBudgets(user.ID)
		testutil.AssertNoError(t, err)

		if len(categories) != 2 {
			t.Fatalf("expected 2 expense categories, got %d", len(categories))
		}
		if categories[0].Budget != 200 {
			t.Errorf("expected budget 200, got %f", categories[0].Budget)
		}
		if categories[1].Budget != 0 {
			t.Errorf("expected budget 0, got %f", categories[1].Budget)
		}
	})

	t.Run("unknown_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newBudgetService(db)

		_, err := svc.GetBudgets("00000000-0000-0000-0000-000000000000")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestModifyBudgets(t *testing.T) {
	t.Run("applies_all_updates", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		catA := testutil.CreateTestCategoryWithBudget(t, db, user.ID, models.CategoryTypeExpense, 100)
		catB := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

		err := svc.ModifyBudgets(user.ID, []BudgetUpdate{
			{CategoryID: catA.ID, NewBudget: 250},
			{CategoryID: catB.ID, NewBudget: 75},
		})
		testutil.AssertNoError(t, err)

		var reloaded models.Category
		testutil.AssertNoError(t, db.First(&reloaded, catA.ID).Error)
		if reloaded.Budget != 250 {
			t.Errorf("expected budget 250, got %f", reloaded.Budget)
		}
		reloaded = models.Category{}
		testutil.AssertNoError(t, db.First(&reloaded, catB.ID).Error)
		if reloaded.Budget != 75 {
			t.Errorf("expected budget 75, got %f", reloaded.Budget)
		}
	})

	t.Run("rejects_negative_budget", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategoryWithBudget(t, db, user.ID, models.CategoryTypeExpense, 100)

		err := svc.ModifyBudgets(user.ID, []BudgetUpdate{{CategoryID: cat.ID, NewBudget: -1}})
		testutil.AssertAppError(t, err, "NEGATIVE_BUDGET")

		var reloaded models.Category
		testutil.AssertNoError(t, db.First(&reloaded, cat.ID).Error)
		if reloaded.Budget != 100 {
			t.Errorf("budget should be unchanged, got %f", reloaded.Budget)
		}
	})

	t.Run("ignores_other_users_categories", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newBudgetService(db)
		owner := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategoryWithBudget(t, db, owner.ID, models.CategoryTypeExpense, 100)

		err := svc.ModifyBudgets(other.ID, []BudgetUpdate{{CategoryID: cat.ID, NewBudget: 999}})
		testutil.AssertNoError(t, err)

		var reloaded models.Category
		testutil.AssertNoError(t, db.First(&reloaded, cat.ID).Error)
		if reloaded.Budget != 100 {
			t.Errorf("budget should be unchanged, got %f", reloaded.Budget)
		}
	})
}

func TestGetBurndown(t *testing.T) {
	t.Run("remaining_budget_is_budget_minus_cumulative_spend", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		currency := testutil.CreateTestCurrency(t, db)
		cat := testutil.CreateTestCategoryWithBudget(t, db, user.ID, models.CategoryTypeExpense, 100)

		testutil.CreateTestExpense(t, db, user.ID, cat.ID, currency.ID, 20, time.Date(2025, 4, 3, 0, 0, 0, 0, time.UTC))
		testutil.CreateTestExpense(t, db, user.ID, cat.ID, currency.ID, 30, time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC))

		burndown, err := svc.GetBurndown(user.ID, 4, 2025)
		testutil.AssertNoError(t, err)

		if len(burndown.Categories) != 2 {
			t.Fatalf("expected aggregate plus 1 category row, got %d", len(burndown.Categories))
		}
		if !burndown.Categories[0].Aggregate {
			t.Fatal("aggregate row should come first")
		}

		row := burndown.Categories[1]
		if row.CategoryID == nil || *row.CategoryID != cat.ID {
			t.Fatal("category row should carry its category ID")
		}
		if row.TotalSpent != 50 {
			t.Errorf("expected total spent 50, got %f", row.TotalSpent)
		}

		wantRemaining := map[int]float64{1: 100, 2: 100, 3: 80, 9: 80, 10: 50, 30: 50}
		for day, want := range wantRemaining {
			if got := row.RemainingBudget[day]; got != want {
				t.Errorf("day %d: expected remaining %f, got %f", day, want, got)
			}
		}

		if len(row.DailySpending) != 30 {
			t.Errorf("expected 30 day keys for April, got %d", len(row.DailySpending))
		}
		if row.DailySpending[3] != 20 || row.DailySpending[10] != 30 {
			t.Errorf("daily spending mismatch: day3=%f day10=%f", row.DailySpending[3], row.DailySpending[10])
		}
	})

	t.Run("aggregate_sums_across_budgeted_categories", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		currency := testutil.CreateTestCurrency(t, db)
		catA := testutil.CreateTestCategoryWithBudget(t, db, user.ID, models.CategoryTypeExpense, 100)
		catB := testutil.CreateTestCategoryWithBudget(t, db, user.ID, models.CategoryTypeExpense, 50)
		unbudgeted := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

		testutil.CreateTestExpense(t, db, user.ID, catA.ID, currency.ID, 10, time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC))
		testutil.CreateTestExpense(t, db, user.ID, catB.ID, currency.ID, 5, time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC))
		// Spending in an unbudgeted category stays out of every curve.
		testutil.CreateTestExpense(t, db, user.ID, unbudgeted.ID, currency.ID, 999, time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC))

		burndown, err := svc.GetBurndown(user.ID, 4, 2025)
		testutil.AssertNoError(t, err)

		if len(burndown.Categories) != 3 {
			t.Fatalf("expected aggregate plus 2 category rows, got %d", len(burndown.Categories))
		}

		aggregate := burndown.Categories[0]
		if aggregate.Budget != 150 {
			t.Errorf("expected aggregate budget 150, got %f", aggregate.Budget)
		}
		if aggregate.TotalSpent != 15 {
			t.Errorf("expected aggregate total spent 15, got %f", aggregate.TotalSpent)
		}
		if aggregate.DailySpending[5] != 15 {
			t.Errorf("expected aggregate day 5 spending 15, got %f", aggregate.DailySpending[5])
		}
		if aggregate.RemainingBudget[4] != 150 || aggregate.RemainingBudget[5] != 135 {
			t.Errorf("aggregate curve mismatch: day4=%f day5=%f", aggregate.RemainingBudget[4], aggregate.RemainingBudget[5])
		}
	})

	t.Run("no_budgeted_categories_yields_zero_aggregate", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

		burndown, err := svc.GetBurndown(user.ID, 4, 2025)
		testutil.AssertNoError(t, err)

		if len(burndown.Categories) != 1 {
			t.Fatalf("expected single aggregate row, got %d", len(burndown.Categories))
		}
		aggregate := burndown.Categories[0]
		if !aggregate.Aggregate || aggregate.CategoryID != nil {
			t.Fatal("expected the aggregate row")
		}
		if aggregate.Budget != 0 || aggregate.TotalSpent != 0 {
			t.Errorf("expected zero totals, got budget=%f spent=%f", aggregate.Budget, aggregate.TotalSpent)
		}
		for day := 1; day <= timeutil.DaysInMonth(4, 2025); day++ {
			if aggregate.RemainingBudget[day] != 0 {
				t.Fatalf("day %d: expected remaining 0, got %f", day, aggregate.RemainingBudget[day])
			}
		}
	})

	t.Run("category_without_expenses_keeps_full_budget", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestCategoryWithBudget(t, db, user.ID, models.CategoryTypeExpense, 80)

		burndown, err := svc.GetBurndown(user.ID, 2, 2024)
		testutil.AssertNoError(t, err)

		row := burndown.Categories[1]
		if len(row.RemainingBudget) != 29 {
			t.Fatalf("expected 29 days for February 2024, got %d", len(row.RemainingBudget))
		}
		for day := 1; day <= 29; day++ {
			if row.RemainingBudget[day] != 80 {
				t.Fatalf("day %d: expected remaining 80, got %f", day, row.RemainingBudget[day])
			}
		}
	})

	t.Run("other_months_excluded", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		currency := testutil.CreateTestCurrency(t, db)
		cat := testutil.CreateTestCategoryWithBudget(t, db, user.ID, models.CategoryTypeExpense, 100)

		testutil.CreateTestExpense(t, db, user.ID, cat.ID, currency.ID, 40, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC))

		burndown, err := svc.GetBurndown(user.ID, 4, 2025)
		testutil.AssertNoError(t, err)

		if burndown.Categories[1].TotalSpent != 0 {
			t.Errorf("March spending should not appear in April, got %f", burndown.Categories[1].TotalSpent)
		}
	})

	t.Run("unknown_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newBudgetService(db)

		_, err := svc.GetBurndown("00000000-0000-0000-0000-000000000000", 4, 2025)
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}
