package services

import (
	"fmt"
	"time"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/models"
	"fintrack/internal/timeutil"
)

// statisticsService computes read-only statistical analyses over a
// user's transaction history. It depends only on the other service
// contracts, never on the database directly.
type statisticsService struct {
	users      UserServicer
	categories CategoryServicer
	expenses   ExpenseServicer
	incomes    IncomeServicer

	// now is the clock used by the time-relative analyses. Tests
	// replace it to pin the reference date.
	now func() time.Time
}

// NewStatisticsService creates a new StatisticsServicer.
func NewStatisticsService(users UserServicer, categories CategoryServicer, expenses ExpenseServicer, incomes IncomeServicer) StatisticsServicer {
	return &statisticsService{
		users:      users,
		categories: categories,
		expenses:   expenses,
		incomes:    incomes,
		now:        time.Now,
	}
}

// GetSummary assembles the four sub-analyses. Each sub-analysis
// degrades independently: a failure while scanning one month or one
// category yields that analysis's sentinel instead of failing the
// whole summary.
func (s *statisticsService) GetSummary(userID string) (*StatisticalSummary, error) {
	exists, err := s.users.UserExists(userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrUserNotFound
	}

	return &StatisticalSummary{
		HighestSpending: HighestSpending{
			Day:      s.highestSpendingDay(userID),
			Month:    s.highestSpendingMonth(userID),
			Category: s.highestSpendingCategory(userID),
		},
		Savings:         s.savings(userID),
		AverageSpending: s.averageSpending(userID),
		BudgetStreak:    s.budgetStreak(userID),
	}, nil
}

// highestSpendingDay scans the user's full expense history grouped by
// exact calendar date. Ties keep the earliest-encountered date.
func (s *statisticsService) highestSpendingDay(userID string) DaySpending {
	sentinel := DaySpending{Date: "N/A", Amount: 0}

	expenses, err := s.expenses.ListAllExpenses(userID)
	if err != nil {
		logger.Get().Warnw("highest spending day unavailable", "user_id", userID, "error", err)
		return sentinel
	}

	byDate := make(map[string]float64)
	order := make([]string, 0)
	for _, expense := range expenses {
		key := expense.Date.Format("2006-01-02")
		if _, seen := byDate[key]; !seen {
			order = append(order, key)
		}
		byDate[key] += expense.Amount
	}

	best := sentinel
	for _, date := range order {
		if byDate[date] > best.Amount {
			best = DaySpending{Date: date, Amount: byDate[date]}
		}
	}
	return best
}

// highestSpendingMonth walks every month of the current and previous
// calendar years. Months whose total cannot be fetched are skipped
// silently.
func (s *statisticsService) highestSpendingMonth(userID string) MonthSpending {
	best := MonthSpending{Month: 0, Year: 0, Amount: 0}

	currentYear := s.now().Year()
	for _, year := range []int{currentYear - 1, currentYear} {
		for month := 1; month <= 12; month++ {
			total, ok := s.monthlySpendTotal(userID, month, year)
			if ok && total > best.Amount {
				best = MonthSpending{Month: month, Year: year, Amount: total}
			}
		}
	}
	return best
}

// highestSpendingCategory totals every expense category over all time.
// The first category encountered wins ties. Categories whose totals
// cannot be fetched are skipped.
func (s *statisticsService) highestSpendingCategory(userID string) CategorySpending {
	sentinel := CategorySpending{CategoryID: 0, CategoryName: "N/A", Amount: 0}

	categories, err := s.categories.ListUserCategories(userID, models.CategoryTypeExpense)
	if err != nil {
		logger.Get().Warnw("highest spending category unavailable", "user_id", userID, "error", err)
		return sentinel
	}

	best := sentinel
	for _, category := range categories {
		total, ok := s.categorySpendTotal(userID, category.ID)
		if !ok {
			continue
		}
		if total > best.Amount {
			name := category.Name
			if name == "" {
				name = "Unknown"
			}
			best = CategorySpending{CategoryID: category.ID, CategoryName: name, Amount: total}
		}
	}
	return best
}

// savings computes the per-month savings percentage over the current
// and previous calendar years. Months with no income, or whose totals
// cannot be fetched, are excluded from both the map and the mean.
func (s *statisticsService) savings(userID string) Savings {
	monthly := make(map[string]float64)
	var sum float64

	currentYear := s.now().Year()
	for _, year := range []int{currentYear - 1, currentYear} {
		for month := 1; month <= 12; month++ {
			income, ok := s.monthlyIncomeTotal(userID, month, year)
			if !ok || income <= 0 {
				continue
			}
			spent, ok := s.monthlySpendTotal(userID, month, year)
			if !ok {
				continue
			}

			rate := ((income - spent) / income) * 100
			monthly[fmt.Sprintf("%02d-%d", month, year)] = rate
			sum += rate
		}
	}

	average := 0.0
	if len(monthly) > 0 {
		average = sum / float64(len(monthly))
	}
	return Savings{AverageMonthlySavingsRate: average, MonthlySavingsPercentage: monthly}
}

// averageSpending derives the daily average from the current month's
// total divided by the full length of the month, and the weekly
// average from the last four ISO weeks.
func (s *statisticsService) averageSpending(userID string) AverageSpending {
	now := s.now()
	month := int(now.Month())
	year := now.Year()

	var daily float64
	if total, ok := s.monthlySpendTotal(userID, month, year); ok {
		daily = total / float64(timeutil.DaysInMonth(month, year))
	}

	// Weekly buckets are keyed the same way writes bucket them: ISO
	// week number paired with the calendar year.
	currentWeek, _, weekYear := timeutil.Bucket(now)

	var weeklySum float64
	week := currentWeek
	wyear := weekYear
	for i := 0; i < 4; i++ {
		if total, ok := s.weeklySpendTotal(userID, week, wyear); ok {
			weeklySum += total
		}
		week--
		if week <= 0 {
			week += 52
			wyear--
		}
	}

	return AverageSpending{
		AverageDailySpend:  daily,
		AverageWeeklySpend: weeklySum / 4,
	}
}

// budgetStreak walks every day from 365 days ago through today and
// finds the longest run where no budgeted category exceeded its
// prorated budget. A day whose spending cannot be determined counts as
// over budget. Ties keep the earliest streak.
func (s *statisticsService) budgetStreak(userID string) BudgetStreak {
	result := BudgetStreak{LongestStreakDays: 0, StreakStartDate: "N/A", StreakEndDate: "N/A"}

	categories, err := s.categories.ListUserCategories(userID, models.CategoryTypeExpense)
	if err != nil {
		logger.Get().Warnw("budget streak unavailable", "user_id", userID, "error", err)
		return result
	}

	budgeted := make([]models.Category, 0, len(categories))
	for _, category := range categories {
		if category.HasBudget() {
			budgeted = append(budgeted, category)
		}
	}
	if len(budgeted) == 0 {
		return result
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := today.AddDate(0, 0, -365)

	// Cache cumulative spending per category per visited month so the
	// year-long walk issues one fetch per (category, month) pair.
	type monthKey struct {
		categoryID  uint
		month, year int
	}
	monthCache := make(map[monthKey]map[int]float64)
	cacheMiss := make(map[monthKey]bool)

	cumulativeFor := func(categoryID uint, day time.Time) (map[int]float64, bool) {
		key := monthKey{categoryID: categoryID, month: int(day.Month()), year: day.Year()}
		if cumulative, ok := monthCache[key]; ok {
			return cumulative, true
		}
		if cacheMiss[key] {
			return nil, false
		}
		expenses, err := s.expenses.ListExpensesForMonthByCategory(userID, key.month, key.year, categoryID)
		if err != nil {
			cacheMiss[key] = true
			return nil, false
		}
		daily := make(map[int]float64)
		for _, expense := range expenses {
			daily[expense.Date.Day()] += expense.Amount
		}
		cumulative := make(map[int]float64, timeutil.DaysInMonth(key.month, key.year))
		var running float64
		for d := 1; d <= timeutil.DaysInMonth(key.month, key.year); d++ {
			running += daily[d]
			cumulative[d] = running
		}
		monthCache[key] = cumulative
		return cumulative, true
	}

	var (
		streakLen          int
		streakStart        time.Time
		bestLen            int
		bestStart, bestEnd time.Time
	)

	for day := start; !day.After(today); day = day.AddDate(0, 0, 1) {
		overBudget := false
		daysInMonth := timeutil.DaysInMonth(int(day.Month()), day.Year())
		for _, category := range budgeted {
			cumulative, ok := cumulativeFor(category.ID, day)
			if !ok {
				overBudget = true
				break
			}
			prorated := (category.Budget / float64(daysInMonth)) * float64(day.Day())
			if cumulative[day.Day()] > prorated {
				overBudget = true
				break
			}
		}

		if overBudget {
			streakLen = 0
			continue
		}

		if streakLen == 0 {
			streakStart = day
		}
		streakLen++
		if streakLen > bestLen {
			bestLen = streakLen
			bestStart = streakStart
			bestEnd = day
		}
	}

	if bestLen == 0 {
		return result
	}
	return BudgetStreak{
		LongestStreakDays: bestLen,
		StreakStartDate:   bestStart.Format("2006-01-02"),
		StreakEndDate:     bestEnd.Format("2006-01-02"),
	}
}

// monthlySpendTotal fetches one month's expense total with an explicit
// ok flag so callers can distinguish "zero" from "unavailable".
func (s *statisticsService) monthlySpendTotal(userID string, month, year int) (float64, bool) {
	total, err := s.expenses.TotalSpentForMonth(userID, month, year)
	if err != nil {
		return 0, false
	}
	return total, true
}

func (s *statisticsService) monthlyIncomeTotal(userID string, month, year int) (float64, bool) {
	total, err := s.incomes.TotalEarnedForMonth(userID, month, year)
	if err != nil {
		return 0, false
	}
	return total, true
}

func (s *statisticsService) weeklySpendTotal(userID string, week, year int) (float64, bool) {
	total, err := s.expenses.TotalSpentForWeek(userID, week, year)
	if err != nil {
		return 0, false
	}
	return total, true
}

// categorySpendTotal sums a category's expenses over all time.
func (s *statisticsService) categorySpendTotal(userID string, categoryID uint) (float64, bool) {
	expenses, err := s.expenses.ListAllExpenses(userID)
	if err != nil {
		return 0, false
	}
	var total float64
	for _, expense := range expenses {
		if expense.CategoryID == categoryID {
			total += expense.Amount
		}
	}
	return total, true
}
