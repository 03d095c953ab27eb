package analytics

import (
	"time"

	"expense_tracker/internal/models"

	"github.com/shopspring/decimal"
)

// meal categories in calendar display order
var mealOrder = []string{models.CategoryBreakfast, models.CategoryLunch, models.CategoryDinner}

type MealGroup struct {
	Meal  string           `json:"meal"`
	Items []models.Expense `json:"items"`
	Total float64          `json:"total"`
}

// DayBreakdown is the calendar view of one local day.
type DayBreakdown struct {
	Date       string           `json:"date"` // YYYY-MM-DD
	Meals      []MealGroup      `json:"meals"`
	Other      []models.Expense `json:"other"`
	OtherTotal float64          `json:"other_total"`
	Total      float64          `json:"total"`
	Count      int              `json:"count"`
}

// Day collects the expenses dated on the same local calendar day as date.
// Breakfast, Lunch and Dinner are grouped in that order (empty meals are
// omitted), everything else lands in Other.
func (s Snapshot) Day(date time.Time) DayBreakdown {
	d := s.local(date)
	y, m, dd := d.Date()

	byMeal := make(map[string][]models.Expense, len(mealOrder))
	mealSums := make(map[string]decimal.Decimal, len(mealOrder))
	other := make([]models.Expense, 0)
	otherSum, total := decimal.Zero, decimal.Zero
	count := 0

	for _, e := range s.items {
		ey, em, ed := s.local(e.Date).Date()
		if ey != y || em != m || ed != dd {
			continue
		}
		amt := decimal.NewFromFloat(e.Amount)
		total = total.Add(amt)
		count++
		if isMeal(e.Category) {
			byMeal[e.Category] = append(byMeal[e.Category], e)
			mealSums[e.Category] = mealSums[e.Category].Add(amt)
			continue
		}
		other = append(other, e)
		otherSum = otherSum.Add(amt)
	}

	out := DayBreakdown{
		Date:       d.Format("2006-01-02"),
		Meals:      make([]MealGroup, 0, len(mealOrder)),
		Other:      other,
		OtherTotal: otherSum.InexactFloat64(),
		Total:      total.InexactFloat64(),
		Count:      count,
	}
	for _, meal := range mealOrder {
		items, ok := byMeal[meal]
		if !ok {
			continue
		}
		out.Meals = append(out.Meals, MealGroup{Meal: meal, Items: items, Total: mealSums[meal].InexactFloat64()})
	}
	return out
}

func isMeal(category string) bool {
	for _, m := range mealOrder {
		if category == m {
			return true
		}
	}
	return false
}

// MonthView is the filtered, paginated part of the dashboard.
type MonthView struct {
	Filter  MonthFilter `json:"filter"`
	Total   float64     `json:"month_total"`
	Summary Stats       `json:"summary"`
	Page    Page        `json:"page"`
}

type Dashboard struct {
	Trend       [12]MonthBucket `json:"monthly_trend"`
	Categories  []CategoryTotal `json:"categories"`
	Summary     Stats           `json:"summary"`
	YearlyTotal float64         `json:"yearly_total"`
	Month       MonthView       `json:"month"`
}

// Dashboard bundles every view. Trend, categories, summary and the yearly
// total cover the whole snapshot; Month covers only the expenses matching f.
func (s Snapshot) Dashboard(f MonthFilter, page, size int) Dashboard {
	filtered := s.FilterByMonth(f)
	summary := s.Summary()
	monthStats := filtered.Summary()
	return Dashboard{
		Trend:       s.MonthlyTrend(),
		Categories:  s.CategoryDistribution(),
		Summary:     summary,
		YearlyTotal: summary.Total,
		Month: MonthView{
			Filter:  f,
			Total:   monthStats.Total,
			Summary: monthStats,
			Page:    filtered.Paginate(page, size),
		},
	}
}
