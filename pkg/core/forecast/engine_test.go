package forecast

import (
	"math"
	"reflect"
	"testing"

	"growthlens/pkg/core/config"
	"growthlens/pkg/models"
)

func forecastCfg() config.ForecastConfig {
	return config.Default().Forecast
}

func TestCalculateIdempotent(t *testing.T) {
	state := models.ForecastState{
		RevenueTarget: 500000,
		ProfitTarget:  100000,
		FiscalYear:    2025,
		ExistingTeam: []models.TeamMember{
			{ID: "a", AnnualSalary: 90000, Classification: models.ClassificationCOGS},
			{ID: "b", AnnualSalary: 70000, Classification: models.ClassificationOpEx},
		},
		PlannedHires: []models.TeamMember{
			{ID: "c", AnnualSalary: 120000, Classification: models.ClassificationCOGS, StartMonth: "2025-01", IsNewHire: true},
		},
		OpExCategories: []models.OpExCategory{
			{ID: "rent", PriorYearAmount: 40000, ForecastAmount: 42000, GrowthPercent: 5},
		},
		Investments: []models.Investment{
			{ID: "i1", Amount: 15000, Type: models.InvestmentCapEx},
			{ID: "i2", Amount: 5000, Type: models.InvestmentOpEx},
		},
	}

	c1 := Calculate(state, forecastCfg())
	c2 := Calculate(state, forecastCfg())
	if !reflect.DeepEqual(c1, c2) {
		t.Errorf("Calculate is not deterministic: %+v vs %+v", c1, c2)
	}
}

func TestGrossProfitInvariant(t *testing.T) {
	state := models.ForecastState{
		RevenueTarget: 350000,
		FiscalYear:    2025,
		ExistingTeam: []models.TeamMember{
			{AnnualSalary: 80000, Classification: models.ClassificationCOGS},
			{AnnualSalary: 60000, Classification: models.ClassificationOpEx},
		},
		PlannedHires: []models.TeamMember{
			{AnnualSalary: 96000, Classification: models.ClassificationCOGS, StartMonth: "2025-04", IsNewHire: true},
		},
	}

	c := Calculate(state, forecastCfg())
	if math.Abs(c.GrossProfit+c.COGSTeamCost-state.RevenueTarget) > 0.0001 {
		t.Errorf("grossProfit + COGS team cost = %f, want %f", c.GrossProfit+c.COGSTeamCost, state.RevenueTarget)
	}
}

func TestProrationBoundaries(t *testing.T) {
	// FY2025 window is Jul 1 2024 .. Jun 30 2025.
	cases := []struct {
		name       string
		startMonth string
		want       float64
	}{
		{"fiscal year start", "2024-07", 120000},
		{"before fiscal year", "2024-01", 120000},
		{"after fiscal year end", "2025-07", 0},
		{"unset", "", 120000},
		{"january start", "2025-01", 120000 * 6.0 / 12.0},
		{"final month", "2025-06", 120000 * 1.0 / 12.0},
	}

	for _, tc := range cases {
		state := models.ForecastState{
			FiscalYear: 2025,
			PlannedHires: []models.TeamMember{
				{AnnualSalary: 120000, Classification: models.ClassificationOpEx, StartMonth: tc.startMonth, IsNewHire: true},
			},
		}
		c := Calculate(state, forecastCfg())
		if math.Abs(c.NewHireCost-tc.want) > 0.0001 {
			t.Errorf("%s: new hire cost %f, want %f", tc.name, c.NewHireCost, tc.want)
		}
	}
}

func TestZeroRevenueGuards(t *testing.T) {
	state := models.ForecastState{
		ExistingTeam: []models.TeamMember{
			{AnnualSalary: 50000, Classification: models.ClassificationCOGS},
		},
	}
	c := Calculate(state, forecastCfg())
	if c.GrossMargin != 0 || c.NetMargin != 0 || c.VariancePercent != 0 {
		t.Errorf("expected zero margins with zero revenue/target, got gross=%f net=%f varPct=%f",
			c.GrossMargin, c.NetMargin, c.VariancePercent)
	}
	for _, v := range []float64{c.GrossMargin, c.NetMargin, c.VariancePercent, c.NetProfit} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("calculation produced NaN/Inf: %f", v)
		}
	}
}

func TestNetProfitComposition(t *testing.T) {
	state := models.ForecastState{
		RevenueTarget: 200000,
		ProfitTarget:  50000,
		ExistingTeam: []models.TeamMember{
			{AnnualSalary: 40000, Classification: models.ClassificationCOGS},
			{AnnualSalary: 30000, Classification: models.ClassificationOpEx},
		},
		OpExCategories: []models.OpExCategory{
			{ID: "soft", PriorYearAmount: 10000, ForecastAmount: 12000, GrowthPercent: 20},
		},
		Investments: []models.Investment{
			{Amount: 8000, Type: models.InvestmentOpEx},
			{Amount: 20000, Type: models.InvestmentCapEx},
		},
	}

	c := Calculate(state, forecastCfg())

	// Gross: 200000 - 40000 = 160000. Expenses: 30000 + 12000 + 8000 = 50000.
	// Net: 110000. Variance: 60000 (120% of target).
	if c.GrossProfit != 160000 {
		t.Errorf("gross profit %f, want 160000", c.GrossProfit)
	}
	if c.TotalExpenses != 50000 {
		t.Errorf("total expenses %f, want 50000 (capex excluded)", c.TotalExpenses)
	}
	if c.NetProfit != 110000 {
		t.Errorf("net profit %f, want 110000", c.NetProfit)
	}
	if math.Abs(c.VariancePercent-120) > 0.0001 {
		t.Errorf("variance percent %f, want 120", c.VariancePercent)
	}
}

func TestWarningRules(t *testing.T) {
	cfg := forecastCfg()

	// Low margin + negative variance.
	low := Calculate(models.ForecastState{
		RevenueTarget: 100000,
		ProfitTarget:  20000,
		ExistingTeam: []models.TeamMember{
			{AnnualSalary: 95000, Classification: models.ClassificationOpEx},
		},
	}, cfg)
	if !hasWarning(low.Warnings, "net-margin-low", models.WarningWarn) {
		t.Errorf("expected low net margin warning, got %+v", low.Warnings)
	}
	if !hasWarning(low.Warnings, "profit-variance", models.WarningWarn) {
		t.Errorf("expected negative variance warning, got %+v", low.Warnings)
	}

	// High margin + positive variance is informational.
	high := Calculate(models.ForecastState{
		RevenueTarget: 100000,
		ProfitTarget:  10000,
	}, cfg)
	if !hasWarning(high.Warnings, "net-margin-high", models.WarningInfo) {
		t.Errorf("expected high net margin info, got %+v", high.Warnings)
	}
	if !hasWarning(high.Warnings, "profit-variance", models.WarningInfo) {
		t.Errorf("expected positive variance info, got %+v", high.Warnings)
	}

	// One expense-growth warning per offending category.
	growth := Calculate(models.ForecastState{
		RevenueTarget: 100000,
		OpExCategories: []models.OpExCategory{
			{ID: "ads", Name: "Advertising", PriorYearAmount: 1000, ForecastAmount: 1600, GrowthPercent: 60},
			{ID: "rent", Name: "Rent", PriorYearAmount: 1000, ForecastAmount: 1050, GrowthPercent: 5},
			{ID: "travel", Name: "Travel", PriorYearAmount: 2000, ForecastAmount: 3400, GrowthPercent: 70},
		},
	}, cfg)
	if !hasWarning(growth.Warnings, "opex-growth-ads", models.WarningWarn) ||
		!hasWarning(growth.Warnings, "opex-growth-travel", models.WarningWarn) {
		t.Errorf("expected per-category growth warnings, got %+v", growth.Warnings)
	}
	if hasWarning(growth.Warnings, "opex-growth-rent", models.WarningWarn) {
		t.Errorf("rent should not trigger a growth warning: %+v", growth.Warnings)
	}

	// No revenue, no margin warnings.
	empty := Calculate(models.ForecastState{}, cfg)
	for _, w := range empty.Warnings {
		if w.Category == models.WarningCategoryMargin {
			t.Errorf("unexpected margin warning with zero revenue: %+v", w)
		}
	}
}

func hasWarning(warnings []models.ForecastWarning, id, wtype string) bool {
	for _, w := range warnings {
		if w.ID == id && w.Type == wtype {
			return true
		}
	}
	return false
}
