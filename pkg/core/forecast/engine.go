// Package forecast implements the live forecast calculation engine: a
// wizard state store plus a pure derivation of all P&L aggregates,
// margins, variance-from-target and rule-based warnings.
package forecast

import (
	"fmt"
	"strconv"
	"strings"

	"growthlens/pkg/core/config"
	"growthlens/pkg/models"
)

// Calculate derives ForecastCalculations from a state snapshot. It is a
// pure function: no side effects, deterministic, and guarded so that no
// output field is ever NaN or Inf.
func Calculate(state models.ForecastState, cfg config.ForecastConfig) models.ForecastCalculations {
	var c models.ForecastCalculations

	// 1. Existing team cost: full annual salaries, no proration.
	for _, m := range state.ExistingTeam {
		c.ExistingTeamCost += m.AnnualSalary
	}

	// 2. Planned hires prorate by months remaining in the fiscal year.
	for _, m := range state.PlannedHires {
		c.NewHireCost += m.AnnualSalary * prorationFactor(m.StartMonth, state.FiscalYear)
	}
	c.TotalTeamCost = c.ExistingTeamCost + c.NewHireCost

	// 3. Classification split over existing and planned combined.
	for _, m := range state.ExistingTeam {
		addClassified(&c, m.Classification, m.AnnualSalary)
	}
	for _, m := range state.PlannedHires {
		addClassified(&c, m.Classification, m.AnnualSalary*prorationFactor(m.StartMonth, state.FiscalYear))
	}

	// 4. OpEx category totals.
	for _, cat := range state.OpExCategories {
		c.OpExPriorTotal += cat.PriorYearAmount
		c.OpExForecastTotal += cat.ForecastAmount
	}
	c.OpExGrowthDelta = c.OpExForecastTotal - c.OpExPriorTotal

	// 5. Investment totals.
	for _, inv := range state.Investments {
		switch inv.Type {
		case models.InvestmentCapEx:
			c.CapExInvestmentTotal += inv.Amount
		default:
			c.OpExInvestmentTotal += inv.Amount
		}
	}
	c.TotalInvestment = c.CapExInvestmentTotal + c.OpExInvestmentTotal

	// 6-8. P&L lines with zero guards.
	c.GrossProfit = state.RevenueTarget - c.COGSTeamCost
	if state.RevenueTarget != 0 {
		c.GrossMargin = c.GrossProfit / state.RevenueTarget * 100
	}
	c.TotalExpenses = c.OpExTeamCost + c.OpExForecastTotal + c.OpExInvestmentTotal
	c.NetProfit = c.GrossProfit - c.TotalExpenses
	if state.RevenueTarget != 0 {
		c.NetMargin = c.NetProfit / state.RevenueTarget * 100
	}
	c.Variance = c.NetProfit - state.ProfitTarget
	if state.ProfitTarget != 0 {
		c.VariancePercent = c.Variance / state.ProfitTarget * 100
	}

	c.Warnings = deriveWarnings(state, c, cfg)
	return c
}

func addClassified(c *models.ForecastCalculations, classification string, cost float64) {
	if classification == models.ClassificationCOGS {
		c.COGSTeamCost += cost
	} else {
		c.OpExTeamCost += cost
	}
}

// prorationFactor returns the fraction of an annual salary that falls
// inside the fiscal window [fiscalYear-1 Jul 1, fiscalYear Jun 30].
// An unset or malformed start month means the full year applies.
func prorationFactor(startMonth string, fiscalYear int) float64 {
	if startMonth == "" || fiscalYear == 0 {
		return 1
	}
	parts := strings.SplitN(startMonth, "-", 2)
	if len(parts) != 2 {
		return 1
	}
	year, errY := strconv.Atoi(parts[0])
	month, errM := strconv.Atoi(parts[1])
	if errY != nil || errM != nil || month < 1 || month > 12 {
		return 1
	}

	start := year*12 + (month - 1)
	fyStart := (fiscalYear-1)*12 + 6 // July of the prior calendar year
	fyEnd := fiscalYear*12 + 5       // June of the fiscal year

	if start > fyEnd {
		return 0
	}
	if start <= fyStart {
		return 1
	}
	monthsRemaining := fyEnd - start + 1
	return float64(monthsRemaining) / 12
}

// deriveWarnings evaluates every warning rule independently and returns
// all that apply. The slice is rebuilt from scratch on each derivation.
func deriveWarnings(state models.ForecastState, c models.ForecastCalculations, cfg config.ForecastConfig) []models.ForecastWarning {
	warnings := make([]models.ForecastWarning, 0, 4)

	if state.RevenueTarget > 0 && c.NetMargin < cfg.LowNetMarginPercent {
		warnings = append(warnings, models.ForecastWarning{
			ID:       "net-margin-low",
			Type:     models.WarningWarn,
			Category: models.WarningCategoryMargin,
			Message:  fmt.Sprintf("Net margin of %.1f%% is below %.0f%% — review costs or revenue target", c.NetMargin, cfg.LowNetMarginPercent),
			Field:    "net_margin",
		})
	}
	if state.RevenueTarget > 0 && c.NetMargin > cfg.HighNetMarginPercent {
		warnings = append(warnings, models.ForecastWarning{
			ID:       "net-margin-high",
			Type:     models.WarningInfo,
			Category: models.WarningCategoryMargin,
			Message:  fmt.Sprintf("Net margin of %.1f%% is unusually high — check that all costs are captured", c.NetMargin),
			Field:    "net_margin",
		})
	}
	if state.ProfitTarget > 0 && abs(c.VariancePercent) > cfg.VariancePercentLimit {
		wtype := models.WarningInfo
		msg := fmt.Sprintf("Forecast profit is %.1f%% above target", c.VariancePercent)
		if c.Variance < 0 {
			wtype = models.WarningWarn
			msg = fmt.Sprintf("Forecast profit is %.1f%% below target", -c.VariancePercent)
		}
		warnings = append(warnings, models.ForecastWarning{
			ID:       "profit-variance",
			Type:     wtype,
			Category: models.WarningCategoryTarget,
			Message:  msg,
			Field:    "profit_target",
		})
	}
	for _, cat := range state.OpExCategories {
		if cat.PriorYearAmount > 0 && cat.GrowthPercent > cfg.ExpenseGrowthPercent {
			warnings = append(warnings, models.ForecastWarning{
				ID:       "opex-growth-" + cat.ID,
				Type:     models.WarningWarn,
				Category: models.WarningCategoryExpense,
				Message:  fmt.Sprintf("%s is forecast to grow %.1f%% over prior year", cat.Name, cat.GrowthPercent),
				Field:    "opex_categories",
			})
		}
	}
	return warnings
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
