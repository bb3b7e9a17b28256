// Package projection renders multi-year views of a Year-1 forecast by
// compounding fixed annual growth assumptions. It is a display-layer
// transform: the stored forecast state is never mutated.
package projection

import (
	"math"

	"growthlens/pkg/core/config"
	"growthlens/pkg/core/forecast"
	"growthlens/pkg/models"
)

// InvestmentNote labels why Year 2+ views carry zero investment cost.
const InvestmentNote = "Year 1 investments only"

// YearView is a fully recomputed P&L for one projected year. Margins
// and variance are derived from the scaled inputs, never copied from
// the Year-1 output.
type YearView struct {
	Year    int  `json:"year"`
	Monthly bool `json:"monthly"`

	RevenueTarget float64 `json:"revenue_target"`
	ProfitTarget  float64 `json:"profit_target"`

	ExistingTeamCost float64 `json:"existing_team_cost"`
	NewHireCost      float64 `json:"new_hire_cost"`
	TotalTeamCost    float64 `json:"total_team_cost"`
	COGSTeamCost     float64 `json:"cogs_team_cost"`
	OpExTeamCost     float64 `json:"opex_team_cost"`

	OpExTotal float64 `json:"opex_total"`

	CapExInvestment float64 `json:"capex_investment"`
	OpExInvestment  float64 `json:"opex_investment"`
	TotalInvestment float64 `json:"total_investment"`
	InvestmentNote  string  `json:"investment_note,omitempty"`

	GrossProfit   float64 `json:"gross_profit"`
	GrossMargin   float64 `json:"gross_margin"`
	TotalExpenses float64 `json:"total_expenses"`
	NetProfit     float64 `json:"net_profit"`
	NetMargin     float64 `json:"net_margin"`

	Variance        float64 `json:"variance"`
	VariancePercent float64 `json:"variance_percent"`
}

// ProjectYear builds the view for year N (N >= 1) from the Year-1 state
// and its derived calculations. Revenue and profit targets compound at
// the revenue growth rate, salary costs at the salary growth rate and
// OpEx at the cost inflation rate; investments apply in Year 1 only.
func ProjectYear(state models.ForecastState, calcs models.ForecastCalculations, year int, cfg config.ForecastConfig) YearView {
	if year < 1 {
		year = 1
	}
	revenueScale := math.Pow(1+cfg.RevenueGrowthRate, float64(year-1))
	salaryScale := math.Pow(1+cfg.SalaryGrowthRate, float64(year-1))
	costScale := math.Pow(1+cfg.CostInflationRate, float64(year-1))

	v := YearView{
		Year:          year,
		RevenueTarget: state.RevenueTarget * revenueScale,
		ProfitTarget:  state.ProfitTarget * revenueScale,

		ExistingTeamCost: calcs.ExistingTeamCost * salaryScale,
		NewHireCost:      calcs.NewHireCost * salaryScale,
		TotalTeamCost:    calcs.TotalTeamCost * salaryScale,
		COGSTeamCost:     calcs.COGSTeamCost * salaryScale,
		OpExTeamCost:     calcs.OpExTeamCost * salaryScale,

		OpExTotal: calcs.OpExForecastTotal * costScale,
	}

	if year == 1 {
		v.CapExInvestment = calcs.CapExInvestmentTotal
		v.OpExInvestment = calcs.OpExInvestmentTotal
		v.TotalInvestment = calcs.TotalInvestment
	} else {
		v.InvestmentNote = InvestmentNote
	}

	v.GrossProfit = v.RevenueTarget - v.COGSTeamCost
	if v.RevenueTarget != 0 {
		v.GrossMargin = v.GrossProfit / v.RevenueTarget * 100
	}
	v.TotalExpenses = v.OpExTeamCost + v.OpExTotal + v.OpExInvestment
	v.NetProfit = v.GrossProfit - v.TotalExpenses
	if v.RevenueTarget != 0 {
		v.NetMargin = v.NetProfit / v.RevenueTarget * 100
	}
	v.Variance = v.NetProfit - v.ProfitTarget
	if v.ProfitTarget != 0 {
		v.VariancePercent = v.Variance / v.ProfitTarget * 100
	}
	return v
}

// MonthlyView divides every annual currency figure by 12. It is a pure
// display transform applied after year scaling; percentages are
// unchanged and no monthly growth compounding occurs.
func MonthlyView(v YearView) YearView {
	out := v
	out.Monthly = true
	out.RevenueTarget = v.RevenueTarget / 12
	out.ProfitTarget = v.ProfitTarget / 12
	out.ExistingTeamCost = v.ExistingTeamCost / 12
	out.NewHireCost = v.NewHireCost / 12
	out.TotalTeamCost = v.TotalTeamCost / 12
	out.COGSTeamCost = v.COGSTeamCost / 12
	out.OpExTeamCost = v.OpExTeamCost / 12
	out.OpExTotal = v.OpExTotal / 12
	out.CapExInvestment = v.CapExInvestment / 12
	out.OpExInvestment = v.OpExInvestment / 12
	out.TotalInvestment = v.TotalInvestment / 12
	out.GrossProfit = v.GrossProfit / 12
	out.TotalExpenses = v.TotalExpenses / 12
	out.NetProfit = v.NetProfit / 12
	out.Variance = v.Variance / 12
	return out
}

// ProjectSelected renders the view for every selected year in order.
func ProjectSelected(state models.ForecastState, cfg config.ForecastConfig) []YearView {
	calcs := forecast.Calculate(state, cfg)
	views := make([]YearView, 0, len(state.YearsSelected))
	for _, year := range state.YearsSelected {
		views = append(views, ProjectYear(state, calcs, year, cfg))
	}
	return views
}
