package models

// Classification of a salary cost line.
const (
	ClassificationCOGS = "cogs"
	ClassificationOpEx = "opex"
)

// Investment types.
const (
	InvestmentCapEx = "capex"
	InvestmentOpEx  = "opex"
)

// Wizard steps, in order.
const (
	StepSetup       = "setup"
	StepTeam        = "team"
	StepCosts       = "costs"
	StepInvestments = "investments"
	StepReview      = "review"
)

// TeamMember is a salary cost line, either an existing employee or a
// planned hire. Planned hires always carry IsNewHire=true; StartMonth
// ("YYYY-MM") prorates the first year's cost when set.
type TeamMember struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Role           string  `json:"role"`
	AnnualSalary   float64 `json:"annual_salary"`
	Classification string  `json:"classification"` // "cogs" | "opex"
	StartMonth     string  `json:"start_month,omitempty"`
	IsNewHire      bool    `json:"is_new_hire"`
	FromXero       bool    `json:"from_xero"`
}

// OpExCategory is one operating-expense line with a prior-year baseline
// and a forecast amount. IsOverride flips to true once the user edits
// the forecast directly; overridden categories no longer track the
// default growth rate.
type OpExCategory struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	PriorYearAmount float64 `json:"prior_year_amount"`
	ForecastAmount  float64 `json:"forecast_amount"`
	GrowthPercent   float64 `json:"growth_percent"`
	IsOverride      bool    `json:"is_override"`
	Trend           string  `json:"trend,omitempty"`
	IsMaterial      bool    `json:"is_material"`
	IsGrouped       bool    `json:"is_grouped"`
}

// Investment is a one-off Year-1 spend. Year 2+ projections always show
// zero investment cost.
type Investment struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Amount       float64 `json:"amount"`
	Type         string  `json:"type"` // "capex" | "opex"
	Timing       string  `json:"timing,omitempty"`
	InitiativeID string  `json:"initiative_id,omitempty"`
}

// ForecastState is the full wizard state. It is owned by a forecast
// store and mutated only through the store's action API; persistence is
// the caller's concern.
type ForecastState struct {
	RevenueTarget float64 `json:"revenue_target"`
	ProfitTarget  float64 `json:"profit_target"`
	FiscalYear    int     `json:"fiscal_year"`
	YearsSelected []int   `json:"years_selected"`

	ExistingTeam []TeamMember `json:"existing_team"`
	PlannedHires []TeamMember `json:"planned_hires"`

	OpExCategories []OpExCategory `json:"opex_categories"`
	OpExGrowthRate float64        `json:"opex_growth_rate"`

	Investments []Investment `json:"investments"`

	CompletedSteps map[string]bool `json:"completed_steps"`
	CurrentStep    string          `json:"current_step"`
}

// Warning severities and categories.
const (
	WarningError = "error"
	WarningWarn  = "warning"
	WarningInfo  = "info"

	WarningCategoryMargin  = "margin"
	WarningCategoryExpense = "expense"
	WarningCategoryMissing = "missing"
	WarningCategoryTarget  = "target"
)

// ForecastWarning is one rule-derived flag. Warnings are regenerated
// from scratch on every recalculation, never accumulated.
type ForecastWarning struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Category string `json:"category"`
	Message  string `json:"message"`
	Field    string `json:"field,omitempty"`
}

// ForecastCalculations is the derived view of a ForecastState. It is
// recomputed on every state change and never stored.
type ForecastCalculations struct {
	ExistingTeamCost float64 `json:"existing_team_cost"`
	NewHireCost      float64 `json:"new_hire_cost"`
	TotalTeamCost    float64 `json:"total_team_cost"`
	COGSTeamCost     float64 `json:"cogs_team_cost"`
	OpExTeamCost     float64 `json:"opex_team_cost"`

	OpExPriorTotal    float64 `json:"opex_prior_total"`
	OpExForecastTotal float64 `json:"opex_forecast_total"`
	OpExGrowthDelta   float64 `json:"opex_growth_delta"`

	CapExInvestmentTotal float64 `json:"capex_investment_total"`
	OpExInvestmentTotal  float64 `json:"opex_investment_total"`
	TotalInvestment      float64 `json:"total_investment"`

	GrossProfit   float64 `json:"gross_profit"`
	GrossMargin   float64 `json:"gross_margin"`
	TotalExpenses float64 `json:"total_expenses"`
	NetProfit     float64 `json:"net_profit"`
	NetMargin     float64 `json:"net_margin"`

	Variance        float64 `json:"variance"`
	VariancePercent float64 `json:"variance_percent"`

	Warnings []ForecastWarning `json:"warnings"`
}

// ContextTeamMember is one current-team entry in the external business
// context payload. Field names follow the persisted context shape.
type ContextTeamMember struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	JobTitle       string   `json:"job_title"`
	AnnualSalary   *float64 `json:"annual_salary"`
	Classification string   `json:"classification"`
}

// BusinessContext is the persisted goals/team/historical-P&L snapshot
// the forecast wizard hydrates from. All fields are optional; absent
// fields leave the corresponding state untouched.
type BusinessContext struct {
	RevenueTarget *float64           `json:"revenue_target"`
	ProfitTarget  *float64           `json:"profit_target"`
	FiscalYear    *int               `json:"fiscal_year"`
	CurrentTeam   []ContextTeamMember `json:"current_team"`
	// PriorYearOpEx maps category name to prior-year spend.
	PriorYearOpEx map[string]float64 `json:"prior_year_opex"`
}
