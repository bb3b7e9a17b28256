package forecast

import (
	"math"
	"testing"

	"growthlens/pkg/models"
)

func TestStoreActionsRecompute(t *testing.T) {
	s := NewStore(forecastCfg())

	var notified int
	s.OnChange(func(models.ForecastState, models.ForecastCalculations) { notified++ })

	s.SetTargets(400000, 80000)
	s.SetFiscalYear(2025)
	id := s.AddPlannedHire(models.TeamMember{Name: "Engineer", AnnualSalary: 100000, Classification: models.ClassificationCOGS})

	if id == "" {
		t.Fatal("expected generated hire ID")
	}
	state := s.State()
	if len(state.PlannedHires) != 1 || !state.PlannedHires[0].IsNewHire {
		t.Fatalf("planned hire not recorded correctly: %+v", state.PlannedHires)
	}
	if c := s.Calculations(); c.NewHireCost != 100000 {
		t.Errorf("new hire cost %f, want 100000", c.NewHireCost)
	}

	s.RemovePlannedHire(id)
	if c := s.Calculations(); c.NewHireCost != 0 {
		t.Errorf("new hire cost after removal %f, want 0", c.NewHireCost)
	}
	if notified != 4 {
		t.Errorf("expected 4 change notifications, got %d", notified)
	}
}

func TestStoreStateIsolation(t *testing.T) {
	s := NewStore(forecastCfg())
	s.AddInvestment(models.Investment{Name: "CRM", Amount: 9000, Type: models.InvestmentOpEx})

	state := s.State()
	state.Investments[0].Amount = 999999

	if got := s.Calculations().OpExInvestmentTotal; got != 9000 {
		t.Errorf("external mutation leaked into store: total %f", got)
	}
}

func TestSetOpExGrowthRateRespectsOverrides(t *testing.T) {
	s := NewStore(forecastCfg())
	s.SetOpExCategories([]models.OpExCategory{
		{ID: "rent", Name: "Rent", PriorYearAmount: 10000, ForecastAmount: 10500, GrowthPercent: 5},
		{ID: "soft", Name: "Software", PriorYearAmount: 5000, ForecastAmount: 5250, GrowthPercent: 5},
	})

	// Manual edit pins the category.
	override := 9000.0
	s.UpdateOpExCategory("soft", OpExCategoryPatch{ForecastAmount: &override})

	s.SetOpExGrowthRate(0.10)

	state := s.State()
	for _, cat := range state.OpExCategories {
		switch cat.ID {
		case "rent":
			if math.Abs(cat.ForecastAmount-11000) > 0.0001 {
				t.Errorf("rent forecast %f, want 11000", cat.ForecastAmount)
			}
			if cat.IsOverride {
				t.Error("rent should not be flagged as override")
			}
		case "soft":
			if cat.ForecastAmount != 9000 {
				t.Errorf("software forecast %f, want pinned 9000", cat.ForecastAmount)
			}
			if !cat.IsOverride {
				t.Error("software should be flagged as override")
			}
		}
	}
}

func TestCompleteStepAndCurrentStep(t *testing.T) {
	s := NewStore(forecastCfg())
	s.SetCurrentStep(models.StepTeam)
	s.CompleteStep(models.StepSetup)

	state := s.State()
	if state.CurrentStep != models.StepTeam {
		t.Errorf("current step %q, want %q", state.CurrentStep, models.StepTeam)
	}
	if !state.CompletedSteps[models.StepSetup] {
		t.Error("setup step should be completed")
	}
}
