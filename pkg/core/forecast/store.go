package forecast

import (
	"sync"

	"github.com/google/uuid"

	"growthlens/pkg/core/config"
	"growthlens/pkg/models"
)

// Store owns a ForecastState and recomputes the derived calculations on
// every mutation. All mutations go through the action methods; reads
// return copies so callers can never alias internal state. Writes are
// last-write-wins.
type Store struct {
	mu    sync.RWMutex
	cfg   config.ForecastConfig
	state models.ForecastState
	calcs models.ForecastCalculations

	onChange func(models.ForecastState, models.ForecastCalculations)
}

// NewStore creates a store with empty defaults.
func NewStore(cfg config.ForecastConfig) *Store {
	s := &Store{
		cfg: cfg,
		state: models.ForecastState{
			YearsSelected:  []int{1},
			OpExGrowthRate: cfg.DefaultOpExGrowth,
			CompletedSteps: map[string]bool{},
			CurrentStep:    models.StepSetup,
		},
	}
	s.calcs = Calculate(s.state, s.cfg)
	return s
}

// OnChange registers a callback invoked after every state mutation with
// the new state and calculations. A single subscriber is supported.
func (s *Store) OnChange(fn func(models.ForecastState, models.ForecastCalculations)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// State returns a copy of the current state.
func (s *Store) State() models.ForecastState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneState(s.state)
}

// Calculations returns the derived figures for the current state.
func (s *Store) Calculations() models.ForecastCalculations {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calcs
}

// mutate applies fn to a copy of the state, swaps it in and recomputes.
func (s *Store) mutate(fn func(*models.ForecastState)) {
	s.mu.Lock()
	next := cloneState(s.state)
	fn(&next)
	s.state = next
	s.calcs = Calculate(s.state, s.cfg)
	cb := s.onChange
	state, calcs := cloneState(s.state), s.calcs
	s.mu.Unlock()

	if cb != nil {
		cb(state, calcs)
	}
}

// SetTargets updates the Year-1 revenue and profit targets.
func (s *Store) SetTargets(revenue, profit float64) {
	s.mutate(func(st *models.ForecastState) {
		st.RevenueTarget = revenue
		st.ProfitTarget = profit
	})
}

// SetFiscalYear sets the anchor year for Year-1.
func (s *Store) SetFiscalYear(year int) {
	s.mutate(func(st *models.ForecastState) { st.FiscalYear = year })
}

// SetYearsSelected replaces the set of active multi-year views.
func (s *Store) SetYearsSelected(years []int) {
	s.mutate(func(st *models.ForecastState) {
		st.YearsSelected = append([]int(nil), years...)
	})
}

// SetExistingTeam replaces the existing-team roster.
func (s *Store) SetExistingTeam(team []models.TeamMember) {
	s.mutate(func(st *models.ForecastState) {
		st.ExistingTeam = append([]models.TeamMember(nil), team...)
	})
}

// AddPlannedHire appends a planned hire. The IsNewHire flag is forced
// and a fresh ID is assigned when the caller leaves it blank.
func (s *Store) AddPlannedHire(m models.TeamMember) string {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.IsNewHire = true
	s.mutate(func(st *models.ForecastState) {
		st.PlannedHires = append(st.PlannedHires, m)
	})
	return m.ID
}

// RemovePlannedHire deletes the planned hire with the given ID.
func (s *Store) RemovePlannedHire(id string) {
	s.mutate(func(st *models.ForecastState) {
		out := st.PlannedHires[:0]
		for _, m := range st.PlannedHires {
			if m.ID != id {
				out = append(out, m)
			}
		}
		st.PlannedHires = out
	})
}

// UpdatePlannedHire replaces the planned hire with the same ID.
func (s *Store) UpdatePlannedHire(m models.TeamMember) {
	m.IsNewHire = true
	s.mutate(func(st *models.ForecastState) {
		for i := range st.PlannedHires {
			if st.PlannedHires[i].ID == m.ID {
				st.PlannedHires[i] = m
			}
		}
	})
}

// SetOpExCategories replaces the category list and recomputes
// materiality flags against the new prior-year total.
func (s *Store) SetOpExCategories(cats []models.OpExCategory) {
	s.mutate(func(st *models.ForecastState) {
		st.OpExCategories = applyMateriality(append([]models.OpExCategory(nil), cats...), s.cfg.MaterialityThreshold)
	})
}

// OpExCategoryPatch carries the editable fields of a category update.
// A non-nil ForecastAmount marks the category as a manual override.
type OpExCategoryPatch struct {
	Name           *string
	ForecastAmount *float64
	GrowthPercent  *float64
}

// UpdateOpExCategory applies a patch to one category. Editing the
// forecast amount pins the category (IsOverride) so it stops tracking
// the default growth rate; editing the growth percent recomputes the
// forecast from the prior-year amount.
func (s *Store) UpdateOpExCategory(id string, patch OpExCategoryPatch) {
	s.mutate(func(st *models.ForecastState) {
		for i := range st.OpExCategories {
			cat := &st.OpExCategories[i]
			if cat.ID != id {
				continue
			}
			if patch.Name != nil {
				cat.Name = *patch.Name
			}
			if patch.GrowthPercent != nil {
				cat.GrowthPercent = *patch.GrowthPercent
				cat.ForecastAmount = cat.PriorYearAmount * (1 + *patch.GrowthPercent/100)
			}
			if patch.ForecastAmount != nil {
				cat.ForecastAmount = *patch.ForecastAmount
				cat.IsOverride = true
				if cat.PriorYearAmount != 0 {
					cat.GrowthPercent = (cat.ForecastAmount - cat.PriorYearAmount) / cat.PriorYearAmount * 100
				}
			}
		}
	})
}

// SetOpExGrowthRate changes the default growth rate and recomputes the
// forecast amount of every category the user has not overridden.
func (s *Store) SetOpExGrowthRate(rate float64) {
	s.mutate(func(st *models.ForecastState) {
		st.OpExGrowthRate = rate
		for i := range st.OpExCategories {
			cat := &st.OpExCategories[i]
			if cat.IsOverride {
				continue
			}
			cat.ForecastAmount = cat.PriorYearAmount * (1 + rate)
			cat.GrowthPercent = rate * 100
		}
	})
}

// AddInvestment appends a Year-1 investment, assigning an ID if blank.
func (s *Store) AddInvestment(inv models.Investment) string {
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	s.mutate(func(st *models.ForecastState) {
		st.Investments = append(st.Investments, inv)
	})
	return inv.ID
}

// RemoveInvestment deletes the investment with the given ID.
func (s *Store) RemoveInvestment(id string) {
	s.mutate(func(st *models.ForecastState) {
		out := st.Investments[:0]
		for _, inv := range st.Investments {
			if inv.ID != id {
				out = append(out, inv)
			}
		}
		st.Investments = out
	})
}

// UpdateInvestment replaces the investment with the same ID.
func (s *Store) UpdateInvestment(inv models.Investment) {
	s.mutate(func(st *models.ForecastState) {
		for i := range st.Investments {
			if st.Investments[i].ID == inv.ID {
				st.Investments[i] = inv
			}
		}
	})
}

// SetCurrentStep moves the wizard to the given step.
func (s *Store) SetCurrentStep(step string) {
	s.mutate(func(st *models.ForecastState) { st.CurrentStep = step })
}

// CompleteStep marks a wizard step as done.
func (s *Store) CompleteStep(step string) {
	s.mutate(func(st *models.ForecastState) {
		if st.CompletedSteps == nil {
			st.CompletedSteps = map[string]bool{}
		}
		st.CompletedSteps[step] = true
	})
}

// InitializeFromContext hydrates the state from a persisted business
// context snapshot. See ApplyContext for the mapping rules.
func (s *Store) InitializeFromContext(ctx models.BusinessContext) {
	s.mutate(func(st *models.ForecastState) {
		ApplyContext(st, ctx, s.cfg)
	})
}

func cloneState(st models.ForecastState) models.ForecastState {
	out := st
	out.YearsSelected = append([]int(nil), st.YearsSelected...)
	out.ExistingTeam = append([]models.TeamMember(nil), st.ExistingTeam...)
	out.PlannedHires = append([]models.TeamMember(nil), st.PlannedHires...)
	out.OpExCategories = append([]models.OpExCategory(nil), st.OpExCategories...)
	out.Investments = append([]models.Investment(nil), st.Investments...)
	out.CompletedSteps = make(map[string]bool, len(st.CompletedSteps))
	for k, v := range st.CompletedSteps {
		out.CompletedSteps[k] = v
	}
	return out
}
