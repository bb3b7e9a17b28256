package forecast

import (
	"sort"

	"github.com/google/uuid"

	"growthlens/pkg/core/config"
	"growthlens/pkg/models"
)

const placeholderRole = "Team Member"

// ApplyContext maps a persisted business-context snapshot onto the
// forecast state. The transform is one-way and partial: absent context
// fields leave the existing state untouched.
func ApplyContext(st *models.ForecastState, ctx models.BusinessContext, cfg config.ForecastConfig) {
	if ctx.RevenueTarget != nil {
		st.RevenueTarget = *ctx.RevenueTarget
	}
	if ctx.ProfitTarget != nil {
		st.ProfitTarget = *ctx.ProfitTarget
	}
	if ctx.FiscalYear != nil {
		st.FiscalYear = *ctx.FiscalYear
	}

	if len(ctx.CurrentTeam) > 0 {
		team := make([]models.TeamMember, 0, len(ctx.CurrentTeam))
		for _, m := range ctx.CurrentTeam {
			member := models.TeamMember{
				ID:             m.ID,
				Name:           m.Name,
				Role:           m.JobTitle,
				Classification: m.Classification,
				IsNewHire:      false,
				FromXero:       true,
			}
			if member.ID == "" {
				member.ID = uuid.NewString()
			}
			if member.Role == "" {
				member.Role = placeholderRole
			}
			if member.Classification == "" {
				member.Classification = models.ClassificationOpEx
			}
			if m.AnnualSalary != nil {
				member.AnnualSalary = *m.AnnualSalary
			}
			team = append(team, member)
		}
		st.ExistingTeam = team
	}

	if len(ctx.PriorYearOpEx) > 0 {
		names := make([]string, 0, len(ctx.PriorYearOpEx))
		for name := range ctx.PriorYearOpEx {
			names = append(names, name)
		}
		sort.Strings(names)

		cats := make([]models.OpExCategory, 0, len(names))
		for _, name := range names {
			prior := ctx.PriorYearOpEx[name]
			cats = append(cats, models.OpExCategory{
				ID:              uuid.NewString(),
				Name:            name,
				PriorYearAmount: prior,
				ForecastAmount:  prior * (1 + cfg.DefaultOpExGrowth),
				GrowthPercent:   cfg.DefaultOpExGrowth * 100,
			})
		}
		st.OpExGrowthRate = cfg.DefaultOpExGrowth
		st.OpExCategories = applyMateriality(cats, cfg.MaterialityThreshold)
	}
}

// applyMateriality flags each category as material when its prior-year
// amount is at least the threshold share of the total. Immaterial
// categories are grouped out of the main display list but still count
// toward every total.
func applyMateriality(cats []models.OpExCategory, threshold float64) []models.OpExCategory {
	var total float64
	for _, cat := range cats {
		total += cat.PriorYearAmount
	}
	for i := range cats {
		material := total > 0 && cats[i].PriorYearAmount >= total*threshold
		cats[i].IsMaterial = material
		cats[i].IsGrouped = !material
	}
	return cats
}

// MaterialCategories returns only the categories shown individually.
func MaterialCategories(cats []models.OpExCategory) []models.OpExCategory {
	out := make([]models.OpExCategory, 0, len(cats))
	for _, cat := range cats {
		if cat.IsMaterial {
			out = append(out, cat)
		}
	}
	return out
}
