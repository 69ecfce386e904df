package core

import (
	"testing"

	"github.com/localedge/growthplan/pkg/models"
	"pgregory.net/rapid"
)

func genBusiness(t *rapid.T) *models.BusinessRealityModel {
	services := rapid.SliceOfNDistinct(
		rapid.SampledFrom([]string{
			"Emergency Plumbing", "Boiler Repair", "Drain Cleaning",
			"Bathroom Fitting", "Gutter Cleaning", "Roofing",
		}),
		1, 4, rapid.ID[string],
	).Draw(t, "services")

	return &models.BusinessRealityModel{
		Name:         "Prop Trades",
		CoreServices: services,
		Locations:    []string{rapid.SampledFrom([]string{"Slough", "Reading", ""}).Draw(t, "location")},
		YearsActive:  rapid.IntRange(0, 30).Draw(t, "years"),
		ProofPoints:  []string{"fully insured"},
		ReviewThemes: []string{"tidy work"},
	}
}

func TestBuildAlwaysTwelveMonthsWithUniqueSlugs(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		business := genBusiness(t)
		analysis := NewGapAnalyzer().Analyze(nil, nil, business)
		months := NewPlanBuilder(defaultConfig(), fixedNow).Build(analysis, business, nil)

		if len(months) != 12 {
			t.Fatalf("expected 12 months, got %d", len(months))
		}

		seen := make(map[string]bool)
		for _, m := range months {
			if len(m.Tasks) == 0 {
				t.Fatalf("month %d is empty for services %v", m.Month, business.CoreServices)
			}
			for _, task := range m.Tasks {
				slug := NormalizeSlug(task.Slug)
				if seen[slug] {
					t.Fatalf("duplicate slug %q", slug)
				}
				seen[slug] = true
				if task.Role == models.RoleMoney && task.OwnershipKey == "" {
					t.Fatalf("money task %s lacks an ownership key", task.ID)
				}
			}
		}
	})
}

func TestGenerateAlwaysCadenceComplete(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		business := genBusiness(t)
		p := NewPipeline(defaultConfig(), nil)

		out, err := p.Generate(GenerateInput{Business: business, Start: planStart, Now: fixedNow})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Cadence.IncompleteMonths != 0 {
			t.Fatalf("incomplete months for services %v: %+v", business.CoreServices, out.Cadence.Issues)
		}

		seen := make(map[string]string)
		for _, m := range out.Months {
			for _, task := range m.Tasks {
				slug := NormalizeSlug(task.Slug)
				if prev, ok := seen[slug]; ok {
					t.Fatalf("slug %q held by both %s and %s (services %v)",
						slug, prev, task.ID, business.CoreServices)
				}
				seen[slug] = task.ID
			}
		}
	})
}
