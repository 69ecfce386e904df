package core

import (
	"testing"
	"time"

	"github.com/localedge/growthplan/pkg/models"
)

var fixedNow = time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

func defaultConfig() models.PlannerConfig {
	return models.PlannerConfig{
		SimilarityThreshold:     0.82,
		FoundationAuthorityGate: 40,
		FoundationCriticalGate:  35,
		OutDir:                  "plans",
	}
}

func TestFoundationScore(t *testing.T) {
	builder := NewPlanBuilder(defaultConfig(), fixedNow)

	if got := builder.FoundationScore(nil); got != 100 {
		t.Errorf("nil analysis should score 100, got %d", got)
	}

	// Two missing service pages plus the full essential checklist.
	analysis := NewGapAnalyzer().Analyze(nil, nil, testBusiness())
	if got := builder.FoundationScore(analysis); got != 39 {
		t.Errorf("expected foundation score 39 for a no-website business, got %d", got)
	}
}

func TestFoundationScore_NeverNegative(t *testing.T) {
	builder := NewPlanBuilder(defaultConfig(), fixedNow)

	analysis := &models.GapAnalysis{}
	for i := 0; i < 20; i++ {
		analysis.Gaps = append(analysis.Gaps, models.PageGap{
			Role:             models.RoleMoney,
			Priority:         models.PriorityCritical,
			BlocksConversion: true,
		})
	}

	if got := builder.FoundationScore(analysis); got != 0 {
		t.Errorf("score should clamp at 0, got %d", got)
	}
}

func TestFoundationScore_StructuralIssuePenalty(t *testing.T) {
	builder := NewPlanBuilder(defaultConfig(), fixedNow)
	analysis := &models.GapAnalysis{
		StructuralIssues: []models.StructuralIssue{
			{Kind: models.IssueOrphanPage, Path: "/a"},
			{Kind: models.IssueDuplicateTitle, Path: "/b"},
		},
	}
	if got := builder.FoundationScore(analysis); got != 94 {
		t.Errorf("expected 94 with two structural issues, got %d", got)
	}
}

func TestBuild_TwelveMonths(t *testing.T) {
	business := testBusiness()
	analysis := NewGapAnalyzer().Analyze(nil, nil, business)
	months := NewPlanBuilder(defaultConfig(), fixedNow).Build(analysis, business, nil)

	if len(months) != 12 {
		t.Fatalf("expected 12 months, got %d", len(months))
	}
	for i, m := range months {
		if m.Month != i+1 {
			t.Errorf("month %d carries index %d", i+1, m.Month)
		}
		if len(m.Tasks) == 0 {
			t.Errorf("month %d is empty", m.Month)
		}
	}
}

func TestBuild_FoundationMonthTargetsBlockersFirst(t *testing.T) {
	business := testBusiness()
	analysis := NewGapAnalyzer().Analyze(nil, nil, business)
	months := NewPlanBuilder(defaultConfig(), fixedNow).Build(analysis, business, nil)

	month1 := months[0]
	if month1.Theme != "Foundation & Conversion Fixes" {
		t.Fatalf("unexpected month-1 theme %q", month1.Theme)
	}
	if len(month1.Tasks) != 3 {
		t.Fatalf("expected 3 month-1 tasks, got %d", len(month1.Tasks))
	}

	// Conversion blocker first, then the critical money gap.
	if month1.Tasks[0].Title != "Contact Acme Plumbing" {
		t.Errorf("expected the contact blocker first, got %q", month1.Tasks[0].Title)
	}
	if month1.Tasks[1].Title != "Emergency Plumbing in Slough" {
		t.Errorf("expected the critical money gap second, got %q", month1.Tasks[1].Title)
	}
	if month1.Tasks[1].Role != models.RoleMoney || month1.Tasks[1].Intent != models.IntentBuy {
		t.Errorf("money gap task has wrong role or intent: %+v", month1.Tasks[1])
	}
}

func TestBuild_SlugsUniqueAcrossPlan(t *testing.T) {
	business := testBusiness()
	analysis := NewGapAnalyzer().Analyze(nil, nil, business)
	months := NewPlanBuilder(defaultConfig(), fixedNow).Build(analysis, business, nil)

	seen := make(map[string]string)
	for _, m := range months {
		for _, task := range m.Tasks {
			slug := NormalizeSlug(task.Slug)
			if owner, dup := seen[slug]; dup {
				t.Errorf("slug %q appears in both %s and %s", slug, owner, task.ID)
			}
			seen[slug] = task.ID
		}
	}
}

func TestBuild_GapsConsumedOnce(t *testing.T) {
	business := testBusiness()
	analysis := NewGapAnalyzer().Analyze(nil, nil, business)
	months := NewPlanBuilder(defaultConfig(), fixedNow).Build(analysis, business, nil)

	contact := 0
	for _, m := range months {
		for _, task := range m.Tasks {
			if task.Title == "Contact Acme Plumbing" {
				contact++
			}
		}
	}
	if contact != 1 {
		t.Errorf("the contact gap should produce exactly one task, got %d", contact)
	}
}

func TestBuild_AuthorityGatedOutByLowFoundation(t *testing.T) {
	business := testBusiness()
	analysis := NewGapAnalyzer().Analyze(nil, nil, business)

	// Foundation 39 sits below the default authority gate of 40.
	months := NewPlanBuilder(defaultConfig(), fixedNow).Build(analysis, business, nil)
	for _, m := range months[6:10] {
		if m.Theme != "Support & Trust Content" {
			t.Errorf("month %d should be extended support, got theme %q", m.Month, m.Theme)
		}
		for _, task := range m.Tasks {
			if task.Role == models.RoleAuthority {
				t.Errorf("month %d carries an authority task despite the gate: %+v", m.Month, task)
			}
		}
	}
}

func TestBuild_AuthorityPhaseWhenHealthy(t *testing.T) {
	business := testBusiness()

	// A healthy site: no gaps at all.
	months := NewPlanBuilder(defaultConfig(), fixedNow).Build(&models.GapAnalysis{}, business, nil)

	month7 := months[6]
	if month7.Theme != "Authority & Seasonal" {
		t.Fatalf("expected authority theme for month 7, got %q", month7.Theme)
	}
	hasAuthority := false
	for _, task := range month7.Tasks {
		if task.Role == models.RoleAuthority {
			hasAuthority = true
			if task.Title != "The 2026 Guide to Emergency Plumbing" {
				t.Errorf("unexpected authority title %q", task.Title)
			}
		}
	}
	if !hasAuthority {
		t.Error("month 7 should carry an authority task when the foundation is healthy")
	}
}

func TestBuild_RetrospectiveMonth(t *testing.T) {
	business := testBusiness()
	months := NewPlanBuilder(defaultConfig(), fixedNow).Build(&models.GapAnalysis{}, business, nil)

	month12 := months[11]
	if month12.Theme != "Review & Retrospective" {
		t.Fatalf("unexpected month-12 theme %q", month12.Theme)
	}
	if len(month12.Tasks) != 2 {
		t.Fatalf("expected 2 month-12 tasks, got %d", len(month12.Tasks))
	}
	if month12.Tasks[0].Title != "Acme Plumbing: Our 2026 in Review" {
		t.Errorf("unexpected review title %q", month12.Tasks[0].Title)
	}
	if month12.Tasks[0].Role != models.RoleTrust {
		t.Errorf("review task should be trust-role, got %s", month12.Tasks[0].Role)
	}
}

func TestBuild_NoValidServices(t *testing.T) {
	business := &models.BusinessRealityModel{Name: "Acme", CoreServices: []string{"services"}}
	months := NewPlanBuilder(defaultConfig(), fixedNow).Build(&models.GapAnalysis{}, business, nil)

	if len(months) != 12 {
		t.Fatalf("expected 12 months, got %d", len(months))
	}
	for _, m := range months {
		if len(m.Tasks) != 0 {
			t.Errorf("month %d should be empty without valid services, got %d tasks", m.Month, len(m.Tasks))
		}
	}
}

func TestBuild_SupportTasksWiredToMoney(t *testing.T) {
	business := testBusiness()
	analysis := NewGapAnalyzer().Analyze(nil, nil, business)
	months := NewPlanBuilder(defaultConfig(), fixedNow).Build(analysis, business, nil)

	for _, m := range months {
		for _, task := range m.Tasks {
			if task.Role != models.RoleMoney && task.SupportsSlug == "" {
				t.Errorf("task %s (%s) in month %d has no support reference", task.ID, task.Title, m.Month)
			}
		}
	}
}

func TestWordCount_ConfigOverride(t *testing.T) {
	cfg := defaultConfig()
	cfg.DefaultWordCounts = map[string]int{"money": 2000}
	business := testBusiness()

	months := NewPlanBuilder(cfg, fixedNow).Build(&models.GapAnalysis{}, business, nil)

	checkedMoney, checkedSupport := false, false
	for _, m := range months {
		for _, task := range m.Tasks {
			switch task.Role {
			case models.RoleMoney:
				checkedMoney = true
				if task.WordCount != 2000 {
					t.Errorf("money task %s word count %d, want override 2000", task.ID, task.WordCount)
				}
			case models.RoleSupport:
				checkedSupport = true
				if task.WordCount != 900 {
					t.Errorf("support task %s word count %d, want default 900", task.ID, task.WordCount)
				}
			}
		}
	}
	if !checkedMoney || !checkedSupport {
		t.Error("plan exercised neither a money nor a support task")
	}
}
