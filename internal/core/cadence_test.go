package core

import (
	"testing"
	"time"

	"github.com/localedge/growthplan/pkg/models"
)

var planStart = time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)

func TestSchedule_FabricatesMissingMonths(t *testing.T) {
	business := testBusiness()
	scheduler := NewCadenceScheduler(defaultConfig(), planStart)

	months, blockers := scheduler.Schedule(nil, business, nil)

	if len(months) != 12 {
		t.Fatalf("expected 12 months, got %d", len(months))
	}
	if len(blockers) != 0 {
		t.Fatalf("unexpected blockers: %+v", blockers)
	}

	for _, m := range months {
		if !m.WasModified {
			t.Errorf("fabricated month %d should be flagged modified", m.Month)
		}
		if len(m.Tasks) != 4 {
			t.Errorf("month %d has %d tasks, want one per slot", m.Month, len(m.Tasks))
		}
		if len(m.Warnings) == 0 {
			t.Errorf("month %d should warn about auto-generated slots", m.Month)
		}

		filled := make(map[models.CadenceSlot]bool)
		for _, task := range m.Tasks {
			filled[task.Slot] = true
			if task.Status != models.StatusScheduled {
				t.Errorf("task %s not marked scheduled", task.ID)
			}
			if task.PublishAt.IsZero() {
				t.Errorf("task %s has no publish date", task.ID)
			}
		}
		for _, slot := range models.CadenceSlots {
			if !filled[slot] {
				t.Errorf("month %d is missing the %s slot", m.Month, slot)
			}
		}
	}
}

func TestSchedule_KeepsClassifiableTasks(t *testing.T) {
	business := testBusiness()
	scheduler := NewCadenceScheduler(defaultConfig(), planStart)

	money := &models.GrowthTask{
		ID: "gt-01-001", Month: 1, Title: "Emergency Plumbing in Slough",
		Slug: "emergency-plumbing-in-slough", Role: models.RoleMoney,
		Service: "Emergency Plumbing", Intent: models.IntentBuy,
	}
	months := []models.GrowthPlanMonth{{Month: 1, Tasks: []*models.GrowthTask{money}}}

	scheduled, _ := scheduler.Schedule(months, business, nil)

	month1 := scheduled[0]
	if money.Slot != models.SlotMoney || money.Week != 1 {
		t.Errorf("planned money task should own week 1, got slot %s week %d", money.Slot, money.Week)
	}
	if len(month1.Tasks) != 4 {
		t.Errorf("remaining slots should be synthesized, got %d tasks", len(month1.Tasks))
	}
	// Only the three filler slots should be flagged.
	if !month1.WasModified || len(month1.Warnings) < 3 {
		t.Errorf("expected synthesis warnings, got %v", month1.Warnings)
	}
}

func TestSchedule_SupportsWiredToMonthMoney(t *testing.T) {
	business := testBusiness()
	scheduler := NewCadenceScheduler(defaultConfig(), planStart)

	months, blockers := scheduler.Schedule(nil, business, nil)
	if len(blockers) != 0 {
		t.Fatalf("unexpected blockers: %+v", blockers)
	}

	for _, m := range months {
		money := m.MoneyTask()
		if money == nil {
			t.Fatalf("month %d has no money task", m.Month)
		}
		for _, task := range m.Tasks {
			if task.Role == models.RoleMoney {
				continue
			}
			if task.SupportsSlug != money.Slug {
				t.Errorf("task %s supports %q, want %q", task.ID, task.SupportsSlug, money.Slug)
			}
		}
		if len(money.LinksDown) != 3 {
			t.Errorf("month %d money task links down to %d tasks, want 3", m.Month, len(money.LinksDown))
		}
	}
}

func TestSchedule_ValidateRejectionFallsThrough(t *testing.T) {
	business := testBusiness()
	scheduler := NewCadenceScheduler(defaultConfig(), planStart)

	// Reject every money synthesis for the first service.
	validate := func(task *models.GrowthTask) bool {
		if task.Role != models.RoleMoney {
			return true
		}
		return task.Service != "Emergency Plumbing"
	}

	months, _ := scheduler.Schedule(nil, business, validate)
	for _, m := range months {
		money := m.MoneyTask()
		if money == nil {
			t.Fatalf("month %d has no money task after fallthrough", m.Month)
		}
		if money.Service == "Emergency Plumbing" {
			t.Errorf("month %d accepted a rejected synthesis: %+v", m.Month, money)
		}
	}
}

func TestClassifySlot(t *testing.T) {
	tests := []struct {
		name string
		task models.GrowthTask
		want models.CadenceSlot
	}{
		{"money role", models.GrowthTask{Role: models.RoleMoney}, models.SlotMoney},
		{"support role", models.GrowthTask{Role: models.RoleSupport}, models.SlotSupport},
		{"authority role", models.GrowthTask{Role: models.RoleAuthority}, models.SlotAuthority},
		{"trust role", models.GrowthTask{Role: models.RoleTrust}, models.SlotCaseStudy},
		{"case study title beats money role", models.GrowthTask{Role: models.RoleMoney, Title: "Boiler Case Study"}, models.SlotCaseStudy},
		{"unclassified", models.GrowthTask{Role: models.RoleOther}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifySlot(&tt.task); got != tt.want {
				t.Errorf("classifySlot() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPublishDate(t *testing.T) {
	// April 2026: the 1st is a Wednesday.
	tests := []struct {
		name     string
		monthIdx int
		week     int
		want     time.Time
	}{
		{"month 1 week 1", 1, 1, time.Date(2026, time.April, 3, 9, 0, 0, 0, time.UTC)},
		{"month 1 week 2", 1, 2, time.Date(2026, time.April, 10, 9, 0, 0, 0, time.UTC)},
		{"month 1 week 3", 1, 3, time.Date(2026, time.April, 17, 9, 0, 0, 0, time.UTC)},
		{"month 1 week 4", 1, 4, time.Date(2026, time.April, 24, 9, 0, 0, 0, time.UTC)},
		{"month 2 week 1 sunday shift", 2, 1, time.Date(2026, time.May, 4, 9, 0, 0, 0, time.UTC)},
		{"month 2 week 2 sunday shift", 2, 2, time.Date(2026, time.May, 11, 9, 0, 0, 0, time.UTC)},
		{"unknown week defaults to day 24", 1, 9, time.Date(2026, time.April, 24, 9, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PublishDate(planStart, tt.monthIdx, tt.week)
			if !got.Equal(tt.want) {
				t.Errorf("PublishDate(%d, %d) = %v, want %v", tt.monthIdx, tt.week, got, tt.want)
			}
		})
	}
}

func TestValidate_CompleteAndIncompleteMonths(t *testing.T) {
	scheduler := NewCadenceScheduler(defaultConfig(), planStart)

	complete := models.GrowthPlanMonth{Month: 1, Tasks: []*models.GrowthTask{
		{Slot: models.SlotMoney},
		{Slot: models.SlotSupport},
		{Slot: models.SlotCaseStudy},
		{Slot: models.SlotAuthority},
	}}
	incomplete := models.GrowthPlanMonth{Month: 2, Tasks: []*models.GrowthTask{
		{Slot: models.SlotMoney},
	}}

	v := scheduler.Validate([]models.GrowthPlanMonth{complete, incomplete})
	if v.CompleteMonths != 1 || v.IncompleteMonths != 1 {
		t.Fatalf("got %d complete / %d incomplete, want 1 / 1", v.CompleteMonths, v.IncompleteMonths)
	}
	if len(v.Issues) != 3 {
		t.Errorf("expected 3 slot issues for month 2, got %d", len(v.Issues))
	}
	for _, issue := range v.Issues {
		if issue.Month != 2 {
			t.Errorf("issue attributed to month %d, want 2", issue.Month)
		}
	}
}

func TestValidate_ClassifiesUnscheduledTasks(t *testing.T) {
	scheduler := NewCadenceScheduler(defaultConfig(), planStart)

	month := models.GrowthPlanMonth{Month: 1, Tasks: []*models.GrowthTask{
		{Role: models.RoleMoney},
		{Role: models.RoleSupport},
		{Role: models.RoleTrust},
		{Role: models.RoleAuthority},
	}}

	v := scheduler.Validate([]models.GrowthPlanMonth{month})
	if v.CompleteMonths != 1 {
		t.Errorf("role classification should complete the month, got %+v", v)
	}
}
