package storage

import (
	"fmt"
	"testing"
	"time"

	"github.com/localedge/growthplan/pkg/models"
)

func testPlan() *models.GrowthPlan {
	return &models.GrowthPlan{
		Business:        "Acme Plumbing",
		GeneratedAt:     time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC),
		StartDate:       "2026-04-01",
		FoundationScore: 39,
		Months: []models.GrowthPlanMonth{
			{Month: 1, Theme: "Foundation & Conversion Fixes", Tasks: []*models.GrowthTask{
				{ID: "gt-01-001", Month: 1, Title: "Emergency Plumbing in Slough", Slug: "emergency-plumbing-in-slough", Role: models.RoleMoney},
				{ID: "gt-01-002", Month: 1, Title: "Contact Acme Plumbing", Slug: "contact-acme-plumbing", Role: models.RoleSupport},
			}},
			{Month: 2, Theme: "Service Depth", Tasks: []*models.GrowthTask{
				{ID: "gt-02-003", Month: 2, Title: "Boiler Repair in Slough", Slug: "boiler-repair-in-slough", Role: models.RoleMoney},
			}},
		},
		Report: &models.CannibalisationReport{
			Blockers: []models.PlanBlocker{{Kind: models.BlockerProofDiversity, Message: "x"}},
		},
	}
}

// storeAt returns a store with deterministic clock and run IDs.
func storeAt(dir string) (*filePlanStore, *int) {
	counter := 0
	store := &filePlanStore{
		basePath: dir,
		now: func() time.Time {
			counter++
			return time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC).Add(time.Duration(counter) * time.Minute)
		},
		newID: func() string { return fmt.Sprintf("run-%03d", counter+1) },
	}
	return store, &counter
}

func TestSavePlan_Roundtrip(t *testing.T) {
	store, _ := storeAt(t.TempDir())

	manifest, err := store.SavePlan(testPlan())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if manifest.RunID == "" {
		t.Fatal("manifest has no run ID")
	}
	if manifest.Business != "Acme Plumbing" {
		t.Errorf("business = %q", manifest.Business)
	}
	if manifest.MonthCount != 2 || manifest.TaskCount != 3 {
		t.Errorf("counts = %d months / %d tasks, want 2 / 3", manifest.MonthCount, manifest.TaskCount)
	}
	if manifest.Blockers != 1 {
		t.Errorf("blockers = %d, want 1", manifest.Blockers)
	}
	if len(manifest.ContentHash) != 64 {
		t.Errorf("content hash %q is not a sha256 hex digest", manifest.ContentHash)
	}

	loaded, err := store.LoadPlan(manifest.RunID)
	if err != nil {
		t.Fatalf("loading plan: %v", err)
	}
	if loaded.Business != "Acme Plumbing" || loaded.FoundationScore != 39 {
		t.Errorf("loaded plan differs: %+v", loaded)
	}
	if len(loaded.Months) != 2 || len(loaded.Months[0].Tasks) != 2 {
		t.Errorf("loaded months differ: %+v", loaded.Months)
	}
	if loaded.Months[0].Tasks[0].Slug != "emergency-plumbing-in-slough" {
		t.Errorf("task payload differs: %+v", loaded.Months[0].Tasks[0])
	}
}

func TestSavePlan_IdenticalPlansShareContentHash(t *testing.T) {
	store, _ := storeAt(t.TempDir())

	m1, err := store.SavePlan(testPlan())
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	m2, err := store.SavePlan(testPlan())
	if err != nil {
		t.Fatalf("second save: %v", err)
	}

	if m1.RunID == m2.RunID {
		t.Error("each save should mint a fresh run ID")
	}
	if m1.ContentHash != m2.ContentHash {
		t.Errorf("identical plans should hash identically: %s vs %s", m1.ContentHash, m2.ContentHash)
	}
}

func TestSavePlan_Nil(t *testing.T) {
	store, _ := storeAt(t.TempDir())
	if _, err := store.SavePlan(nil); err == nil {
		t.Fatal("expected an error for a nil plan")
	}
}

func TestLoadPlan_Missing(t *testing.T) {
	store, _ := storeAt(t.TempDir())
	if _, err := store.LoadPlan("nope"); err == nil {
		t.Fatal("expected an error for an unknown run ID")
	}
}

func TestListPlans_NewestFirst(t *testing.T) {
	store, _ := storeAt(t.TempDir())

	for i := 0; i < 3; i++ {
		if _, err := store.SavePlan(testPlan()); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	manifests, err := store.ListPlans()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(manifests) != 3 {
		t.Fatalf("expected 3 manifests, got %d", len(manifests))
	}
	for i := 1; i < len(manifests); i++ {
		if manifests[i].CreatedAt.After(manifests[i-1].CreatedAt) {
			t.Errorf("manifests out of order at %d: %v after %v", i, manifests[i].CreatedAt, manifests[i-1].CreatedAt)
		}
	}
	if manifests[0].RunID != "run-003" {
		t.Errorf("newest run should list first, got %s", manifests[0].RunID)
	}
}

func TestListPlans_EmptyBase(t *testing.T) {
	store, _ := storeAt(t.TempDir() + "/never-created")
	manifests, err := store.ListPlans()
	if err != nil {
		t.Fatalf("a missing base dir is not an error: %v", err)
	}
	if len(manifests) != 0 {
		t.Errorf("expected no manifests, got %d", len(manifests))
	}
}

func TestLatestPlan(t *testing.T) {
	store, _ := storeAt(t.TempDir())

	if plan, err := store.LatestPlan(); err != nil || plan != nil {
		t.Fatalf("empty store should yield (nil, nil), got (%v, %v)", plan, err)
	}

	first := testPlan()
	first.FoundationScore = 10
	if _, err := store.SavePlan(first); err != nil {
		t.Fatalf("first save: %v", err)
	}
	second := testPlan()
	second.FoundationScore = 90
	if _, err := store.SavePlan(second); err != nil {
		t.Fatalf("second save: %v", err)
	}

	latest, err := store.LatestPlan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latest.FoundationScore != 90 {
		t.Errorf("latest plan should be the second save, got foundation %d", latest.FoundationScore)
	}
}
