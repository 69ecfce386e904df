package core

import (
	"testing"

	"github.com/localedge/growthplan/pkg/models"
)

func TestOwnershipKey(t *testing.T) {
	tests := []struct {
		name     string
		service  string
		location string
		intent   models.SearchIntent
		want     string
	}{
		{"full key", "Emergency Plumbing", "Slough", models.IntentBuy, "emergency plumbing::slough::buy"},
		{"no location becomes global", "Plumbing", "", models.IntentBuy, "plumbing::global::buy"},
		{"whitespace normalised", "  Plumbing  ", " Slough ", models.IntentLearn, "plumbing::slough::learn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OwnershipKey(tt.service, tt.location, tt.intent); got != tt.want {
				t.Errorf("OwnershipKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOwnershipKey_CaseInsensitive(t *testing.T) {
	a := OwnershipKey("Plumbing", "SLOUGH", models.IntentBuy)
	b := OwnershipKey("plumbing", "slough", models.IntentBuy)
	if a != b {
		t.Errorf("case variants produced different keys: %q vs %q", a, b)
	}
}

func TestOwnershipRegistry_FirstClaimantWins(t *testing.T) {
	reg := NewOwnershipRegistry()
	key := OwnershipKey("plumbing", "slough", models.IntentBuy)

	if !reg.Register(models.CanonicalPage{Key: key, Slug: "plumbing-slough", Source: models.SourceExisting}) {
		t.Fatal("first registration should succeed")
	}
	if reg.Register(models.CanonicalPage{Key: key, Slug: "plumbing-slough-2", Source: models.SourcePlanned}) {
		t.Fatal("second registration for the same key should fail")
	}

	page := reg.Lookup(key)
	if page == nil {
		t.Fatal("expected canonical page for key")
	}
	if page.Slug != "plumbing-slough" {
		t.Errorf("second registration mutated the entry: slug %q", page.Slug)
	}
	if reg.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", reg.Len())
	}
}

func TestOwnershipRegistry_AddSupport(t *testing.T) {
	reg := NewOwnershipRegistry()
	key := OwnershipKey("plumbing", "", models.IntentBuy)
	reg.Register(models.CanonicalPage{Key: key, Slug: "plumbing"})

	if !reg.AddSupport(key, "plumbing-faq") {
		t.Fatal("AddSupport on a registered key should succeed")
	}
	if reg.AddSupport("missing::global::buy", "orphan") {
		t.Fatal("AddSupport on an unknown key should fail")
	}

	page := reg.Lookup(key)
	if len(page.SupportSlugs) != 1 || page.SupportSlugs[0] != "plumbing-faq" {
		t.Errorf("unexpected support slugs: %v", page.SupportSlugs)
	}
}

func TestOwnershipRegistry_PagesKeepInsertionOrder(t *testing.T) {
	reg := NewOwnershipRegistry()
	slugs := []string{"c-page", "a-page", "b-page"}
	for i, slug := range slugs {
		key := OwnershipKey(slug, "", models.IntentBuy)
		if !reg.Register(models.CanonicalPage{Key: key, Slug: slug}) {
			t.Fatalf("registration %d failed", i)
		}
	}

	pages := reg.Pages()
	if len(pages) != len(slugs) {
		t.Fatalf("expected %d pages, got %d", len(slugs), len(pages))
	}
	for i, slug := range slugs {
		if pages[i].Slug != slug {
			t.Errorf("position %d: expected %q, got %q", i, slug, pages[i].Slug)
		}
	}
}
