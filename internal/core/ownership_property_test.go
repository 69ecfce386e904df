package core

import (
	"testing"

	"github.com/localedge/growthplan/pkg/models"
	"pgregory.net/rapid"
)

func TestOwnershipRegistryFirstWinsUnderAnyOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		reg := NewOwnershipRegistry()

		n := rapid.IntRange(1, 20).Draw(t, "n")
		winners := make(map[string]string)

		for i := 0; i < n; i++ {
			svc := rapid.SampledFrom([]string{"plumbing", "heating", "roofing"}).Draw(t, "svc")
			loc := rapid.SampledFrom([]string{"", "slough", "reading"}).Draw(t, "loc")
			key := OwnershipKey(svc, loc, models.IntentBuy)
			slug := rapid.StringMatching(`[a-z]{3,10}`).Draw(t, "slug")

			registered := reg.Register(models.CanonicalPage{Key: key, Slug: slug})
			if _, taken := winners[key]; taken {
				if registered {
					t.Fatalf("key %q registered twice", key)
				}
			} else {
				if !registered {
					t.Fatalf("first registration for %q failed", key)
				}
				winners[key] = slug
			}
		}

		if reg.Len() != len(winners) {
			t.Fatalf("registry holds %d entries, expected %d", reg.Len(), len(winners))
		}
		for key, slug := range winners {
			page := reg.Lookup(key)
			if page == nil {
				t.Fatalf("key %q missing after registration", key)
			}
			if page.Slug != slug {
				t.Fatalf("key %q holds %q, expected first claimant %q", key, page.Slug, slug)
			}
		}
	})
}

func TestOwnershipKeyDeterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		svc := genPhrase(t, "svc")
		loc := genPhrase(t, "loc")

		a := OwnershipKey(svc, loc, models.IntentBuy)
		b := OwnershipKey(svc, loc, models.IntentBuy)
		if a != b {
			t.Fatalf("same inputs produced different keys: %q vs %q", a, b)
		}
	})
}
