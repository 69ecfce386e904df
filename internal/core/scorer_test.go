package core

import (
	"testing"

	"github.com/localedge/growthplan/pkg/models"
)

func TestDetectIntent(t *testing.T) {
	tests := []struct {
		text string
		want models.PageIntent
	}{
		{"Bathroom Case Study: Before and After", models.PageIntentCaseStudy},
		{"Combi vs System Boilers", models.PageIntentComparison},
		{"Boiler Replacement Cost in 2026", models.PageIntentMoney},
		{"Emergency Plumbing Repairs", models.PageIntentService},
		{"How to Bleed a Radiator", models.PageIntentInformational},
		{"Something Entirely Different", models.PageIntentService},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := DetectIntent(tt.text); got != tt.want {
				t.Errorf("DetectIntent(%q) = %s, want %s", tt.text, got, tt.want)
			}
		})
	}
}

func TestDetectIntent_CaseStudyOutranksMoney(t *testing.T) {
	// "cost" would classify as money, but the case-study rule fires first.
	if got := DetectIntent("Case Study: Cutting Heating Costs"); got != models.PageIntentCaseStudy {
		t.Errorf("expected case-study intent, got %s", got)
	}
}

func TestScore_RanksStrongTitleFirst(t *testing.T) {
	scorer := NewHeadingScorer()
	ctx := models.ScoreContext{
		FocusKeyword: "emergency plumbing repairs",
		Location:     "Slough",
		Brand:        "Acme",
		Kind:         models.KindTitle,
		Intent:       models.PageIntentMoney,
	}

	results := scorer.Score([]string{
		"Best Plumber Buckinghamshire",
		"Emergency Plumbing Repairs in Slough | Acme",
	}, ctx)

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	top := results[0]
	if top.Text != "Emergency Plumbing Repairs in Slough | Acme" {
		t.Fatalf("wrong winner: %q", top.Text)
	}
	if !top.Recommended {
		t.Error("top result should be recommended")
	}
	if top.Score != 100 {
		t.Errorf("winner score = %d, want 100", top.Score)
	}
	if top.Tier != models.TierBest {
		t.Errorf("winner tier = %s, want best", top.Tier)
	}

	loser := results[1]
	if loser.Score != 50 {
		t.Errorf("loser should clamp to the money floor 50, got %d", loser.Score)
	}
	if loser.Tier != models.TierRisky {
		t.Errorf("loser tier = %s, want risky", loser.Tier)
	}
	if loser.Recommended {
		t.Error("only the top result may be recommended")
	}
}

func TestScore_IntentFloors(t *testing.T) {
	scorer := NewHeadingScorer()

	tests := []struct {
		intent models.PageIntent
		floor  int
	}{
		{models.PageIntentMoney, 50},
		{models.PageIntentService, 45},
		{models.PageIntentComparison, 40},
		{models.PageIntentInformational, 35},
		{models.PageIntentCaseStudy, 55},
	}

	for _, tt := range tests {
		t.Run(string(tt.intent), func(t *testing.T) {
			// A hopeless candidate for any context.
			results := scorer.Score([]string{"x"}, models.ScoreContext{
				FocusKeyword: "emergency plumbing repairs",
				Location:     "Slough",
				Kind:         models.KindTitle,
				Intent:       tt.intent,
			})
			if results[0].Score < tt.floor {
				t.Errorf("score %d fell below the %s floor %d", results[0].Score, tt.intent, tt.floor)
			}
		})
	}
}

func TestScore_NeverAbove100(t *testing.T) {
	scorer := NewHeadingScorer()
	results := scorer.Score([]string{
		"Get Certified Emergency Plumbing Repairs in Slough 2026 | Acme",
	}, models.ScoreContext{
		FocusKeyword: "emergency plumbing repairs",
		Location:     "Slough",
		Brand:        "Acme",
		Kind:         models.KindTitle,
		Intent:       models.PageIntentMoney,
	})
	if results[0].Score > 100 {
		t.Errorf("score %d exceeds 100", results[0].Score)
	}
}

func TestScore_H1MissingCommercialVerbPenalised(t *testing.T) {
	scorer := NewHeadingScorer()
	ctx := models.ScoreContext{
		FocusKeyword: "boiler repair",
		Kind:         models.KindH1,
		Intent:       models.PageIntentMoney,
	}

	with := scorer.Score([]string{"Book Boiler Repair Today With Our Team"}, ctx)[0]
	without := scorer.Score([]string{"Reliable Boiler Repair For Your Home"}, ctx)[0]

	if with.Score <= without.Score {
		t.Errorf("commercial verb should outscore its absence on a money H1: %d vs %d", with.Score, without.Score)
	}
}

func TestScore_HypeDensityPenalised(t *testing.T) {
	scorer := NewHeadingScorer()
	ctx := models.ScoreContext{
		FocusKeyword: "boiler repair",
		Kind:         models.KindTitle,
		Intent:       models.PageIntentService,
	}

	plain := scorer.Score([]string{"Boiler Repair for Slough Homes and Businesses"}, ctx)[0]
	hyped := scorer.Score([]string{"Best Ultimate Boiler Repair for Slough Homes"}, ctx)[0]

	if hyped.Score >= plain.Score {
		t.Errorf("two hype words should cost points: hyped %d vs plain %d", hyped.Score, plain.Score)
	}
}

func TestScore_EmptyCandidates(t *testing.T) {
	results := NewHeadingScorer().Score(nil, models.ScoreContext{})
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestValidateTitleH1Alignment(t *testing.T) {
	scorer := NewHeadingScorer()
	ctx := models.ScoreContext{FocusKeyword: "emergency plumbing", Location: "Slough"}

	t.Run("misaligned h1 missing both", func(t *testing.T) {
		res := scorer.ValidateTitleH1Alignment(
			"Emergency Plumbing in Slough", "Fast Response Plumbers", ctx)
		if res.Aligned {
			t.Fatal("expected misalignment")
		}
		if res.Penalty != 25 {
			t.Errorf("penalty = %d, want 25", res.Penalty)
		}
		if res.SuggestedH1 != "Emergency Plumbing in Slough" {
			t.Errorf("suggested = %q", res.SuggestedH1)
		}
	})

	t.Run("h1 missing location only", func(t *testing.T) {
		res := scorer.ValidateTitleH1Alignment(
			"Emergency Plumbing in Slough", "Emergency Plumbing You Can Rely On", ctx)
		if res.Aligned {
			t.Fatal("expected misalignment")
		}
		if res.SuggestedH1 != "Emergency Plumbing You Can Rely On in Slough" {
			t.Errorf("suggested = %q", res.SuggestedH1)
		}
	})

	t.Run("aligned", func(t *testing.T) {
		res := scorer.ValidateTitleH1Alignment(
			"Emergency Plumbing in Slough", "Emergency Plumbing in Slough for Any Callout", ctx)
		if !res.Aligned || res.Penalty != 0 {
			t.Errorf("expected alignment, got %+v", res)
		}
	})

	t.Run("penalty lands on the h1 score", func(t *testing.T) {
		moneyCtx := ctx
		moneyCtx.Intent = models.PageIntentMoney

		h1 := "Book Emergency Plumbing Repairs Today"
		res := scorer.ValidateTitleH1Alignment("Emergency Plumbing in Slough", h1, moneyCtx)
		if res.Aligned {
			t.Fatal("expected misalignment")
		}

		h1Ctx := moneyCtx
		h1Ctx.Kind = models.KindH1
		standalone := scorer.Score([]string{h1}, h1Ctx)[0].Score
		if res.H1Score != standalone {
			t.Errorf("H1Score = %d, want the standalone H1 score %d", res.H1Score, standalone)
		}
		if res.AdjustedH1Score != standalone-res.Penalty {
			t.Errorf("AdjustedH1Score = %d, want %d", res.AdjustedH1Score, standalone-res.Penalty)
		}
	})

	t.Run("penalised h1 never falls below the intent floor", func(t *testing.T) {
		moneyCtx := ctx
		moneyCtx.Intent = models.PageIntentMoney

		res := scorer.ValidateTitleH1Alignment("Emergency Plumbing in Slough", "We Care", moneyCtx)
		if res.Aligned {
			t.Fatal("expected misalignment")
		}
		if res.AdjustedH1Score != 50 {
			t.Errorf("AdjustedH1Score = %d, want the money floor 50", res.AdjustedH1Score)
		}
	})

	t.Run("title without location never misaligns", func(t *testing.T) {
		res := scorer.ValidateTitleH1Alignment(
			"Emergency Plumbing Experts", "Anything At All", ctx)
		if !res.Aligned {
			t.Error("title lacking the location should pass")
		}
	})

	t.Run("no keyword or location skips the check", func(t *testing.T) {
		res := scorer.ValidateTitleH1Alignment("A", "B", models.ScoreContext{})
		if !res.Aligned {
			t.Error("empty context should pass")
		}
	})
}
