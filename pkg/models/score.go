package models

// HeadingKind is the kind of heading being scored.
type HeadingKind string

const (
	KindTitle HeadingKind = "title"
	KindH1    HeadingKind = "h1"
	KindMeta  HeadingKind = "meta"
)

// PageIntent is the scorer's classification of what a heading is trying to
// do. It is either supplied by the caller or auto-detected from the text.
type PageIntent string

const (
	PageIntentCaseStudy     PageIntent = "case-study"
	PageIntentComparison    PageIntent = "comparison"
	PageIntentMoney         PageIntent = "money"
	PageIntentService       PageIntent = "service"
	PageIntentInformational PageIntent = "informational"
)

// ScoreContext carries everything the heading scorer needs to judge a
// candidate.
type ScoreContext struct {
	FocusKeyword string      `yaml:"focus_keyword"`
	Location     string      `yaml:"location"`
	Brand        string      `yaml:"brand,omitempty"`
	Kind         HeadingKind `yaml:"kind"`
	Intent       PageIntent  `yaml:"intent,omitempty"`
}

// ScoreTier is the discrete quality band derived from a numeric score.
type ScoreTier string

const (
	TierBest  ScoreTier = "best"
	TierGood  ScoreTier = "good"
	TierOK    ScoreTier = "ok"
	TierRisky ScoreTier = "risky"
)

// ScoreResult is the scorer's verdict on one candidate heading. Scores are
// bounded to [intent floor, 100]; the top-ranked result is marked
// Recommended.
type ScoreResult struct {
	Text        string     `yaml:"text"`
	Score       int        `yaml:"score"`
	Tier        ScoreTier  `yaml:"tier"`
	Intent      PageIntent `yaml:"intent"`
	Reasons     []string   `yaml:"reasons,omitempty"`
	Warnings    []string   `yaml:"warnings,omitempty"`
	Recommended bool       `yaml:"recommended,omitempty"`
}
