package models

// PlannerConfig holds the tunable parameters of the planning pipeline.
// Thresholds mirror the defaults the pipeline was designed around; lower
// similarity thresholds and higher foundation gates mean stricter plans.
type PlannerConfig struct {
	// SimilarityThreshold is the Jaccard score at or above which two
	// questions/titles are treated as semantic duplicates.
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	// FoundationAuthorityGate is the minimum foundation score required
	// before authority/seasonal months (7-10) run instead of extra
	// support content.
	FoundationAuthorityGate int `yaml:"foundation_authority_gate"`
	// FoundationCriticalGate is the foundation score below which month 2
	// stays on foundation work instead of starting service depth.
	FoundationCriticalGate int `yaml:"foundation_critical_gate"`
	// Strict makes any blocker fatal at the pipeline boundary.
	Strict bool `yaml:"strict"`
	// StartDate is the plan start in YYYY-MM-DD form; empty means the
	// first day of the month following "now".
	StartDate string `yaml:"start_date,omitempty"`
	// DefaultWordCounts maps page role to the default word-count target.
	DefaultWordCounts map[string]int `yaml:"default_word_counts,omitempty"`
	// OutDir is where generated plans are persisted.
	OutDir string `yaml:"out_dir,omitempty"`
	// SlackWebhookURL enables Slack alert notifications when set.
	SlackWebhookURL string `yaml:"slack_webhook_url,omitempty"`
}
