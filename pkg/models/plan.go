package models

import "time"

// GrowthPlan is the complete persisted output of one planning run.
type GrowthPlan struct {
	Business        string                 `yaml:"business"`
	GeneratedAt     time.Time              `yaml:"generated_at"`
	StartDate       string                 `yaml:"start_date"`
	FoundationScore int                    `yaml:"foundation_score"`
	Months          []GrowthPlanMonth      `yaml:"months"`
	Report          *CannibalisationReport `yaml:"report,omitempty"`
	Cadence         *CadenceValidation     `yaml:"cadence,omitempty"`
}

// PlanManifest is the version record written next to each persisted plan.
// ContentHash is stable across runs with identical inputs, which is what
// lets callers deduplicate unchanged plans.
type PlanManifest struct {
	RunID       string    `yaml:"run_id"`
	CreatedAt   time.Time `yaml:"created_at"`
	ContentHash string    `yaml:"content_hash"`
	Business    string    `yaml:"business"`
	MonthCount  int       `yaml:"month_count"`
	TaskCount   int       `yaml:"task_count"`
	Blockers    int       `yaml:"blockers"`
}
