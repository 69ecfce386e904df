package models

// CanonicalSource records whether a canonical page came from the existing
// site or from the plan under construction.
type CanonicalSource string

const (
	SourceExisting CanonicalSource = "existing"
	SourcePlanned  CanonicalSource = "planned"
)

// CanonicalPage is the registry entry for one ownership key: the single page
// allowed to own that (service, location, intent) concept. Support slugs are
// appended as support tasks resolve against it; entries are never deleted
// during a run.
type CanonicalPage struct {
	Key             string          `yaml:"key"`
	Source          CanonicalSource `yaml:"source"`
	Title           string          `yaml:"title"`
	Slug            string          `yaml:"slug"`
	PrimaryQuestion string          `yaml:"primary_question,omitempty"`
	SupportSlugs    []string        `yaml:"support_slugs,omitempty"`
}

// BlockerKind categorises hard rule violations that make a plan unsafe to
// execute as-is.
type BlockerKind string

const (
	BlockerDuplicateOwnership BlockerKind = "duplicate_ownership"
	BlockerMissingSupport     BlockerKind = "missing_support"
	BlockerSemanticDuplicate  BlockerKind = "semantic_duplicate"
	BlockerSlugCollision      BlockerKind = "slug_collision"
	BlockerUnsafeComparison   BlockerKind = "unsafe_comparison"
	BlockerProofDiversity     BlockerKind = "proof_diversity"
)

// PlanBlocker is one hard rule violation. Blockers are collected, never
// thrown mid-pipeline; strict callers treat a non-empty list as fatal.
type PlanBlocker struct {
	Kind    BlockerKind `yaml:"kind"`
	Message string      `yaml:"message"`
	Slug    string      `yaml:"slug,omitempty"`
	Against string      `yaml:"against,omitempty"`
	Score   float64     `yaml:"score,omitempty"`
}

// PlanWarning is a soft, auto-repaired or informational finding.
type PlanWarning struct {
	Code    string `yaml:"code"`
	Message string `yaml:"message"`
	Slug    string `yaml:"slug,omitempty"`
}

// MergedTask records that one planned task was folded into another.
type MergedTask struct {
	DroppedSlug string `yaml:"dropped_slug"`
	IntoSlug    string `yaml:"into_slug"`
	Reason      string `yaml:"reason"`
}

// CannibalisationReport is the full output of the ownership and
// cannibalisation guard for one run.
type CannibalisationReport struct {
	Canonical []CanonicalPage `yaml:"canonical"`
	Blockers  []PlanBlocker   `yaml:"blockers,omitempty"`
	Warnings  []PlanWarning   `yaml:"warnings,omitempty"`
	Dropped   []string        `yaml:"dropped,omitempty"`
	Merged    []MergedTask    `yaml:"merged,omitempty"`
}

// IsValid reports whether the plan carries no hard blockers.
func (r *CannibalisationReport) IsValid() bool {
	return len(r.Blockers) == 0
}

// SlotIssue flags one cadence problem in one month.
type SlotIssue struct {
	Month  int         `yaml:"month"`
	Slot   CadenceSlot `yaml:"slot"`
	Detail string      `yaml:"detail"`
}

// CadenceValidation summarises how complete the scheduled plan's cadence is.
type CadenceValidation struct {
	CompleteMonths   int         `yaml:"complete_months"`
	IncompleteMonths int         `yaml:"incomplete_months"`
	Issues           []SlotIssue `yaml:"issues,omitempty"`
}
