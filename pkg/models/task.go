package models

import "time"

// SearchIntent is the search intent a planned page targets.
type SearchIntent string

const (
	IntentBuy     SearchIntent = "buy"
	IntentCompare SearchIntent = "compare"
	IntentTrust   SearchIntent = "trust"
	IntentLearn   SearchIntent = "learn"
)

// TaskStatus represents the lifecycle state of a growth task.
type TaskStatus string

const (
	StatusPlanned   TaskStatus = "planned"
	StatusScheduled TaskStatus = "scheduled"
	StatusDropped   TaskStatus = "dropped"
)

// CadenceSlot is one of the four mandatory weekly content categories per
// month.
type CadenceSlot string

const (
	SlotMoney     CadenceSlot = "money"
	SlotSupport   CadenceSlot = "support"
	SlotCaseStudy CadenceSlot = "case-study"
	SlotAuthority CadenceSlot = "authority"
)

// CadenceSlots lists the four slots in their fixed weekly order.
var CadenceSlots = []CadenceSlot{SlotMoney, SlotSupport, SlotCaseStudy, SlotAuthority}

// GrowthTask is the unit of planned work: one page to create or improve,
// targeted at a specific month. Cadence fields (Week, Slot, PublishAt) are
// zero until the scheduler has processed the task.
type GrowthTask struct {
	ID              string       `yaml:"id"`
	Month           int          `yaml:"month"`
	Title           string       `yaml:"title"`
	Slug            string       `yaml:"slug"`
	Action          GapAction    `yaml:"action"`
	Role            PageRole     `yaml:"role"`
	SupportsSlug    string       `yaml:"supports,omitempty"`
	SupportType     string       `yaml:"support_type,omitempty"`
	Service         string       `yaml:"service"`
	Location        string       `yaml:"location,omitempty"`
	Intent          SearchIntent `yaml:"intent"`
	WordCount       int          `yaml:"word_count"`
	Channel         string       `yaml:"channel"`
	Status          TaskStatus   `yaml:"status"`
	OwnershipKey    string       `yaml:"ownership_key,omitempty"`
	PrimaryQuestion string       `yaml:"primary_question,omitempty"`
	LinksUp         []string     `yaml:"links_up,omitempty"`
	LinksDown       []string     `yaml:"links_down,omitempty"`
	ProofRefs       []string     `yaml:"proof_refs,omitempty"`
	ReviewTheme     string       `yaml:"review_theme,omitempty"`

	Week      int         `yaml:"week,omitempty"`
	Slot      CadenceSlot `yaml:"slot,omitempty"`
	PublishAt time.Time   `yaml:"publish_at,omitempty"`
}

// GrowthPlanMonth is one month of the twelve-month plan.
type GrowthPlanMonth struct {
	Month       int           `yaml:"month"`
	Theme       string        `yaml:"theme"`
	KPIs        []string      `yaml:"kpis,omitempty"`
	Tasks       []*GrowthTask `yaml:"tasks"`
	WasModified bool          `yaml:"was_modified,omitempty"`
	Warnings    []string      `yaml:"warnings,omitempty"`
}

// MoneyTask returns the month's money-role task, or nil if none exists.
func (m *GrowthPlanMonth) MoneyTask() *GrowthTask {
	for _, t := range m.Tasks {
		if t.Role == RoleMoney {
			return t
		}
	}
	return nil
}
