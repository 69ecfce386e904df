package models

// GapPriority ranks how urgently a gap should be addressed.
type GapPriority string

const (
	PriorityCritical GapPriority = "critical"
	PriorityHigh     GapPriority = "high"
	PriorityMedium   GapPriority = "medium"
	PriorityLow      GapPriority = "low"
)

// GapAction describes what kind of work closes a gap.
type GapAction string

const (
	ActionCreate    GapAction = "create"
	ActionExpand    GapAction = "expand"
	ActionFix       GapAction = "fix"
	ActionRebuild   GapAction = "rebuild"
	ActionRefresh   GapAction = "refresh"
	ActionStabilise GapAction = "stabilise"
)

// PageGap is one missing-or-weak page opportunity detected on the existing
// site. A gap is produced once per run and consumed at most once by the
// task synthesizer.
type PageGap struct {
	Role             PageRole    `yaml:"role"`
	Service          string      `yaml:"service"`
	Location         string      `yaml:"location,omitempty"`
	Priority         GapPriority `yaml:"priority"`
	Action           GapAction   `yaml:"action"`
	SuggestedTitle   string      `yaml:"suggested_title"`
	BlocksConversion bool        `yaml:"blocks_conversion"`
	Detail           string      `yaml:"detail,omitempty"`
}

// StructuralIssueKind categorises site-level structural problems that are
// not tied to a single service.
type StructuralIssueKind string

const (
	IssueOrphanPage     StructuralIssueKind = "orphan_page"
	IssueDuplicateTitle StructuralIssueKind = "duplicate_title"
	IssueTopicBleed     StructuralIssueKind = "topic_bleed"
)

// StructuralIssue flags one structural problem on an existing page.
type StructuralIssue struct {
	Kind   StructuralIssueKind `yaml:"kind"`
	Path   string              `yaml:"path"`
	Detail string              `yaml:"detail"`
}

// GapAnalysis is the full output of the gap analyzer for one run.
type GapAnalysis struct {
	Gaps             []PageGap         `yaml:"gaps"`
	StructuralIssues []StructuralIssue `yaml:"structural_issues,omitempty"`
}

// ConversionBlockers returns the gaps that block conversion, in declaration
// order.
func (g *GapAnalysis) ConversionBlockers() []PageGap {
	var out []PageGap
	for _, gap := range g.Gaps {
		if gap.BlocksConversion {
			out = append(out, gap)
		}
	}
	return out
}

// CriticalMoneyGaps returns the critical-priority money-role gaps, in
// declaration order.
func (g *GapAnalysis) CriticalMoneyGaps() []PageGap {
	var out []PageGap
	for _, gap := range g.Gaps {
		if gap.Role == RoleMoney && gap.Priority == PriorityCritical {
			out = append(out, gap)
		}
	}
	return out
}
