package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/localedge/growthplan/internal/observability"
	"github.com/localedge/growthplan/pkg/models"
)

// ErrPlanBlocked is returned in strict mode when the finished plan carries
// any blocker.
var ErrPlanBlocked = errors.New("plan has unresolved blockers")

// GenerateInput is everything a planning run consumes. Analysis may be
// pre-supplied; when nil it is recomputed from the site inputs.
type GenerateInput struct {
	Business *models.BusinessRealityModel
	Site     *models.SiteStructureContext
	Pages    []models.PageContentContext
	Analysis *models.GapAnalysis
	// Start is the plan start date; the zero value means the first day of
	// the month after Now.
	Start time.Time
	// Now anchors calendar-dependent templates. Fixed for reproducibility.
	Now time.Time
}

// GenerateOutput is the full result of one planning run.
type GenerateOutput struct {
	Months          []models.GrowthPlanMonth
	Report          *models.CannibalisationReport
	Cadence         *models.CadenceValidation
	Analysis        *models.GapAnalysis
	FoundationScore int
}

// Pipeline executes the growth-plan phases in order: gap analysis, task
// synthesis, ownership resolution, cadence scheduling. One call per
// planning run; no phase starts before the previous one completes.
type Pipeline interface {
	Generate(input GenerateInput) (*GenerateOutput, error)
}

type pipeline struct {
	cfg      models.PlannerConfig
	eventLog observability.EventLog
}

// NewPipeline creates a Pipeline. eventLog may be nil to disable event
// emission.
func NewPipeline(cfg models.PlannerConfig, eventLog observability.EventLog) Pipeline {
	return &pipeline{cfg: cfg, eventLog: eventLog}
}

// Generate runs the full pipeline synchronously. In strict mode a
// non-empty blocker list is fatal; otherwise the plan proceeds with
// dropped and flagged tasks.
func (p *pipeline) Generate(input GenerateInput) (*GenerateOutput, error) {
	if input.Business == nil {
		return nil, fmt.Errorf("business reality model is required")
	}

	now := input.Now
	if now.IsZero() {
		now = time.Now()
	}
	start := input.Start
	if start.IsZero() {
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	}

	analysis := input.Analysis
	if analysis == nil {
		analysis = NewGapAnalyzer().Analyze(input.Site, input.Pages, input.Business)
	}
	p.emit("gaps.analyzed", map[string]any{
		"gaps":       len(analysis.Gaps),
		"structural": len(analysis.StructuralIssues),
	})

	builder := NewPlanBuilder(p.cfg, now)
	foundation := builder.FoundationScore(analysis)
	months := builder.Build(analysis, input.Business, input.Site)

	guard := NewOwnershipGuard(p.cfg)
	resolution := guard.Resolve(months, input.Pages, input.Business)
	p.emit("ownership.resolved", map[string]any{
		"canonical": len(resolution.Report.Canonical),
		"blockers":  len(resolution.Report.Blockers),
		"dropped":   len(resolution.Report.Dropped),
		"merged":    len(resolution.Report.Merged),
	})

	scheduler := NewCadenceScheduler(p.cfg, start)
	scheduled, schedulerBlockers := scheduler.Schedule(resolution.Months, input.Business, func(t *models.GrowthTask) bool {
		return guard.ValidateSynthesized(t, resolution)
	})
	resolution.Report.Blockers = append(resolution.Report.Blockers, schedulerBlockers...)
	resolution.Report.Canonical = resolution.Registry.Pages()

	cadence := scheduler.Validate(scheduled)

	out := &GenerateOutput{
		Months:          scheduled,
		Report:          resolution.Report,
		Cadence:         cadence,
		Analysis:        analysis,
		FoundationScore: foundation,
	}

	p.emit("plan.generated", map[string]any{
		"business":         input.Business.Name,
		"foundation_score": foundation,
		"months":           len(scheduled),
		"blockers":         len(out.Report.Blockers),
	})

	if p.cfg.Strict && !out.Report.IsValid() {
		p.emit("plan.blocked", map[string]any{"blockers": len(out.Report.Blockers)})
		return out, fmt.Errorf("%w: %d blocker(s)", ErrPlanBlocked, len(out.Report.Blockers))
	}
	return out, nil
}

// emit writes a pipeline event when an event log is attached. Failures are
// deliberately swallowed: observability must never fail a planning run.
func (p *pipeline) emit(eventType string, data map[string]any) {
	if p.eventLog == nil {
		return
	}
	_ = p.eventLog.Write(observability.Event{
		Time:    time.Now(),
		Level:   "INFO",
		Type:    eventType,
		Message: eventType,
		Data:    data,
	})
}
