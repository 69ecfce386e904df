package observability

import (
	"fmt"
	"time"
)

// AlertSeverity represents the urgency of an alert.
type AlertSeverity string

const (
	SeverityHigh   AlertSeverity = "high"
	SeverityMedium AlertSeverity = "medium"
	SeverityLow    AlertSeverity = "low"
)

// Alert represents a triggered alert condition.
type Alert struct {
	ID          string        `json:"id"`
	Condition   string        `json:"condition"`
	Severity    AlertSeverity `json:"severity"`
	Message     string        `json:"message"`
	TriggeredAt time.Time     `json:"triggered_at"`
}

// AlertThresholds configures when planning alerts should fire.
type AlertThresholds struct {
	// MaxBlockers is the blocker count above which a generated plan is
	// considered unhealthy.
	MaxBlockers int `yaml:"max_blockers" json:"max_blockers"`
	// MaxGaps is the gap count above which the underlying site is flagged
	// as being in poor shape.
	MaxGaps int `yaml:"max_gaps" json:"max_gaps"`
	// BlockedRunWindowDays is how far back to look for strict-mode runs
	// that ended blocked.
	BlockedRunWindowDays int `yaml:"blocked_run_window_days" json:"blocked_run_window_days"`
}

// DefaultAlertThresholds returns sensible defaults for alert thresholds.
func DefaultAlertThresholds() AlertThresholds {
	return AlertThresholds{
		MaxBlockers:          3,
		MaxGaps:              12,
		BlockedRunWindowDays: 7,
	}
}

// AlertEngine evaluates alert conditions against the event log.
type AlertEngine interface {
	Evaluate() ([]Alert, error)
}

// alertEngine implements AlertEngine by reading planning events and
// checking thresholds.
type alertEngine struct {
	eventLog   EventLog
	thresholds AlertThresholds
}

// NewAlertEngine creates an AlertEngine with the given EventLog and thresholds.
func NewAlertEngine(eventLog EventLog, thresholds AlertThresholds) AlertEngine {
	return &alertEngine{
		eventLog:   eventLog,
		thresholds: thresholds,
	}
}

// Evaluate reads events and checks all alert conditions, returning any
// triggered alerts.
func (ae *alertEngine) Evaluate() ([]Alert, error) {
	now := time.Now().UTC()
	var alerts []Alert

	blockerAlerts, err := ae.checkPlanBlockers(now)
	if err != nil {
		return nil, fmt.Errorf("checking plan blockers: %w", err)
	}
	alerts = append(alerts, blockerAlerts...)

	gapAlerts, err := ae.checkGapLoad(now)
	if err != nil {
		return nil, fmt.Errorf("checking gap load: %w", err)
	}
	alerts = append(alerts, gapAlerts...)

	blockedRunAlerts, err := ae.checkBlockedRuns(now)
	if err != nil {
		return nil, fmt.Errorf("checking blocked runs: %w", err)
	}
	alerts = append(alerts, blockedRunAlerts...)

	return alerts, nil
}

// checkPlanBlockers flags the most recent generated plan when its blocker
// count exceeds the threshold.
func (ae *alertEngine) checkPlanBlockers(now time.Time) ([]Alert, error) {
	events, err := ae.eventLog.Read(EventFilter{Type: "plan.generated"})
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, nil
	}

	latest := events[len(events)-1]
	blockers, ok := asInt(latest.Data["blockers"])
	if !ok || blockers <= ae.thresholds.MaxBlockers {
		return nil, nil
	}

	business, _ := latest.Data["business"].(string)
	return []Alert{{
		ID:          "plan-blockers",
		Condition:   "plan_blockers_exceeded",
		Severity:    SeverityHigh,
		Message:     fmt.Sprintf("latest plan for %q carries %d blockers (max %d)", business, blockers, ae.thresholds.MaxBlockers),
		TriggeredAt: now,
	}}, nil
}

// checkGapLoad flags the most recent gap analysis when the site's gap count
// exceeds the threshold.
func (ae *alertEngine) checkGapLoad(now time.Time) ([]Alert, error) {
	events, err := ae.eventLog.Read(EventFilter{Type: "gaps.analyzed"})
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, nil
	}

	latest := events[len(events)-1]
	gaps, ok := asInt(latest.Data["gaps"])
	if !ok || gaps <= ae.thresholds.MaxGaps {
		return nil, nil
	}

	return []Alert{{
		ID:          "gap-load",
		Condition:   "gap_load_exceeded",
		Severity:    SeverityMedium,
		Message:     fmt.Sprintf("site analysis found %d gaps (max %d); the plan will be foundation-heavy", gaps, ae.thresholds.MaxGaps),
		TriggeredAt: now,
	}}, nil
}

// checkBlockedRuns flags strict-mode runs that ended blocked within the
// window.
func (ae *alertEngine) checkBlockedRuns(now time.Time) ([]Alert, error) {
	since := now.AddDate(0, 0, -ae.thresholds.BlockedRunWindowDays)
	events, err := ae.eventLog.Read(EventFilter{Type: "plan.blocked", Since: &since})
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, nil
	}

	return []Alert{{
		ID:          "blocked-runs",
		Condition:   "strict_runs_blocked",
		Severity:    SeverityLow,
		Message:     fmt.Sprintf("%d strict run(s) ended blocked in the last %d days", len(events), ae.thresholds.BlockedRunWindowDays),
		TriggeredAt: now,
	}}, nil
}
