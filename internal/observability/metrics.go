package observability

import (
	"fmt"
	"time"
)

// Metrics holds planning activity derived from the event log.
type Metrics struct {
	PlansGenerated int        `json:"plans_generated"`
	PlansBlocked   int        `json:"plans_blocked"`
	GapsDetected   int        `json:"gaps_detected"`
	TasksDropped   int        `json:"tasks_dropped"`
	TasksMerged    int        `json:"tasks_merged"`
	CanonicalPages int        `json:"canonical_pages"`
	AvgFoundation  float64    `json:"avg_foundation_score"`
	EventCount     int        `json:"event_count"`
	OldestEvent    *time.Time `json:"oldest_event,omitempty"`
	NewestEvent    *time.Time `json:"newest_event,omitempty"`
}

// MetricsCalculator derives metrics from the event log.
type MetricsCalculator interface {
	Calculate(since time.Time) (*Metrics, error)
}

// metricsCalculator implements MetricsCalculator by reading from an EventLog.
type metricsCalculator struct {
	eventLog EventLog
}

// NewMetricsCalculator creates a MetricsCalculator that reads from the given EventLog.
func NewMetricsCalculator(eventLog EventLog) MetricsCalculator {
	return &metricsCalculator{eventLog: eventLog}
}

// Calculate reads all events since the given time and aggregates them into
// planning metrics.
func (mc *metricsCalculator) Calculate(since time.Time) (*Metrics, error) {
	events, err := mc.eventLog.Read(EventFilter{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("reading events for metrics: %w", err)
	}

	m := &Metrics{}
	m.EventCount = len(events)

	foundationSum := 0
	for i, event := range events {
		if i == 0 {
			t := event.Time
			m.OldestEvent = &t
		}
		t := event.Time
		m.NewestEvent = &t

		switch event.Type {
		case "plan.generated":
			m.PlansGenerated++
			if score, ok := asInt(event.Data["foundation_score"]); ok {
				foundationSum += score
			}
		case "plan.blocked":
			m.PlansBlocked++
		case "gaps.analyzed":
			if n, ok := asInt(event.Data["gaps"]); ok {
				m.GapsDetected += n
			}
		case "ownership.resolved":
			if n, ok := asInt(event.Data["dropped"]); ok {
				m.TasksDropped += n
			}
			if n, ok := asInt(event.Data["merged"]); ok {
				m.TasksMerged += n
			}
			if n, ok := asInt(event.Data["canonical"]); ok {
				m.CanonicalPages += n
			}
		}
	}

	if m.PlansGenerated > 0 {
		m.AvgFoundation = float64(foundationSum) / float64(m.PlansGenerated)
	}

	return m, nil
}

// asInt coerces the JSON number shapes an event payload can carry.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
