package core

import (
	"github.com/localedge/growthplan/pkg/models"
)

// GapTracker hands out gaps without repetition across the twelve months.
// A gap is marked used the moment it is turned into a task, so the same
// gap can never generate two tasks in one run. The tracker is explicit
// per-run state: it is created by the builder and threaded through each
// phase that draws from it.
type GapTracker struct {
	gaps []models.PageGap
	used []bool
}

// NewGapTracker wraps the analyzer output in a consumption tracker. Gap
// order is preserved; priority ordering is the caller's concern.
func NewGapTracker(analysis *models.GapAnalysis) *GapTracker {
	t := &GapTracker{}
	if analysis != nil {
		t.gaps = analysis.Gaps
		t.used = make([]bool, len(analysis.Gaps))
	}
	return t
}

// Take returns the first unused gap matching the predicate and marks it
// used. Returns nil when no unused gap matches.
func (t *GapTracker) Take(match func(models.PageGap) bool) *models.PageGap {
	for i := range t.gaps {
		if t.used[i] {
			continue
		}
		if match(t.gaps[i]) {
			t.used[i] = true
			gap := t.gaps[i]
			return &gap
		}
	}
	return nil
}

// TakeConversionBlocker draws the next gap that blocks conversion.
func (t *GapTracker) TakeConversionBlocker() *models.PageGap {
	return t.Take(func(g models.PageGap) bool { return g.BlocksConversion })
}

// TakeCriticalMoney draws the next critical money-role gap.
func (t *GapTracker) TakeCriticalMoney() *models.PageGap {
	return t.Take(func(g models.PageGap) bool {
		return g.Role == models.RoleMoney && g.Priority == models.PriorityCritical
	})
}

// TakeTrust draws the next trust-role gap.
func (t *GapTracker) TakeTrust() *models.PageGap {
	return t.Take(func(g models.PageGap) bool { return g.Role == models.RoleTrust })
}

// TakeMoney draws the next money-role gap of any priority.
func (t *GapTracker) TakeMoney() *models.PageGap {
	return t.Take(func(g models.PageGap) bool { return g.Role == models.RoleMoney })
}

// TakeByPriority draws the next unused gap in priority order
// (critical, high, medium, low).
func (t *GapTracker) TakeByPriority() *models.PageGap {
	for _, p := range []models.GapPriority{models.PriorityCritical, models.PriorityHigh, models.PriorityMedium, models.PriorityLow} {
		if gap := t.Take(func(g models.PageGap) bool { return g.Priority == p }); gap != nil {
			return gap
		}
	}
	return nil
}

// Remaining reports how many gaps have not yet been consumed.
func (t *GapTracker) Remaining() int {
	n := 0
	for _, u := range t.used {
		if !u {
			n++
		}
	}
	return n
}
