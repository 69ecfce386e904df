package core

import (
	"fmt"
	"time"

	"github.com/localedge/growthplan/pkg/models"
)

// planMonths is the fixed planning horizon.
const planMonths = 12

// supportThemes is the fixed 4-theme cycle support content rotates through
// in months 3-6 (and 7-10 when the foundation score gates out authority
// work).
var supportThemes = []string{"questions", "process", "proof", "local"}

// fallbackArchetypes is the fixed rotation the deterministic fallback
// generator draws from when all tracked gaps are exhausted.
var fallbackArchetypes = []string{"faq", "process", "benefits", "checklist", "cost", "comparison"}

// defaultWordCounts maps page role to word-count target when the config
// does not override it.
var defaultWordCounts = map[models.PageRole]int{
	models.RoleMoney:     1200,
	models.RoleSupport:   900,
	models.RoleTrust:     800,
	models.RoleAuthority: 1100,
}

// PlanBuilder turns gap analysis, unused inventory, and phase pacing into
// twelve monthly batches of growth tasks.
type PlanBuilder interface {
	Build(analysis *models.GapAnalysis, business *models.BusinessRealityModel, site *models.SiteStructureContext) []models.GrowthPlanMonth
	FoundationScore(analysis *models.GapAnalysis) int
}

type planBuilder struct {
	cfg models.PlannerConfig
	// now anchors calendar-year title templates so output is reproducible.
	now time.Time
}

// NewPlanBuilder creates a PlanBuilder. now must be fixed by the caller for
// deterministic output.
func NewPlanBuilder(cfg models.PlannerConfig, now time.Time) PlanBuilder {
	return &planBuilder{cfg: cfg, now: now}
}

// FoundationScore computes the 0-100 site health score that gates which
// planning phases run normally. Critical money gaps and conversion blockers
// dominate the penalty.
func (b *planBuilder) FoundationScore(analysis *models.GapAnalysis) int {
	score := 100
	if analysis == nil {
		return score
	}

	for _, gap := range analysis.Gaps {
		switch {
		case gap.BlocksConversion:
			score -= 12
		case gap.Role == models.RoleMoney && gap.Priority == models.PriorityCritical:
			score -= 15
		case gap.Priority == models.PriorityHigh:
			score -= 5
		case gap.Priority == models.PriorityMedium:
			score -= 2
		}
	}
	score -= 3 * len(analysis.StructuralIssues)

	if score < 0 {
		score = 0
	}
	return score
}

// Build assembles the twelve-month plan. Gaps are drawn without repetition
// via the tracker; when the tracker runs dry the fallback generator keeps
// months non-empty as long as at least one valid service exists.
func (b *planBuilder) Build(analysis *models.GapAnalysis, business *models.BusinessRealityModel, site *models.SiteStructureContext) []models.GrowthPlanMonth {
	foundation := b.FoundationScore(analysis)
	tracker := NewGapTracker(analysis)
	services := ValidServices(business.CoreServices)

	state := &buildState{
		tracker:      tracker,
		business:     business,
		services:     services,
		moneyByMonth: make(map[int]*models.GrowthTask),
		moneyBySvc:   make(map[string]string),
	}

	depthStart := 2
	if foundation < b.cfg.FoundationCriticalGate {
		depthStart = 3
	}
	authorityAllowed := foundation >= b.cfg.FoundationAuthorityGate

	months := make([]models.GrowthPlanMonth, 0, planMonths)
	for m := 1; m <= planMonths; m++ {
		var month models.GrowthPlanMonth
		switch {
		case m < depthStart:
			month = b.foundationMonth(m, state)
		case m <= 6:
			month = b.depthMonth(m, state)
		case m <= 10 && authorityAllowed:
			month = b.authorityMonth(m, state)
		case m <= 10:
			month = b.extendedSupportMonth(m, state)
		case m == 11:
			month = b.yearEndMonth(m, state)
		default:
			month = b.retrospectiveMonth(m, state)
		}

		b.sanitize(&month, state)
		months = append(months, month)
	}

	seen := dedupeSlugs(months)
	b.refillEmptied(months, seen, state)
	return months
}

// refillEmptied backfills months emptied by slug deduplication so the plan
// never skips a month while a valid service exists.
func (b *planBuilder) refillEmptied(months []models.GrowthPlanMonth, seen map[string]bool, state *buildState) {
	for i := range months {
		if len(months[i].Tasks) > 0 {
			continue
		}
		svc := state.service(months[i].Month)
		if svc == "" {
			continue
		}
		t := b.fallbackTask(months[i].Month, svc, state)
		slug := NormalizeSlug(t.Slug)
		if seen[slug] {
			continue
		}
		if t.Role != models.RoleMoney && t.SupportsSlug == "" {
			if moneySlug, ok := state.moneyBySvc[normalizeKeyPart(t.Service)]; ok {
				t.SupportsSlug = moneySlug
			}
		}
		seen[slug] = true
		months[i].Tasks = append(months[i].Tasks, t)
	}
}

// buildState is the mutable per-run state threaded through month assembly.
type buildState struct {
	tracker  *GapTracker
	business *models.BusinessRealityModel
	services []string

	seq int
	// moneyByMonth tracks each month's money task for support wiring.
	moneyByMonth map[int]*models.GrowthTask
	// moneyBySvc maps normalized service to the first planned money slug.
	moneyBySvc map[string]string
}

// service returns the service rotated by month index, or "" when no valid
// services exist.
func (s *buildState) service(month int) string {
	if len(s.services) == 0 {
		return ""
	}
	return s.services[(month-1)%len(s.services)]
}

// nextID produces a stable sequential task identifier.
func (s *buildState) nextID(month int) string {
	s.seq++
	return fmt.Sprintf("gt-%02d-%03d", month, s.seq)
}

// record registers a task in the cross-month registries.
func (s *buildState) record(t *models.GrowthTask) {
	if t.Role == models.RoleMoney {
		if s.moneyByMonth[t.Month] == nil {
			s.moneyByMonth[t.Month] = t
		}
		key := normalizeKeyPart(t.Service)
		if _, seen := s.moneyBySvc[key]; !seen {
			s.moneyBySvc[key] = t.Slug
		}
	}
}

// foundationMonth spends the month on conversion blockers, critical money
// gaps, and missing trust essentials, in that order.
func (b *planBuilder) foundationMonth(m int, state *buildState) models.GrowthPlanMonth {
	month := models.GrowthPlanMonth{
		Month: m,
		Theme: "Foundation & Conversion Fixes",
		KPIs:  []string{"conversion paths restored", "critical service pages live"},
	}

	draws := []func() *models.PageGap{
		state.tracker.TakeConversionBlocker,
		state.tracker.TakeCriticalMoney,
		state.tracker.TakeConversionBlocker,
		state.tracker.TakeTrust,
	}
	for _, draw := range draws {
		if len(month.Tasks) >= 3 {
			break
		}
		gap := draw()
		if gap == nil {
			continue
		}
		task := b.taskFromGap(*gap, m, state)
		month.Tasks = append(month.Tasks, task)
	}

	if len(month.Tasks) == 0 {
		b.fillFromFallback(&month, state)
	}
	return month
}

// depthMonth pairs a money-depth task with rotating support content
// (months 3-6 rotate the fixed 4-theme cycle).
func (b *planBuilder) depthMonth(m int, state *buildState) models.GrowthPlanMonth {
	month := models.GrowthPlanMonth{
		Month: m,
		Theme: "Service Depth",
		KPIs:  []string{"service coverage widened", "supporting questions answered"},
	}

	if gap := state.tracker.TakeMoney(); gap != nil {
		month.Tasks = append(month.Tasks, b.taskFromGap(*gap, m, state))
	} else if svc := state.service(m); svc != "" {
		// No service-specific gap remains; fabricate a money task so the
		// depth phase still widens coverage.
		month.Tasks = append(month.Tasks, b.moneyTask(m, svc, state))
	}

	if m >= 3 {
		theme := supportThemes[(m-3)%len(supportThemes)]
		if svc := state.service(m); svc != "" {
			month.Tasks = append(month.Tasks, b.supportThemeTask(m, svc, theme, state))
		}
	}

	if gap := state.tracker.TakeTrust(); gap != nil && len(month.Tasks) < 3 {
		month.Tasks = append(month.Tasks, b.taskFromGap(*gap, m, state))
	}

	if len(month.Tasks) == 0 {
		b.fillFromFallback(&month, state)
	}
	return month
}

// authorityMonth targets seasonal and authority expansion once the
// foundation is healthy enough.
func (b *planBuilder) authorityMonth(m int, state *buildState) models.GrowthPlanMonth {
	month := models.GrowthPlanMonth{
		Month: m,
		Theme: "Authority & Seasonal",
		KPIs:  []string{"authority coverage grown", "seasonal demand captured"},
	}

	svc := state.service(m)
	if svc != "" {
		month.Tasks = append(month.Tasks,
			b.authorityTask(m, svc, state),
			b.seasonalTask(m, svc, state),
		)
	}

	if gap := state.tracker.TakeByPriority(); gap != nil && len(month.Tasks) < 3 {
		month.Tasks = append(month.Tasks, b.taskFromGap(*gap, m, state))
	}

	if len(month.Tasks) == 0 {
		b.fillFromFallback(&month, state)
	}
	return month
}

// extendedSupportMonth replaces an authority month with more support content
// when the foundation score gates authority work out.
func (b *planBuilder) extendedSupportMonth(m int, state *buildState) models.GrowthPlanMonth {
	month := models.GrowthPlanMonth{
		Month: m,
		Theme: "Support & Trust Content",
		KPIs:  []string{"foundation reinforced", "supporting questions answered"},
	}

	if gap := state.tracker.TakeByPriority(); gap != nil {
		month.Tasks = append(month.Tasks, b.taskFromGap(*gap, m, state))
	}
	if svc := state.service(m); svc != "" {
		theme := supportThemes[(m-3)%len(supportThemes)]
		month.Tasks = append(month.Tasks, b.supportThemeTask(m, svc, theme, state))
	}

	if len(month.Tasks) == 0 {
		b.fillFromFallback(&month, state)
	}
	return month
}

// yearEndMonth is the fixed month-11 optimization push, independent of
// remaining gaps.
func (b *planBuilder) yearEndMonth(m int, state *buildState) models.GrowthPlanMonth {
	month := models.GrowthPlanMonth{
		Month: m,
		Theme: "Year-End Push",
		KPIs:  []string{"top pages refreshed", "seasonal offers live"},
	}

	svc := state.service(m)
	if svc == "" && len(state.services) > 0 {
		svc = state.services[0]
	}
	if svc != "" {
		month.Tasks = append(month.Tasks,
			b.seasonalTask(m, svc, state),
			b.supportThemeTask(m, svc, "proof", state),
		)
	}
	return month
}

// retrospectiveMonth is the fixed month-12 review month.
func (b *planBuilder) retrospectiveMonth(m int, state *buildState) models.GrowthPlanMonth {
	year := b.now.Year()
	month := models.GrowthPlanMonth{
		Month: m,
		Theme: "Review & Retrospective",
		KPIs:  []string{"content audit complete", "next-year plan drafted"},
	}

	svc := state.service(m)
	if svc == "" {
		return month
	}

	review := b.newTask(m, state, models.GrowthTask{
		Title:   fmt.Sprintf("%s: Our %d in Review", state.business.Name, year),
		Role:    models.RoleTrust,
		Action:  models.ActionCreate,
		Service: svc,
		Intent:  models.IntentTrust,
	})
	audit := b.newTask(m, state, models.GrowthTask{
		Title:   fmt.Sprintf("%s Content Audit Checklist", TitleCase(svc)),
		Role:    models.RoleSupport,
		Action:  models.ActionRefresh,
		Service: svc,
		Intent:  models.IntentLearn,
	})
	month.Tasks = append(month.Tasks, review, audit)
	return month
}

// fillFromFallback keeps a month non-empty by rotating through the fixed
// archetype set, keyed by month index.
func (b *planBuilder) fillFromFallback(month *models.GrowthPlanMonth, state *buildState) {
	svc := state.service(month.Month)
	if svc == "" {
		return
	}
	month.Tasks = append(month.Tasks, b.fallbackTask(month.Month, svc, state))
}

// fallbackTask deterministically generates one task from the archetype
// rotation.
func (b *planBuilder) fallbackTask(m int, svc string, state *buildState) *models.GrowthTask {
	location := state.business.PrimaryLocation()
	archetype := fallbackArchetypes[(m-1)%len(fallbackArchetypes)]

	t := models.GrowthTask{
		Role:   models.RoleSupport,
		Action: models.ActionCreate,
		Intent: models.IntentLearn,
	}
	switch archetype {
	case "faq":
		t.Title = fmt.Sprintf("%s FAQ", TitleCase(svc))
	case "process":
		t.Title = fmt.Sprintf("Our %s Process, Step by Step", TitleCase(svc))
	case "benefits":
		t.Title = fmt.Sprintf("Benefits of Professional %s", TitleCase(svc))
	case "checklist":
		t.Title = fmt.Sprintf("%s Checklist: What to Prepare", TitleCase(svc))
	case "cost":
		if location != "" {
			t.Title = fmt.Sprintf("How Much Does %s Cost in %s?", TitleCase(svc), TitleCase(location))
		} else {
			t.Title = fmt.Sprintf("How Much Does %s Cost?", TitleCase(svc))
		}
	case "comparison":
		t.Title = fmt.Sprintf("%s Options Compared", TitleCase(svc))
		t.Intent = models.IntentCompare
	}
	t.Service = svc
	return b.newTask(m, state, t)
}

// taskFromGap converts a consumed gap into a task.
func (b *planBuilder) taskFromGap(gap models.PageGap, m int, state *buildState) *models.GrowthTask {
	intent := models.IntentLearn
	switch gap.Role {
	case models.RoleMoney:
		intent = models.IntentBuy
	case models.RoleTrust:
		intent = models.IntentTrust
	}

	return b.newTask(m, state, models.GrowthTask{
		Title:    gap.SuggestedTitle,
		Role:     gap.Role,
		Action:   gap.Action,
		Service:  gap.Service,
		Location: gap.Location,
		Intent:   intent,
	})
}

// moneyTask fabricates a money-depth task for a service with no remaining
// gap.
func (b *planBuilder) moneyTask(m int, svc string, state *buildState) *models.GrowthTask {
	location := state.business.PrimaryLocation()
	return b.newTask(m, state, models.GrowthTask{
		Title:    serviceTitle(svc, location),
		Role:     models.RoleMoney,
		Action:   models.ActionCreate,
		Service:  svc,
		Location: location,
		Intent:   models.IntentBuy,
	})
}

// supportThemeTask builds one support task from the fixed theme cycle.
func (b *planBuilder) supportThemeTask(m int, svc, theme string, state *buildState) *models.GrowthTask {
	location := state.business.PrimaryLocation()

	t := models.GrowthTask{
		Role:        models.RoleSupport,
		Action:      models.ActionCreate,
		Service:     svc,
		Intent:      models.IntentLearn,
		SupportType: theme,
	}
	switch theme {
	case "questions":
		t.Title = fmt.Sprintf("%s FAQ", TitleCase(svc))
	case "process":
		t.Title = fmt.Sprintf("What to Expect From Our %s Process", TitleCase(svc))
	case "proof":
		t.Title = fmt.Sprintf("%s Results Our Customers Talk About", TitleCase(svc))
		t.Role = models.RoleTrust
		t.Intent = models.IntentTrust
		if len(state.business.ReviewThemes) > 0 {
			t.ReviewTheme = state.business.ReviewThemes[(m-1)%len(state.business.ReviewThemes)]
		}
	case "local":
		if location != "" {
			t.Title = fmt.Sprintf("%s in %s: A Local Guide", TitleCase(svc), TitleCase(location))
			t.Location = location
		} else {
			t.Title = fmt.Sprintf("%s: A Practical Guide", TitleCase(svc))
		}
	}
	return b.newTask(m, state, t)
}

// authorityTask builds a year-stamped authority article.
func (b *planBuilder) authorityTask(m int, svc string, state *buildState) *models.GrowthTask {
	return b.newTask(m, state, models.GrowthTask{
		Title:   fmt.Sprintf("The %d Guide to %s", b.now.Year(), TitleCase(svc)),
		Role:    models.RoleAuthority,
		Action:  models.ActionCreate,
		Service: svc,
		Intent:  models.IntentLearn,
	})
}

// seasonalTask builds a seasonal offer page for the service.
func (b *planBuilder) seasonalTask(m int, svc string, state *buildState) *models.GrowthTask {
	season := seasonForMonth(b.planCalendarMonth(m))
	return b.newTask(m, state, models.GrowthTask{
		Title:    fmt.Sprintf("%s %s Offers", TitleCase(season), TitleCase(svc)),
		Role:     models.RoleMoney,
		Action:   models.ActionCreate,
		Service:  svc,
		Location: state.business.PrimaryLocation(),
		Intent:   models.IntentBuy,
	})
}

// planCalendarMonth maps a plan month index (1-12) to a calendar month,
// anchored at the month after now.
func (b *planBuilder) planCalendarMonth(m int) time.Month {
	return b.now.AddDate(0, m, 0).Month()
}

// seasonForMonth returns the season name for a calendar month (northern
// hemisphere).
func seasonForMonth(m time.Month) string {
	switch {
	case m >= time.March && m <= time.May:
		return "spring"
	case m >= time.June && m <= time.August:
		return "summer"
	case m >= time.September && m <= time.November:
		return "autumn"
	default:
		return "winter"
	}
}

// newTask fills in the derived and defaulted fields shared by every task.
func (b *planBuilder) newTask(m int, state *buildState, t models.GrowthTask) *models.GrowthTask {
	t.ID = state.nextID(m)
	t.Month = m
	t.Slug = Slugify(t.Title)
	t.Channel = "website"
	t.Status = models.StatusPlanned
	t.WordCount = b.wordCount(t.Role)
	if t.Role == models.RoleMoney {
		t.OwnershipKey = OwnershipKey(t.Service, t.Location, t.Intent)
	}
	t.PrimaryQuestion = PrimaryQuestion(&t)
	if len(state.business.ProofPoints) > 0 && (t.Role == models.RoleTrust || t.Role == models.RoleMoney) {
		t.ProofRefs = append(t.ProofRefs, state.business.ProofPoints[(m-1)%len(state.business.ProofPoints)])
	}

	state.record(&t)
	return &t
}

// wordCount resolves the word-count target for a role, preferring config
// overrides.
func (b *planBuilder) wordCount(role models.PageRole) int {
	if b.cfg.DefaultWordCounts != nil {
		if wc, ok := b.cfg.DefaultWordCounts[string(role)]; ok && wc > 0 {
			return wc
		}
	}
	if wc, ok := defaultWordCounts[role]; ok {
		return wc
	}
	return 800
}

// sanitize removes tasks with generic services and wires or removes
// non-money tasks lacking a support reference.
func (b *planBuilder) sanitize(month *models.GrowthPlanMonth, state *buildState) {
	kept := month.Tasks[:0]
	for _, t := range month.Tasks {
		if t.Service == "" || IsGenericService(t.Service) {
			continue
		}

		if t.Role != models.RoleMoney && t.SupportsSlug == "" {
			if money := state.moneyByMonth[t.Month]; money != nil {
				t.SupportsSlug = money.Slug
			} else if slug, ok := state.moneyBySvc[normalizeKeyPart(t.Service)]; ok {
				t.SupportsSlug = slug
			} else {
				continue
			}
		}
		kept = append(kept, t)
	}
	month.Tasks = kept
}

// dedupeSlugs removes any task whose slug was already emitted earlier in
// the plan; the first occurrence wins. Returns the set of surviving slugs.
func dedupeSlugs(months []models.GrowthPlanMonth) map[string]bool {
	seen := make(map[string]bool)
	for i := range months {
		kept := months[i].Tasks[:0]
		for _, t := range months[i].Tasks {
			slug := NormalizeSlug(t.Slug)
			if seen[slug] {
				continue
			}
			seen[slug] = true
			kept = append(kept, t)
		}
		months[i].Tasks = kept
	}
	return seen
}
