package core

import (
	"fmt"
	"time"

	"github.com/localedge/growthplan/pkg/models"
)

// slotDayOffsets maps cadence week (1-4) to the day of month a slot
// publishes on.
var slotDayOffsets = map[int]int{1: 3, 2: 10, 3: 17, 4: 24}

// slotWeeks maps each slot to its fixed week.
var slotWeeks = map[models.CadenceSlot]int{
	models.SlotMoney:     1,
	models.SlotSupport:   2,
	models.SlotCaseStudy: 3,
	models.SlotAuthority: 4,
}

// caseStudyKeywords classify a task into the case-study slot by title.
var caseStudyKeywords = []string{"case study", "results", "project", "testimonial", "review", "before and after"}

// CadenceScheduler imposes the fixed 4-slot weekly publishing pattern on
// every month, synthesizing filler tasks for unfilled slots and computing
// publish dates.
type CadenceScheduler interface {
	// Schedule returns exactly twelve cadence-complete months. validate is
	// consulted before any synthesized task is accepted; a rejected
	// synthesis leaves the slot to the next candidate. Blockers are
	// returned for months whose support wiring cannot be repaired.
	Schedule(months []models.GrowthPlanMonth, business *models.BusinessRealityModel, validate func(*models.GrowthTask) bool) ([]models.GrowthPlanMonth, []models.PlanBlocker)
	// Validate reports cadence completeness of an already-scheduled plan.
	Validate(months []models.GrowthPlanMonth) *models.CadenceValidation
}

type cadenceScheduler struct {
	cfg   models.PlannerConfig
	start time.Time
	seq   int
}

// NewCadenceScheduler creates a scheduler anchored at the given plan start
// date. start must be fixed by the caller for deterministic output.
func NewCadenceScheduler(cfg models.PlannerConfig, start time.Time) CadenceScheduler {
	return &cadenceScheduler{cfg: cfg, start: start}
}

// Schedule processes each of the twelve months in order, fabricating any
// month the synthesizer did not supply.
func (s *cadenceScheduler) Schedule(months []models.GrowthPlanMonth, business *models.BusinessRealityModel, validate func(*models.GrowthTask) bool) ([]models.GrowthPlanMonth, []models.PlanBlocker) {
	byIndex := make(map[int]models.GrowthPlanMonth, len(months))
	claimed := make(map[string]bool)
	for _, m := range months {
		byIndex[m.Month] = m
		for _, t := range m.Tasks {
			claimed[NormalizeSlug(t.Slug)] = true
		}
	}

	var blockers []models.PlanBlocker
	out := make([]models.GrowthPlanMonth, 0, planMonths)
	for i := 1; i <= planMonths; i++ {
		month, ok := byIndex[i]
		if !ok {
			month = fabricateMonth(i)
		}

		monthBlockers := s.scheduleMonth(&month, business, claimed, validate)
		blockers = append(blockers, monthBlockers...)
		out = append(out, month)
	}

	return out, blockers
}

// scheduleMonth resolves the four slots in fixed order, then wires support
// references and publish dates.
func (s *cadenceScheduler) scheduleMonth(month *models.GrowthPlanMonth, business *models.BusinessRealityModel, claimed map[string]bool, validate func(*models.GrowthTask) bool) []models.PlanBlocker {
	assigned := make(map[models.CadenceSlot]*models.GrowthTask)
	var unclassified []*models.GrowthTask

	for _, task := range month.Tasks {
		slot := classifySlot(task)
		if slot == "" {
			unclassified = append(unclassified, task)
			continue
		}
		if assigned[slot] == nil {
			assigned[slot] = task
		} else {
			unclassified = append(unclassified, task)
		}
	}

	for _, slot := range models.CadenceSlots {
		if assigned[slot] != nil {
			continue
		}

		if task := takeLooseMatch(&unclassified, slot); task != nil {
			assigned[slot] = task
			continue
		}

		task := s.synthesizeSlot(month.Month, slot, business, claimed, validate)
		if task == nil {
			continue
		}
		claimed[NormalizeSlug(task.Slug)] = true
		assigned[slot] = task
		month.Tasks = append(month.Tasks, task)
		month.WasModified = true
		month.Warnings = append(month.Warnings,
			fmt.Sprintf("%s slot auto-generated: %s", slot, task.Title))
	}

	for slot, task := range assigned {
		if task == nil {
			continue
		}
		task.Slot = slot
		task.Week = slotWeeks[slot]
		task.Status = models.StatusScheduled
		task.PublishAt = PublishDate(s.start, month.Month, task.Week)
	}
	// Tasks outside the four slots still get a publish date in week 4.
	for _, task := range month.Tasks {
		if task.Slot == "" {
			task.Week = 4
			task.PublishAt = PublishDate(s.start, month.Month, task.Week)
		}
	}

	return wireSupports(month, assigned[models.SlotMoney])
}

// wireSupports assigns every non-money task lacking a supports reference to
// the month's money task, or flags a blocker when the month has none.
func wireSupports(month *models.GrowthPlanMonth, money *models.GrowthTask) []models.PlanBlocker {
	var blockers []models.PlanBlocker
	for _, task := range month.Tasks {
		if task.Role == models.RoleMoney || task.SupportsSlug != "" {
			continue
		}
		if money == nil {
			blockers = append(blockers, models.PlanBlocker{
				Kind:    models.BlockerMissingSupport,
				Slug:    task.Slug,
				Message: fmt.Sprintf("month %d has no money task for %s to support", month.Month, task.Slug),
			})
			continue
		}
		task.SupportsSlug = money.Slug
		money.LinksDown = append(money.LinksDown, task.Slug)
		task.LinksUp = append(task.LinksUp, money.Slug)
		month.Warnings = append(month.Warnings,
			fmt.Sprintf("support reference auto-wired: %s -> %s", task.Slug, money.Slug))
	}
	return blockers
}

// classifySlot is the strict first-match-wins classification of a task into
// a cadence slot. Trust pages and case-study titles take the case-study
// slot before role-based rules apply.
func classifySlot(task *models.GrowthTask) models.CadenceSlot {
	switch {
	case task.Role == models.RoleTrust || ContainsAny(task.Title, caseStudyKeywords...):
		return models.SlotCaseStudy
	case task.Role == models.RoleMoney:
		return models.SlotMoney
	case task.Role == models.RoleAuthority:
		return models.SlotAuthority
	case task.Role == models.RoleSupport:
		return models.SlotSupport
	default:
		return ""
	}
}

// takeLooseMatch searches the unclassified pool with looser heuristics and
// removes the first match.
func takeLooseMatch(pool *[]*models.GrowthTask, slot models.CadenceSlot) *models.GrowthTask {
	for i, task := range *pool {
		var ok bool
		switch slot {
		case models.SlotMoney:
			ok = task.Intent == models.IntentBuy
		case models.SlotSupport:
			ok = task.Intent == models.IntentLearn
		case models.SlotCaseStudy:
			ok = task.Intent == models.IntentTrust
		case models.SlotAuthority:
			ok = ContainsAny(task.Title, "guide", "trends", "explained")
		}
		if ok {
			*pool = append((*pool)[:i], (*pool)[i+1:]...)
			return task
		}
	}
	return nil
}

// synthesizeSlot deterministically generates a filler task for an empty
// slot: service rotated by month index, title drawn from a fixed template
// set also rotated by month index. Candidates whose slug is already claimed
// elsewhere in the plan, or rejected by validate (e.g. an ownership
// collision), fall through to the next service rotation.
func (s *cadenceScheduler) synthesizeSlot(monthIdx int, slot models.CadenceSlot, business *models.BusinessRealityModel, claimed map[string]bool, validate func(*models.GrowthTask) bool) *models.GrowthTask {
	services := ValidServices(business.CoreServices)
	if len(services) == 0 {
		return nil
	}
	location := business.PrimaryLocation()

	accept := func(task *models.GrowthTask) bool {
		if claimed[NormalizeSlug(task.Slug)] {
			return false
		}
		return validate == nil || validate(task)
	}

	for attempt := 0; attempt < len(services); attempt++ {
		svc := services[(monthIdx-1+attempt)%len(services)]
		task := s.slotTemplate(monthIdx, slot, svc, location)
		if accept(task) {
			return task
		}
	}

	// Every rotation candidate is claimed elsewhere in the plan or collided
	// with an owned money page. The slot is still mandatory, so fall back to
	// a month-stamped task: calendar months are distinct within a plan year,
	// so the fallback slug cannot repeat.
	for attempt := 0; attempt < len(services); attempt++ {
		svc := services[(monthIdx-1+attempt)%len(services)]
		var task *models.GrowthTask
		if slot == models.SlotMoney {
			task = s.refreshTemplate(monthIdx, svc, location)
		} else {
			task = s.monthlyTemplate(monthIdx, slot, svc)
		}
		if accept(task) {
			return task
		}
	}
	return nil
}

// monthlyTemplate builds the month-stamped filler for a non-money slot once
// the rotation templates are exhausted.
func (s *cadenceScheduler) monthlyTemplate(monthIdx int, slot models.CadenceSlot, svc string) *models.GrowthTask {
	s.seq++
	calendar := s.start.AddDate(0, monthIdx-1, 0).Month()

	task := &models.GrowthTask{
		ID:      fmt.Sprintf("cs-%02d-%03d", monthIdx, s.seq),
		Month:   monthIdx,
		Action:  models.ActionCreate,
		Service: svc,
		Channel: "website",
		Status:  models.StatusPlanned,
	}

	switch slot {
	case models.SlotSupport:
		task.Role = models.RoleSupport
		task.Intent = models.IntentLearn
		task.Title = fmt.Sprintf("%s Advice for %s", TitleCase(svc), calendar)
		task.WordCount = defaultWordCounts[models.RoleSupport]
	case models.SlotCaseStudy:
		task.Role = models.RoleTrust
		task.Intent = models.IntentTrust
		task.Title = fmt.Sprintf("%s %s Project Spotlight", calendar, TitleCase(svc))
		task.WordCount = defaultWordCounts[models.RoleTrust]
	case models.SlotAuthority:
		task.Role = models.RoleAuthority
		task.Intent = models.IntentLearn
		task.Title = fmt.Sprintf("The %s Guide to %s", calendar, TitleCase(svc))
		task.WordCount = defaultWordCounts[models.RoleAuthority]
	}

	task.Slug = Slugify(task.Title)
	task.PrimaryQuestion = PrimaryQuestion(task)
	return task
}

// refreshTemplate builds a money-slot refresh of an already-owned page,
// titled by the calendar month so every month's refresh is distinct.
func (s *cadenceScheduler) refreshTemplate(monthIdx int, svc, location string) *models.GrowthTask {
	s.seq++
	calendar := s.start.AddDate(0, monthIdx-1, 0).Month()

	title := fmt.Sprintf("%s: %s Refresh", serviceTitle(svc, location), calendar)
	task := &models.GrowthTask{
		ID:        fmt.Sprintf("cs-%02d-%03d", monthIdx, s.seq),
		Month:     monthIdx,
		Title:     title,
		Slug:      Slugify(title),
		Action:    models.ActionRefresh,
		Role:      models.RoleMoney,
		Service:   svc,
		Location:  location,
		Intent:    models.IntentBuy,
		WordCount: defaultWordCounts[models.RoleMoney],
		Channel:   "website",
		Status:    models.StatusPlanned,
	}
	task.PrimaryQuestion = PrimaryQuestion(task)
	return task
}

// slotTemplate builds the synthesized task for one (month, slot, service)
// combination.
func (s *cadenceScheduler) slotTemplate(monthIdx int, slot models.CadenceSlot, svc, location string) *models.GrowthTask {
	s.seq++
	task := &models.GrowthTask{
		ID:      fmt.Sprintf("cs-%02d-%03d", monthIdx, s.seq),
		Month:   monthIdx,
		Action:  models.ActionCreate,
		Service: svc,
		Channel: "website",
		Status:  models.StatusPlanned,
	}

	pick := func(templates []string) string {
		return templates[(monthIdx-1)%len(templates)]
	}

	switch slot {
	case models.SlotMoney:
		task.Role = models.RoleMoney
		task.Intent = models.IntentBuy
		task.Location = location
		task.Title = fmt.Sprintf(pick([]string{
			"%s in %s",
			"Professional %s in %s",
			"Trusted %s in %s",
		}), TitleCase(svc), TitleCase(location))
		if location == "" {
			task.Title = TitleCase(svc)
		}
		task.WordCount = defaultWordCounts[models.RoleMoney]
	case models.SlotSupport:
		task.Role = models.RoleSupport
		task.Intent = models.IntentLearn
		task.Title = fmt.Sprintf(pick([]string{
			"%s FAQ",
			"What to Expect From %s",
			"%s Tips From the Trade",
		}), TitleCase(svc))
		task.WordCount = defaultWordCounts[models.RoleSupport]
	case models.SlotCaseStudy:
		task.Role = models.RoleTrust
		task.Intent = models.IntentTrust
		task.Title = fmt.Sprintf(pick([]string{
			"Case Study: %s for a Local Customer",
			"Recent %s Project",
			"%s Before and After",
		}), TitleCase(svc))
		task.WordCount = defaultWordCounts[models.RoleTrust]
	case models.SlotAuthority:
		task.Role = models.RoleAuthority
		task.Intent = models.IntentLearn
		task.Title = fmt.Sprintf(pick([]string{
			"The Complete Guide to %s",
			"%s Explained",
			fmt.Sprintf("%%s Trends for %d", s.start.Year()),
		}), TitleCase(svc))
		task.WordCount = defaultWordCounts[models.RoleAuthority]
	}

	task.Slug = Slugify(task.Title)
	task.PrimaryQuestion = PrimaryQuestion(task)
	return task
}

// fabricateMonth builds a whole month the synthesizer never supplied, with
// theme and KPI placeholders derived from its phase bucket.
func fabricateMonth(idx int) models.GrowthPlanMonth {
	var theme string
	var kpis []string
	switch {
	case idx <= 3:
		theme = "Foundation & Conversion Fixes"
		kpis = []string{"conversion paths restored"}
	case idx <= 6:
		theme = "Service Depth"
		kpis = []string{"service coverage widened"}
	case idx <= 9:
		theme = "Support & Expansion"
		kpis = []string{"supporting questions answered"}
	default:
		theme = "Authority Building"
		kpis = []string{"authority coverage grown"}
	}
	return models.GrowthPlanMonth{Month: idx, Theme: theme, KPIs: kpis, WasModified: true}
}

// PublishDate computes the publish timestamp for a cadence week of a plan
// month: first day of the month at 09:00 plus the fixed slot day offset,
// shifted forward off weekends (Saturday +2 days, Sunday +1), never
// backward. Pure and deterministic given (start, monthIdx, week).
func PublishDate(start time.Time, monthIdx, week int) time.Time {
	monthStart := time.Date(start.Year(), start.Month(), 1, 9, 0, 0, 0, start.Location())
	monthStart = monthStart.AddDate(0, monthIdx-1, 0)

	day := slotDayOffsets[week]
	if day == 0 {
		day = 24
	}
	date := monthStart.AddDate(0, 0, day-1)

	switch date.Weekday() {
	case time.Saturday:
		date = date.AddDate(0, 0, 2)
	case time.Sunday:
		date = date.AddDate(0, 0, 1)
	}
	return date
}

// Validate counts complete months and reports per-slot issues. A month is
// complete iff all four slots are populated.
func (s *cadenceScheduler) Validate(months []models.GrowthPlanMonth) *models.CadenceValidation {
	v := &models.CadenceValidation{}
	for _, month := range months {
		filled := make(map[models.CadenceSlot]bool)
		for _, task := range month.Tasks {
			if task.Slot != "" {
				filled[task.Slot] = true
			} else if slot := classifySlot(task); slot != "" && !filled[slot] {
				filled[slot] = true
			}
		}

		complete := true
		for _, slot := range models.CadenceSlots {
			if !filled[slot] {
				complete = false
				v.Issues = append(v.Issues, models.SlotIssue{
					Month:  month.Month,
					Slot:   slot,
					Detail: "slot has no task",
				})
			}
		}
		if complete {
			v.CompleteMonths++
		} else {
			v.IncompleteMonths++
		}
	}
	return v
}
