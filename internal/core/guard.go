package core

import (
	"fmt"
	"strings"

	"github.com/localedge/growthplan/pkg/models"
)

// unsafeComparisonPhrases are title fragments that produce legally or
// reputationally unsafe comparison pages. Tasks carrying them are hard
// blockers regardless of every other check.
var unsafeComparisonPhrases = []string{
	"vs other providers",
	"vs the competition",
	"best provider",
	"better than",
	"worst",
}

// seasonalPhrases mark money pages that are offer/seasonal variants of a
// core service page rather than new concepts.
var seasonalPhrases = []string{
	"offer", "deal", "discount", "seasonal", "special",
	"spring", "summer", "autumn", "winter", "christmas", "new year",
}

// Resolution is the guard's full output: the surviving months, the report,
// and the ownership registry for re-validating tasks synthesized later.
type Resolution struct {
	Months   []models.GrowthPlanMonth
	Report   *models.CannibalisationReport
	Registry *OwnershipRegistry
}

// OwnershipGuard assigns ownership keys, arbitrates duplicate ownership,
// and resolves or flags cannibalisation between planned tasks and the
// existing site.
type OwnershipGuard interface {
	Resolve(months []models.GrowthPlanMonth, existing []models.PageContentContext, business *models.BusinessRealityModel) *Resolution
	// ValidateSynthesized checks a scheduler-generated task against the
	// registry, registering it when accepted.
	ValidateSynthesized(task *models.GrowthTask, resolution *Resolution) bool
}

type ownershipGuard struct {
	cfg models.PlannerConfig
}

// NewOwnershipGuard creates an OwnershipGuard with the given thresholds.
func NewOwnershipGuard(cfg models.PlannerConfig) OwnershipGuard {
	return &ownershipGuard{cfg: cfg}
}

// Resolve builds the canonical index from existing money pages, walks every
// planned task in month order applying the resolution rules, then runs the
// advisory cannibalisation pass. Dropped tasks never leave a
// partially-registered canonical entry behind.
func (g *ownershipGuard) Resolve(months []models.GrowthPlanMonth, existing []models.PageContentContext, business *models.BusinessRealityModel) *Resolution {
	registry := NewOwnershipRegistry()
	report := &models.CannibalisationReport{}

	g.indexExisting(registry, existing, business)

	walk := &guardWalk{
		guard:     g,
		registry:  registry,
		report:    report,
		questions: make(map[string]*models.GrowthTask),
		faqBySvc:  make(map[string]*models.GrowthTask),
	}

	resolved := make([]models.GrowthPlanMonth, len(months))
	for i, month := range months {
		resolved[i] = month
		kept := make([]*models.GrowthTask, 0, len(month.Tasks))
		for _, task := range month.Tasks {
			if walk.admit(task) {
				kept = append(kept, task)
			}
		}
		resolved[i].Tasks = kept
	}

	g.detectEnhancedCannibalisation(resolved, existing, report)
	g.checkProofDiversity(business, report)

	report.Canonical = registry.Pages()
	return &Resolution{Months: resolved, Report: report, Registry: registry}
}

// indexExisting registers every existing money page first, so existing
// always wins ownership over planned.
func (g *ownershipGuard) indexExisting(registry *OwnershipRegistry, existing []models.PageContentContext, business *models.BusinessRealityModel) {
	for _, page := range existing {
		if page.Role != models.RoleMoney {
			continue
		}

		service := declaredOrInferredService(&page, business)
		if service == "" || IsGenericService(service) {
			continue
		}
		location := ""
		if len(page.Locations) > 0 {
			location = page.Locations[0]
		}

		registry.Register(models.CanonicalPage{
			Key:             OwnershipKey(service, location, models.IntentBuy),
			Source:          models.SourceExisting,
			Title:           page.Title,
			Slug:            NormalizeSlug(page.Path),
			PrimaryQuestion: existingPageQuestion(service, location),
		})
	}
}

// guardWalk carries the mutable state of one resolution walk.
type guardWalk struct {
	guard     *ownershipGuard
	registry  *OwnershipRegistry
	report    *models.CannibalisationReport
	questions map[string]*models.GrowthTask
	faqBySvc  map[string]*models.GrowthTask
}

// admit applies the resolution rules to one task and reports whether it
// survives into the resolved plan.
func (w *guardWalk) admit(task *models.GrowthTask) bool {
	if ContainsAny(task.Title, unsafeComparisonPhrases...) {
		w.block(models.BlockerUnsafeComparison, task.Slug, "",
			fmt.Sprintf("unsafe comparison title %q", task.Title), 0)
		return false
	}

	if task.PrimaryQuestion == "" {
		task.PrimaryQuestion = PrimaryQuestion(task)
	}

	if task.Role == models.RoleMoney {
		if !w.admitMoney(task) {
			return false
		}
	} else {
		if !w.admitSupporting(task) {
			return false
		}
	}

	return w.admitQuestion(task)
}

// admitMoney arbitrates money-page ownership. Seasonal/offer variants that
// collide with a core page are reframed to support; genuine duplicates are
// dropped as blockers.
func (w *guardWalk) admitMoney(task *models.GrowthTask) bool {
	key := OwnershipKey(task.Service, task.Location, task.Intent)
	task.OwnershipKey = key

	canonical := w.registry.Lookup(key)
	if canonical == nil {
		w.registry.Register(models.CanonicalPage{
			Key:             key,
			Source:          models.SourcePlanned,
			Title:           task.Title,
			Slug:            task.Slug,
			PrimaryQuestion: task.PrimaryQuestion,
		})
		return true
	}

	if ContainsAny(task.Title, seasonalPhrases...) {
		task.Role = models.RoleSupport
		task.Intent = models.IntentLearn
		task.OwnershipKey = ""
		task.SupportsSlug = canonical.Slug
		task.SupportType = "seasonal"
		w.registry.AddSupport(key, task.Slug)
		w.warn("seasonal_reframe", task.Slug,
			fmt.Sprintf("seasonal page reframed to support %s", canonical.Slug))
		return true
	}

	w.block(models.BlockerDuplicateOwnership, task.Slug, canonical.Slug,
		fmt.Sprintf("ownership key %s already held by %s", key, canonical.Slug), 0)
	return false
}

// admitSupporting enforces the supports reference on non-money tasks,
// auto-assigning the canonical money page for the same service when the
// reference is absent.
func (w *guardWalk) admitSupporting(task *models.GrowthTask) bool {
	if task.Role == models.RoleSupport && task.Intent == models.IntentBuy {
		task.Intent = models.IntentLearn
		w.warn("intent_corrected", task.Slug, "support page intent corrected from buy to learn")
	}

	if task.SupportsSlug == "" {
		keyed := OwnershipKey(task.Service, task.Location, models.IntentBuy)
		global := OwnershipKey(task.Service, "", models.IntentBuy)

		canonical := w.registry.Lookup(keyed)
		if canonical == nil {
			canonical = w.registry.Lookup(global)
		}
		if canonical == nil {
			w.block(models.BlockerMissingSupport, task.Slug, "",
				fmt.Sprintf("no money page exists for %q to support", task.Service), 0)
			return false
		}

		task.SupportsSlug = canonical.Slug
		w.registry.AddSupport(canonical.Key, task.Slug)
		w.warn("support_autowired", task.Slug,
			fmt.Sprintf("support reference auto-assigned to %s", canonical.Slug))
	}

	if IsFAQTask(task) {
		svc := normalizeKeyPart(task.Service)
		if first, seen := w.faqBySvc[svc]; seen {
			w.merge(task.Slug, first.Slug, "faq consolidation: one FAQ page per service")
			return false
		}
		w.faqBySvc[svc] = task
	}

	return true
}

// admitQuestion drops later tasks answering an identical primary question,
// merging them into the earlier one unless a money page is involved.
func (w *guardWalk) admitQuestion(task *models.GrowthTask) bool {
	normalized := strings.ToLower(strings.TrimSpace(task.PrimaryQuestion))
	if normalized == "" {
		return true
	}

	earlier, seen := w.questions[normalized]
	if !seen {
		w.questions[normalized] = task
		return true
	}

	if earlier.Role == models.RoleMoney || task.Role == models.RoleMoney {
		w.warn("question_overlap", task.Slug,
			fmt.Sprintf("answers the same question as %s", earlier.Slug))
		return true
	}

	w.merge(task.Slug, earlier.Slug, "duplicate primary question")
	return false
}

func (w *guardWalk) block(kind models.BlockerKind, slug, against, msg string, score float64) {
	w.report.Blockers = append(w.report.Blockers, models.PlanBlocker{
		Kind: kind, Slug: slug, Against: against, Message: msg, Score: score,
	})
	w.report.Dropped = append(w.report.Dropped, slug)
}

func (w *guardWalk) warn(code, slug, msg string) {
	w.report.Warnings = append(w.report.Warnings, models.PlanWarning{Code: code, Slug: slug, Message: msg})
}

func (w *guardWalk) merge(dropped, into, reason string) {
	w.report.Merged = append(w.report.Merged, models.MergedTask{
		DroppedSlug: dropped, IntoSlug: into, Reason: reason,
	})
}

// ValidateSynthesized re-runs ownership arbitration for a task generated by
// the scheduler. Money tasks must claim a free key; supporting tasks only
// need a resolvable money page.
func (g *ownershipGuard) ValidateSynthesized(task *models.GrowthTask, resolution *Resolution) bool {
	if task.Role == models.RoleMoney {
		key := OwnershipKey(task.Service, task.Location, task.Intent)
		task.OwnershipKey = key
		if task.Action == models.ActionRefresh {
			// A refresh works on the page already holding the key.
			return resolution.Registry.Lookup(key) != nil
		}
		return resolution.Registry.Register(models.CanonicalPage{
			Key:             key,
			Source:          models.SourcePlanned,
			Title:           task.Title,
			Slug:            task.Slug,
			PrimaryQuestion: PrimaryQuestion(task),
		})
	}
	return true
}

// detectEnhancedCannibalisation is the second, advisory pass: Jaccard
// similarity of every task's question/title against existing H1s and every
// other task, plus normalized slug collisions. It only reports; it never
// mutates the plan.
func (g *ownershipGuard) detectEnhancedCannibalisation(months []models.GrowthPlanMonth, existing []models.PageContentContext, report *models.CannibalisationReport) {
	threshold := g.cfg.SimilarityThreshold

	var tasks []*models.GrowthTask
	for _, m := range months {
		tasks = append(tasks, m.Tasks...)
	}

	existingSlugs := make(map[string]string)
	for _, page := range existing {
		existingSlugs[NormalizeSlug(page.Path)] = page.Path
	}

	for i, task := range tasks {
		text := task.PrimaryQuestion
		if text == "" {
			text = task.Title
		}

		for _, page := range existing {
			if page.H1 == "" {
				continue
			}
			if sim := Jaccard(text, page.H1); sim >= threshold {
				report.Blockers = append(report.Blockers, models.PlanBlocker{
					Kind:    models.BlockerSemanticDuplicate,
					Slug:    task.Slug,
					Against: page.Path,
					Score:   sim,
					Message: fmt.Sprintf("semantic duplicate of existing page %s (%.2f)", page.Path, sim),
				})
			}
		}

		for _, other := range tasks[i+1:] {
			otherText := other.PrimaryQuestion
			if otherText == "" {
				otherText = other.Title
			}
			if sim := Jaccard(text, otherText); sim >= threshold {
				report.Blockers = append(report.Blockers, models.PlanBlocker{
					Kind:    models.BlockerSemanticDuplicate,
					Slug:    other.Slug,
					Against: task.Slug,
					Score:   sim,
					Message: fmt.Sprintf("semantic duplicate of planned task %s (%.2f)", task.Slug, sim),
				})
			}
		}

		if page, collides := existingSlugs[NormalizeSlug(task.Slug)]; collides {
			report.Blockers = append(report.Blockers, models.PlanBlocker{
				Kind:    models.BlockerSlugCollision,
				Slug:    task.Slug,
				Against: page,
				Message: fmt.Sprintf("slug collides with existing page %s", page),
			})
		}
		for _, other := range tasks[i+1:] {
			if NormalizeSlug(task.Slug) == NormalizeSlug(other.Slug) {
				report.Blockers = append(report.Blockers, models.PlanBlocker{
					Kind:    models.BlockerSlugCollision,
					Slug:    other.Slug,
					Against: task.Slug,
					Message: fmt.Sprintf("slug collides with planned task %s", task.Slug),
				})
			}
		}
	}
}

// checkProofDiversity enforces the EEAT floor: a plan for a business with no
// usable proof signals at all is unsafe to execute.
func (g *ownershipGuard) checkProofDiversity(business *models.BusinessRealityModel, report *models.CannibalisationReport) {
	signals := 0
	if business.YearsActive > 0 {
		signals++
	}
	if len(business.ProofPoints) > 0 {
		signals++
	}
	if len(business.VolumeClaims) > 0 {
		signals++
	}
	if len(business.ReviewThemes) > 0 {
		signals++
	}
	if len(business.Guarantees) > 0 {
		signals++
	}

	if signals < 2 {
		report.Blockers = append(report.Blockers, models.PlanBlocker{
			Kind:    models.BlockerProofDiversity,
			Message: fmt.Sprintf("only %d EEAT proof signal(s) available; at least 2 are required", signals),
		})
	}
}

// declaredOrInferredService resolves an existing page's service: declared
// mentions win, then business services found in the title or H1.
func declaredOrInferredService(page *models.PageContentContext, business *models.BusinessRealityModel) string {
	for _, s := range page.Services {
		if !IsGenericService(s) {
			return s
		}
	}
	for _, s := range ValidServices(business.CoreServices) {
		if ContainsAny(page.Title+" "+page.H1, strings.ToLower(s)) {
			return s
		}
	}
	return ""
}

// existingPageQuestion mirrors the money-page primary question for pages
// that already exist.
func existingPageQuestion(service, location string) string {
	q := "who provides " + strings.ToLower(service)
	if location != "" {
		q += " in " + strings.ToLower(location)
	}
	return q
}
