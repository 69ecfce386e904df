package core

import (
	"fmt"
	"strings"

	"github.com/localedge/growthplan/pkg/models"
)

// thinPageWordCount is the word count below which a dedicated service page
// is considered too thin to rank.
const thinPageWordCount = 500

// essentialPage describes one page every local service site should have,
// matched by keyword against path, title, and H1.
type essentialPage struct {
	name     string
	role     models.PageRole
	keywords []string
	priority models.GapPriority
	// blocksConversion marks essentials whose absence stops visitors
	// converting (e.g. contact).
	blocksConversion bool
}

// essentialPages is the fixed checklist of trust and support pages.
var essentialPages = []essentialPage{
	{name: "About", role: models.RoleTrust, keywords: []string{"about", "who we are", "our team"}, priority: models.PriorityHigh},
	{name: "Testimonials", role: models.RoleTrust, keywords: []string{"testimonial", "review"}, priority: models.PriorityHigh},
	{name: "Case Studies", role: models.RoleTrust, keywords: []string{"case stud", "our work", "portfolio", "project"}, priority: models.PriorityHigh},
	{name: "FAQ", role: models.RoleSupport, keywords: []string{"faq", "frequently asked", "question"}, priority: models.PriorityMedium},
	{name: "Process", role: models.RoleSupport, keywords: []string{"process", "how it works", "what to expect"}, priority: models.PriorityMedium},
	{name: "Contact", role: models.RoleSupport, keywords: []string{"contact", "get in touch", "enquir"}, priority: models.PriorityHigh, blocksConversion: true},
}

// moneyIntentKeywords signal commercial intent; a support-role page leaking
// these in its path or title is bleeding into money-page territory.
var moneyIntentKeywords = []string{"cost", "price", "pricing", "quote", "hire", "buy", "book", "near me"}

// GapAnalyzer compares business reality against the existing site and
// produces typed page gaps and structural issues.
type GapAnalyzer interface {
	Analyze(site *models.SiteStructureContext, pages []models.PageContentContext, business *models.BusinessRealityModel) *models.GapAnalysis
}

type gapAnalyzer struct{}

// NewGapAnalyzer creates a stateless GapAnalyzer.
func NewGapAnalyzer() GapAnalyzer {
	return &gapAnalyzer{}
}

// Analyze walks every valid core service looking for a dedicated page, then
// checks the essential-page checklist and structural issues. Empty input
// yields an empty gap set, never an error.
func (a *gapAnalyzer) Analyze(site *models.SiteStructureContext, pages []models.PageContentContext, business *models.BusinessRealityModel) *models.GapAnalysis {
	analysis := &models.GapAnalysis{}
	if business == nil {
		return analysis
	}

	location := business.PrimaryLocation()

	for _, service := range ValidServices(business.CoreServices) {
		page := dedicatedPage(pages, service)
		if page == nil {
			analysis.Gaps = append(analysis.Gaps, models.PageGap{
				Role:           models.RoleMoney,
				Service:        service,
				Location:       location,
				Priority:       models.PriorityCritical,
				Action:         models.ActionCreate,
				SuggestedTitle: serviceTitle(service, location),
				Detail:         fmt.Sprintf("no page dedicated to %q", service),
			})
			continue
		}

		analysis.Gaps = append(analysis.Gaps, servicePageGaps(page, service, location)...)
	}

	analysis.Gaps = append(analysis.Gaps, missingEssentials(pages, business)...)

	if site != nil {
		analysis.StructuralIssues = structuralIssues(site)
	}

	return analysis
}

// dedicatedPage finds the first page dedicated to a service, by declared
// service mention or by the service appearing in title or H1.
func dedicatedPage(pages []models.PageContentContext, service string) *models.PageContentContext {
	lower := strings.ToLower(service)
	for i := range pages {
		p := &pages[i]
		for _, s := range p.Services {
			if strings.EqualFold(s, service) {
				return p
			}
		}
		if strings.Contains(strings.ToLower(p.Title), lower) || strings.Contains(strings.ToLower(p.H1), lower) {
			return p
		}
	}
	return nil
}

// servicePageGaps sizes the weaknesses of an existing dedicated page by
// severity: broken conversion paths outrank thin content, which outranks
// missing location anchoring.
func servicePageGaps(page *models.PageContentContext, service, location string) []models.PageGap {
	var gaps []models.PageGap

	thin := page.WordCount < thinPageWordCount
	noConversion := !page.HasPhone && !page.HasForm && !page.HasCTA

	switch {
	case thin && noConversion:
		gaps = append(gaps, models.PageGap{
			Role:             models.RoleMoney,
			Service:          service,
			Location:         location,
			Priority:         models.PriorityCritical,
			Action:           models.ActionRebuild,
			SuggestedTitle:   serviceTitle(service, location),
			BlocksConversion: true,
			Detail:           fmt.Sprintf("%s is thin (%d words) and has no conversion path", page.Path, page.WordCount),
		})
	case noConversion:
		gaps = append(gaps, models.PageGap{
			Role:             models.RoleMoney,
			Service:          service,
			Location:         location,
			Priority:         models.PriorityHigh,
			Action:           models.ActionFix,
			SuggestedTitle:   page.Title,
			BlocksConversion: true,
			Detail:           fmt.Sprintf("%s has no phone, form, or call to action", page.Path),
		})
	case thin:
		gaps = append(gaps, models.PageGap{
			Role:           models.RoleMoney,
			Service:        service,
			Location:       location,
			Priority:       models.PriorityHigh,
			Action:         models.ActionExpand,
			SuggestedTitle: page.Title,
			Detail:         fmt.Sprintf("%s is thin (%d words)", page.Path, page.WordCount),
		})
	}

	if location != "" && !mentionsLocation(page, location) {
		gaps = append(gaps, models.PageGap{
			Role:           models.RoleMoney,
			Service:        service,
			Location:       location,
			Priority:       models.PriorityMedium,
			Action:         models.ActionExpand,
			SuggestedTitle: serviceTitle(service, location),
			Detail:         fmt.Sprintf("%s is not anchored to %s", page.Path, location),
		})
	}

	return gaps
}

// mentionsLocation checks the page's declared locations and visible text
// fields for the target location.
func mentionsLocation(page *models.PageContentContext, location string) bool {
	for _, l := range page.Locations {
		if strings.EqualFold(l, location) {
			return true
		}
	}
	return ContainsAny(page.Title+" "+page.H1+" "+page.MetaDescription, strings.ToLower(location))
}

// missingEssentials checks the fixed essential-page list against every
// page's path, title, and H1.
func missingEssentials(pages []models.PageContentContext, business *models.BusinessRealityModel) []models.PageGap {
	var gaps []models.PageGap
	service := firstValidService(business)

	for _, essential := range essentialPages {
		if hasEssential(pages, essential) {
			continue
		}
		gaps = append(gaps, models.PageGap{
			Role:             essential.role,
			Service:          service,
			Priority:         essential.priority,
			Action:           models.ActionCreate,
			SuggestedTitle:   essentialTitle(essential, business),
			BlocksConversion: essential.blocksConversion,
			Detail:           fmt.Sprintf("no %s page found", strings.ToLower(essential.name)),
		})
	}

	return gaps
}

func hasEssential(pages []models.PageContentContext, essential essentialPage) bool {
	for _, p := range pages {
		haystack := p.Path + " " + p.Title + " " + p.H1
		if ContainsAny(haystack, essential.keywords...) {
			return true
		}
	}
	return false
}

// structuralIssues flags orphaned pages, duplicate normalized titles, and
// support pages bleeding money-intent keywords.
func structuralIssues(site *models.SiteStructureContext) []models.StructuralIssue {
	var issues []models.StructuralIssue

	titleOwners := make(map[string]string)
	for _, page := range site.Pages {
		if page.InboundLinks == 0 && page.Path != site.HomePath {
			issues = append(issues, models.StructuralIssue{
				Kind:   models.IssueOrphanPage,
				Path:   page.Path,
				Detail: "no inbound internal links",
			})
		}

		normalized := strings.ToLower(strings.TrimSpace(page.Title))
		if normalized != "" {
			if first, seen := titleOwners[normalized]; seen && first != page.Path {
				issues = append(issues, models.StructuralIssue{
					Kind:   models.IssueDuplicateTitle,
					Path:   page.Path,
					Detail: fmt.Sprintf("title duplicates %s", first),
				})
			} else if !seen {
				titleOwners[normalized] = page.Path
			}
		}

		if page.Role == models.RoleSupport && ContainsAny(page.Path+" "+page.Title, moneyIntentKeywords...) {
			issues = append(issues, models.StructuralIssue{
				Kind:   models.IssueTopicBleed,
				Path:   page.Path,
				Detail: "support page carries money-intent keywords",
			})
		}
	}

	return issues
}

// serviceTitle builds the templated candidate title for a missing money
// page.
func serviceTitle(service, location string) string {
	if location == "" {
		return TitleCase(service)
	}
	return fmt.Sprintf("%s in %s", TitleCase(service), TitleCase(location))
}

// essentialTitle builds the candidate title for a missing essential page.
func essentialTitle(essential essentialPage, business *models.BusinessRealityModel) string {
	switch essential.name {
	case "About":
		return "About " + business.Name
	case "Testimonials":
		return business.Name + " Reviews & Testimonials"
	case "Case Studies":
		return "Our Recent Work & Case Studies"
	case "FAQ":
		return "Frequently Asked Questions"
	case "Process":
		return "How We Work"
	case "Contact":
		return "Contact " + business.Name
	}
	return essential.name
}

// firstValidService returns the first non-generic core service, or "" when
// none exist.
func firstValidService(business *models.BusinessRealityModel) string {
	valid := ValidServices(business.CoreServices)
	if len(valid) == 0 {
		return ""
	}
	return valid[0]
}
