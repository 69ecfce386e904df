// Package ingest builds planning inputs from a directory of exported HTML
// pages, so a plan can be generated straight from a static site dump without
// hand-writing a site snapshot file.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/localedge/growthplan/internal/core"
	"github.com/localedge/growthplan/pkg/models"
)

// SiteScanner extracts structural and content signals from exported HTML.
type SiteScanner interface {
	// ScanDir parses every .html file under dir (sorted by path, for
	// deterministic output) into page content contexts plus a structural
	// view with inbound-link counts.
	ScanDir(dir string, business *models.BusinessRealityModel) (*models.SiteStructureContext, []models.PageContentContext, error)
}

type htmlSiteScanner struct{}

// NewSiteScanner creates a SiteScanner for static HTML exports.
func NewSiteScanner() SiteScanner {
	return &htmlSiteScanner{}
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	phoneRe      = regexp.MustCompile(`(?i)\b(?:call|phone|tel)\b|(?:\+?\d[\d\s\-()]{8,}\d)`)
)

var ctaPhrases = []string{
	"get a quote", "free quote", "request a quote", "book now", "book online",
	"contact us", "get in touch", "call us", "enquire", "get started",
}

func (s *htmlSiteScanner) ScanDir(dir string, business *models.BusinessRealityModel) (*models.SiteStructureContext, []models.PageContentContext, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), ".html") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("scanning site directory: %w", err)
	}
	sort.Strings(paths)
	if len(paths) == 0 {
		return nil, nil, fmt.Errorf("scanning site directory: no .html files under %s", dir)
	}

	structure := &models.SiteStructureContext{}
	var pages []models.PageContentContext
	inbound := make(map[string]int)

	for _, path := range paths {
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			rel = path
		}
		sitePath := "/" + filepath.ToSlash(rel)

		page, err := s.scanFile(path, sitePath, business)
		if err != nil {
			return nil, nil, err
		}
		pages = append(pages, *page)

		for _, link := range page.OutboundLinks {
			inbound[link]++
		}
		if isHomePath(sitePath) && structure.HomePath == "" {
			structure.HomePath = sitePath
		}
	}

	for _, page := range pages {
		structure.Pages = append(structure.Pages, models.SitePage{
			Path:         page.Path,
			Title:        page.Title,
			H1:           page.H1,
			Role:         page.Role,
			InboundLinks: inbound[page.Path],
		})
	}
	return structure, pages, nil
}

func (s *htmlSiteScanner) scanFile(path, sitePath string, business *models.BusinessRealityModel) (*models.PageContentContext, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: parsing HTML: %w", path, err)
	}

	doc.Find("script,noscript,style").Each(func(_ int, sel *goquery.Selection) {
		sel.Remove()
	})

	title := strings.TrimSpace(doc.Find("title").First().Text())
	h1 := strings.TrimSpace(doc.Find("h1").First().Text())
	meta := strings.TrimSpace(doc.Find(`meta[name="description"]`).AttrOr("content", ""))

	var parts []string
	doc.Find("p,li,h1,h2,h3").Each(func(_ int, sel *goquery.Selection) {
		if t := strings.TrimSpace(sel.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	text := strings.TrimSpace(whitespaceRe.ReplaceAllString(strings.Join(parts, " "), " "))
	wordCount := len(strings.Fields(text))

	body := strings.ToLower(text)
	hasPhone := phoneRe.MatchString(body)
	doc.Find(`a[href^="tel:"]`).Each(func(_ int, _ *goquery.Selection) {
		hasPhone = true
	})
	hasForm := doc.Find("form").Length() > 0
	hasCTA := core.ContainsAny(body, ctaPhrases...)

	var links []string
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href := sel.AttrOr("href", "")
		if !isInternalLink(href) {
			return
		}
		href = normalizeLink(href)
		if href == "" || href == sitePath || seen[href] {
			return
		}
		seen[href] = true
		links = append(links, href)
	})
	sort.Strings(links)

	haystack := strings.ToLower(title + " " + h1 + " " + body)
	var services, locations []string
	if business != nil {
		for _, svc := range business.CoreServices {
			if strings.Contains(haystack, strings.ToLower(svc)) {
				services = append(services, svc)
			}
		}
		for _, loc := range business.Locations {
			if strings.Contains(haystack, strings.ToLower(loc)) {
				locations = append(locations, loc)
			}
		}
	}

	return &models.PageContentContext{
		Path:            sitePath,
		Title:           title,
		H1:              h1,
		MetaDescription: meta,
		Role:            classifyRole(sitePath, title, h1, len(services) > 0, hasCTA || hasForm),
		WordCount:       wordCount,
		Services:        services,
		Locations:       locations,
		HasPhone:        hasPhone,
		HasForm:         hasForm,
		HasCTA:          hasCTA,
		OutboundLinks:   links,
	}, nil
}

func isHomePath(path string) bool {
	return path == "/index.html" || path == "/home.html"
}

func isInternalLink(href string) bool {
	if href == "" || strings.HasPrefix(href, "#") {
		return false
	}
	for _, prefix := range []string{"http://", "https://", "mailto:", "tel:", "javascript:"} {
		if strings.HasPrefix(strings.ToLower(href), prefix) {
			return false
		}
	}
	return true
}

func normalizeLink(href string) string {
	if i := strings.IndexAny(href, "#?"); i >= 0 {
		href = href[:i]
	}
	if href == "" {
		return ""
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return href
}

var trustPathHints = []string{"about", "testimonial", "review", "case-stud", "case_stud"}
var supportPathHints = []string{"faq", "contact", "process", "how-it-works", "guide"}

func classifyRole(path, title, h1 string, mentionsService, converts bool) models.PageRole {
	if isHomePath(path) {
		return models.RoleHome
	}
	lower := strings.ToLower(path + " " + title + " " + h1)
	if core.ContainsAny(lower, trustPathHints...) {
		return models.RoleTrust
	}
	if core.ContainsAny(lower, supportPathHints...) {
		return models.RoleSupport
	}
	if mentionsService && converts {
		return models.RoleMoney
	}
	if mentionsService {
		return models.RoleSupport
	}
	return models.RoleOther
}
