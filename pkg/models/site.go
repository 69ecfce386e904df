package models

// PageRole classifies what job an existing or planned page does for the
// business.
type PageRole string

const (
	RoleMoney     PageRole = "money"
	RoleTrust     PageRole = "trust"
	RoleSupport   PageRole = "support"
	RoleAuthority PageRole = "authority"
	RoleHome      PageRole = "home"
	RoleOther     PageRole = "other"
)

// SitePage is the structural summary of one existing page: enough to reason
// about roles, duplication, and internal linking without the full content.
type SitePage struct {
	Path         string   `yaml:"path"`
	Title        string   `yaml:"title"`
	H1           string   `yaml:"h1"`
	Role         PageRole `yaml:"role"`
	InboundLinks int      `yaml:"inbound_links"`
}

// SiteStructureContext is the structural view of the existing website.
type SiteStructureContext struct {
	HomePath string     `yaml:"home_path"`
	Pages    []SitePage `yaml:"pages"`
}

// PageContentContext carries the extracted content signals for one existing
// page. It is produced by the signal extractor (or the ingest scanner) and
// consumed read-only by the gap analyzer.
type PageContentContext struct {
	Path            string   `yaml:"path"`
	Title           string   `yaml:"title"`
	H1              string   `yaml:"h1"`
	MetaDescription string   `yaml:"meta_description"`
	Role            PageRole `yaml:"role"`
	WordCount       int      `yaml:"word_count"`
	Services        []string `yaml:"services"`
	Locations       []string `yaml:"locations"`
	HasPhone        bool     `yaml:"has_phone"`
	HasForm         bool     `yaml:"has_form"`
	HasCTA          bool     `yaml:"has_cta"`
	OutboundLinks   []string `yaml:"outbound_links"`
}

// Page returns the SitePage with the given path, or nil.
func (s *SiteStructureContext) Page(path string) *SitePage {
	for i := range s.Pages {
		if s.Pages[i].Path == path {
			return &s.Pages[i]
		}
	}
	return nil
}
