package storage

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/localedge/growthplan/internal/core"
	"github.com/localedge/growthplan/pkg/models"
)

// LoadBusiness reads and validates a business reality file. The business
// must declare a name and at least one specific (non-generic) core service;
// everything else is optional.
func LoadBusiness(path string) (*models.BusinessRealityModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading business file: %w", err)
	}
	var business models.BusinessRealityModel
	if err := yaml.Unmarshal(data, &business); err != nil {
		return nil, fmt.Errorf("loading business file: parsing: %w", err)
	}

	if strings.TrimSpace(business.Name) == "" {
		return nil, fmt.Errorf("loading business file: business name is required")
	}
	if len(core.ValidServices(business.CoreServices)) == 0 {
		return nil, fmt.Errorf("loading business file: at least one specific core service is required")
	}
	return &business, nil
}

// SiteSnapshot bundles the structural and per-page content views of an
// existing website, as stored in a single site file.
type SiteSnapshot struct {
	Structure models.SiteStructureContext `yaml:"structure"`
	Pages     []models.PageContentContext `yaml:"pages"`
}

// LoadSite reads a site snapshot file. A missing file is not an error: a
// business with no website yet planning from a blank slate is a supported
// case, and yields an empty snapshot.
func LoadSite(path string) (*SiteSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &SiteSnapshot{}, nil
		}
		return nil, fmt.Errorf("loading site file: %w", err)
	}
	var snapshot SiteSnapshot
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("loading site file: parsing: %w", err)
	}

	seen := make(map[string]bool)
	for _, page := range snapshot.Structure.Pages {
		if page.Path == "" {
			return nil, fmt.Errorf("loading site file: page with empty path")
		}
		if seen[page.Path] {
			return nil, fmt.Errorf("loading site file: duplicate page path %q", page.Path)
		}
		seen[page.Path] = true
	}
	return &snapshot, nil
}
