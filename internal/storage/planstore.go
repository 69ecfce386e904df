package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/localedge/growthplan/pkg/models"
)

// PlanStore defines the interface for persisting generated growth plans.
// Each saved plan lives in its own run directory under the base path,
// alongside a manifest recording the run ID and a content hash of the
// plan document.
type PlanStore interface {
	// SavePlan writes the plan and its manifest, returning the manifest.
	SavePlan(plan *models.GrowthPlan) (*models.PlanManifest, error)
	// LoadPlan reads a previously saved plan by run ID.
	LoadPlan(runID string) (*models.GrowthPlan, error)
	// LoadManifest reads a manifest by run ID.
	LoadManifest(runID string) (*models.PlanManifest, error)
	// ListPlans returns all manifests under the base path, newest first.
	ListPlans() ([]models.PlanManifest, error)
	// LatestPlan returns the most recently created plan, or nil if none exist.
	LatestPlan() (*models.GrowthPlan, error)
}

type filePlanStore struct {
	basePath string
	now      func() time.Time
	newID    func() string
}

// NewPlanStore creates a PlanStore backed by YAML files under basePath.
func NewPlanStore(basePath string) PlanStore {
	return &filePlanStore{
		basePath: basePath,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

func (s *filePlanStore) runDir(runID string) string {
	return filepath.Join(s.basePath, runID)
}

func (s *filePlanStore) planPath(runID string) string {
	return filepath.Join(s.runDir(runID), "plan.yaml")
}

func (s *filePlanStore) manifestPath(runID string) string {
	return filepath.Join(s.runDir(runID), "manifest.yaml")
}

func (s *filePlanStore) SavePlan(plan *models.GrowthPlan) (*models.PlanManifest, error) {
	if plan == nil {
		return nil, fmt.Errorf("saving plan: plan is nil")
	}

	data, err := yaml.Marshal(plan)
	if err != nil {
		return nil, fmt.Errorf("saving plan: marshaling: %w", err)
	}

	hash := sha256.Sum256(data)
	taskCount := 0
	for _, month := range plan.Months {
		taskCount += len(month.Tasks)
	}
	blockers := 0
	if plan.Report != nil {
		blockers = len(plan.Report.Blockers)
	}

	manifest := &models.PlanManifest{
		RunID:       s.newID(),
		CreatedAt:   s.now().UTC(),
		ContentHash: hex.EncodeToString(hash[:]),
		Business:    plan.Business,
		MonthCount:  len(plan.Months),
		TaskCount:   taskCount,
		Blockers:    blockers,
	}

	dir := s.runDir(manifest.RunID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("saving plan: creating run directory: %w", err)
	}
	if err := os.WriteFile(s.planPath(manifest.RunID), data, 0o644); err != nil {
		return nil, fmt.Errorf("saving plan: writing plan file: %w", err)
	}

	manifestData, err := yaml.Marshal(manifest)
	if err != nil {
		return nil, fmt.Errorf("saving plan: marshaling manifest: %w", err)
	}
	if err := os.WriteFile(s.manifestPath(manifest.RunID), manifestData, 0o644); err != nil {
		return nil, fmt.Errorf("saving plan: writing manifest: %w", err)
	}

	return manifest, nil
}

func (s *filePlanStore) LoadPlan(runID string) (*models.GrowthPlan, error) {
	data, err := os.ReadFile(s.planPath(runID))
	if err != nil {
		return nil, fmt.Errorf("loading plan %s: %w", runID, err)
	}
	var plan models.GrowthPlan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("loading plan %s: parsing: %w", runID, err)
	}
	return &plan, nil
}

func (s *filePlanStore) LoadManifest(runID string) (*models.PlanManifest, error) {
	data, err := os.ReadFile(s.manifestPath(runID))
	if err != nil {
		return nil, fmt.Errorf("loading manifest %s: %w", runID, err)
	}
	var manifest models.PlanManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("loading manifest %s: parsing: %w", runID, err)
	}
	return &manifest, nil
}

func (s *filePlanStore) ListPlans() ([]models.PlanManifest, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing plans: %w", err)
	}

	var manifests []models.PlanManifest
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		manifest, err := s.LoadManifest(entry.Name())
		if err != nil {
			// Skip run directories without a readable manifest.
			continue
		}
		manifests = append(manifests, *manifest)
	}

	sort.Slice(manifests, func(i, j int) bool {
		if !manifests[i].CreatedAt.Equal(manifests[j].CreatedAt) {
			return manifests[i].CreatedAt.After(manifests[j].CreatedAt)
		}
		return manifests[i].RunID < manifests[j].RunID
	})
	return manifests, nil
}

func (s *filePlanStore) LatestPlan() (*models.GrowthPlan, error) {
	manifests, err := s.ListPlans()
	if err != nil {
		return nil, err
	}
	if len(manifests) == 0 {
		return nil, nil
	}
	return s.LoadPlan(manifests[0].RunID)
}
