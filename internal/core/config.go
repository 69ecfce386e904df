package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/localedge/growthplan/pkg/models"
	"github.com/spf13/viper"
)

// ConfigurationManager loads and validates planner configuration from a
// .growthplanrc file.
type ConfigurationManager interface {
	Load() (*models.PlannerConfig, error)
	Validate(cfg *models.PlannerConfig) error
}

// viperConfigManager implements ConfigurationManager using Viper for
// reading the YAML config file.
type viperConfigManager struct {
	// basePath is the directory where .growthplanrc resides.
	basePath string
}

// NewConfigurationManager creates a ConfigurationManager that reads
// configuration relative to basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

// DefaultPlannerConfig returns a PlannerConfig populated with the defaults
// the pipeline was tuned around.
func DefaultPlannerConfig() *models.PlannerConfig {
	return &models.PlannerConfig{
		SimilarityThreshold:     0.82,
		FoundationAuthorityGate: 40,
		FoundationCriticalGate:  35,
		Strict:                  false,
		OutDir:                  "plans",
	}
}

// Load reads .growthplanrc from the base path. A missing file yields the
// defaults, not an error.
func (cm *viperConfigManager) Load() (*models.PlannerConfig, error) {
	cfg := DefaultPlannerConfig()

	path := filepath.Join(cm.basePath, ".growthplanrc")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("similarity_threshold", cfg.SimilarityThreshold)
	v.SetDefault("foundation_authority_gate", cfg.FoundationAuthorityGate)
	v.SetDefault("foundation_critical_gate", cfg.FoundationCriticalGate)
	v.SetDefault("strict", cfg.Strict)
	v.SetDefault("out_dir", cfg.OutDir)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading .growthplanrc: %w", err)
	}

	cfg.SimilarityThreshold = v.GetFloat64("similarity_threshold")
	cfg.FoundationAuthorityGate = v.GetInt("foundation_authority_gate")
	cfg.FoundationCriticalGate = v.GetInt("foundation_critical_gate")
	cfg.Strict = v.GetBool("strict")
	cfg.StartDate = v.GetString("start_date")
	cfg.OutDir = v.GetString("out_dir")
	cfg.SlackWebhookURL = v.GetString("slack_webhook_url")

	if v.IsSet("default_word_counts") {
		raw := v.GetStringMap("default_word_counts")
		cfg.DefaultWordCounts = make(map[string]int, len(raw))
		for role := range raw {
			cfg.DefaultWordCounts[role] = v.GetInt("default_word_counts." + role)
		}
	}

	return cfg, nil
}

// Validate checks a PlannerConfig for invalid values and returns a clear
// error identifying every problem found.
func (cm *viperConfigManager) Validate(cfg *models.PlannerConfig) error {
	if cfg == nil {
		return fmt.Errorf("planner configuration is nil")
	}

	var errs []string

	if cfg.SimilarityThreshold <= 0 || cfg.SimilarityThreshold > 1 {
		errs = append(errs, fmt.Sprintf(
			"similarity_threshold %.2f is invalid, must be in (0, 1]",
			cfg.SimilarityThreshold,
		))
	}
	if cfg.FoundationAuthorityGate < 0 || cfg.FoundationAuthorityGate > 100 {
		errs = append(errs, fmt.Sprintf(
			"foundation_authority_gate %d is invalid, must be between 0 and 100",
			cfg.FoundationAuthorityGate,
		))
	}
	if cfg.FoundationCriticalGate < 0 || cfg.FoundationCriticalGate > 100 {
		errs = append(errs, fmt.Sprintf(
			"foundation_critical_gate %d is invalid, must be between 0 and 100",
			cfg.FoundationCriticalGate,
		))
	}
	if cfg.StartDate != "" {
		if _, err := time.Parse("2006-01-02", cfg.StartDate); err != nil {
			errs = append(errs, fmt.Sprintf("start_date %q is invalid, must be YYYY-MM-DD", cfg.StartDate))
		}
	}
	for role, wc := range cfg.DefaultWordCounts {
		if wc <= 0 {
			errs = append(errs, fmt.Sprintf("default_word_counts.%s must be positive, got %d", role, wc))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("planner config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// ParseStartDate resolves the configured start date, falling back to the
// first day of the month after now.
func ParseStartDate(cfg *models.PlannerConfig, now time.Time) (time.Time, error) {
	if cfg.StartDate == "" {
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0), nil
	}
	start, err := time.Parse("2006-01-02", cfg.StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing start_date %q: %w", cfg.StartDate, err)
	}
	return start, nil
}
