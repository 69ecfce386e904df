// Package internal provides the App struct that wires all components of the
// growth-plan system together and initializes the CLI layer.
package internal

import (
	"os"
	"path/filepath"

	"github.com/localedge/growthplan/internal/cli"
	"github.com/localedge/growthplan/internal/core"
	"github.com/localedge/growthplan/internal/ingest"
	"github.com/localedge/growthplan/internal/observability"
	"github.com/localedge/growthplan/internal/storage"
	"github.com/localedge/growthplan/pkg/models"
)

// App holds all service dependencies for the growth-plan system.
type App struct {
	BasePath string

	// Configuration
	ConfigMgr core.ConfigurationManager
	Config    *models.PlannerConfig

	// Core services
	Pipeline core.Pipeline
	Scorer   core.HeadingScorer

	// Storage and ingest
	PlanStore storage.PlanStore
	Scanner   ingest.SiteScanner

	// Observability
	EventLog    observability.EventLog
	AlertEngine observability.AlertEngine
	MetricsCalc observability.MetricsCalculator
	Notifier    observability.Notifier
}

// NewApp creates and wires all components of the growth-plan system.
// basePath is the directory containing .growthplanrc and the plan store
// (typically the current directory).
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	// --- Configuration ---
	app.ConfigMgr = core.NewConfigurationManager(basePath)
	cfg, err := app.ConfigMgr.Load()
	if err != nil {
		return nil, err
	}
	if err := app.ConfigMgr.Validate(cfg); err != nil {
		return nil, err
	}
	app.Config = cfg

	// --- Observability ---
	eventLogPath := filepath.Join(basePath, ".growthplan_events.jsonl")
	app.EventLog, err = observability.NewJSONLEventLog(eventLogPath)
	if err != nil {
		// Non-fatal: disable observability if log can't be created.
		app.EventLog = nil
	}
	if app.EventLog != nil {
		app.AlertEngine = observability.NewAlertEngine(app.EventLog, observability.DefaultAlertThresholds())
		app.MetricsCalc = observability.NewMetricsCalculator(app.EventLog)
	}
	if cfg.SlackWebhookURL != "" {
		app.Notifier = observability.NewSlackNotifier(cfg.SlackWebhookURL)
	}

	// --- Core services ---
	app.Pipeline = core.NewPipeline(*cfg, app.EventLog)
	app.Scorer = core.NewHeadingScorer()

	// --- Storage and ingest ---
	outDir := cfg.OutDir
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(basePath, outDir)
	}
	app.PlanStore = storage.NewPlanStore(outDir)
	app.Scanner = ingest.NewSiteScanner()

	// --- Wire CLI package-level variables ---
	cli.BasePath = basePath
	cli.Config = cfg
	cli.ConfigMgr = app.ConfigMgr
	cli.Pipeline = app.Pipeline
	cli.Scorer = app.Scorer
	cli.PlanStore = app.PlanStore
	cli.Scanner = app.Scanner

	cli.EventLog = app.EventLog
	cli.AlertEngine = app.AlertEngine
	cli.MetricsCalc = app.MetricsCalc
	cli.Notifier = app.Notifier

	return app, nil
}

// Close releases resources held by the App, such as the event log file handle.
// It is safe to call Close on an App whose EventLog is nil.
func (a *App) Close() error {
	if a.EventLog != nil {
		return a.EventLog.Close()
	}
	return nil
}

// ResolveBasePath determines the base directory for configuration and the
// plan store. It checks the GROWTHPLAN_HOME env var, then walks up from the
// current directory looking for a .growthplanrc, falling back to the cwd.
func ResolveBasePath() string {
	if home := os.Getenv("GROWTHPLAN_HOME"); home != "" {
		return home
	}
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, ".growthplanrc")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	cwd, _ := os.Getwd()
	return cwd
}
