package cli

import (
	"github.com/localedge/growthplan/internal/core"
	"github.com/localedge/growthplan/internal/ingest"
	"github.com/localedge/growthplan/internal/observability"
	"github.com/localedge/growthplan/internal/storage"
	"github.com/localedge/growthplan/pkg/models"
)

// Service instances, set during app initialization in app.go.
var (
	BasePath string
	Config   *models.PlannerConfig

	ConfigMgr core.ConfigurationManager
	Pipeline  core.Pipeline
	Scorer    core.HeadingScorer
	PlanStore storage.PlanStore
	Scanner   ingest.SiteScanner

	EventLog    observability.EventLog
	AlertEngine observability.AlertEngine
	MetricsCalc observability.MetricsCalculator
	Notifier    observability.Notifier
)
