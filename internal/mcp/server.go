// Package mcp provides an MCP (Model Context Protocol) server that exposes
// growth-plan generation as MCP tools for AI assistants.
package mcp

import (
	"context"
	"fmt"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/localedge/growthplan/internal/core"
	"github.com/localedge/growthplan/internal/observability"
	"github.com/localedge/growthplan/internal/storage"
	"github.com/localedge/growthplan/pkg/models"
)

// Server wraps the planning services and exposes them as MCP tools.
type Server struct {
	server      *gomcp.Server
	pipeline    core.Pipeline
	scorer      core.HeadingScorer
	planStore   storage.PlanStore
	metricsCalc observability.MetricsCalculator
	alertEngine observability.AlertEngine
}

// NewServer creates a new MCP server with the given planning dependencies.
// metricsCalc and alertEngine may be nil if observability is disabled.
func NewServer(pipeline core.Pipeline, scorer core.HeadingScorer, planStore storage.PlanStore, metricsCalc observability.MetricsCalculator, alertEngine observability.AlertEngine, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		pipeline:    pipeline,
		scorer:      scorer,
		planStore:   planStore,
		metricsCalc: metricsCalc,
		alertEngine: alertEngine,
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "gplan", Version: version},
		nil,
	)

	s.registerTools()

	return s
}

// Run starts the MCP server on stdio, blocking until the client disconnects
// or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type generatePlanInput struct {
	BusinessFile string `json:"business_file" jsonschema:"required,path to the business reality YAML file"`
	SiteFile     string `json:"site_file,omitempty" jsonschema:"path to the existing-site snapshot YAML file; omit for a business with no website"`
	StartDate    string `json:"start_date,omitempty" jsonschema:"plan start date in YYYY-MM-DD format; defaults to the first of next month"`
	Save         bool   `json:"save,omitempty" jsonschema:"persist the generated plan to the plan store"`
}

type monthOutput struct {
	Month    int          `json:"month"`
	Theme    string       `json:"theme"`
	Tasks    []taskOutput `json:"tasks"`
	Warnings []string     `json:"warnings,omitempty"`
}

type taskOutput struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Role      string `json:"role"`
	Intent    string `json:"intent"`
	Service   string `json:"service"`
	Location  string `json:"location,omitempty"`
	Supports  string `json:"supports,omitempty"`
	Week      int    `json:"week,omitempty"`
	Slot      string `json:"slot,omitempty"`
	PublishAt string `json:"publish_at,omitempty"`
}

type blockerOutput struct {
	Kind    string  `json:"kind"`
	Message string  `json:"message"`
	Slug    string  `json:"slug,omitempty"`
	Against string  `json:"against,omitempty"`
	Score   float64 `json:"score,omitempty"`
}

type generatePlanOutput struct {
	Business        string          `json:"business"`
	FoundationScore int             `json:"foundation_score"`
	Months          []monthOutput   `json:"months"`
	Blockers        []blockerOutput `json:"blockers,omitempty"`
	Warnings        []string        `json:"warnings,omitempty"`
	Dropped         []string        `json:"dropped,omitempty"`
	RunID           string          `json:"run_id,omitempty"`
}

type analyzeGapsInput struct {
	BusinessFile string `json:"business_file" jsonschema:"required,path to the business reality YAML file"`
	SiteFile     string `json:"site_file,omitempty" jsonschema:"path to the existing-site snapshot YAML file"`
}

type gapOutput struct {
	Role             string `json:"role"`
	Service          string `json:"service"`
	Location         string `json:"location,omitempty"`
	Priority         string `json:"priority"`
	Action           string `json:"action"`
	SuggestedTitle   string `json:"suggested_title"`
	BlocksConversion bool   `json:"blocks_conversion,omitempty"`
	Detail           string `json:"detail,omitempty"`
}

type structuralIssueOutput struct {
	Kind   string `json:"kind"`
	Path   string `json:"path"`
	Detail string `json:"detail"`
}

type analyzeGapsOutput struct {
	Gaps             []gapOutput             `json:"gaps"`
	StructuralIssues []structuralIssueOutput `json:"structural_issues,omitempty"`
	FoundationScore  int                     `json:"foundation_score"`
}

type scoreHeadingsInput struct {
	Candidates   []string `json:"candidates" jsonschema:"required,candidate headings to score"`
	FocusKeyword string   `json:"focus_keyword" jsonschema:"required,the primary keyword the page targets"`
	Location     string   `json:"location,omitempty" jsonschema:"the location the page targets"`
	Brand        string   `json:"brand,omitempty" jsonschema:"the business brand name"`
	Kind         string   `json:"kind,omitempty" jsonschema:"heading kind: title, h1, or meta. Defaults to title."`
	Intent       string   `json:"intent,omitempty" jsonschema:"page intent: money, service, comparison, informational, or case-study. Auto-detected when omitted."`
}

type scoreResultOutput struct {
	Text        string   `json:"text"`
	Score       int      `json:"score"`
	Tier        string   `json:"tier"`
	Intent      string   `json:"intent"`
	Reasons     []string `json:"reasons,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
	Recommended bool     `json:"recommended,omitempty"`
}

type scoreHeadingsOutput struct {
	Results []scoreResultOutput `json:"results"`
}

type getMetricsInput struct {
	Since string `json:"since,omitempty" jsonschema:"time window for metrics (e.g. 7d, 30d, 24h). Defaults to 30d."`
}

type metricsOutput struct {
	PlansGenerated int     `json:"plans_generated"`
	PlansBlocked   int     `json:"plans_blocked"`
	GapsDetected   int     `json:"gaps_detected"`
	TasksDropped   int     `json:"tasks_dropped"`
	TasksMerged    int     `json:"tasks_merged"`
	AvgFoundation  float64 `json:"avg_foundation_score"`
	EventCount     int     `json:"event_count"`
	OldestEvent    string  `json:"oldest_event,omitempty"`
	NewestEvent    string  `json:"newest_event,omitempty"`
}

type getAlertsInput struct{}

type alertOutput struct {
	ID          string `json:"id"`
	Condition   string `json:"condition"`
	Severity    string `json:"severity"`
	Message     string `json:"message"`
	TriggeredAt string `json:"triggered_at"`
}

type getAlertsOutput struct {
	Alerts []alertOutput `json:"alerts"`
	Count  int           `json:"count"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "generate_plan",
		Description: "Generate a 12-month growth plan from a business reality file and an optional site snapshot. Returns the scheduled months plus the cannibalisation report.",
	}, s.handleGeneratePlan)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "analyze_gaps",
		Description: "Run gap analysis only: missing money pages, weak service pages, missing essentials, and structural issues, plus the foundation score.",
	}, s.handleAnalyzeGaps)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "score_headings",
		Description: "Score candidate page titles, H1s, or meta descriptions against a focus keyword and location. Results are ranked best first.",
	}, s.handleScoreHeadings)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_metrics",
		Description: "Get aggregated planning metrics from the event log: plans generated, plans blocked, gaps detected, drops and merges.",
	}, s.handleGetMetrics)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_alerts",
		Description: "Evaluate and return active alerts (excessive blockers, heavy gap load, repeated blocked runs).",
	}, s.handleGetAlerts)
}

// --- Tool handlers ---

func (s *Server) handleGeneratePlan(_ context.Context, _ *gomcp.CallToolRequest, input generatePlanInput) (*gomcp.CallToolResult, generatePlanOutput, error) {
	if input.BusinessFile == "" {
		return errorResult("business_file is required"), generatePlanOutput{}, nil
	}

	business, err := storage.LoadBusiness(input.BusinessFile)
	if err != nil {
		return errorResult(err.Error()), generatePlanOutput{}, nil
	}

	genInput := core.GenerateInput{Business: business}
	if input.SiteFile != "" {
		snapshot, err := storage.LoadSite(input.SiteFile)
		if err != nil {
			return errorResult(err.Error()), generatePlanOutput{}, nil
		}
		genInput.Site = &snapshot.Structure
		genInput.Pages = snapshot.Pages
	}
	if input.StartDate != "" {
		start, err := core.ParseStartDate(&models.PlannerConfig{StartDate: input.StartDate}, time.Now())
		if err != nil {
			return errorResult(err.Error()), generatePlanOutput{}, nil
		}
		genInput.Start = start
	}

	result, err := s.pipeline.Generate(genInput)
	if err != nil && result == nil {
		return errorResult(fmt.Sprintf("generating plan: %s", err)), generatePlanOutput{}, nil
	}

	out := generatePlanOutput{
		Business:        business.Name,
		FoundationScore: result.FoundationScore,
	}
	for _, month := range result.Months {
		mo := monthOutput{
			Month:    month.Month,
			Theme:    month.Theme,
			Warnings: month.Warnings,
		}
		for _, task := range month.Tasks {
			mo.Tasks = append(mo.Tasks, taskToOutput(task))
		}
		out.Months = append(out.Months, mo)
	}
	if result.Report != nil {
		for _, b := range result.Report.Blockers {
			out.Blockers = append(out.Blockers, blockerOutput{
				Kind:    string(b.Kind),
				Message: b.Message,
				Slug:    b.Slug,
				Against: b.Against,
				Score:   b.Score,
			})
		}
		for _, w := range result.Report.Warnings {
			out.Warnings = append(out.Warnings, w.Message)
		}
		out.Dropped = result.Report.Dropped
	}

	if input.Save && s.planStore != nil {
		manifest, saveErr := s.planStore.SavePlan(&models.GrowthPlan{
			Business:        business.Name,
			GeneratedAt:     time.Now().UTC(),
			StartDate:       input.StartDate,
			FoundationScore: result.FoundationScore,
			Months:          result.Months,
			Report:          result.Report,
			Cadence:         result.Cadence,
		})
		if saveErr != nil {
			return errorResult(fmt.Sprintf("saving plan: %s", saveErr)), generatePlanOutput{}, nil
		}
		out.RunID = manifest.RunID
	}

	return nil, out, nil
}

func (s *Server) handleAnalyzeGaps(_ context.Context, _ *gomcp.CallToolRequest, input analyzeGapsInput) (*gomcp.CallToolResult, analyzeGapsOutput, error) {
	if input.BusinessFile == "" {
		return errorResult("business_file is required"), analyzeGapsOutput{}, nil
	}

	business, err := storage.LoadBusiness(input.BusinessFile)
	if err != nil {
		return errorResult(err.Error()), analyzeGapsOutput{}, nil
	}

	var site *models.SiteStructureContext
	var pages []models.PageContentContext
	if input.SiteFile != "" {
		snapshot, err := storage.LoadSite(input.SiteFile)
		if err != nil {
			return errorResult(err.Error()), analyzeGapsOutput{}, nil
		}
		site = &snapshot.Structure
		pages = snapshot.Pages
	}

	analysis := core.NewGapAnalyzer().Analyze(site, pages, business)

	out := analyzeGapsOutput{
		FoundationScore: core.NewPlanBuilder(models.PlannerConfig{}, time.Now()).FoundationScore(analysis),
	}
	for _, gap := range analysis.Gaps {
		out.Gaps = append(out.Gaps, gapOutput{
			Role:             string(gap.Role),
			Service:          gap.Service,
			Location:         gap.Location,
			Priority:         string(gap.Priority),
			Action:           string(gap.Action),
			SuggestedTitle:   gap.SuggestedTitle,
			BlocksConversion: gap.BlocksConversion,
			Detail:           gap.Detail,
		})
	}
	for _, issue := range analysis.StructuralIssues {
		out.StructuralIssues = append(out.StructuralIssues, structuralIssueOutput{
			Kind:   string(issue.Kind),
			Path:   issue.Path,
			Detail: issue.Detail,
		})
	}

	return nil, out, nil
}

func (s *Server) handleScoreHeadings(_ context.Context, _ *gomcp.CallToolRequest, input scoreHeadingsInput) (*gomcp.CallToolResult, scoreHeadingsOutput, error) {
	if len(input.Candidates) == 0 {
		return errorResult("candidates is required"), scoreHeadingsOutput{}, nil
	}
	if input.FocusKeyword == "" {
		return errorResult("focus_keyword is required"), scoreHeadingsOutput{}, nil
	}

	kind := models.HeadingKind(input.Kind)
	switch kind {
	case "":
		kind = models.KindTitle
	case models.KindTitle, models.KindH1, models.KindMeta:
	default:
		return errorResult(fmt.Sprintf("invalid kind %q: must be one of title, h1, meta", input.Kind)), scoreHeadingsOutput{}, nil
	}

	results := s.scorer.Score(input.Candidates, models.ScoreContext{
		FocusKeyword: input.FocusKeyword,
		Location:     input.Location,
		Brand:        input.Brand,
		Kind:         kind,
		Intent:       models.PageIntent(input.Intent),
	})

	out := scoreHeadingsOutput{Results: make([]scoreResultOutput, len(results))}
	for i, r := range results {
		out.Results[i] = scoreResultOutput{
			Text:        r.Text,
			Score:       r.Score,
			Tier:        string(r.Tier),
			Intent:      string(r.Intent),
			Reasons:     r.Reasons,
			Warnings:    r.Warnings,
			Recommended: r.Recommended,
		}
	}

	return nil, out, nil
}

func (s *Server) handleGetMetrics(_ context.Context, _ *gomcp.CallToolRequest, input getMetricsInput) (*gomcp.CallToolResult, metricsOutput, error) {
	if s.metricsCalc == nil {
		return errorResult("metrics calculator not available (observability may be disabled)"), metricsOutput{}, nil
	}

	sinceStr := input.Since
	if sinceStr == "" {
		sinceStr = "30d"
	}

	sinceTime, err := parseSince(sinceStr)
	if err != nil {
		return errorResult(fmt.Sprintf("parsing since duration: %s", err)), metricsOutput{}, nil
	}

	metrics, err := s.metricsCalc.Calculate(sinceTime)
	if err != nil {
		return errorResult(fmt.Sprintf("calculating metrics: %s", err)), metricsOutput{}, nil
	}

	out := metricsOutput{
		PlansGenerated: metrics.PlansGenerated,
		PlansBlocked:   metrics.PlansBlocked,
		GapsDetected:   metrics.GapsDetected,
		TasksDropped:   metrics.TasksDropped,
		TasksMerged:    metrics.TasksMerged,
		AvgFoundation:  metrics.AvgFoundation,
		EventCount:     metrics.EventCount,
	}
	if metrics.OldestEvent != nil {
		out.OldestEvent = metrics.OldestEvent.Format(time.RFC3339)
	}
	if metrics.NewestEvent != nil {
		out.NewestEvent = metrics.NewestEvent.Format(time.RFC3339)
	}

	return nil, out, nil
}

func (s *Server) handleGetAlerts(_ context.Context, _ *gomcp.CallToolRequest, _ getAlertsInput) (*gomcp.CallToolResult, getAlertsOutput, error) {
	if s.alertEngine == nil {
		return errorResult("alert engine not available (observability may be disabled)"), getAlertsOutput{}, nil
	}

	alerts, err := s.alertEngine.Evaluate()
	if err != nil {
		return errorResult(fmt.Sprintf("evaluating alerts: %s", err)), getAlertsOutput{}, nil
	}

	out := getAlertsOutput{
		Alerts: make([]alertOutput, len(alerts)),
		Count:  len(alerts),
	}
	for i, a := range alerts {
		out.Alerts[i] = alertOutput{
			ID:          a.ID,
			Condition:   a.Condition,
			Severity:    string(a.Severity),
			Message:     a.Message,
			TriggeredAt: a.TriggeredAt.Format(time.RFC3339),
		}
	}

	return nil, out, nil
}

// --- Helpers ---

func taskToOutput(t *models.GrowthTask) taskOutput {
	out := taskOutput{
		ID:       t.ID,
		Title:    t.Title,
		Slug:     t.Slug,
		Role:     string(t.Role),
		Intent:   string(t.Intent),
		Service:  t.Service,
		Location: t.Location,
		Supports: t.SupportsSlug,
		Week:     t.Week,
		Slot:     string(t.Slot),
	}
	if !t.PublishAt.IsZero() {
		out.PublishAt = t.PublishAt.Format(time.RFC3339)
	}
	return out
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}

// parseSince parses a human-friendly duration string like "7d", "30d", or
// "24h" into the corresponding time in the past.
func parseSince(s string) (time.Time, error) {
	now := time.Now().UTC()

	if len(s) < 2 {
		return time.Time{}, fmt.Errorf("invalid duration %q", s)
	}

	suffix := s[len(s)-1]
	numStr := s[:len(s)-1]
	var num int
	if _, err := fmt.Sscanf(numStr, "%d", &num); err != nil {
		return time.Time{}, fmt.Errorf("invalid duration %q: %w", s, err)
	}

	switch suffix {
	case 'd':
		return now.AddDate(0, 0, -num), nil
	case 'h':
		return now.Add(-time.Duration(num) * time.Hour), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported duration suffix %q (use d or h)", string(suffix))
	}
}
