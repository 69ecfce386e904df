package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/localedge/growthplan/pkg/models"
)

// Dashboard panel indices.
const (
	panelPlan = iota
	panelMetrics
	panelAlerts
	panelCount
)

type showModel struct {
	activePanel int
	activeMonth int
	width       int
	height      int

	// Data.
	plan        *models.GrowthPlan
	metricsData *metricsSnapshot
	alerts      []alertSnapshot

	// State.
	loading bool
	err     error
}

type metricsSnapshot struct {
	plansGenerated int
	plansBlocked   int
	gapsDetected   int
	tasksDropped   int
	tasksMerged    int
	eventCount     int
}

type alertSnapshot struct {
	severity string
	message  string
}

// planLoadedMsg carries loaded data back to the model.
type planLoadedMsg struct {
	plan    *models.GrowthPlan
	metrics *metricsSnapshot
	alerts  []alertSnapshot
	err     error
}

// Style definitions.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				Padding(1, 2)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			MarginBottom(1)

	slotMoney     = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	slotSupport   = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
	slotCaseStudy = lipgloss.NewStyle().Foreground(lipgloss.Color("141"))
	slotAuthority = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))

	severityHigh   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	severityMedium = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	severityLow    = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))

	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newShowModel() showModel {
	return showModel{
		activePanel: panelPlan,
		loading:     true,
	}
}

func (m showModel) Init() tea.Cmd {
	return loadPlanData
}

func (m showModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.activePanel = (m.activePanel + 1) % panelCount
			return m, nil
		case "shift+tab":
			m.activePanel = (m.activePanel - 1 + panelCount) % panelCount
			return m, nil
		case "left", "h":
			if m.plan != nil && m.activeMonth > 0 {
				m.activeMonth--
			}
			return m, nil
		case "right", "l":
			if m.plan != nil && m.activeMonth < len(m.plan.Months)-1 {
				m.activeMonth++
			}
			return m, nil
		case "r":
			m.loading = true
			return m, loadPlanData
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case planLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.plan = msg.plan
		m.metricsData = msg.metrics
		m.alerts = msg.alerts
		m.err = nil
		return m, nil
	}

	return m, nil
}

func (m showModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	title := titleStyle.Render(" Growth Plan ")
	help := helpStyle.Render("tab: switch panel | left/right: month | r: refresh | q: quit")

	if m.loading {
		return fmt.Sprintf("%s\n\n  Loading data...\n\n%s", title, help)
	}

	if m.err != nil {
		return fmt.Sprintf("%s\n\n  Error: %s\n\n%s", title, m.err, help)
	}

	planPanel := m.renderPlanPanel()
	metricsPanel := m.renderMetricsPanel()
	alertsPanel := m.renderAlertsPanel()

	// Available width for panels after accounting for margins.
	availableWidth := m.width - 2

	var body string
	if availableWidth > 120 {
		// Horizontal layout: wide plan column plus two narrow ones.
		planWidth := availableWidth / 2
		colWidth := availableWidth / 4
		planPanel = m.applyPanelStyle(panelPlan, planPanel, planWidth-4)
		metricsPanel = m.applyPanelStyle(panelMetrics, metricsPanel, colWidth-4)
		alertsPanel = m.applyPanelStyle(panelAlerts, alertsPanel, colWidth-4)
		body = lipgloss.JoinHorizontal(lipgloss.Top, planPanel, metricsPanel, alertsPanel)
	} else {
		// Vertical layout: stacked.
		panelWidth := availableWidth - 4
		if panelWidth < 20 {
			panelWidth = 20
		}
		planPanel = m.applyPanelStyle(panelPlan, planPanel, panelWidth)
		metricsPanel = m.applyPanelStyle(panelMetrics, metricsPanel, panelWidth)
		alertsPanel = m.applyPanelStyle(panelAlerts, alertsPanel, panelWidth)
		body = lipgloss.JoinVertical(lipgloss.Left, planPanel, metricsPanel, alertsPanel)
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s", title, body, help)
}

func (m showModel) applyPanelStyle(panel int, content string, width int) string {
	style := panelStyle
	if m.activePanel == panel {
		style = activePanelStyle
	}
	return style.Width(width).Render(content)
}

func (m showModel) renderPlanPanel() string {
	var b strings.Builder

	if m.plan == nil || len(m.plan.Months) == 0 {
		b.WriteString(headerStyle.Render("Plan"))
		b.WriteString("\n  No saved plans. Run 'gplan plan' first.")
		return b.String()
	}

	month := m.plan.Months[m.activeMonth]
	b.WriteString(headerStyle.Render(fmt.Sprintf("%s - month %d/%d", m.plan.Business, month.Month, len(m.plan.Months))))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s\n", month.Theme))
	b.WriteString(fmt.Sprintf("  Foundation: %d/100\n\n", m.plan.FoundationScore))

	for _, task := range month.Tasks {
		when := ""
		if !task.PublishAt.IsZero() {
			when = task.PublishAt.Format("Jan 02")
		}
		label := fmt.Sprintf("  w%d %-10s %-6s %s", task.Week, task.Slot, when, task.Title)
		b.WriteString(styleForSlot(task.Slot).Render(label))
		b.WriteString("\n")
	}

	for _, warning := range month.Warnings {
		b.WriteString(warningStyle.Render(fmt.Sprintf("  ! %s", warning)))
		b.WriteString("\n")
	}

	if m.plan.Report != nil && len(m.plan.Report.Blockers) > 0 {
		b.WriteString(fmt.Sprintf("\n  %d blocker(s) on this plan", len(m.plan.Report.Blockers)))
	}

	return b.String()
}

func (m showModel) renderMetricsPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Metrics (30d)"))
	b.WriteString("\n")

	if m.metricsData == nil {
		b.WriteString("  No metrics available.")
		return b.String()
	}

	md := m.metricsData
	lines := []struct {
		label string
		value int
	}{
		{"Events", md.eventCount},
		{"Plans", md.plansGenerated},
		{"Blocked", md.plansBlocked},
		{"Gaps", md.gapsDetected},
		{"Dropped", md.tasksDropped},
		{"Merged", md.tasksMerged},
	}

	for _, l := range lines {
		b.WriteString(fmt.Sprintf("  %-10s %d\n", l.label, l.value))
	}

	return b.String()
}

func (m showModel) renderAlertsPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Alerts"))
	b.WriteString("\n")

	if len(m.alerts) == 0 {
		b.WriteString("  No active alerts.")
		return b.String()
	}

	for _, a := range m.alerts {
		sev := styleForSeverity(a.severity).Render(fmt.Sprintf("[%s]", strings.ToUpper(a.severity)))
		b.WriteString(fmt.Sprintf("  %s %s\n", sev, a.message))
	}

	b.WriteString(fmt.Sprintf("\n  Total: %d alert(s)", len(m.alerts)))

	return b.String()
}

func styleForSlot(slot models.CadenceSlot) lipgloss.Style {
	switch slot {
	case models.SlotMoney:
		return slotMoney
	case models.SlotSupport:
		return slotSupport
	case models.SlotCaseStudy:
		return slotCaseStudy
	case models.SlotAuthority:
		return slotAuthority
	default:
		return lipgloss.NewStyle()
	}
}

func styleForSeverity(severity string) lipgloss.Style {
	switch strings.ToLower(severity) {
	case "high":
		return severityHigh
	case "medium":
		return severityMedium
	case "low":
		return severityLow
	default:
		return lipgloss.NewStyle()
	}
}

func loadPlanData() tea.Msg {
	var result planLoadedMsg

	if PlanStore != nil {
		plan, err := PlanStore.LatestPlan()
		if err != nil {
			result.err = fmt.Errorf("loading plan: %w", err)
			return result
		}
		result.plan = plan
	}

	if MetricsCalc != nil {
		metrics, err := MetricsCalc.Calculate(time.Now().UTC().AddDate(0, 0, -30))
		if err != nil {
			result.err = fmt.Errorf("loading metrics: %w", err)
			return result
		}
		result.metrics = &metricsSnapshot{
			plansGenerated: metrics.PlansGenerated,
			plansBlocked:   metrics.PlansBlocked,
			gapsDetected:   metrics.GapsDetected,
			tasksDropped:   metrics.TasksDropped,
			tasksMerged:    metrics.TasksMerged,
			eventCount:     metrics.EventCount,
		}
	}

	if AlertEngine != nil {
		alerts, err := AlertEngine.Evaluate()
		if err != nil {
			result.err = fmt.Errorf("loading alerts: %w", err)
			return result
		}
		for _, a := range alerts {
			result.alerts = append(result.alerts, alertSnapshot{
				severity: string(a.Severity),
				message:  a.Message,
			})
		}
	}

	return result
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Browse the latest plan in an interactive dashboard",
	Long: `Open an interactive terminal dashboard showing the most recently saved
plan month by month, alongside planning metrics and active alerts.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := tea.NewProgram(newShowModel(), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("running dashboard: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
