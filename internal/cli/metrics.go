package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var metricsSince string

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show aggregated planning metrics",
	Long: `Aggregate the event log into planning metrics: plans generated, plans
blocked, gaps detected, and tasks dropped or merged by the ownership
guard.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if MetricsCalc == nil {
			return fmt.Errorf("metrics calculator not initialized (observability may be disabled)")
		}

		since, err := parseSinceFlag(metricsSince)
		if err != nil {
			return err
		}

		metrics, err := MetricsCalc.Calculate(since)
		if err != nil {
			return fmt.Errorf("calculating metrics: %w", err)
		}

		fmt.Printf("Metrics since %s:\n\n", since.Format("2006-01-02"))
		fmt.Printf("  Plans generated:    %d\n", metrics.PlansGenerated)
		fmt.Printf("  Plans blocked:      %d\n", metrics.PlansBlocked)
		fmt.Printf("  Gaps detected:      %d\n", metrics.GapsDetected)
		fmt.Printf("  Tasks dropped:      %d\n", metrics.TasksDropped)
		fmt.Printf("  Tasks merged:       %d\n", metrics.TasksMerged)
		fmt.Printf("  Canonical pages:    %d\n", metrics.CanonicalPages)
		if metrics.PlansGenerated > 0 {
			fmt.Printf("  Avg foundation:     %.1f\n", metrics.AvgFoundation)
		}
		fmt.Printf("  Events:             %d\n", metrics.EventCount)
		if metrics.OldestEvent != nil {
			fmt.Printf("  Oldest event:       %s\n", metrics.OldestEvent.Format(time.RFC3339))
		}
		if metrics.NewestEvent != nil {
			fmt.Printf("  Newest event:       %s\n", metrics.NewestEvent.Format(time.RFC3339))
		}
		return nil
	},
}

// parseSinceFlag parses a duration like "7d", "30d", or "24h" into the
// corresponding time in the past.
func parseSinceFlag(s string) (time.Time, error) {
	now := time.Now().UTC()
	if len(s) < 2 {
		return time.Time{}, fmt.Errorf("invalid duration %q (use e.g. 7d, 30d, 24h)", s)
	}
	suffix := s[len(s)-1]
	var num int
	if _, err := fmt.Sscanf(s[:len(s)-1], "%d", &num); err != nil {
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

func init() {
	metricsCmd.Flags().StringVar(&metricsSince, "since", "30d", "time window for metrics (e.g. 7d, 30d, 24h)")
	rootCmd.AddCommand(metricsCmd)
}
