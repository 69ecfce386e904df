package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/localedge/growthplan/internal/core"
	"github.com/localedge/growthplan/internal/storage"
	"github.com/localedge/growthplan/pkg/models"
)

var (
	planBusinessFile string
	planSiteFile     string
	planSiteDir      string
	planStartDate    string
	planStrict       bool
	planDryRun       bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate a 12-month growth plan",
	Long: `Generate a 12-month growth plan from a business reality file and an
optional snapshot of the existing website.

The site can be supplied either as a YAML snapshot (--site) or as a
directory of exported HTML pages (--site-dir), which gplan scans itself.
The generated plan is saved to the plan store unless --dry-run is set.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		business, err := storage.LoadBusiness(planBusinessFile)
		if err != nil {
			return err
		}

		input := core.GenerateInput{Business: business}
		switch {
		case planSiteDir != "":
			if Scanner == nil {
				return fmt.Errorf("site scanner not initialized")
			}
			site, pages, err := Scanner.ScanDir(planSiteDir, business)
			if err != nil {
				return err
			}
			input.Site = site
			input.Pages = pages
		case planSiteFile != "":
			snapshot, err := storage.LoadSite(planSiteFile)
			if err != nil {
				return err
			}
			input.Site = &snapshot.Structure
			input.Pages = snapshot.Pages
		}

		cfg := *Config
		if planStrict {
			cfg.Strict = true
		}
		if planStartDate != "" {
			cfg.StartDate = planStartDate
		}
		start, err := core.ParseStartDate(&cfg, time.Now())
		if err != nil {
			return err
		}
		input.Start = start

		pipeline := core.NewPipeline(cfg, EventLog)
		result, err := pipeline.Generate(input)
		if err != nil && !errors.Is(err, core.ErrPlanBlocked) {
			return err
		}
		blocked := errors.Is(err, core.ErrPlanBlocked)

		printPlanSummary(business, result, start)

		if !planDryRun && PlanStore != nil {
			manifest, saveErr := PlanStore.SavePlan(&models.GrowthPlan{
				Business:        business.Name,
				GeneratedAt:     time.Now().UTC(),
				StartDate:       start.Format("2006-01-02"),
				FoundationScore: result.FoundationScore,
				Months:          result.Months,
				Report:          result.Report,
				Cadence:         result.Cadence,
			})
			if saveErr != nil {
				return saveErr
			}
			fmt.Printf("\nSaved plan %s\n", manifest.RunID)
		}

		if blocked {
			return fmt.Errorf("plan has %d blocker(s); rerun without --strict to accept drops and warnings", len(result.Report.Blockers))
		}
		return nil
	},
}

func printPlanSummary(business *models.BusinessRealityModel, result *core.GenerateOutput, start time.Time) {
	fmt.Printf("Growth plan for %s\n", business.Name)
	fmt.Printf("Start: %s  Foundation score: %d/100\n\n", start.Format("2006-01-02"), result.FoundationScore)

	for _, month := range result.Months {
		marker := ""
		if month.WasModified {
			marker = " *"
		}
		fmt.Printf("Month %2d  %s%s\n", month.Month, month.Theme, marker)
		for _, task := range month.Tasks {
			when := ""
			if !task.PublishAt.IsZero() {
				when = task.PublishAt.Format("Jan 02")
			}
			fmt.Printf("  w%d %-10s %-7s %s  %s\n", task.Week, task.Slot, when, task.Title, task.Slug)
		}
		for _, warning := range month.Warnings {
			fmt.Printf("  ! %s\n", warning)
		}
	}

	report := result.Report
	if report == nil {
		return
	}
	if len(report.Blockers) > 0 {
		fmt.Printf("\n%d blocker(s):\n", len(report.Blockers))
		for _, b := range report.Blockers {
			fmt.Printf("  [%s] %s\n", b.Kind, b.Message)
		}
	}
	if len(report.Warnings) > 0 {
		fmt.Printf("\n%d warning(s):\n", len(report.Warnings))
		for _, w := range report.Warnings {
			fmt.Printf("  [%s] %s\n", w.Code, w.Message)
		}
	}
	if len(report.Merged) > 0 {
		fmt.Printf("\nMerged:\n")
		for _, m := range report.Merged {
			fmt.Printf("  %s -> %s (%s)\n", m.DroppedSlug, m.IntoSlug, m.Reason)
		}
	}
	if len(report.Dropped) > 0 {
		fmt.Printf("\nDropped: %d task(s)\n", len(report.Dropped))
	}
}

func init() {
	planCmd.Flags().StringVarP(&planBusinessFile, "business", "b", "business.yaml", "path to the business reality file")
	planCmd.Flags().StringVarP(&planSiteFile, "site", "s", "", "path to the existing-site snapshot file")
	planCmd.Flags().StringVar(&planSiteDir, "site-dir", "", "directory of exported HTML pages to scan")
	planCmd.Flags().StringVar(&planStartDate, "start", "", "plan start date (YYYY-MM-DD), defaults to the first of next month")
	planCmd.Flags().BoolVar(&planStrict, "strict", false, "treat any blocker as fatal")
	planCmd.Flags().BoolVar(&planDryRun, "dry-run", false, "print the plan without saving it")
	rootCmd.AddCommand(planCmd)
}
