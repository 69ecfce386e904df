package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/localedge/growthplan/internal/core"
	"github.com/localedge/growthplan/internal/storage"
	"github.com/localedge/growthplan/pkg/models"
)

var (
	gapsBusinessFile string
	gapsSiteFile     string
	gapsSiteDir      string
)

var gapsCmd = &cobra.Command{
	Use:   "gaps",
	Short: "Analyze the existing site for content gaps",
	Long: `Run gap analysis without generating a plan: missing money pages, weak
service pages, missing essential pages, and structural issues, plus the
foundation score the planner would work from.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		business, err := storage.LoadBusiness(gapsBusinessFile)
		if err != nil {
			return err
		}

		var site *models.SiteStructureContext
		var pages []models.PageContentContext
		switch {
		case gapsSiteDir != "":
			if Scanner == nil {
				return fmt.Errorf("site scanner not initialized")
			}
			site, pages, err = Scanner.ScanDir(gapsSiteDir, business)
			if err != nil {
				return err
			}
		case gapsSiteFile != "":
			snapshot, err := storage.LoadSite(gapsSiteFile)
			if err != nil {
				return err
			}
			site = &snapshot.Structure
			pages = snapshot.Pages
		}

		analysis := core.NewGapAnalyzer().Analyze(site, pages, business)
		foundation := core.NewPlanBuilder(*Config, time.Now()).FoundationScore(analysis)

		fmt.Printf("Gap analysis for %s\n", business.Name)
		fmt.Printf("Foundation score: %d/100\n\n", foundation)

		if len(analysis.Gaps) == 0 {
			fmt.Println("No gaps found.")
		}
		for _, gap := range analysis.Gaps {
			conv := ""
			if gap.BlocksConversion {
				conv = "  [blocks conversion]"
			}
			fmt.Printf("  %-8s %-7s %-7s %s%s\n", gap.Priority, gap.Action, gap.Role, gap.SuggestedTitle, conv)
			if gap.Detail != "" {
				fmt.Printf("           %s\n", gap.Detail)
			}
		}

		if len(analysis.StructuralIssues) > 0 {
			fmt.Printf("\nStructural issues:\n")
			for _, issue := range analysis.StructuralIssues {
				fmt.Printf("  %-15s %s  %s\n", issue.Kind, issue.Path, issue.Detail)
			}
		}

		return nil
	},
}

func init() {
	gapsCmd.Flags().StringVarP(&gapsBusinessFile, "business", "b", "business.yaml", "path to the business reality file")
	gapsCmd.Flags().StringVarP(&gapsSiteFile, "site", "s", "", "path to the existing-site snapshot file")
	gapsCmd.Flags().StringVar(&gapsSiteDir, "site-dir", "", "directory of exported HTML pages to scan")
	rootCmd.AddCommand(gapsCmd)
}
