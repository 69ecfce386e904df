package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/localedge/growthplan/pkg/models"
)

var (
	scoreKeyword   string
	scoreLocation  string
	scoreBrand     string
	scoreKind      string
	scoreIntent    string
	scoreAlignment bool
)

var scoreCmd = &cobra.Command{
	Use:   "score [candidates...]",
	Short: "Score candidate page titles, H1s, or meta descriptions",
	Long: `Score candidate headings against a focus keyword and location. Results
are ranked best first; the top candidate is marked as recommended.

With --check-alignment and exactly two candidates, the first is treated
as the title and the second as the H1, and their topical alignment is
checked as well.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Scorer == nil {
			return fmt.Errorf("heading scorer not initialized")
		}
		if scoreKeyword == "" {
			return fmt.Errorf("--keyword is required")
		}

		kind := models.HeadingKind(scoreKind)
		switch kind {
		case models.KindTitle, models.KindH1, models.KindMeta:
		default:
			return fmt.Errorf("invalid --kind %q: must be one of title, h1, meta", scoreKind)
		}

		ctx := models.ScoreContext{
			FocusKeyword: scoreKeyword,
			Location:     scoreLocation,
			Brand:        scoreBrand,
			Kind:         kind,
			Intent:       models.PageIntent(scoreIntent),
		}

		results := Scorer.Score(args, ctx)
		for _, r := range results {
			marker := " "
			if r.Recommended {
				marker = "*"
			}
			fmt.Printf("%s %3d  %-5s  [%s]  %s\n", marker, r.Score, r.Tier, r.Intent, r.Text)
			for _, reason := range r.Reasons {
				fmt.Printf("        + %s\n", reason)
			}
			for _, warning := range r.Warnings {
				fmt.Printf("        ! %s\n", warning)
			}
		}

		if scoreAlignment {
			if len(args) != 2 {
				return fmt.Errorf("--check-alignment needs exactly two candidates (title, then h1)")
			}
			alignment := Scorer.ValidateTitleH1Alignment(args[0], args[1], ctx)
			fmt.Println()
			if alignment.Aligned {
				fmt.Println("Title and H1 are aligned.")
			} else {
				fmt.Printf("Title and H1 are NOT aligned (-%d): %s\n", alignment.Penalty, alignment.Reason)
				fmt.Printf("H1 score after penalty: %d (was %d)\n", alignment.AdjustedH1Score, alignment.H1Score)
				if alignment.SuggestedH1 != "" {
					fmt.Printf("Suggested H1: %s\n", alignment.SuggestedH1)
				}
			}
		}

		return nil
	},
}

func init() {
	scoreCmd.Flags().StringVarP(&scoreKeyword, "keyword", "k", "", "focus keyword the page targets (required)")
	scoreCmd.Flags().StringVarP(&scoreLocation, "location", "l", "", "location the page targets")
	scoreCmd.Flags().StringVar(&scoreBrand, "brand", "", "business brand name")
	scoreCmd.Flags().StringVar(&scoreKind, "kind", string(models.KindTitle), "heading kind: "+strings.Join([]string{string(models.KindTitle), string(models.KindH1), string(models.KindMeta)}, ", "))
	scoreCmd.Flags().StringVar(&scoreIntent, "intent", "", "page intent (auto-detected when omitted)")
	scoreCmd.Flags().BoolVar(&scoreAlignment, "check-alignment", false, "also check title/H1 alignment (needs exactly two candidates)")
	rootCmd.AddCommand(scoreCmd)
}
