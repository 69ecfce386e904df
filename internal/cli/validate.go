package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/localedge/growthplan/internal/core"
	"github.com/localedge/growthplan/pkg/models"
)

var (
	validateRunID  string
	validateNotify bool
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration, plan cadence, and alert state",
	Long: `Validate the planner configuration, check the cadence of a saved plan
(the latest by default, or a specific run with --run), and evaluate
active alerts. With --notify, triggered alerts are sent to the
configured Slack webhook.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if ConfigMgr != nil {
			if err := ConfigMgr.Validate(Config); err != nil {
				return err
			}
			fmt.Println("Configuration OK.")
		}

		if PlanStore != nil {
			if err := validatePlanCadence(); err != nil {
				return err
			}
		}

		if AlertEngine == nil {
			return nil
		}
		alerts, err := AlertEngine.Evaluate()
		if err != nil {
			return fmt.Errorf("evaluating alerts: %w", err)
		}
		if len(alerts) == 0 {
			fmt.Println("No active alerts.")
			return nil
		}

		fmt.Printf("\n%d active alert(s):\n", len(alerts))
		for _, alert := range alerts {
			fmt.Printf("  [%s] %s\n", strings.ToUpper(string(alert.Severity)), alert.Message)
		}

		if validateNotify {
			if Notifier == nil {
				return fmt.Errorf("notifier not configured (set slack_webhook_url in .growthplanrc)")
			}
			if err := Notifier.Notify(alerts); err != nil {
				return fmt.Errorf("sending alert notification: %w", err)
			}
			fmt.Println("Alerts sent.")
		}
		return nil
	},
}

func validatePlanCadence() error {
	plan, err := loadPlanForValidation()
	if err != nil {
		return err
	}
	if plan == nil {
		fmt.Println("No saved plans to validate.")
		return nil
	}

	scheduler := core.NewCadenceScheduler(*Config, time.Now())
	validation := scheduler.Validate(plan.Months)

	fmt.Printf("Plan for %s: %d complete month(s), %d incomplete\n",
		plan.Business, validation.CompleteMonths, validation.IncompleteMonths)
	for _, issue := range validation.Issues {
		fmt.Printf("  month %2d: %s slot %s\n", issue.Month, issue.Slot, issue.Detail)
	}
	if validation.IncompleteMonths > 0 {
		return fmt.Errorf("cadence validation failed: %d incomplete month(s)", validation.IncompleteMonths)
	}
	return nil
}

func loadPlanForValidation() (*models.GrowthPlan, error) {
	if validateRunID != "" {
		return PlanStore.LoadPlan(validateRunID)
	}
	return PlanStore.LatestPlan()
}

func init() {
	validateCmd.Flags().StringVar(&validateRunID, "run", "", "run ID of the plan to validate (defaults to the latest)")
	validateCmd.Flags().BoolVar(&validateNotify, "notify", false, "send triggered alerts to the configured Slack webhook")
	rootCmd.AddCommand(validateCmd)
}
