package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/svanteberg/plugga/internal/plan"
)

var planCmd = &cobra.Command{
	Use:   "plan <user-id>",
	Short: "Build the practice queue for a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(cmd, func(ctx context.Context, e *engine) error {
			slots, _ := cmd.Flags().GetInt("slots")
			planner := plan.NewPlanner(e.estimator, e.scheduler)

			q, err := planner.BuildQueue(ctx, args[0], slots, time.Now())
			if err != nil {
				return err
			}

			if len(q.Slots) == 0 {
				fmt.Println("Nothing to practice right now.")
				return nil
			}
			for i, s := range q.Slots {
				switch s.Category {
				case plan.CategoryRemediation:
					fmt.Printf("%d. %-30s %s (p=%.2f)\n", i+1, s.SkillID, s.Category, s.Probability)
				default:
					fmt.Printf("%d. %-30s %s\n", i+1, s.SkillID, s.Category)
				}
			}
			return nil
		})
	},
}

func init() {
	planCmd.Flags().Int("slots", plan.DefaultTotalSlots, "Maximum queue length")
}
