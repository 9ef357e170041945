package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/svanteberg/plugga/internal/spacedrep"
)

var dueCmd = &cobra.Command{
	Use:   "due <user-id>",
	Short: "List review items that are due (or due soon with --soon)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(cmd, func(ctx context.Context, e *engine) error {
			userID := args[0]
			now := time.Now()
			soon, _ := cmd.Flags().GetBool("soon")

			var items []spacedrep.Item
			var err error
			if soon {
				items, err = e.scheduler.DueSoonItems(ctx, userID, now)
			} else {
				items, err = e.scheduler.DueItems(ctx, userID, now)
			}
			if err != nil {
				return err
			}

			if len(items) == 0 {
				fmt.Println("Nothing due.")
				return nil
			}
			for _, it := range items {
				fmt.Printf("%-30s next=%s interval=%dh reps=%d ease=%.2f\n",
					it.SkillID, it.NextReview.Format(time.RFC3339), it.IntervalHours, it.Repetitions, it.EaseFactor)
			}
			return nil
		})
	},
}

func init() {
	dueCmd.Flags().Bool("soon", false, "List items coming due within 24 hours instead")
}
