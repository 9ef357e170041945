package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/svanteberg/plugga/internal/spacedrep"
)

var statsCmd = &cobra.Command{
	Use:   "stats <user-id>",
	Short: "Show mastery and review statistics for a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(cmd, func(ctx context.Context, e *engine) error {
			userID := args[0]
			now := time.Now()

			states, err := e.store.UserStates(ctx, userID)
			if err != nil {
				return err
			}
			mastered := 0
			for i := range states {
				if states[i].Mastered {
					mastered++
				}
			}
			fmt.Printf("Skills tracked: %d (mastered: %d)\n", len(states), mastered)

			weak, err := e.estimator.WeakSkills(ctx, userID, 5, now)
			if err != nil {
				return err
			}
			if len(weak) > 0 {
				fmt.Println("Weakest skills:")
				for _, w := range weak {
					fmt.Printf("  %-30s p=%.2f score=%.2f\n", w.SkillID, w.Probability, w.Score)
				}
			}

			st, err := e.scheduler.Stats(ctx, userID, now)
			if err != nil {
				return err
			}
			fmt.Printf("Review items: %d (due: %d, due soon: %d)\n", st.TotalItems, st.DueItems, st.DueSoonItems)
			if st.TotalItems > 0 {
				fmt.Printf("Mean interval: %.1fh  mean ease: %.2f\n", st.MeanInterval, st.MeanEaseFactor)
				for _, b := range spacedrep.Buckets {
					if n := st.ByBucket[b.Label]; n > 0 {
						fmt.Printf("  %-10s %d\n", b.Label, n)
					}
				}
			}
			return nil
		})
	},
}
