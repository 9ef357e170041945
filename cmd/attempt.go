package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/svanteberg/plugga/internal/mastery"
)

var attemptCmd = &cobra.Command{
	Use:   "attempt <user-id> <skill-id>",
	Short: "Record an answer and update mastery and review state",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(cmd, func(ctx context.Context, e *engine) error {
			userID, skillID := args[0], args[1]
			correct, _ := cmd.Flags().GetBool("correct")
			timeMs, _ := cmd.Flags().GetInt64("time-ms")
			subjectID, _ := cmd.Flags().GetString("subject")
			now := time.Now()

			// Retention badge when the answer lands on a due review item.
			if correct {
				if it, err := e.scheduler.GetItem(ctx, skillID, userID); err == nil && it != nil && it.IsDue(now) {
					e.rewards.ReviewRetained(ctx, userID, skillID)
				}
			}

			st, err := e.estimator.ProcessAttempt(ctx, mastery.Attempt{
				SkillID:     skillID,
				UserID:      userID,
				Correct:     correct,
				TimeSpentMs: timeMs,
				Timestamp:   now,
			})
			if err != nil {
				return err
			}
			e.rewards.RecordAnswer(ctx, userID, correct)

			fmt.Printf("p=%.3f level=%s attempts=%d accuracy=%.0f%%\n",
				st.Probability, st.Level(), st.Attempts, st.Accuracy()*100)

			if e.catalog.ShouldUseSpacedRepetition(skillID, subjectID) {
				it, err := e.scheduler.Schedule(ctx, skillID, userID, st.Probability, correct, now)
				if err != nil {
					return err
				}
				fmt.Printf("next review: %s (interval %dh, ease %.2f)\n",
					it.NextReview.Format(time.RFC3339), it.IntervalHours, it.EaseFactor)
			}
			return nil
		})
	},
}

func init() {
	attemptCmd.Flags().Bool("correct", false, "The answer was correct")
	attemptCmd.Flags().Int64("time-ms", 0, "Response time in milliseconds")
	attemptCmd.Flags().String("subject", "", "Subject id the skill belongs to")
}
