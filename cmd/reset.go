package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all learner data",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		if !force {
			return fmt.Errorf("reset deletes all mastery and review data; re-run with --force to confirm")
		}
		return withEngine(cmd, func(ctx context.Context, e *engine) error {
			if err := e.db.Reset(ctx); err != nil {
				return err
			}
			fmt.Println("Learner data cleared.")
			return nil
		})
	},
}

func init() {
	resetCmd.Flags().Bool("force", false, "Confirm deletion")
}
