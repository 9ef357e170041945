package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var decayCmd = &cobra.Command{
	Use:   "decay <user-id>",
	Short: "Apply overdue-item decay for a user once",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(cmd, func(ctx context.Context, e *engine) error {
			n, err := e.scheduler.ApplyDecay(ctx, args[0], time.Now())
			if err != nil {
				return err
			}
			fmt.Printf("Decayed %d item(s).\n", n)
			return nil
		})
	},
}
