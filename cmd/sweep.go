package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/svanteberg/plugga/internal/sweep"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run the periodic decay sweep over all users",
	Long: "Runs the decay maintenance over every user's overdue review items.\n" +
		"With --once the sweep runs a single time and exits; otherwise it\n" +
		"keeps running on the configured interval until interrupted.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(cmd, func(ctx context.Context, e *engine) error {
			interval := time.Duration(e.cfg.SweepIntervalHours) * time.Hour
			s := sweep.New(e.scheduler, e.store, interval, e.log)

			once, _ := cmd.Flags().GetBool("once")
			if once {
				n, err := s.RunOnce(ctx, time.Now())
				if err != nil {
					return err
				}
				fmt.Printf("Decayed %d item(s).\n", n)
				return nil
			}

			if err := s.Start(); err != nil {
				return err
			}
			defer s.Stop()
			e.log.Infow("decay sweep running", "interval", interval)

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			select {
			case <-sigCh:
			case <-ctx.Done():
			}
			return nil
		})
	},
}

func init() {
	sweepCmd.Flags().Bool("once", false, "Run a single sweep and exit")
}
