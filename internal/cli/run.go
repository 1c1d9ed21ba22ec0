package cli

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/meshwatch/meshwatch/internal/config"
	"github.com/meshwatch/meshwatch/internal/logger"
	"github.com/meshwatch/meshwatch/internal/ui"
)

var runIntervalFlag time.Duration

// runCmd collects continuously on an interval until interrupted.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Collect telemetry continuously on an interval",
	Long: `Run collection cycles back to back, sleeping the configured interval
between them. A failed cycle is logged and the next one still runs;
Ctrl-C stops cleanly after the current cycle.

Examples:
  meshwatch run
  meshwatch run --interval 10m`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if runIntervalFlag > 0 {
			cfg.Interval = runIntervalFlag
		}
		return runCommand(cmd.Context(), cfg, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().DurationVar(&runIntervalFlag, "interval", 0, "time between cycles (overrides config)")
}

// runCommand loops collection cycles until the context is cancelled.
// Each cycle takes and releases the lock independently so a long-lived
// runner never starves a one-shot 'meshwatch collect'.
func runCommand(ctx context.Context, cfg *config.Config, out io.Writer) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return runLoop(ctx, cfg, out, func(ctx context.Context) error {
		return collectCommand(ctx, cfg, out)
	})
}

// runLoop drives cycles on the configured cadence. A failed cycle retries
// after the shorter retry delay rather than sleeping the full interval, so
// a transient failure doesn't cost a whole collection period of data.
func runLoop(ctx context.Context, cfg *config.Config, out io.Writer, cycle func(context.Context) error) error {
	log := logger.Default()

	for n := 1; ; n++ {
		fmt.Fprintf(out, "Cycle %d at %s\n", n, time.Now().Format(time.RFC3339))

		delay := cfg.Interval
		if err := cycle(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}
			log.Error("cycle %d failed: %v", n, err)
			fmt.Fprintln(out, ui.Warn(fmt.Sprintf("Cycle failed, retrying in %s: %v", cfg.Retry, err)))
			delay = cfg.Retry
		}

		select {
		case <-ctx.Done():
		case <-time.After(delay):
			continue
		}
		break
	}

	fmt.Fprintln(out, "Stopped.")
	return nil
}
