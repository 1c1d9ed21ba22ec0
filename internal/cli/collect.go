package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meshwatch/meshwatch/internal/config"
	mwerrors "github.com/meshwatch/meshwatch/internal/errors"
	"github.com/meshwatch/meshwatch/internal/lock"
	"github.com/meshwatch/meshwatch/internal/logger"
	"github.com/meshwatch/meshwatch/internal/registry"
	"github.com/meshwatch/meshwatch/internal/telemetry"
	"github.com/meshwatch/meshwatch/internal/transport"
	"github.com/meshwatch/meshwatch/internal/ui"
)

var (
	collectNodesFlag string
	collectSkipNodes bool
	collectNoLock    bool
)

// collectCmd runs one collection cycle: poll every node for telemetry,
// then refresh the node registry.
var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Run one telemetry collection cycle",
	Long: `Poll every configured node for telemetry, append one row per node to
the telemetry log, then refresh the node registry from the radio's node
listing.

Examples:
  meshwatch collect
  meshwatch collect --nodes '!9eed0410,!33fa44b1'
  meshwatch collect --skip-nodes`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return collectCommand(cmd.Context(), cfg, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(collectCmd)
	collectCmd.Flags().StringVar(&collectNodesFlag, "nodes", "", "comma-separated node ids to poll (overrides config)")
	collectCmd.Flags().BoolVar(&collectSkipNodes, "skip-nodes", false, "skip the node registry refresh")
	collectCmd.Flags().BoolVar(&collectNoLock, "no-lock", false, "run without taking the collection lock")
}

// collectCommand executes one full cycle under the collection lock.
func collectCommand(ctx context.Context, cfg *config.Config, out io.Writer) error {
	if cfg.Lock.Enabled && !collectNoLock {
		l, err := lock.Acquire(cfg.Lock, "collect")
		if err != nil {
			return err
		}
		defer l.Release() //nolint:errcheck // Best-effort cleanup on exit
	}

	tr := transport.NewCLITransport(cfg.Transport)
	diag := logger.NewFileLogger("collect", cfg.Paths.Diagnostics)
	defer diag.Close() //nolint:errcheck

	return runCycle(ctx, cfg, tr, diag, out)
}

// runCycle polls telemetry and refreshes the registry using an already
// constructed transport. Callers own locking.
func runCycle(ctx context.Context, cfg *config.Config, tr transport.Transport, diag logger.Logger, out io.Writer) error {
	log := logger.Default()

	nodeIDs := cfg.Nodes
	if collectNodesFlag != "" {
		nodeIDs = splitNodeList(collectNodesFlag)
	}
	if len(nodeIDs) == 0 {
		return mwerrors.New(mwerrors.ErrConfig,
			"No nodes configured",
			"Add node ids under 'nodes:' in .meshwatch.yaml or pass --nodes")
	}

	collector := telemetry.NewCollector(tr,
		telemetry.WithTimeout(cfg.Timeouts.Telemetry),
		telemetry.WithLogger(log),
		telemetry.WithDiagnostics(diag),
	)

	sink := telemetry.OpenLog(cfg.Paths.TelemetryLog)
	records, err := collector.Collect(ctx, nodeIDs, sink)
	if err != nil {
		return err
	}

	names := registry.NewCache(cfg.Paths.Registry)
	printCycleSummary(out, records, names)

	if collectSkipNodes {
		return nil
	}
	return refreshRegistry(ctx, cfg, tr, out)
}

// refreshRegistry asks the radio for its node table and merges it into
// the on-disk registry. A transport failure here is reported but does
// not fail the cycle: telemetry rows are already safely appended.
func refreshRegistry(ctx context.Context, cfg *config.Config, tr transport.Transport, out io.Writer) error {
	log := logger.Default()

	listCtx, cancel := context.WithTimeout(ctx, cfg.Timeouts.Nodes)
	defer cancel()

	output, err := tr.ListNodes(listCtx)
	if err != nil {
		log.Warn("node listing failed: %v", err)
		fmt.Fprintln(out, ui.Warn("Node registry refresh skipped: radio did not answer"))
		return nil
	}

	fresh := registry.ParseNodeTable(output, log)
	existing, err := registry.ReadRegistry(cfg.Paths.Registry)
	if err != nil {
		return err
	}

	merged := registry.Merge(existing, fresh)
	if err := registry.WriteRegistry(cfg.Paths.Registry, merged); err != nil {
		return err
	}

	fmt.Fprintf(out, "Registry: %d nodes known (%d reported this cycle)\n", len(merged), len(fresh))
	return nil
}

// printCycleSummary writes the per-node outcome lines and a totals line.
func printCycleSummary(out io.Writer, records []telemetry.Record, names *registry.Cache) {
	var ok, failed int
	for _, r := range records {
		if r.Failed() {
			failed++
		} else {
			ok++
		}
		fmt.Fprintf(out, "%s %s %s\n", ui.StatusSymbol(string(r.Status)), names.Resolve(r.NodeID), describeRecord(r))
	}
	fmt.Fprintf(out, "Collected %d/%d nodes\n", ok, len(records))
}

// describeRecord renders the interesting part of a record for terminal
// output: battery and voltage on success, the status otherwise.
func describeRecord(r telemetry.Record) string {
	if r.Failed() {
		return ui.Muted(string(r.Status))
	}
	var parts []string
	if r.Battery != nil {
		parts = append(parts, fmt.Sprintf("battery %.0f%%", *r.Battery))
	}
	if r.Voltage != nil {
		parts = append(parts, fmt.Sprintf("%.2fV", *r.Voltage))
	}
	if r.ChannelUtil != nil {
		parts = append(parts, fmt.Sprintf("ch %.1f%%", *r.ChannelUtil))
	}
	if len(parts) == 0 {
		return ui.Muted("no metrics reported")
	}
	return strings.Join(parts, ", ")
}

// splitNodeList parses a comma-separated node id list, dropping blanks.
func splitNodeList(s string) []string {
	var ids []string
	for _, part := range strings.Split(s, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
