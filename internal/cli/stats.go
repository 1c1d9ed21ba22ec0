package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/meshwatch/meshwatch/internal/registry"
	"github.com/meshwatch/meshwatch/internal/stats"
	"github.com/meshwatch/meshwatch/internal/telemetry"
	"github.com/meshwatch/meshwatch/internal/ui"
)

// statsCmd summarizes collection reliability per node.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-node collection statistics",
	Long: `Fold the whole telemetry log into per-node statistics: attempt and
success counts, success rate, current and min/max battery, and when the
node last answered.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		log := telemetry.OpenLog(cfg.Paths.TelemetryLog)
		records, err := log.Read()
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No telemetry collected yet. Run 'meshwatch collect' first.")
			return nil
		}

		byNode := stats.Aggregate(records)
		names := registry.NewCache(cfg.Paths.Registry)

		columns := []ui.TableColumn{
			{Title: "Node", Width: 24},
			{Title: "Attempts", Width: 9},
			{Title: "Success", Width: 8},
			{Title: "Rate", Width: 7},
			{Title: "Battery", Width: 8},
			{Title: "Min/Max", Width: 10},
			{Title: "Last Success", Width: 20},
		}
		rows := make([][]string, 0, len(byNode))
		for _, id := range stats.SortedIDs(byNode) {
			s := byNode[id]
			rows = append(rows, []string{
				names.Resolve(id),
				fmt.Sprintf("%d", s.TotalAttempts),
				fmt.Sprintf("%d", s.SuccessCount),
				fmt.Sprintf("%.1f%%", s.SuccessRate),
				formatBattery(s.CurrentBattery),
				formatBattery(s.MinBattery) + "/" + formatBattery(s.MaxBattery),
				formatWhen(s.LastSuccess),
			})
		}

		fmt.Fprintln(cmd.OutOrStdout(), ui.RenderSimpleTable(columns, rows))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func formatBattery(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", *v)
}

func formatWhen(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Format("2006-01-02 15:04:05")
}
