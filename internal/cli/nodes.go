package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meshwatch/meshwatch/internal/registry"
	"github.com/meshwatch/meshwatch/internal/ui"
)

// nodesCmd prints the node registry.
var nodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "Show the node registry",
	Long: `Print every node the mesh has ever reported, most recently heard
first. The registry is refreshed at the end of each collection cycle.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		entries, err := registry.ReadRegistry(cfg.Paths.Registry)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No nodes in registry yet. Run 'meshwatch collect' first.")
			return nil
		}

		columns := []ui.TableColumn{
			{Title: "ID", Width: 10},
			{Title: "User", Width: 18},
			{Title: "Hardware", Width: 12},
			{Title: "Role", Width: 8},
			{Title: "Battery", Width: 8},
			{Title: "SNR", Width: 6},
			{Title: "Hops", Width: 5},
			{Title: "Last Heard", Width: 20},
		}
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []string{
				e.ID, e.User, e.Hardware, e.Role, e.Battery, e.SNR, e.Hops, e.LastHeard,
			})
		}

		fmt.Fprintln(cmd.OutOrStdout(), ui.RenderSimpleTable(columns, rows))
		fmt.Fprintf(cmd.OutOrStdout(), "%d nodes\n", len(entries))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(nodesCmd)
}
