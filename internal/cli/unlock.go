package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meshwatch/meshwatch/internal/lock"
	"github.com/meshwatch/meshwatch/internal/ui"
)

// unlockCmd force-releases the collection lock.
var unlockCmd = &cobra.Command{
	Use:   "unlock",
	Short: "Force-release a stuck collection lock",
	Long: `Remove the collection lock regardless of who holds it. Only use this
when a collection process crashed and left its lock behind; unlocking a
live collection lets two processes interleave writes to the log.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		holder := lock.Holder(cfg.Lock)
		if holder == "none" {
			fmt.Fprintln(cmd.OutOrStdout(), "Lock is not held.")
			return nil
		}

		if err := lock.ForceRelease(cfg.Lock); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Released lock held by %s\n", ui.Success(ui.SymbolSuccess), holder)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(unlockCmd)
}
