package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/wledrelay/internal/client"
	"github.com/alfredjeanlab/wledrelay/internal/ui"
)

var setCmd = &cobra.Command{
	Use:     "set <effect>",
	Short:   "Set the current effect",
	GroupID: "effect",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		updatedAt, _ := cmd.Flags().GetString("updated-at")

		req := &client.SetEffectRequest{Effect: args[0], UpdatedAt: updatedAt}
		if err := relayClient.SetEffect(context.Background(), req); err != nil {
			return fmt.Errorf("setting effect: %w", err)
		}

		if jsonOutput {
			fmt.Fprintln(os.Stdout, `{"ok":true}`)
		} else {
			fmt.Fprintf(os.Stdout, "Effect set to %s\n", ui.RenderEffect(args[0]))
		}
		return nil
	},
}

func init() {
	setCmd.Flags().String("updated-at", "", "timestamp to record (default: server time)")
}
