package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:     "get",
	Short:   "Show the current effect",
	GroupID: "effect",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if jsonOutput {
			raw, err := relayClient.GetEffectRaw(ctx)
			if err != nil {
				return fmt.Errorf("getting effect: %w", err)
			}
			fmt.Fprintln(os.Stdout, string(raw))
			return nil
		}

		rec, err := relayClient.GetEffect(ctx)
		if err != nil {
			return fmt.Errorf("getting effect: %w", err)
		}
		printEffectTable(os.Stdout, rec)
		return nil
	},
}
