package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/wledrelay/internal/client"
	"github.com/alfredjeanlab/wledrelay/internal/ui"
)

var (
	relayURL   string
	jsonOutput bool

	relayClient client.RelayClient
)

func defaultRelayURL() string {
	if s := os.Getenv("WLED_URL"); s != "" {
		return s
	}
	return "http://localhost:8080"
}

var rootCmd = &cobra.Command{
	Use:          "wledrelay <command>",
	Short:        "Relay the current WLED effect between a controller and a dashboard",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}
		relayClient = client.NewHTTPClient(relayURL)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if relayClient != nil {
			relayClient.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&relayURL, "url", defaultRelayURL(), "relay base URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddGroup(
		&cobra.Group{ID: "effect", Title: "Effect:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)
	cobra.EnableCommandSorting = false

	// Effect
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(watchCmd)

	// System
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(healthCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
