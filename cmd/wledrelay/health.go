package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/wledrelay/internal/client"
	"github.com/alfredjeanlab/wledrelay/internal/server"
	"github.com/alfredjeanlab/wledrelay/internal/ui"
)

var healthCmd = &cobra.Command{
	Use:     "health",
	Short:   "Check the health of the relay",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		grpcAddr, _ := cmd.Flags().GetString("grpc")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if grpcAddr != "" {
			return checkGRPCHealth(ctx, grpcAddr)
		}

		resp, err := relayClient.Health(ctx)
		if err != nil {
			return fmt.Errorf("checking health: %w", err)
		}

		if jsonOutput {
			data, err := json.MarshalIndent(resp, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling JSON: %w", err)
			}
			fmt.Println(string(data))
		} else {
			fmt.Printf("Health:   %s\n", ui.RenderStatus(resp.Status == "ok", resp.Status))
			bound := "missing"
			if resp.KVBound {
				bound = "bound"
			}
			fmt.Printf("Binding:  %s (%s)\n", resp.KVBinding, ui.RenderStatus(resp.KVBound, bound))
		}

		if resp.Status != "ok" {
			return fmt.Errorf("unhealthy: %s", resp.Status)
		}
		if !resp.KVBound {
			return fmt.Errorf("kv binding %s is missing", resp.KVBinding)
		}
		return nil
	},
}

func checkGRPCHealth(ctx context.Context, addr string) error {
	c, err := client.NewGRPCHealthClient(addr)
	if err != nil {
		return err
	}
	defer c.Close()

	status, err := c.Check(ctx, server.HealthServiceName)
	if err != nil {
		return err
	}
	if jsonOutput {
		data, _ := json.Marshal(map[string]string{"status": status})
		fmt.Println(string(data))
	} else {
		fmt.Printf("Health:   %s\n", ui.RenderStatus(status == "SERVING", status))
	}
	if status != "SERVING" {
		return fmt.Errorf("unhealthy: %s", status)
	}
	return nil
}

func init() {
	healthCmd.Flags().String("grpc", "", "check the gRPC health service at this address instead")
}
