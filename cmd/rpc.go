package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/w3dash/internal/config"
	"github.com/Mohsinsiddi/w3dash/internal/rpc"
	"github.com/Mohsinsiddi/w3dash/internal/ui"
)

var rpcCmd = &cobra.Command{
	Use:   "rpc",
	Short: "Inspect RPC endpoints",
}

var rpcBenchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Ping every configured RPC and show which one would be picked",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		urls := cfg.RPCs()

		ctx, cancel := context.WithTimeout(cmd.Context(), config.RPCSelectTimeout)
		defer cancel()

		results := rpc.Benchmark(ctx, urls)

		t := ui.NewTable([]ui.Column{
			{Title: "RPC URL", Width: 40},
			{Title: "Latency", Width: 12},
			{Title: "Block #", Width: 12},
			{Title: "Status", Width: 10},
		})
		for _, r := range results {
			status := ui.Success("healthy")
			latency := fmt.Sprintf("%dms", r.Latency.Milliseconds())
			block := fmt.Sprintf("%d", r.BlockNumber)
			if r.Err != nil {
				status = ui.Err("down")
				latency = "-"
				block = "-"
			}
			t.AddRow(ui.Row{r.URL, latency, block, status})
		}
		fmt.Fprintln(out, t.Render())

		algo, err := rpc.ParseAlgorithm(cfg.RPCAlgorithm)
		if err != nil {
			return err
		}
		winner, err := rpc.NewPicker(algo).Pick(rpc.ResultsToEndpoints(results))
		if err != nil {
			return err
		}
		fmt.Fprintln(out, ui.Hint(fmt.Sprintf("%s picks %s", algo, winner.URL)))
		return nil
	},
}

var rpcCheckCmd = &cobra.Command{
	Use:   "check <url>",
	Short: "Check that one RPC endpoint answers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ep, err := rpc.HealthCheck(cmd.Context(), args[0], 0)
		if err != nil {
			return fmt.Errorf("%s is unreachable: %w", args[0], err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("%s answered in %dms at block %d",
			ep.URL, ep.Latency.Milliseconds(), ep.BlockNumber)))
		return nil
	},
}

func init() {
	rpcCmd.AddCommand(rpcBenchmarkCmd, rpcCheckCmd)
}
