package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/w3dash/internal/ui"
)

var configJSON bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configShowCmd = &cobra.Command{
	Use:     "show",
	Aliases: []string{"list"},
	Short:   "Show the effective configuration",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if configJSON {
			data, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		token := cfg.TokenAddress
		if token == "" {
			token = ui.StyleWarning.Render("not set")
		}
		rpcs := strings.Join(cfg.RPCs(), ", ")
		if len(cfg.RPCURLs) == 0 {
			rpcs += ui.Meta(" (defaults)")
		}
		fmt.Fprintln(out, ui.KeyValueBlock("Current Configuration", [][2]string{
			{"Token", token},
			{"RPC URLs", rpcs},
			{"RPC algorithm", cfg.RPCAlgorithm},
			{"Default wallet", cfg.DefaultWallet},
			{"Log level", cfg.LogLevel},
		}))
		fmt.Fprintln(out, ui.Meta("Config directory: "+cfg.Dir()))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set one configuration value and save it.

Keys:
  token       ERC-20 token address
  rpc         add an RPC endpoint
  algorithm   fastest | round-robin | failover
  wallet      default wallet name
  log-level   debug | info | warn | error`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := cfg.Set(key, value); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("%s set to %s", key, strings.TrimSpace(value))))
		return nil
	},
}

var configRemoveRPCCmd = &cobra.Command{
	Use:   "remove-rpc <url>",
	Short: "Remove a configured RPC endpoint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.RemoveRPC(args[0]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success("RPC removed: "+args[0]))
		return nil
	},
}

func init() {
	configShowCmd.Flags().BoolVar(&configJSON, "json", false, "print the configuration as JSON")
	configCmd.AddCommand(configShowCmd, configSetCmd, configRemoveRPCCmd)
}
