package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/w3dash/internal/config"
	"github.com/Mohsinsiddi/w3dash/internal/ui"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/Mohsinsiddi/w3dash/cmd.Version=1.2.3" .
var Version = "0.1.0"

var (
	cfgDir  string
	cfg     *config.Config
	logger  *log.Logger
	verbose bool
	trace   bool
)

// rootCmd is the top-level command. Without a sub-command it opens the dashboard.
var rootCmd = &cobra.Command{
	Use:   "w3dash",
	Short: "Terminal dashboard for one ERC-20 token",
	Long: `w3dash: connect a wallet, watch its token balance and send transfers.

Run without arguments to open the dashboard. The token and RPC endpoints
come from ~/.w3dash/config.json, a .env file or W3DASH_* variables:

  w3dash config set token 0xYourToken
  w3dash wallet add main --key <private-key>
  w3dash`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		logger, err = newLogger(os.Stderr, cfg.LogLevel, verbose)
		return err
	},
	RunE: runDashboard,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Err(err.Error()))
		os.Exit(1)
	}
}

// newLogger builds the process logger. verbose forces debug.
func newLogger(w io.Writer, level string, verbose bool) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log_level: %w", err)
	}
	if verbose {
		lvl = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          "w3dash",
		ReportTimestamp: true,
	}), nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", "", "config directory (default: $W3DASH_CONFIG_DIR or ~/.w3dash)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVar(&trace, "trace", false, "log every dispatched action as JSON")
	rootCmd.Flags().StringVarP(&walletFlag, "wallet", "w", "", "wallet to connect (default: the default wallet)")

	rootCmd.AddCommand(
		dashboardCmd,
		connectCmd,
		transferCmd,
		walletCmd,
		configCmd,
		rpcCmd,
	)
}
