package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/w3dash/internal/ui"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Open the wallet dashboard (default command)",
	Long: `Open the full-screen wallet dashboard.

Keys:
  c  connect the wallet        t  open the transfer form
  r  refresh the balance       y  copy the address
  q  quit

Logs go to <config dir>/w3dash.log while the dashboard owns the terminal.`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

func runDashboard(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	f, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	fileLogger, err := newLogger(f, cfg.LogLevel, verbose)
	if err != nil {
		return err
	}

	spin := ui.NewSpinner(os.Stderr, "Selecting RPC endpoint...")
	spin.Start()
	a, err := startApp(ctx, fileLogger)
	spin.Stop()
	if err != nil {
		return err
	}
	defer a.stop()

	fileLogger.Info("dashboard started", "rpc", a.info.RPC, "token", a.info.TokenAddress, "wallet", a.info.Wallet)
	return ui.NewDashboard(a.store, a.store.Changes(ctx), a.info).Run(ctx)
}

func init() {
	dashboardCmd.Flags().StringVarP(&walletFlag, "wallet", "w", "", "wallet to connect (default: the default wallet)")
}
