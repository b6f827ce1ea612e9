package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mdp/qrterminal/v3"
	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/w3dash/internal/state"
	"github.com/Mohsinsiddi/w3dash/internal/ui"
)

var connectQR bool

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Connect the wallet and print its token balance",
	Long: `Run the connect flow without the dashboard: unlock the wallet key
(the OS keychain may prompt), then read the token balance.

Examples:
  w3dash connect
  w3dash connect --wallet main --qr`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
		defer cancel()

		spin := ui.NewSpinner(os.Stderr, "Connecting wallet...")
		spin.Start()
		a, err := startApp(ctx, logger)
		if err != nil {
			spin.Stop()
			return err
		}
		defer a.stop()

		address, err := a.connect(ctx)
		spin.Stop()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		balance := state.Balance(a.store.State())
		fmt.Fprintln(out, ui.KeyValueBlock("Wallet connected", [][2]string{
			{"Address", ui.Addr(address)},
			{"Balance", ui.Val(ui.ScaleUnits(balance, a.info.Decimals)) + " " + ui.Token(a.info.Symbol)},
			{"Raw", ui.Meta(balance)},
			{"Token", ui.TokenLabel(a.info.Name, ui.Addr(a.info.TokenAddress))},
			{"RPC", ui.Meta(a.info.RPC)},
		}))

		if connectQR {
			fmt.Fprintln(out)
			qrterminal.GenerateHalfBlock(address, qrterminal.L, out)
		}
		return nil
	},
}

func init() {
	connectCmd.Flags().StringVarP(&walletFlag, "wallet", "w", "", "wallet to connect (default: the default wallet)")
	connectCmd.Flags().BoolVar(&connectQR, "qr", false, "print the address as a QR code")
}
