package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/w3dash/internal/action"
	"github.com/Mohsinsiddi/w3dash/internal/state"
	"github.com/Mohsinsiddi/w3dash/internal/ui"
	"github.com/Mohsinsiddi/w3dash/internal/validation"
)

var (
	transferTo     string
	transferAmount string
	transferYes    bool
)

var transferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "Send tokens from the connected wallet",
	Long: `Connect the wallet and submit one token transfer without the dashboard.

The amount is checked against the stored balance exactly as the dashboard
form does, then sent to the token contract as typed.

Examples:
  w3dash transfer --to 0xRecipient --amount 150
  w3dash transfer --to 0xRecipient --amount 150 --yes`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		amount := strings.TrimSpace(transferAmount)
		to := strings.TrimSpace(transferTo)
		if r := validation.ValidateTransferForm(amount, to); !r.IsValid {
			return errors.New(r.ErrorMessage)
		}

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

		from, err := a.connect(ctx)
		spin.Stop()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ui.KeyValueBlock("Transfer", [][2]string{
			{"From", ui.Addr(from)},
			{"To", ui.Addr(to)},
			{"Amount", ui.Val(amount) + " " + ui.Token(a.info.Symbol)},
			{"Balance", ui.Val(state.Balance(a.store.State()))},
		}))

		if !transferYes && !ui.Confirm(cmd.InOrStdin(), out, "Send this transfer?") {
			fmt.Fprintln(out, ui.Meta("Cancelled."))
			return nil
		}

		spin = ui.NewSpinner(os.Stderr, "Sending transfer...")
		spin.Start()
		got, err := a.dispatchAndAwait(ctx, action.NewTransferRequest(amount, to),
			action.TransferSuccess, action.TransferFailure)
		spin.Stop()
		if err != nil {
			return err
		}
		if p, ok := got.Payload.(action.ErrorPayload); ok {
			return errors.New(p.Error)
		}

		fmt.Fprintln(out, ui.Success(ui.SuccessBanner))
		fmt.Fprintln(out, ui.Hint("New balance: "+state.Balance(a.store.State())))
		return nil
	},
}

func init() {
	transferCmd.Flags().StringVarP(&walletFlag, "wallet", "w", "", "wallet to send from (default: the default wallet)")
	transferCmd.Flags().StringVar(&transferTo, "to", "", "destination address")
	transferCmd.Flags().StringVar(&transferAmount, "amount", "", "amount to send")
	transferCmd.Flags().BoolVarP(&transferYes, "yes", "y", false, "skip the confirmation prompt")
	transferCmd.MarkFlagRequired("to")     //nolint:errcheck
	transferCmd.MarkFlagRequired("amount") //nolint:errcheck
}
