package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/w3dash/internal/ui"
	"github.com/Mohsinsiddi/w3dash/internal/wallet"
)

var (
	walletKeyFlag   string
	walletYesFlag   bool
	walletUnlockAll bool
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage wallets",
}

var walletAddCmd = &cobra.Command{
	Use:   "add <name> [address]",
	Short: "Add a wallet",
	Long: `Add a signing wallet (private key stored in the OS keychain) or a
watch-only wallet. Only signing wallets can connect to the dashboard.

Examples:
  w3dash wallet add main --key 0xac09...
  w3dash wallet add cold 0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		out := cmd.OutOrStdout()
		mgr := newWalletManager()

		if walletKeyFlag != "" {
			w, err := mgr.AddWithKey(name, walletKeyFlag)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, ui.Success(fmt.Sprintf("Signing wallet %q added: %s", name, ui.Addr(w.Address))))
			fmt.Fprintln(out, ui.Hint(fmt.Sprintf("Set as default with: w3dash wallet use %s", name)))
			return nil
		}

		if len(args) < 2 {
			return fmt.Errorf("address required for watch-only wallet\n  Usage: w3dash wallet add <name> <address>\n  Or for signing: w3dash wallet add <name> --key <private-key>")
		}
		w := &wallet.Wallet{Address: args[1], Type: wallet.TypeWatchOnly}
		if err := mgr.Add(name, w); err != nil {
			return err
		}
		fmt.Fprintln(out, ui.Success(fmt.Sprintf("Watch-only wallet %q added: %s", name, ui.Addr(w.Address))))
		fmt.Fprintln(out, ui.Hint(fmt.Sprintf("Set as default with: w3dash wallet use %s", name)))
		return nil
	},
}

var walletListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all wallets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		wallets, err := newWalletManager().List()
		if err != nil {
			return err
		}

		if len(wallets) == 0 {
			fmt.Fprintln(out, ui.Info("No wallets configured yet."))
			fmt.Fprintln(out, ui.Hint("Add one with: w3dash wallet add main --key <private-key>"))
			return nil
		}

		t := ui.NewTable([]ui.Column{
			{Title: "Name", Width: 16},
			{Title: "Address", Width: 44},
			{Title: "Type", Width: 12},
			{Title: "Default", Width: 8},
		})
		for _, w := range wallets {
			def := ""
			if w.IsDefault || w.Name == cfg.DefaultWallet {
				def = ui.StyleSuccess.Render("✓")
			}
			t.AddRow(ui.Row{
				ui.Val(w.Name),
				ui.Addr(w.Address),
				ui.Meta(walletTypeLabel(w.Type)),
				def,
			})
		}
		fmt.Fprintln(out, t.Render())
		fmt.Fprintln(out, ui.Meta(fmt.Sprintf("%d wallet(s) configured", len(wallets))))
		return nil
	},
}

var walletRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a wallet and its stored key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		out := cmd.OutOrStdout()
		if !walletYesFlag && !ui.Confirm(cmd.InOrStdin(), out, fmt.Sprintf("Remove wallet %q?", name)) {
			fmt.Fprintln(out, ui.Meta("Cancelled."))
			return nil
		}
		if err := newWalletManager().Remove(name); err != nil {
			return err
		}
		if cfg.DefaultWallet == name {
			cfg.DefaultWallet = ""
			if err := cfg.Save(); err != nil {
				return err
			}
		}
		fmt.Fprintln(out, ui.Success(fmt.Sprintf("Wallet %q removed.", name)))
		return nil
	},
}

var walletUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Set the default wallet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		out := cmd.OutOrStdout()
		if err := newWalletManager().SetDefault(name); err != nil {
			return err
		}
		cfg.DefaultWallet = name
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(out, ui.Success(fmt.Sprintf("Default wallet set to %q.", name)))
		fmt.Fprintln(out, ui.Hint("The dashboard connects this wallet when --wallet is not given."))
		return nil
	},
}

// unlocker is implemented by keystores that can cache a key in the session file.
type unlocker interface {
	Unlock(ref string) error
}

var walletUnlockCmd = &cobra.Command{
	Use:   "unlock [name...]",
	Short: "Cache wallet keys for this session (one keychain prompt per wallet)",
	Long: `Read the keys of the given signing wallets from the OS keychain once and
keep them in a 0600 session file, so connecting does not prompt again.
Without arguments the default wallet is unlocked. Clear with 'w3dash wallet lock'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		mgr := newWalletManager()

		ks, ok := mgr.Keystore().(unlocker)
		if !ok {
			return fmt.Errorf("keystore does not support session caching")
		}

		wallets, err := walletsToUnlock(mgr, args)
		if err != nil {
			return err
		}

		fmt.Fprintln(out, ui.Info("Your OS keychain may prompt once per wallet being unlocked."))
		var unlocked int
		for _, w := range wallets {
			if !w.CanSign() {
				fmt.Fprintln(out, ui.Meta(fmt.Sprintf("  %-20s watch-only, skipped", w.Name)))
				continue
			}
			if err := ks.Unlock(w.KeyRef); err != nil {
				fmt.Fprintln(out, ui.Err(fmt.Sprintf("  %-20s %v", w.Name, err)))
				continue
			}
			fmt.Fprintln(out, ui.Success(fmt.Sprintf("  %-20s unlocked", w.Name)))
			unlocked++
		}

		if unlocked > 0 {
			fmt.Fprintln(out, ui.Success(fmt.Sprintf(
				"%d wallet(s) cached. Zero prompts until 'w3dash wallet lock'.", unlocked)))
		}
		return nil
	},
}

var walletLockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Clear the session cache (re-enables keychain prompts)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		session := wallet.DefaultSession()
		if !session.Active() {
			fmt.Fprintln(out, ui.Meta("No active session, nothing to clear."))
			return nil
		}
		if err := session.Clear(); err != nil {
			return fmt.Errorf("clearing session: %w", err)
		}
		fmt.Fprintln(out, ui.Success("Session cleared. Keychain will be used on next connect."))
		return nil
	},
}

// walletsToUnlock resolves the wallets named on the command line, all
// wallets with --all, or the default wallet.
func walletsToUnlock(mgr *wallet.Manager, names []string) ([]*wallet.Wallet, error) {
	if walletUnlockAll {
		return mgr.List()
	}
	if len(names) == 0 {
		w, err := mgr.Resolve(cfg.DefaultWallet)
		if err != nil {
			return nil, err
		}
		return []*wallet.Wallet{w}, nil
	}
	out := make([]*wallet.Wallet, 0, len(names))
	for _, name := range names {
		w, err := mgr.Get(name)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}

// walletTypeLabel converts an internal wallet type to a user-friendly label.
func walletTypeLabel(t string) string {
	switch t {
	case wallet.TypeSigning:
		return "read-write"
	default:
		return t
	}
}

func init() {
	walletAddCmd.Flags().StringVar(&walletKeyFlag, "key", "", "private key for a signing wallet (stored in the OS keychain)")
	walletRemoveCmd.Flags().BoolVarP(&walletYesFlag, "yes", "y", false, "skip the confirmation prompt")
	walletUnlockCmd.Flags().BoolVar(&walletUnlockAll, "all", false, "unlock all signing wallets")
	walletCmd.AddCommand(walletAddCmd, walletListCmd, walletRemoveCmd, walletUseCmd,
		walletUnlockCmd, walletLockCmd)
}
