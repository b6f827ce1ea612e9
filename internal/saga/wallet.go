package saga

import (
	"context"
	"errors"

	"github.com/Mohsinsiddi/w3dash/internal/action"
)

var errNoProvider = errors.New("no wallet provider configured")

// ConnectWallet approves an account through the provider and reads its
// token balance.
func ConnectWallet(ctx context.Context, t *Task, _ action.Action) {
	t.guard(action.NewConnectWalletFailure, func() error {
		if t.Deps.TokenAddress == "" || t.Deps.Token == nil {
			return failMsg(KindConfig, MsgMissingTokenAddress)
		}
		if t.Deps.Provider == nil {
			return fail(KindProvider, errNoProvider)
		}

		if _, err := t.Deps.Provider.RequestAccounts(ctx); err != nil {
			return fail(KindProvider, err)
		}

		signer, err := t.Deps.Provider.Signer(ctx)
		if err != nil {
			return fail(KindProvider, err)
		}
		address := signer.Address()

		balance, err := t.Deps.Token.BalanceOf(ctx, address)
		if err != nil {
			return fail(KindContract, err)
		}

		t.Log.Info("wallet connected", "address", address, "balance", balance)
		t.Dispatch(action.NewConnectWalletSuccess(address, balance.String()))
		return nil
	})
}
