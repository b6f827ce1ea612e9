package saga

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Mohsinsiddi/w3dash/internal/action"
	"github.com/Mohsinsiddi/w3dash/internal/state"
)

var errBadRequest = errors.New("malformed transfer request")

// Transfer sends the requested amount to the destination and adjusts the
// stored balance on success.
//
// The stored balance is in token base units while the amount is what the
// user typed; they are compared and subtracted as plain numbers.
func Transfer(ctx context.Context, t *Task, a action.Action) {
	t.guard(action.NewTransferFailure, func() error {
		req, ok := a.Payload.(action.TransferRequestPayload)
		if !ok {
			return fail(KindState, errBadRequest)
		}

		current := state.Balance(t.State())
		if current == "" {
			return failMsg(KindState, MsgUnknownBalance)
		}

		balance, err := decimal.NewFromString(current)
		if err != nil {
			return fail(KindState, err)
		}
		amountText := strings.TrimSpace(req.Amount)
		amount, err := decimal.NewFromString(amountText)
		if err != nil {
			return fail(KindState, err)
		}

		if amount.GreaterThan(balance) {
			return failMsg(KindState, MsgInsufficientBalance)
		}

		if t.Deps.Token == nil {
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

		hash, err := t.Deps.Token.Transfer(ctx, signer, req.Destination, amountText)
		if err != nil {
			return fail(KindContract, err)
		}

		t.Log.Info("transfer submitted", "hash", hash, "to", req.Destination, "amount", amountText)
		t.Dispatch(action.NewUpdateBalance(balance.Sub(amount).String()))
		t.Dispatch(action.NewTransferSuccess())
		return nil
	})
}
