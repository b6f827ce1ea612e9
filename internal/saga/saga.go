package saga

import (
	"context"

	"github.com/Mohsinsiddi/w3dash/internal/action"
)

// Run starts the root saga: the connect and transfer flows watching st.
func Run(ctx context.Context, st Store, deps Deps, opts ...Option) *Runner {
	if deps.TokenAddress == "" {
		deps.logger().Error(MsgMissingTokenAddress)
	}

	r := New(st, deps, opts...)
	r.TakeEvery(action.ConnectWalletRequest, ConnectWallet)
	r.TakeEvery(action.TransferRequest, Transfer)
	r.Start(ctx)
	return r
}
