package state

import "github.com/Mohsinsiddi/w3dash/internal/action"

// WalletState tracks the connected account. Empty strings mean unknown.
type WalletState struct {
	Address      string `json:"address"`
	Balance      string `json:"balance"`
	IsConnecting bool   `json:"isConnecting"`
	Error        string `json:"error"`
}

// InitialWallet returns a disconnected wallet state.
func InitialWallet() *WalletState { return &WalletState{} }

// ReduceWallet folds a into s. A nil s is treated as the initial state.
// Actions it does not handle return s itself.
func ReduceWallet(s *WalletState, a action.Action) *WalletState {
	if s == nil {
		s = InitialWallet()
	}

	switch a.Type {
	case action.ConnectWalletRequest:
		next := *s
		next.IsConnecting = true
		next.Error = ""
		return &next

	case action.ConnectWalletSuccess:
		p, _ := a.Payload.(action.ConnectWalletSuccessPayload)
		next := *s
		next.IsConnecting = false
		next.Address = p.Address
		next.Balance = p.Balance
		next.Error = ""
		return &next

	case action.ConnectWalletFailure:
		p, _ := a.Payload.(action.ErrorPayload)
		next := *s
		next.IsConnecting = false
		next.Error = p.Error
		return &next

	case action.UpdateBalance:
		p, _ := a.Payload.(action.UpdateBalancePayload)
		next := *s
		next.Balance = p.Balance
		return &next
	}

	return s
}
