// Package state holds the dashboard's application state and the pure
// reducers that derive the next state from an action.
package state

import "github.com/Mohsinsiddi/w3dash/internal/action"

// RootState is the whole application state. Sub-states are shared between
// snapshots until an action changes them, so pointer equality means "unchanged".
type RootState struct {
	Wallet   *WalletState   `json:"wallet"`
	Transfer *TransferState `json:"transfer"`
}

// Initial returns the state at process start.
func Initial() *RootState {
	return &RootState{Wallet: InitialWallet(), Transfer: InitialTransfer()}
}

// Reduce routes a to both sub-reducers. It returns s unchanged when neither
// sub-state changed, and never modifies s.
func Reduce(s *RootState, a action.Action) *RootState {
	if s == nil {
		s = Initial()
	}

	w := ReduceWallet(s.Wallet, a)
	t := ReduceTransfer(s.Transfer, a)
	if w == s.Wallet && t == s.Transfer {
		return s
	}
	return &RootState{Wallet: w, Transfer: t}
}
