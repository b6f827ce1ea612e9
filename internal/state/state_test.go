package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohsinsiddi/w3dash/internal/action"
)

// ---------------------------------------------------------------------------
// Wallet reducer
// ---------------------------------------------------------------------------

func TestReduceWalletTransitions(t *testing.T) {
	s := ReduceWallet(nil, action.NewConnectWalletRequest())
	assert.Equal(t, WalletState{IsConnecting: true}, *s)

	s = ReduceWallet(s, action.NewConnectWalletSuccess("0xabc", "1000"))
	assert.Equal(t, WalletState{Address: "0xabc", Balance: "1000"}, *s)

	s = ReduceWallet(s, action.NewUpdateBalance("400"))
	assert.Equal(t, WalletState{Address: "0xabc", Balance: "400"}, *s)

	s = ReduceWallet(s, action.NewConnectWalletFailure("User rejected"))
	assert.Equal(t, WalletState{Address: "0xabc", Balance: "400", Error: "User rejected"}, *s)

	s = ReduceWallet(s, action.NewConnectWalletRequest())
	assert.True(t, s.IsConnecting)
	assert.Empty(t, s.Error)
	assert.Equal(t, "0xabc", s.Address)
}

func TestReduceWalletFailureWhileDisconnected(t *testing.T) {
	s := ReduceWallet(InitialWallet(), action.NewConnectWalletRequest())
	s = ReduceWallet(s, action.NewConnectWalletFailure("no provider"))
	assert.Equal(t, WalletState{Error: "no provider"}, *s)
}

func TestReduceWalletUnknownReturnsSamePointer(t *testing.T) {
	s := &WalletState{Address: "0xabc"}
	assert.Same(t, s, ReduceWallet(s, action.NewOpenTransferModal()))
	assert.Same(t, s, ReduceWallet(s, action.Action{Type: "@@INIT"}))
}

func TestReduceWalletDoesNotMutateInput(t *testing.T) {
	in := &WalletState{Address: "0xabc", Balance: "1"}
	before := *in
	out := ReduceWallet(in, action.NewConnectWalletRequest())
	assert.Equal(t, before, *in)
	assert.NotSame(t, in, out)
}

// ---------------------------------------------------------------------------
// Transfer reducer
// ---------------------------------------------------------------------------

func TestReduceTransferModal(t *testing.T) {
	s := ReduceTransfer(&TransferState{Error: "old"}, action.NewOpenTransferModal())
	assert.Equal(t, TransferState{IsOpen: true}, *s)

	s.Error = "x"
	s = ReduceTransfer(s, action.NewCloseTransferModal())
	assert.Equal(t, TransferState{}, *s)
}

func TestReduceTransferRoundTrip(t *testing.T) {
	s := ReduceTransfer(nil, action.NewOpenTransferModal())
	s = ReduceTransfer(s, action.NewTransferRequest("10", "0xdef"))
	assert.True(t, s.IsTransfering)

	s = ReduceTransfer(s, action.NewTransferSuccess())
	assert.Equal(t, TransferState{
		IsOpen:            false,
		IsTransfering:     false,
		IsTransfered:      true,
		IsTransferSuccess: true,
	}, *s)
}

func TestReduceTransferFailureKeepsModalOpen(t *testing.T) {
	s := ReduceTransfer(&TransferState{IsOpen: true, IsTransfering: true}, action.NewTransferFailure("x"))
	assert.Equal(t, TransferState{IsOpen: true, Error: "x"}, *s)
}

func TestReduceTransferFailureResetsSuccess(t *testing.T) {
	s := &TransferState{IsTransfered: true, IsTransferSuccess: true}
	s = ReduceTransfer(s, action.NewTransferFailure("later failure"))
	assert.False(t, s.IsTransfered)
	assert.False(t, s.IsTransferSuccess)
}

func TestReduceTransferUnknownReturnsSamePointer(t *testing.T) {
	s := &TransferState{IsOpen: true}
	assert.Same(t, s, ReduceTransfer(s, action.NewUpdateBalance("1")))
}

// ---------------------------------------------------------------------------
// Root composer
// ---------------------------------------------------------------------------

func TestReduceSharesUntouchedSubState(t *testing.T) {
	s := Initial()

	next := Reduce(s, action.NewOpenTransferModal())
	assert.Same(t, s.Wallet, next.Wallet)
	assert.NotSame(t, s.Transfer, next.Transfer)

	after := Reduce(next, action.NewConnectWalletRequest())
	assert.Same(t, next.Transfer, after.Transfer)
	assert.NotSame(t, next.Wallet, after.Wallet)
}

func TestReduceUnknownReturnsSameRoot(t *testing.T) {
	s := Initial()
	assert.Same(t, s, Reduce(s, action.Action{Type: "unknown"}))
}

func TestReduceNilIsInitial(t *testing.T) {
	s := Reduce(nil, action.Action{Type: "unknown"})
	require.NotNil(t, s)
	assert.Equal(t, Initial(), s)
}

// ---------------------------------------------------------------------------
// Selectors
// ---------------------------------------------------------------------------

func TestSelectorsTotalOverNil(t *testing.T) {
	for _, s := range []*RootState{nil, {}, {Wallet: nil, Transfer: nil}} {
		assert.Equal(t, "", Address(s))
		assert.False(t, IsConnected(s))
		assert.False(t, IsConnecting(s))
		assert.Equal(t, "", Balance(s))
		assert.Equal(t, "", WalletError(s))
		assert.False(t, IsTransfered(s))
		assert.False(t, IsTransfering(s))
		assert.False(t, IsOpen(s))
		assert.False(t, IsTransferSuccess(s))
		assert.Equal(t, "", TransferError(s))
	}
}

func TestSelectorsReadState(t *testing.T) {
	s := &RootState{
		Wallet:   &WalletState{Address: "0xabc", Balance: "5", IsConnecting: true, Error: "w"},
		Transfer: &TransferState{IsTransfered: true, IsTransfering: true, IsOpen: true, IsTransferSuccess: true, Error: "t"},
	}

	assert.Equal(t, "0xabc", Address(s))
	assert.True(t, IsConnected(s))
	assert.True(t, IsConnecting(s))
	assert.Equal(t, "5", Balance(s))
	assert.Equal(t, "w", WalletError(s))
	assert.True(t, IsTransfered(s))
	assert.True(t, IsTransfering(s))
	assert.True(t, IsOpen(s))
	assert.True(t, IsTransferSuccess(s))
	assert.Equal(t, "t", TransferError(s))
}
