package ui

import (
	"errors"
	"io"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohsinsiddi/w3dash/internal/action"
	"github.com/Mohsinsiddi/w3dash/internal/state"
	"github.com/Mohsinsiddi/w3dash/internal/store"
)

const (
	account   = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	recipient = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
)

type recorder struct {
	mu      sync.Mutex
	actions []action.Action
}

func (r *recorder) listen(a action.Action, _ *state.RootState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, a)
}

func (r *recorder) types() []action.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]action.Type, len(r.actions))
	for i, a := range r.actions {
		out[i] = a.Type
	}
	return out
}

func newTestDashboard(t *testing.T, seed *state.RootState) (Dashboard, *store.Store, *recorder) {
	t.Helper()
	opts := []store.Option{store.WithLogger(log.NewWithOptions(io.Discard, log.Options{}))}
	if seed != nil {
		opts = append(opts, store.WithState(seed))
	}
	st := store.New(opts...)
	rec := &recorder{}
	st.Subscribe(rec.listen)

	m := NewDashboard(st, nil, DashboardInfo{
		Name:         "W3 Dash Token",
		Symbol:       "W3D",
		Decimals:     18,
		TokenAddress: "0x5FbDB2315678afecb367f032d93F642f64180aa3",
		Wallet:       "main",
	})
	return m, st, rec
}

func connectedState() *state.RootState {
	return &state.RootState{
		Wallet:   &state.WalletState{Address: account, Balance: "1000"},
		Transfer: state.InitialTransfer(),
	}
}

func keys(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func press(t *testing.T, m Dashboard, msgs ...tea.Msg) Dashboard {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Dashboard)
		require.True(t, ok)
	}
	return m
}

// ---------------------------------------------------------------------------
// main screen
// ---------------------------------------------------------------------------

func TestDashboardConnect(t *testing.T) {
	m, st, rec := newTestDashboard(t, nil)
	assert.Contains(t, m.View(), "not connected")
	assert.Contains(t, m.View(), "c connect wallet")

	m = press(t, m, keys("c"))
	assert.True(t, state.IsConnecting(st.State()))
	assert.Contains(t, m.View(), "Connecting")

	m = press(t, m, keys("c"))
	assert.Equal(t, []action.Type{action.ConnectWalletRequest}, rec.types(), "no second request while connecting")
}

func TestDashboardShowsWallet(t *testing.T) {
	m, _, _ := newTestDashboard(t, connectedState())

	view := m.View()
	assert.Contains(t, view, "0xf39F…2266")
	assert.Contains(t, view, "1000 W3D")
	assert.Contains(t, view, "0.000000000000001 W3D at 18 decimals")
	assert.Contains(t, view, "main")
	assert.Contains(t, view, "W3 Dash Token (0x5FbD…0aa3)")
	assert.NotContains(t, view, SuccessBanner)
}

func TestDashboardShowsWalletError(t *testing.T) {
	m, _, _ := newTestDashboard(t, &state.RootState{
		Wallet:   &state.WalletState{Error: "User rejected the request."},
		Transfer: state.InitialTransfer(),
	})
	assert.Contains(t, m.View(), "User rejected the request.")
}

func TestDashboardTransferNeedsConnection(t *testing.T) {
	m, st, rec := newTestDashboard(t, nil)
	press(t, m, keys("t"))
	assert.False(t, state.IsOpen(st.State()))
	assert.Empty(t, rec.types())
}

func TestDashboardRefreshReconnects(t *testing.T) {
	m, _, rec := newTestDashboard(t, connectedState())
	press(t, m, keys("r"))
	assert.Equal(t, []action.Type{action.ConnectWalletRequest}, rec.types())
}

func TestDashboardQuit(t *testing.T) {
	m, _, _ := newTestDashboard(t, nil)
	next, cmd := m.Update(keys("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, next.View())
}

func TestDashboardStoreClosedQuits(t *testing.T) {
	m, _, _ := newTestDashboard(t, nil)
	m = press(t, m, storeClosedMsg{})
	assert.Empty(t, m.View())
}

func TestDashboardCopyAddress(t *testing.T) {
	m, _, _ := newTestDashboard(t, connectedState())
	var copied string
	m.copy = func(s string) error { copied = s; return nil }

	next, cmd := m.Update(keys("y"))
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, account, copied)

	m = press(t, next.(Dashboard), msg)
	assert.Contains(t, m.View(), "Address copied to clipboard")

	m = press(t, m, clearNoticeMsg{seq: m.noticeN})
	assert.NotContains(t, m.View(), "Address copied")
}

func TestDashboardCopyFailure(t *testing.T) {
	m, _, _ := newTestDashboard(t, connectedState())
	m = press(t, m, copiedMsg{err: errors.New("no clipboard")})
	assert.Contains(t, m.View(), "Could not copy address: no clipboard")
}

// ---------------------------------------------------------------------------
// transfer modal
// ---------------------------------------------------------------------------

func TestDashboardTransferSubmit(t *testing.T) {
	m, st, rec := newTestDashboard(t, connectedState())

	m = press(t, m, keys("t"))
	require.True(t, state.IsOpen(st.State()))
	assert.Contains(t, m.View(), "Transfer W3D")

	m = press(t, m, keys("10"), tea.KeyMsg{Type: tea.KeyTab}, keys(recipient))
	assert.True(t, m.form.result.IsValid)

	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	s := st.State()
	assert.True(t, state.IsTransfering(s))
	assert.Equal(t, []action.Type{action.OpenTransferModal, action.TransferRequest}, rec.types())
	assert.Equal(t, action.NewTransferRequest("10", recipient), rec.actions[1])
}

func TestDashboardInvalidFormBlocksSubmit(t *testing.T) {
	m, _, rec := newTestDashboard(t, connectedState())
	m = press(t, m, keys("t"))

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.NotContains(t, m.View(), "Amount is required", "untouched form shows no error")

	m = press(t, m, keys("0"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Contains(t, m.View(), "Amount must be greater than 0")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyBackspace}, keys("5"), tea.KeyMsg{Type: tea.KeyTab}, keys("0x123"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Contains(t, m.View(), "Destination must be 42 characters long")

	assert.Equal(t, []action.Type{action.OpenTransferModal}, rec.types())
}

func TestDashboardEscClosesModal(t *testing.T) {
	m, st, _ := newTestDashboard(t, connectedState())
	m = press(t, m, keys("t"), tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, state.IsOpen(st.State()))
	assert.NotContains(t, m.View(), "Transfer W3D")
}

func TestDashboardEscIgnoredWhileTransfering(t *testing.T) {
	seed := connectedState()
	seed.Transfer = &state.TransferState{IsOpen: true, IsTransfering: true}
	m, st, rec := newTestDashboard(t, seed)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc}, keys("5"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, state.IsOpen(st.State()))
	assert.Empty(t, rec.types())
	assert.Contains(t, m.View(), "Waiting for the transfer")
}

func TestDashboardModalShowsTransferError(t *testing.T) {
	seed := connectedState()
	seed.Transfer = &state.TransferState{IsOpen: true, Error: "Insufficient balance"}
	m, _, _ := newTestDashboard(t, seed)
	assert.Contains(t, m.View(), "Insufficient balance")
}

func TestDashboardReopenResetsForm(t *testing.T) {
	m, _, _ := newTestDashboard(t, connectedState())
	m = press(t, m, keys("t"), keys("42"), tea.KeyMsg{Type: tea.KeyEsc}, keys("t"))
	assert.Empty(t, m.form.amount())
	assert.Equal(t, fieldAmount, m.form.focus)
}

func TestDashboardSuccessBanner(t *testing.T) {
	m, _, _ := newTestDashboard(t, connectedState())

	m = press(t, m, stateMsg{&state.RootState{
		Wallet:   &state.WalletState{Address: account, Balance: "990"},
		Transfer: &state.TransferState{IsTransfered: true, IsTransferSuccess: true},
	}})

	view := m.View()
	assert.Contains(t, view, SuccessBanner)
	assert.Contains(t, view, "990 W3D")
}

func TestDashboardStateMsgOpensModal(t *testing.T) {
	m, _, _ := newTestDashboard(t, connectedState())
	m = press(t, m, stateMsg{&state.RootState{
		Wallet:   connectedState().Wallet,
		Transfer: &state.TransferState{IsOpen: true},
	}})
	assert.True(t, m.form.inputs[fieldAmount].Focused())
}
