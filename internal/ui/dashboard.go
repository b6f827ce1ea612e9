package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Mohsinsiddi/w3dash/internal/action"
	"github.com/Mohsinsiddi/w3dash/internal/state"
)

// SuccessBanner is shown after a transfer went through.
const SuccessBanner = "The transfer was completed successfully"

const noticeTTL = 2 * time.Second

// Backend is the part of the store the dashboard drives.
type Backend interface {
	Dispatch(a action.Action)
	State() *state.RootState
}

// DashboardInfo is static context shown next to the wallet state.
type DashboardInfo struct {
	Name         string
	Symbol       string
	Decimals     int
	TokenAddress string
	RPC          string
	Wallet       string
}

type (
	stateMsg       struct{ s *state.RootState }
	storeClosedMsg struct{}
	copiedMsg      struct{ err error }
	clearNoticeMsg struct{ seq int }
)

// Dashboard is the Bubble Tea model. It renders store snapshots through the
// selectors and turns key presses into dispatched actions.
type Dashboard struct {
	backend Backend
	changes <-chan *state.RootState
	info    DashboardInfo

	state    *state.RootState
	wasOpen  bool
	form     transferForm
	spin     spinner.Model
	notice   string
	noticeN  int
	width    int
	quitting bool

	copy func(string) error
}

// NewDashboard creates the model. changes usually comes from store.Changes.
func NewDashboard(b Backend, changes <-chan *state.RootState, info DashboardInfo) Dashboard {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorToken)

	s := b.State()
	return Dashboard{
		backend: b,
		changes: changes,
		info:    info,
		state:   s,
		wasOpen: state.IsOpen(s),
		form:    newTransferForm(),
		spin:    sp,
		copy:    clipboard.WriteAll,
	}
}

// Run shows the dashboard full screen until the user quits or ctx ends.
func (m Dashboard) Run(ctx context.Context) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Init starts listening for store changes.
func (m Dashboard) Init() tea.Cmd {
	return tea.Batch(waitForState(m.changes), m.spin.Tick)
}

func waitForState(ch <-chan *state.RootState) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return storeClosedMsg{}
		}
		return stateMsg{s}
	}
}

// Update handles store snapshots, key presses and timers.
func (m Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		cmd := m.setState(msg.s)
		return m, tea.Batch(cmd, waitForState(m.changes))

	case storeClosedMsg:
		m.quitting = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			return m, m.flash("Could not copy address: " + msg.err.Error())
		}
		return m, m.flash("Address copied to clipboard")

	case clearNoticeMsg:
		if msg.seq == m.noticeN {
			m.notice = ""
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if state.IsOpen(m.state) {
			return m.updateModal(msg)
		}
		return m.updateMain(msg)
	}

	return m, nil
}

func (m Dashboard) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "c":
		if !state.IsConnected(m.state) && !state.IsConnecting(m.state) {
			return m, m.dispatch(action.NewConnectWalletRequest())
		}

	case "r":
		// Reconnecting also refreshes the balance.
		if state.IsConnected(m.state) && !state.IsConnecting(m.state) {
			return m, m.dispatch(action.NewConnectWalletRequest())
		}

	case "t":
		if state.IsConnected(m.state) {
			return m, m.dispatch(action.NewOpenTransferModal())
		}

	case "y":
		if addr := state.Address(m.state); addr != "" {
			return m, m.copyCmd(addr)
		}
	}
	return m, nil
}

func (m Dashboard) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	busy := state.IsTransfering(m.state)

	switch msg.String() {
	case "esc":
		if busy {
			return m, nil
		}
		return m, m.dispatch(action.NewCloseTransferModal())

	case "tab", "down":
		return m, m.form.next()

	case "shift+tab", "up":
		return m, m.form.prev()

	case "enter":
		if busy || !m.form.result.IsValid {
			return m, nil
		}
		return m, m.dispatch(action.NewTransferRequest(
			strings.TrimSpace(m.form.amount()),
			strings.TrimSpace(m.form.destination()),
		))
	}

	if busy {
		return m, nil
	}
	return m, m.form.update(msg)
}

// dispatch sends a to the store and applies the resulting snapshot at once
// so the next key press sees it.
func (m *Dashboard) dispatch(a action.Action) tea.Cmd {
	m.backend.Dispatch(a)
	return m.setState(m.backend.State())
}

// setState installs s and resets the form when the modal opens.
func (m *Dashboard) setState(s *state.RootState) tea.Cmd {
	m.state = s
	open := state.IsOpen(s)
	opened := open && !m.wasOpen
	m.wasOpen = open
	if opened {
		return m.form.reset()
	}
	return nil
}

func (m *Dashboard) flash(text string) tea.Cmd {
	m.notice = text
	m.noticeN++
	seq := m.noticeN
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg { return clearNoticeMsg{seq} })
}

func (m Dashboard) copyCmd(text string) tea.Cmd {
	write := m.copy
	return func() tea.Msg { return copiedMsg{write(text)} }
}

// View renders the dashboard.
func (m Dashboard) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(StyleTitle.Render(Banner()) + "\n")

	if state.IsTransferSuccess(m.state) {
		sb.WriteString(StyleBanner.Render(SuccessBanner) + "\n\n")
	}

	sb.WriteString(m.walletView() + "\n")

	if state.IsOpen(m.state) {
		sb.WriteString("\n" + m.modalView() + "\n")
	}

	if m.notice != "" {
		sb.WriteString("\n" + Info(m.notice) + "\n")
	}

	sb.WriteString("\n" + Meta(m.help()) + "\n")
	return sb.String()
}

func (m Dashboard) walletView() string {
	s := m.state
	symbol := m.info.Symbol

	var pairs [][2]string
	if m.info.Wallet != "" {
		pairs = append(pairs, [2]string{"Wallet", m.info.Wallet})
	}

	switch {
	case state.IsConnecting(s):
		pairs = append(pairs, [2]string{"Status", m.spin.View() + " Connecting…"})
	case state.IsConnected(s):
		pairs = append(pairs,
			[2]string{"Status", "connected"},
			[2]string{"Address", ShortAddress(state.Address(s))},
			[2]string{"Balance", strings.TrimSpace(state.Balance(s) + " " + symbol)},
		)
		if m.info.Decimals > 0 && state.Balance(s) != "" {
			scaled := fmt.Sprintf("%s %s at %d decimals", ScaleUnits(state.Balance(s), m.info.Decimals), symbol, m.info.Decimals)
			pairs = append(pairs, [2]string{"", scaled})
		}
	default:
		pairs = append(pairs, [2]string{"Status", "not connected"})
	}

	if m.info.TokenAddress != "" {
		pairs = append(pairs, [2]string{"Token", TokenLabel(m.info.Name, ShortAddress(m.info.TokenAddress))})
	}
	if m.info.RPC != "" {
		pairs = append(pairs, [2]string{"RPC", m.info.RPC})
	}

	out := KeyValueBlock("Wallet", pairs)
	if msg := state.WalletError(s); msg != "" {
		out += "\n" + Err(msg)
	}
	return out
}

func (m Dashboard) modalView() string {
	var sb strings.Builder
	sb.WriteString(StyleHeader.Render("Transfer "+m.info.Symbol) + "\n\n")
	sb.WriteString(m.form.view())

	switch {
	case state.IsTransfering(m.state):
		sb.WriteString("\n" + m.spin.View() + " Waiting for the transfer…")
	case m.form.touched() && !m.form.result.IsValid:
		sb.WriteString("\n" + Warn(m.form.result.ErrorMessage))
	}

	if msg := state.TransferError(m.state); msg != "" {
		sb.WriteString("\n" + Err(msg))
	}
	return StyleModal.Render(sb.String())
}

func (m Dashboard) help() string {
	if state.IsOpen(m.state) {
		if state.IsTransfering(m.state) {
			return "transfer in flight · ctrl+c quit"
		}
		submit := "enter send"
		if !m.form.result.IsValid {
			submit = "enter send (fill in the form)"
		}
		return "tab switch field · " + submit + " · esc cancel"
	}
	if state.IsConnected(m.state) {
		return "t transfer · r refresh · y copy address · q quit"
	}
	return "c connect wallet · q quit"
}
