package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Mohsinsiddi/w3dash/internal/action"
	"github.com/Mohsinsiddi/w3dash/internal/chain"
	"github.com/Mohsinsiddi/w3dash/internal/config"
	"github.com/Mohsinsiddi/w3dash/internal/contract"
	"github.com/Mohsinsiddi/w3dash/internal/rpc"
	"github.com/Mohsinsiddi/w3dash/internal/saga"
	"github.com/Mohsinsiddi/w3dash/internal/state"
	"github.com/Mohsinsiddi/w3dash/internal/store"
	"github.com/Mohsinsiddi/w3dash/internal/ui"
	"github.com/Mohsinsiddi/w3dash/internal/wallet"
)

const (
	defaultSymbol   = "TOKEN"
	defaultDecimals = 18
)

// walletFlag selects a wallet for the dashboard, connect and transfer commands.
var walletFlag string

// app is one running store with its sagas and the collaborators behind them.
type app struct {
	store  *store.Store
	runner *saga.Runner
	info   ui.DashboardInfo
}

// startApp picks an RPC endpoint, binds the token, and starts the sagas over
// a fresh store. A missing token address is not an error here: the sagas
// report it when the user tries to connect.
func startApp(ctx context.Context, l *log.Logger) (*app, error) {
	walletName := walletFlag
	if walletName == "" {
		walletName = cfg.DefaultWallet
	}
	info := ui.DashboardInfo{
		Symbol:       defaultSymbol,
		Decimals:     defaultDecimals,
		TokenAddress: cfg.TokenAddress,
		Wallet:       walletName,
	}

	deps := saga.Deps{
		Provider:     wallet.NewProvider(newWalletManager(), wallet.WithWalletName(walletName)),
		TokenAddress: cfg.TokenAddress,
		Logger:       l,
	}

	if cfg.TokenAddress != "" {
		url, err := rpc.Select(ctx, cfg.RPCs(), cfg.RPCAlgorithm, l)
		if err != nil {
			return nil, err
		}
		info.RPC = url

		opts, err := tokenOptions(l)
		if err != nil {
			return nil, err
		}
		client := chain.NewEVMClient(url, chain.WithTimeout(config.RPCRequestTimeout))
		token, err := contract.NewToken(client, cfg.TokenAddress, opts...)
		if err != nil {
			return nil, err
		}
		describeToken(ctx, l, token, &info)
		deps.Token = token
	}

	st := store.New(store.WithLogger(l), store.WithTrace(trace))
	return &app{
		store:  st,
		runner: saga.Run(ctx, st, deps),
		info:   info,
	}, nil
}

// tokenOptions uses the ABI in the config dir when one is present.
func tokenOptions(l *log.Logger) ([]contract.TokenOption, error) {
	opts := []contract.TokenOption{contract.WithGasFallback(config.GasLimitERC20Transfer)}
	abi, err := contract.LoadABI(cfg.ABIPath())
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return opts, nil
	case err != nil:
		return nil, fmt.Errorf("loading token ABI: %w", err)
	}
	l.Debug("using token ABI", "path", cfg.ABIPath(), "entries", len(abi))
	return append(opts, contract.WithABI(abi)), nil
}

// describeToken fills in the name, symbol and decimals. Lookup failures keep the
// defaults so an unusual token still gets a usable dashboard.
func describeToken(ctx context.Context, l *log.Logger, t *contract.Token, info *ui.DashboardInfo) {
	ctx, cancel := context.WithTimeout(ctx, config.RPCRequestTimeout)
	defer cancel()

	if name, err := t.Name(ctx); err != nil {
		l.Warn("token name lookup failed", "token", t.Address(), "err", err)
	} else {
		info.Name = name
	}
	if sym, err := t.Symbol(ctx); err != nil {
		l.Warn("token symbol lookup failed", "token", t.Address(), "err", err)
	} else if sym != "" {
		info.Symbol = sym
	}
	if dec, err := t.Decimals(ctx); err != nil {
		l.Warn("token decimals lookup failed", "token", t.Address(), "err", err)
	} else {
		info.Decimals = int(dec)
	}
	info.TokenAddress = t.Address()
}

// stop stops the sagas and waits for running flows to finish.
func (a *app) stop() {
	a.runner.Stop()
	a.runner.Wait()
}

// dispatchAndAwait dispatches req and returns the first later action whose
// type is one of done.
func (a *app) dispatchAndAwait(ctx context.Context, req action.Action, done ...action.Type) (action.Action, error) {
	ch := make(chan action.Action, 1)
	unsubscribe := a.store.Subscribe(func(got action.Action, _ *state.RootState) {
		if !slices.Contains(done, got.Type) {
			return
		}
		select {
		case ch <- got:
		default:
		}
	})
	defer unsubscribe()

	a.store.Dispatch(req)

	select {
	case got := <-ch:
		return got, nil
	case <-ctx.Done():
		return action.Action{}, fmt.Errorf("waiting for %s: %w", req.Type, ctx.Err())
	}
}

// connect runs the connect flow and returns the approved address.
func (a *app) connect(ctx context.Context) (string, error) {
	got, err := a.dispatchAndAwait(ctx, action.NewConnectWalletRequest(),
		action.ConnectWalletSuccess, action.ConnectWalletFailure)
	if err != nil {
		return "", err
	}
	if p, ok := got.Payload.(action.ErrorPayload); ok {
		return "", errors.New(p.Error)
	}
	return got.Payload.(action.ConnectWalletSuccessPayload).Address, nil
}

// commandTimeout bounds a headless command, keychain prompts included.
const commandTimeout = 2 * time.Minute

// keystore replaces the OS keychain when set.
var keystore wallet.KeystoreBackend

// newWalletManager creates a Manager backed by the config-dir JSON store.
func newWalletManager() *wallet.Manager {
	opts := []wallet.Option{wallet.WithStore(wallet.NewJSONStore(cfg.WalletsPath()))}
	if keystore != nil {
		opts = append(opts, wallet.WithKeystore(keystore))
	}
	return wallet.NewManager(opts...)
}
