// Package contract binds the ERC-20 token the dashboard manages.
package contract

import (
	"context"
	"fmt"
	"math/big"
	"strconv"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/Mohsinsiddi/w3dash/internal/config"
)

// Signer signs transactions for one account.
type Signer interface {
	Address() string
	SignTx(tx *types.Transaction, chainID *big.Int) ([]byte, error)
}

// Client is the JSON-RPC surface the token needs. *chain.EVMClient implements it.
type Client interface {
	CallContract(ctx context.Context, to, calldata string) (string, error)
	EstimateGas(ctx context.Context, from, to, data string, value *big.Int) (uint64, error)
	GasPrice(ctx context.Context) (*big.Int, error)
	GetNonce(ctx context.Context, address string) (uint64, error)
	ChainID(ctx context.Context) (*big.Int, error)
	SendRawTransaction(ctx context.Context, rawTx string) (string, error)
}

// Token is an ERC-20 contract at a fixed address.
type Token struct {
	client      Client
	address     string
	abi         []ABIEntry
	gasFallback uint64

	mu       sync.Mutex
	chainID  *big.Int
	decimals *uint8
}

// TokenOption configures a Token.
type TokenOption func(*Token)

// WithGasFallback sets the gas limit used when estimation fails.
func WithGasFallback(gas uint64) TokenOption {
	return func(t *Token) { t.gasFallback = gas }
}

// WithABI replaces the built-in ERC-20 ABI, e.g. with one from LoadABI.
func WithABI(entries []ABIEntry) TokenOption {
	return func(t *Token) { t.abi = entries }
}

// NewToken binds the token at address.
func NewToken(client Client, address string, opts ...TokenOption) (*Token, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("invalid token address %q", address)
	}
	t := &Token{
		client:      client,
		address:     common.HexToAddress(address).Hex(),
		abi:         erc20ABI,
		gasFallback: config.GasLimitERC20Transfer,
	}
	for _, o := range opts {
		o(t)
	}
	return t, nil
}

// Address returns the checksummed contract address.
func (t *Token) Address() string { return t.address }

// Name returns the token name.
func (t *Token) Name(ctx context.Context) (string, error) {
	out, err := t.call(ctx, "name")
	if err != nil {
		return "", err
	}
	return out[0], nil
}

// Symbol returns the token symbol.
func (t *Token) Symbol(ctx context.Context) (string, error) {
	out, err := t.call(ctx, "symbol")
	if err != nil {
		return "", err
	}
	return out[0], nil
}

// Decimals returns the token decimals. The value is cached after the first call.
func (t *Token) Decimals(ctx context.Context) (uint8, error) {
	t.mu.Lock()
	cached := t.decimals
	t.mu.Unlock()
	if cached != nil {
		return *cached, nil
	}

	out, err := t.call(ctx, "decimals")
	if err != nil {
		return 0, err
	}
	d, err := strconv.ParseUint(out[0], 10, 8)
	if err != nil {
		return 0, fmt.Errorf("decimals out of range: %s", out[0])
	}

	v := uint8(d)
	t.mu.Lock()
	t.decimals = &v
	t.mu.Unlock()
	return v, nil
}

// BalanceOf returns owner's balance in base units.
func (t *Token) BalanceOf(ctx context.Context, owner string) (*big.Int, error) {
	out, err := t.call(ctx, "balanceOf", owner)
	if err != nil {
		return nil, err
	}
	n, ok := new(big.Int).SetString(out[0], 10)
	if !ok {
		return nil, fmt.Errorf("could not parse balance: %s", out[0])
	}
	return n, nil
}

// call runs a read function and returns its decoded outputs.
func (t *Token) call(ctx context.Context, funcName string, args ...string) ([]string, error) {
	fn, err := findFunction(t.abi, funcName)
	if err != nil {
		return nil, err
	}
	if !fn.IsReadFunction() {
		return nil, fmt.Errorf("function %q is not a read function (stateMutability: %s)", funcName, fn.StateMutability)
	}

	calldata, err := encodeCall(fn, args)
	if err != nil {
		return nil, fmt.Errorf("encoding call: %w", err)
	}

	result, err := t.client.CallContract(ctx, t.address, calldata)
	if err != nil {
		return nil, fmt.Errorf("%s call failed: %w", funcName, err)
	}

	decoded, err := decodeResult(fn, result)
	if err != nil {
		return nil, fmt.Errorf("decoding result: %w", err)
	}
	return decoded, nil
}

func (t *Token) resolveChainID(ctx context.Context) (*big.Int, error) {
	t.mu.Lock()
	id := t.chainID
	t.mu.Unlock()
	if id != nil {
		return id, nil
	}

	id, err := t.client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting chain id: %w", err)
	}
	t.mu.Lock()
	t.chainID = id
	t.mu.Unlock()
	return id, nil
}
