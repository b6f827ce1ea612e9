package contract

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// Transfer sends amount base units to `to`, signed by signer, and returns the
// transaction hash once the node accepts it. amount must be an integer;
// decimal fractions are rejected while encoding.
func (t *Token) Transfer(ctx context.Context, signer Signer, to, amount string) (string, error) {
	return t.send(ctx, signer, "transfer", to, amount)
}

// send calls a write function and broadcasts the transaction.
func (t *Token) send(ctx context.Context, signer Signer, funcName string, args ...string) (string, error) {
	fn, err := findFunction(t.abi, funcName)
	if err != nil {
		return "", err
	}
	if !fn.IsWriteFunction() {
		return "", fmt.Errorf("function %q is not a write function", funcName)
	}

	calldata, err := encodeCall(fn, args)
	if err != nil {
		return "", fmt.Errorf("encoding call: %w", err)
	}

	from := signer.Address()

	gas, err := t.client.EstimateGas(ctx, from, t.address, calldata, nil)
	if err != nil {
		gas = t.gasFallback
	}

	gasPrice, err := t.client.GasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("getting gas price: %w", err)
	}

	nonce, err := t.client.GetNonce(ctx, from)
	if err != nil {
		return "", fmt.Errorf("getting nonce: %w", err)
	}

	chainID, err := t.resolveChainID(ctx)
	if err != nil {
		return "", err
	}

	toAddr := common.HexToAddress(t.address)
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: gasPrice,
		GasFeeCap: new(big.Int).Mul(gasPrice, big.NewInt(2)),
		Gas:       gas,
		To:        &toAddr,
		Value:     big.NewInt(0),
		Data:      common.FromHex(calldata),
	})

	raw, err := signer.SignTx(tx, chainID)
	if err != nil {
		return "", fmt.Errorf("signing transaction: %w", err)
	}

	hash, err := t.client.SendRawTransaction(ctx, hexutil.Encode(raw))
	if err != nil {
		return "", fmt.Errorf("broadcasting transaction: %w", err)
	}

	return hash, nil
}
