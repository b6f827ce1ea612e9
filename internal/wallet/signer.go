package wallet

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// Signer signs EVM transactions for an unlocked signing wallet.
type Signer struct {
	wallet *Wallet
	key    *ecdsa.PrivateKey
}

// NewSigner binds an unlocked private key to w. The key must belong to w's address.
func NewSigner(w *Wallet, hexKey string) (*Signer, error) {
	if !w.CanSign() {
		return nil, fmt.Errorf("%w: %s", ErrWatchOnly, w.Name)
	}

	key, err := crypto.HexToECDSA(normaliseHexKey(hexKey))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	derived := crypto.PubkeyToAddress(key.PublicKey)
	if !strings.EqualFold(derived.Hex(), w.Address) {
		return nil, fmt.Errorf("%w: key belongs to %s, not %s", ErrInvalidKey, derived.Hex(), w.Address)
	}

	return &Signer{wallet: w, key: key}, nil
}

// SignTx signs an EVM transaction and returns the raw signed bytes.
func (s *Signer) SignTx(tx *types.Transaction, chainID *big.Int) ([]byte, error) {
	signed, err := types.SignTx(tx, types.NewLondonSigner(chainID), s.key)
	if err != nil {
		return nil, fmt.Errorf("signing transaction: %w", err)
	}

	raw, err := signed.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("marshaling signed tx: %w", err)
	}

	return raw, nil
}

// Address returns the wallet's checksummed address.
func (s *Signer) Address() string {
	return common.HexToAddress(s.wallet.Address).Hex()
}

// Wallet returns the wallet this signer is bound to.
func (s *Signer) Wallet() *Wallet { return s.wallet }
