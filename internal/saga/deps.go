package saga

import (
	"context"
	"math/big"

	"github.com/charmbracelet/log"

	"github.com/Mohsinsiddi/w3dash/internal/contract"
)

// Provider grants access to the user's account. RequestAccounts may block
// while the user approves access (keychain unlock).
type Provider interface {
	RequestAccounts(ctx context.Context) ([]string, error)
	Signer(ctx context.Context) (contract.Signer, error)
}

// Token is the ERC-20 contract the dashboard manages.
type Token interface {
	Symbol(ctx context.Context) (string, error)
	BalanceOf(ctx context.Context, owner string) (*big.Int, error)
	Transfer(ctx context.Context, signer contract.Signer, to, amount string) (string, error)
}

// Deps are the collaborators handed to every saga.
type Deps struct {
	Provider     Provider
	Token        Token
	TokenAddress string
	Logger       *log.Logger
}

func (d Deps) logger() *log.Logger {
	if d.Logger == nil {
		return log.Default()
	}
	return d.Logger
}
