package action

// Wallet connection.
const (
	ConnectWalletRequest Type = "[Request] Connect Wallet"
	ConnectWalletSuccess Type = "[Success] Connect Wallet"
	ConnectWalletFailure Type = "[Failure] Connect Wallet"

	UpdateBalance Type = "[Update] Balance"
)

// ConnectWalletSuccessPayload carries the approved account and its token balance.
type ConnectWalletSuccessPayload struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
}

// UpdateBalancePayload carries a new balance for the connected account.
type UpdateBalancePayload struct {
	Balance string `json:"balance"`
}

func NewConnectWalletRequest() Action {
	return Action{Type: ConnectWalletRequest, Payload: Empty{}}
}

func NewConnectWalletSuccess(address, balance string) Action {
	return Action{
		Type:    ConnectWalletSuccess,
		Payload: ConnectWalletSuccessPayload{Address: address, Balance: balance},
	}
}

func NewConnectWalletFailure(err string) Action {
	return Action{Type: ConnectWalletFailure, Payload: ErrorPayload{Error: err}}
}

func NewUpdateBalance(balance string) Action {
	return Action{Type: UpdateBalance, Payload: UpdateBalancePayload{Balance: balance}}
}
