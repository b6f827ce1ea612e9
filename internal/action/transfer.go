package action

// Transfer submission.
const (
	TransferRequest Type = "[Request] Transfer"
	TransferSuccess Type = "[Success] Transfer"
	TransferFailure Type = "[Failure] Transfer"
)

// Transfer modal.
const (
	OpenTransferModal  Type = "[Open] Transfer Modal"
	CloseTransferModal Type = "[Close] Transfer Modal"
)

// TransferRequestPayload is handed to the transfer saga; the reducer ignores it.
// Amount is kept as the decimal text the user typed.
type TransferRequestPayload struct {
	Amount      string `json:"amount"`
	Destination string `json:"destination"`
}

func NewTransferRequest(amount, destination string) Action {
	return Action{
		Type:    TransferRequest,
		Payload: TransferRequestPayload{Amount: amount, Destination: destination},
	}
}

func NewTransferSuccess() Action {
	return Action{Type: TransferSuccess, Payload: Empty{}}
}

func NewTransferFailure(err string) Action {
	return Action{Type: TransferFailure, Payload: ErrorPayload{Error: err}}
}

func NewOpenTransferModal() Action {
	return Action{Type: OpenTransferModal, Payload: Empty{}}
}

func NewCloseTransferModal() Action {
	return Action{Type: CloseTransferModal, Payload: Empty{}}
}
