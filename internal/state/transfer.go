package state

import "github.com/Mohsinsiddi/w3dash/internal/action"

// TransferState tracks the transfer modal and the last submission.
type TransferState struct {
	IsTransfered      bool   `json:"isTransfered"`
	IsTransfering     bool   `json:"isTransfering"`
	IsTransferSuccess bool   `json:"isTransferSuccess"`
	IsOpen            bool   `json:"isOpen"`
	Error             string `json:"error"`
}

// InitialTransfer returns a closed, idle transfer state.
func InitialTransfer() *TransferState { return &TransferState{} }

// ReduceTransfer folds a into s. A nil s is treated as the initial state.
// The request payload is not stored; it is only read by the transfer saga.
func ReduceTransfer(s *TransferState, a action.Action) *TransferState {
	if s == nil {
		s = InitialTransfer()
	}

	switch a.Type {
	case action.OpenTransferModal:
		next := *s
		next.IsOpen = true
		next.Error = ""
		return &next

	case action.CloseTransferModal:
		next := *s
		next.IsOpen = false
		next.Error = ""
		return &next

	case action.TransferRequest:
		next := *s
		next.IsTransfering = true
		next.Error = ""
		return &next

	case action.TransferSuccess:
		next := *s
		next.IsTransfered = true
		next.IsTransfering = false
		next.IsTransferSuccess = true
		next.IsOpen = false
		next.Error = ""
		return &next

	case action.TransferFailure:
		p, _ := a.Payload.(action.ErrorPayload)
		// IsOpen is left alone so the modal keeps showing the error.
		next := *s
		next.IsTransfered = false
		next.IsTransfering = false
		next.IsTransferSuccess = false
		next.Error = p.Error
		return &next
	}

	return s
}
