// Package action defines the intents dispatched to the store.
//
// An Action is a plain record with the wire shape {"type": ..., "payload": {...}}.
// Zero-argument actions carry Empty{}, which encodes as {}.
package action

import (
	"encoding/json"
	"fmt"
)

// Type identifies an action.
type Type string

// Action is a single dispatched intent.
type Action struct {
	Type    Type `json:"type"`
	Payload any  `json:"payload"`
}

// Empty is the payload of actions without arguments.
type Empty struct{}

// ErrorPayload carries a failure message.
type ErrorPayload struct {
	Error string `json:"error"`
}

// String implements fmt.Stringer.
func (a Action) String() string { return string(a.Type) }

// MarshalJSON always emits a payload object, even for a nil payload.
func (a Action) MarshalJSON() ([]byte, error) {
	payload := a.Payload
	if payload == nil {
		payload = Empty{}
	}
	return json.Marshal(struct {
		Type    Type `json:"type"`
		Payload any  `json:"payload"`
	}{a.Type, payload})
}

// UnmarshalJSON decodes the payload into its typed struct for known action
// types. Unknown types keep the payload as json.RawMessage.
func (a *Action) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type    Type            `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	newPayload, known := payloads[raw.Type]
	if !known {
		a.Type, a.Payload = raw.Type, raw.Payload
		return nil
	}

	ptr := newPayload()
	if len(raw.Payload) > 0 && string(raw.Payload) != "null" {
		if err := json.Unmarshal(raw.Payload, ptr); err != nil {
			return fmt.Errorf("decoding %s payload: %w", raw.Type, err)
		}
	}

	a.Type = raw.Type
	a.Payload = deref(ptr)
	return nil
}

// payloads maps each known type to a constructor for its payload.
var payloads = map[Type]func() any{
	ConnectWalletRequest: func() any { return &Empty{} },
	ConnectWalletSuccess: func() any { return &ConnectWalletSuccessPayload{} },
	ConnectWalletFailure: func() any { return &ErrorPayload{} },
	UpdateBalance:        func() any { return &UpdateBalancePayload{} },
	TransferRequest:      func() any { return &TransferRequestPayload{} },
	TransferSuccess:      func() any { return &Empty{} },
	TransferFailure:      func() any { return &ErrorPayload{} },
	OpenTransferModal:    func() any { return &Empty{} },
	CloseTransferModal:   func() any { return &Empty{} },
}

func deref(p any) any {
	switch v := p.(type) {
	case *Empty:
		return *v
	case *ConnectWalletSuccessPayload:
		return *v
	case *ErrorPayload:
		return *v
	case *UpdateBalancePayload:
		return *v
	case *TransferRequestPayload:
		return *v
	}
	return p
}

// Known reports whether t is part of the vocabulary.
func Known(t Type) bool {
	_, ok := payloads[t]
	return ok
}
