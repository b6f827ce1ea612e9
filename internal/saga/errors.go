package saga

import (
	"errors"
	"fmt"
)

// Kind classifies a saga failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindConfig
	KindProvider
	KindContract
	KindState
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindProvider:
		return "provider"
	case KindContract:
		return "contract"
	case KindState:
		return "state"
	}
	return "unknown"
}

// Fixed failure messages shown to the user.
const (
	MsgUnknown             = "Unknown error"
	MsgMissingTokenAddress = "Error getting the token address. Please check the config file."
	MsgUnknownBalance      = "Error getting the current balance"
	MsgInsufficientBalance = "Insufficient balance"
)

// Failure is the error form that crosses the saga boundary. Message is what
// ends up in state and is never empty.
type Failure struct {
	Kind    Kind
	Message string
	Err     error
}

func (f *Failure) Error() string { return f.Message }

func (f *Failure) Unwrap() error { return f.Err }

// fail wraps err as a Failure of the given kind. An existing Failure in the
// chain is returned as is.
func fail(kind Kind, err error) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return &Failure{Kind: kind, Message: messageOf(err), Err: err}
}

func failMsg(kind Kind, msg string) *Failure {
	return &Failure{Kind: kind, Message: msg}
}

// messageOf returns the error text, or MsgUnknown when there is none.
func messageOf(err error) string {
	if err == nil || err.Error() == "" {
		return MsgUnknown
	}
	return err.Error()
}

// recovered converts a recovered panic value into a Failure.
func recovered(v any) *Failure {
	if err, ok := v.(error); ok {
		return fail(KindUnknown, err)
	}
	return &Failure{Kind: KindUnknown, Message: MsgUnknown, Err: fmt.Errorf("panic: %v", v)}
}
