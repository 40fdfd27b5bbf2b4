package entity

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the source of a flow failure.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindConfigUnavailable
	KindWalletMissing
	KindAuthorizationRejected
	KindNetworkMismatch
	KindRPC
	KindContractCall
	KindNotConnected
)

// User-facing messages published into state.
const (
	MsgWalletMissing     = "Install Metamask."
	MsgConnectionFailed  = "Something went wrong."
	MsgSyncFailed        = "Could not load data from contract."
	MsgNotConnected      = "Wallet is not connected."
	msgNetworkMismatchFm = "Change network to %s."
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfigUnavailable:
		return "config-unavailable"
	case KindWalletMissing:
		return "wallet-missing"
	case KindAuthorizationRejected:
		return "authorization-rejected"
	case KindNetworkMismatch:
		return "network-mismatch"
	case KindRPC:
		return "rpc-error"
	case KindContractCall:
		return "contract-call-failed"
	case KindNotConnected:
		return "not-connected"
	default:
		return "unknown"
	}
}

// FlowError is the tagged error returned by the connection and data sync flows.
// Message is what ends up in state; Err carries the diagnostic cause.
type FlowError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *FlowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *FlowError) Unwrap() error {
	return e.Err
}

// NewFlowError builds a FlowError of the given kind.
func NewFlowError(kind ErrorKind, message string, cause error) *FlowError {
	return &FlowError{Kind: kind, Message: message, Err: cause}
}

// NetworkMismatchError builds the error for a wallet connected to the wrong chain.
func NetworkMismatchError(requiredName, gotNetworkID string) *FlowError {
	return &FlowError{
		Kind:    KindNetworkMismatch,
		Message: fmt.Sprintf(msgNetworkMismatchFm, requiredName),
		Err:     fmt.Errorf("provider reports network %q", gotNetworkID),
	}
}

// ErrNotConnected is returned when a read is attempted without a contract handle.
var ErrNotConnected = &FlowError{Kind: KindNotConnected, Message: MsgNotConnected}

// IsKind reports whether err is a FlowError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var fe *FlowError
	if errors.As(err, &fe) {
		return fe.Kind == kind
	}
	return false
}

// UserMessage extracts the state-facing message, defaulting to the generic connection failure.
func UserMessage(err error) string {
	var fe *FlowError
	if errors.As(err, &fe) && fe.Message != "" {
		return fe.Message
	}
	return MsgConnectionFailed
}
