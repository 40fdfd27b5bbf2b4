package store

import (
	"math/big"

	"minting_dapp/internal/domain/entity"
)

// ActionKind identifies a state transition.
type ActionKind string

const (
	ActionConnectionRequest ActionKind = "CONNECTION_REQUEST"
	ActionConnectionSuccess ActionKind = "CONNECTION_SUCCESS"
	ActionConnectionFailed  ActionKind = "CONNECTION_FAILED"
	ActionUpdateAccount     ActionKind = "UPDATE_ACCOUNT"
	ActionCheckDataRequest  ActionKind = "CHECK_DATA_REQUEST"
	ActionCheckDataSuccess  ActionKind = "CHECK_DATA_SUCCESS"
	ActionCheckDataFailed   ActionKind = "CHECK_DATA_FAILED"
	ActionReset             ActionKind = "RESET"
)

// Action is a kind plus its payload. Payload types are fixed per kind.
type Action struct {
	Kind    ActionKind
	Payload any
}

// ConnectRequest starts a connection attempt.
func ConnectRequest() Action {
	return Action{Kind: ActionConnectionRequest}
}

// ConnectSuccess publishes a new wallet session. The session replaces any previous one.
func ConnectSuccess(session entity.WalletSession) Action {
	return Action{Kind: ActionConnectionSuccess, Payload: session}
}

// ConnectFailed records a failed attempt with a user-facing message.
func ConnectFailed(message string) Action {
	return Action{Kind: ActionConnectionFailed, Payload: message}
}

// UpdateAccount switches the account of the current session.
func UpdateAccount(account string) Action {
	return Action{Kind: ActionUpdateAccount, Payload: account}
}

// FetchDataRequest starts a data sync.
func FetchDataRequest() Action {
	return Action{Kind: ActionCheckDataRequest}
}

// FetchDataSuccess publishes the counter read from the contract.
func FetchDataSuccess(totalSupply *big.Int) Action {
	return Action{Kind: ActionCheckDataSuccess, Payload: new(big.Int).Set(totalSupply)}
}

// FetchDataFailed records a failed sync with a user-facing message.
func FetchDataFailed(message string) Action {
	return Action{Kind: ActionCheckDataFailed, Payload: message}
}

// Reset returns the whole state to its initial value.
func Reset() Action {
	return Action{Kind: ActionReset}
}
