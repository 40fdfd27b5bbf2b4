package store

import (
	"math/big"

	"minting_dapp/internal/domain/entity"
)

// State is the whole application state.
type State struct {
	Connection entity.ConnectionState `json:"connection"`
	Sync       entity.SyncState       `json:"sync"`
}

// InitialState is the state before any action.
func InitialState() State {
	return State{
		Connection: entity.ConnectionState{Status: entity.ConnectionIdle},
		Sync:       entity.SyncState{Status: entity.SyncIdle},
	}
}

// Reduce applies action to state and returns the next state. It never mutates its input.
func Reduce(state State, action Action) State {
	if action.Kind == ActionReset {
		return InitialState()
	}
	next := State{
		Connection: reduceConnection(state.Connection, action),
		Sync:       state.Sync,
	}
	if dropsSync(state.Connection, next.Connection, action) {
		next.Sync = entity.SyncState{Status: entity.SyncIdle}
	}
	// Sync may only leave idle once a contract handle exists.
	if next.Connection.Status == entity.ConnectionConnected && next.Connection.Session != nil {
		next.Sync = reduceSync(state.Sync, action)
	}
	return next
}

// dropsSync reports whether the loaded data no longer belongs to the current contract:
// the connection failed, or a new session targets a different contract.
func dropsSync(prev, next entity.ConnectionState, action Action) bool {
	switch action.Kind {
	case ActionConnectionFailed:
		return true
	case ActionConnectionSuccess:
		return contractAddress(prev) != contractAddress(next)
	default:
		return false
	}
}

func contractAddress(c entity.ConnectionState) string {
	if c.Session == nil || c.Session.Contract == nil {
		return ""
	}
	return c.Session.Contract.Address()
}

func reduceConnection(state entity.ConnectionState, action Action) entity.ConnectionState {
	switch action.Kind {
	case ActionConnectionRequest:
		return entity.ConnectionState{
			Status:  entity.ConnectionConnecting,
			Session: state.Session,
		}
	case ActionConnectionSuccess:
		session, ok := action.Payload.(entity.WalletSession)
		if !ok {
			return state
		}
		return entity.ConnectionState{
			Status:  entity.ConnectionConnected,
			Session: &session,
		}
	case ActionConnectionFailed:
		msg, _ := action.Payload.(string)
		return entity.ConnectionState{
			Status:       entity.ConnectionFailed,
			ErrorMessage: msg,
		}
	case ActionUpdateAccount:
		account, ok := action.Payload.(string)
		if !ok || state.Session == nil {
			return state
		}
		session := *state.Session
		session.Account = account
		state.Session = &session
		return state
	default:
		return state
	}
}

func reduceSync(state entity.SyncState, action Action) entity.SyncState {
	switch action.Kind {
	case ActionCheckDataRequest:
		return entity.SyncState{
			Status:      entity.SyncLoading,
			TotalSupply: state.TotalSupply,
		}
	case ActionCheckDataSuccess:
		supply, ok := action.Payload.(*big.Int)
		if !ok || supply == nil {
			return state
		}
		return entity.SyncState{
			Status:      entity.SyncLoaded,
			TotalSupply: new(big.Int).Set(supply),
		}
	case ActionCheckDataFailed:
		msg, _ := action.Payload.(string)
		return entity.SyncState{
			Status:       entity.SyncFailed,
			TotalSupply:  state.TotalSupply,
			ErrorMessage: msg,
		}
	default:
		return state
	}
}
