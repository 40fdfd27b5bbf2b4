package entity

import "math/big"

// ConnectionStatus is the lifecycle of the connection flow.
type ConnectionStatus string

const (
	ConnectionIdle       ConnectionStatus = "idle"
	ConnectionConnecting ConnectionStatus = "connecting"
	ConnectionConnected  ConnectionStatus = "connected"
	ConnectionFailed     ConnectionStatus = "failed"
)

// SyncStatus is the lifecycle of the data sync flow.
type SyncStatus string

const (
	SyncIdle    SyncStatus = "idle"
	SyncLoading SyncStatus = "loading"
	SyncLoaded  SyncStatus = "loaded"
	SyncFailed  SyncStatus = "failed"
)

// ConnectionState is mutated only through connection actions.
type ConnectionState struct {
	Status       ConnectionStatus `json:"status"`
	Session      *WalletSession   `json:"session,omitempty"`
	ErrorMessage string           `json:"errorMessage,omitempty"`
}

// SyncState is mutated only through data sync actions.
// TotalSupply is nil until a read call succeeds.
type SyncState struct {
	Status       SyncStatus `json:"status"`
	TotalSupply  *big.Int   `json:"totalSupply,omitempty"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
}
