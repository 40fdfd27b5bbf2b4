package store

import (
	"math/big"

	"minting_dapp/internal/domain/entity"
)

func SelectConnection(s State) entity.ConnectionState { return s.Connection }

func SelectSync(s State) entity.SyncState { return s.Sync }

// SelectIsConnected reports whether a usable session exists.
func SelectIsConnected(s State) bool {
	return s.Connection.Status == entity.ConnectionConnected && s.Connection.Session != nil
}

// SelectAccount returns the connected account or "".
func SelectAccount(s State) string {
	if s.Connection.Session == nil {
		return ""
	}
	return s.Connection.Session.Account
}

// SelectContract returns the contract handle, nil when not connected.
func SelectContract(s State) entity.ContractHandle {
	if !SelectIsConnected(s) {
		return nil
	}
	return s.Connection.Session.Contract
}

// SelectTotalSupply returns a copy of the last loaded counter, nil when absent.
func SelectTotalSupply(s State) *big.Int {
	if s.Sync.TotalSupply == nil {
		return nil
	}
	return new(big.Int).Set(s.Sync.TotalSupply)
}
