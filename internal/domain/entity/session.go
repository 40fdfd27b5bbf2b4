package entity

import (
	"context"
	"math/big"
)

// ContractHandle is a typed proxy bound to the deployed minting contract.
type ContractHandle interface {
	// Address returns the hex address the handle is bound to.
	Address() string
	// TotalSupply performs the read-only totalSupply() call.
	TotalSupply(ctx context.Context) (*big.Int, error)
}

// ClientHandle is the contract-call client that uses the wallet provider as transport.
type ClientHandle interface {
	Close()
}

// WalletSession is the result of a successful connection.
type WalletSession struct {
	Account  string         `json:"account"`
	Contract ContractHandle `json:"-"`
	Client   ClientHandle   `json:"-"`
}
