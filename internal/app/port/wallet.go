package port

import (
	"context"

	"github.com/ethereum/go-ethereum/event"
)

// Wallet provider RPC methods used by the connection flow.
const (
	MethodRequestAccounts = "eth_requestAccounts"
	MethodAccounts        = "eth_accounts"
	MethodNetVersion      = "net_version"
	MethodClientVersion   = "web3_clientVersion"
)

// WalletProvider is the capability surface of a wallet: RPC requests plus change events.
type WalletProvider interface {
	// IsWallet reports whether the provider exposes wallet account methods.
	IsWallet() bool

	// Identity returns the client identification string reported by the provider.
	Identity() string

	// Request performs a single RPC request and decodes the result into result.
	Request(ctx context.Context, result any, method string, params ...any) error

	// SubscribeAccountsChanged delivers the new account list whenever it changes.
	SubscribeAccountsChanged(ch chan<- []string) event.Subscription

	// SubscribeChainChanged delivers the new network identifier whenever it changes.
	SubscribeChainChanged(ch chan<- string) event.Subscription
}

// WalletDetector discovers the wallet provider, if any.
type WalletDetector interface {
	Detect(ctx context.Context) (WalletProvider, bool)
}

// Reloader performs a hard reset of all in-memory state.
type Reloader interface {
	Reload()
}

// ReloaderFunc adapts a function to Reloader.
type ReloaderFunc func()

func (f ReloaderFunc) Reload() { f() }
