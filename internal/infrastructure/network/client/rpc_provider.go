package client

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"minting_dapp/internal/app/port"
)

// methodNotFound is the JSON-RPC code returned by nodes that do not implement a method.
const methodNotFound = -32601

// RPCProvider implements port.WalletProvider on top of a JSON-RPC endpoint.
// Account and network changes are discovered by polling, see Poll.
type RPCProvider struct {
	rpcClient *rpc.Client
	ethClient *ethclient.Client
	limiter   *rate.Limiter
	logger    *zap.Logger

	identity string
	isWallet bool

	accountsFeed event.Feed
	chainFeed    event.Feed

	mu           sync.Mutex
	lastAccounts []string
	lastNetwork  string
	observed     bool
}

func newRPCProvider(rpcClient *rpc.Client, limiter *rate.Limiter, logger *zap.Logger) *RPCProvider {
	return &RPCProvider{
		rpcClient: rpcClient,
		ethClient: ethclient.NewClient(rpcClient),
		limiter:   limiter,
		logger:    logger,
	}
}

// probe identifies the endpoint and checks that it exposes account methods.
func (p *RPCProvider) probe(ctx context.Context) error {
	var identity string
	if err := p.Request(ctx, &identity, port.MethodClientVersion); err != nil {
		return fmt.Errorf("identify provider: %w", err)
	}
	p.identity = identity

	var accounts []string
	if err := p.Request(ctx, &accounts, port.MethodAccounts); err != nil {
		p.logger.Warn("Provider does not expose accounts", zap.String("identity", identity), zap.Error(err))
		return nil
	}
	p.isWallet = true
	return nil
}

func (p *RPCProvider) IsWallet() bool   { return p.isWallet }
func (p *RPCProvider) Identity() string { return p.identity }

// Request performs a rate-limited RPC call. Nodes without eth_requestAccounts
// fall back to eth_accounts, which needs no user approval there.
func (p *RPCProvider) Request(ctx context.Context, result any, method string, params ...any) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait for %s: %w", method, err)
	}
	err := p.rpcClient.CallContext(ctx, result, method, params...)
	if err != nil && method == port.MethodRequestAccounts && isMethodNotFound(err) {
		p.logger.Debug("eth_requestAccounts unsupported, using eth_accounts", zap.String("identity", p.identity))
		return p.Request(ctx, result, port.MethodAccounts)
	}
	return err
}

func (p *RPCProvider) SubscribeAccountsChanged(ch chan<- []string) event.Subscription {
	return p.accountsFeed.Subscribe(ch)
}

func (p *RPCProvider) SubscribeChainChanged(ch chan<- string) event.Subscription {
	return p.chainFeed.Subscribe(ch)
}

// Poll reads the current accounts and network and emits change events for
// anything that differs from the previous poll. The first poll only records a baseline.
func (p *RPCProvider) Poll(ctx context.Context) error {
	var accounts []string
	if err := p.Request(ctx, &accounts, port.MethodAccounts); err != nil {
		return fmt.Errorf("poll accounts: %w", err)
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait for %s: %w", port.MethodNetVersion, err)
	}
	networkID, err := p.ethClient.NetworkID(ctx)
	if err != nil {
		return fmt.Errorf("poll network: %w", err)
	}
	network := networkID.String()

	p.mu.Lock()
	first := !p.observed
	accountsChanged := !first && !slices.Equal(accounts, p.lastAccounts)
	networkChanged := !first && network != p.lastNetwork
	p.lastAccounts = accounts
	p.lastNetwork = network
	p.observed = true
	p.mu.Unlock()

	if accountsChanged {
		p.logger.Info("Accounts changed", zap.Strings("accounts", accounts))
		p.accountsFeed.Send(slices.Clone(accounts))
	}
	if networkChanged {
		p.logger.Info("Network changed", zap.String("network", network))
		p.chainFeed.Send(network)
	}
	return nil
}

// Close releases the underlying RPC connection.
func (p *RPCProvider) Close() {
	p.ethClient.Close()
}

func isMethodNotFound(err error) bool {
	var rpcErr rpc.Error
	return errors.As(err, &rpcErr) && rpcErr.ErrorCode() == methodNotFound
}
