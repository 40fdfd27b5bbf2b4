package client

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"minting_dapp/internal/app/port"
	"minting_dapp/internal/infrastructure/configloader"
)

const defaultDialTimeout = 10 * time.Second

// DialFunc opens an RPC connection to an endpoint.
type DialFunc func(ctx context.Context, endpoint string) (*rpc.Client, error)

// RPCDetector implements port.WalletDetector for a configured JSON-RPC endpoint.
// It caches the provider to avoid reconnecting on every connection attempt.
type RPCDetector struct {
	endpoint     string
	dial         DialFunc
	dialTimeout  time.Duration
	pollInterval time.Duration
	limiter      *rate.Limiter
	logger       *zap.Logger

	mu       sync.Mutex
	provider *RPCProvider
}

// NewRPCDetector creates a detector from the wallet and rpcClient configuration sections.
func NewRPCDetector(cfg *configloader.Config, dial DialFunc, logger *zap.Logger) *RPCDetector {
	if dial == nil {
		dial = rpc.DialContext
	}
	return &RPCDetector{
		endpoint:     cfg.Wallet.Endpoint,
		dial:         dial,
		dialTimeout:  defaultDialTimeout,
		pollInterval: cfg.WalletPollInterval(),
		limiter:      rate.NewLimiter(rate.Limit(cfg.RpcClient.RateLimit), cfg.RpcClient.BurstLimit),
		logger:       logger.Named("wallet"),
	}
}

// Detect returns the cached provider or dials the endpoint and probes it.
// An unreachable endpoint reports no provider.
func (d *RPCDetector) Detect(ctx context.Context) (port.WalletProvider, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.provider != nil {
		return d.provider, true
	}
	if d.endpoint == "" {
		return nil, false
	}

	dialCtx, cancel := context.WithTimeout(ctx, d.dialTimeout)
	defer cancel()

	rpcClient, err := d.dial(dialCtx, d.endpoint)
	if err != nil {
		d.logger.Warn("Failed to dial wallet endpoint", zap.String("endpoint", d.endpoint), zap.Error(err))
		return nil, false
	}

	provider := newRPCProvider(rpcClient, d.limiter, d.logger)
	if err := provider.probe(dialCtx); err != nil {
		d.logger.Warn("Wallet endpoint did not respond", zap.String("endpoint", d.endpoint), zap.Error(err))
		provider.Close()
		return nil, false
	}

	d.logger.Info("Wallet provider detected",
		zap.String("endpoint", d.endpoint),
		zap.String("identity", provider.Identity()),
		zap.Bool("isWallet", provider.IsWallet()))
	d.provider = provider
	return provider, true
}

// Watch polls the detected provider for account and network changes until ctx is done.
func (d *RPCDetector) Watch(ctx context.Context) {
	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.mu.Lock()
			provider := d.provider
			d.mu.Unlock()
			if provider == nil {
				continue
			}
			if err := provider.Poll(ctx); err != nil && ctx.Err() == nil {
				d.logger.Debug("Wallet poll failed", zap.Error(err))
			}
		}
	}
}

// Close releases the cached provider.
func (d *RPCDetector) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.provider != nil {
		d.provider.Close()
		d.provider = nil
	}
}
