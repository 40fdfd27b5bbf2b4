package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"minting_dapp/internal/app/port"
	"minting_dapp/internal/app/store"
	"minting_dapp/internal/domain/entity"
)

// ConnectionService runs the connection flow and owns the wallet change listeners.
type ConnectionService struct {
	store          *store.Store
	configSource   port.NetworkConfigSource
	detector       port.WalletDetector
	binder         port.ContractBinder
	data           *DataService
	reloader       port.Reloader
	metrics        port.FlowMetrics
	logger         port.Logger
	requestTimeout time.Duration

	mu   sync.Mutex
	subs *Subscriptions
}

// ConnectionServiceDeps groups the collaborators of ConnectionService.
type ConnectionServiceDeps struct {
	Store          *store.Store
	ConfigSource   port.NetworkConfigSource
	Detector       port.WalletDetector
	Binder         port.ContractBinder
	Data           *DataService
	Reloader       port.Reloader // nil means Reset
	Metrics        port.FlowMetrics
	Logger         port.Logger
	RequestTimeout time.Duration
}

// NewConnectionService creates a new ConnectionService.
func NewConnectionService(deps ConnectionServiceDeps) *ConnectionService {
	s := &ConnectionService{
		store:          deps.Store,
		configSource:   deps.ConfigSource,
		detector:       deps.Detector,
		binder:         deps.Binder,
		data:           deps.Data,
		reloader:       deps.Reloader,
		metrics:        deps.Metrics,
		logger:         deps.Logger,
		requestTimeout: deps.RequestTimeout,
	}
	if s.metrics == nil {
		s.metrics = port.NopMetrics{}
	}
	if s.reloader == nil {
		s.reloader = port.ReloaderFunc(s.Reset)
	}
	return s
}

// Connect runs the connection flow. All outcomes are published into the store; the
// returned error carries the tagged cause. On success the caller owns the returned
// Subscriptions; a later Connect or Reset closes them as well.
func (s *ConnectionService) Connect(ctx context.Context) (*Subscriptions, error) {
	s.store.Dispatch(store.ConnectRequest())

	// A new attempt replaces the previous session wholesale.
	s.releaseListeners()
	s.data.Cancel()
	previous := s.store.State().Connection.Session

	start := time.Now()
	session, provider, err := s.connect(ctx)
	if err != nil {
		kind := kindOf(err)
		s.logger.Warn("Wallet connection failed", "kind", kind.String(), "error", err)
		s.store.Dispatch(store.ConnectFailed(entity.UserMessage(err)))
		s.metrics.ObserveConnect(kind.String(), time.Since(start))
		closeSessionClient(previous, nil)
		return nil, err
	}

	s.store.Dispatch(store.ConnectSuccess(session))
	closeSessionClient(previous, session.Client)
	s.logger.Info("Wallet connected", "account", session.Account, "contract", session.Contract.Address(), "provider", provider.Identity())
	s.metrics.ObserveConnect("success", time.Since(start))

	return s.listen(provider), nil
}

func (s *ConnectionService) connect(ctx context.Context) (entity.WalletSession, port.WalletProvider, error) {
	cfgCtx, cancel := s.withTimeout(ctx)
	cfg, err := s.configSource.LoadNetworkConfig(cfgCtx)
	cancel()
	if err != nil {
		return entity.WalletSession{}, nil, entity.NewFlowError(entity.KindConfigUnavailable, entity.MsgConnectionFailed, err)
	}

	detectCtx, cancel := s.withTimeout(ctx)
	provider, ok := s.detector.Detect(detectCtx)
	cancel()
	if !ok || provider == nil || !provider.IsWallet() {
		return entity.WalletSession{}, nil, entity.NewFlowError(entity.KindWalletMissing, entity.MsgWalletMissing, nil)
	}

	client, err := s.binder.NewClient(provider)
	if err != nil {
		return entity.WalletSession{}, nil, entity.NewFlowError(entity.KindRPC, entity.MsgConnectionFailed, fmt.Errorf("bind client: %w", err))
	}

	session, err := s.authorize(ctx, cfg, provider, client)
	if err != nil {
		client.Close()
		return entity.WalletSession{}, nil, err
	}
	return session, provider, nil
}

func (s *ConnectionService) authorize(ctx context.Context, cfg entity.NetworkConfig, provider port.WalletProvider, client entity.ClientHandle) (entity.WalletSession, error) {
	var accounts []string
	reqCtx, cancel := s.withTimeout(ctx)
	err := provider.Request(reqCtx, &accounts, port.MethodRequestAccounts)
	cancel()
	if err != nil {
		return entity.WalletSession{}, entity.NewFlowError(entity.KindAuthorizationRejected, entity.MsgConnectionFailed, err)
	}
	if len(accounts) == 0 {
		return entity.WalletSession{}, entity.NewFlowError(entity.KindAuthorizationRejected, entity.MsgConnectionFailed, errors.New("provider authorized no accounts"))
	}

	var networkID string
	reqCtx, cancel = s.withTimeout(ctx)
	err = provider.Request(reqCtx, &networkID, port.MethodNetVersion)
	cancel()
	if err != nil {
		return entity.WalletSession{}, entity.NewFlowError(entity.KindRPC, entity.MsgConnectionFailed, err)
	}

	// Contract handles built against the wrong chain would misbehave later.
	if !cfg.MatchesNetwork(networkID) {
		return entity.WalletSession{}, entity.NetworkMismatchError(cfg.RequiredNetworkName, networkID)
	}

	contract, err := s.binder.NewContract(cfg.ContractABI, cfg.ContractAddress, client)
	if err != nil {
		return entity.WalletSession{}, entity.NewFlowError(entity.KindConfigUnavailable, entity.MsgConnectionFailed, fmt.Errorf("bind contract: %w", err))
	}

	return entity.WalletSession{
		Account:  accounts[0],
		Contract: contract,
		Client:   client,
	}, nil
}

// Reset is the hard reset performed on a network change: listeners are closed, the sync
// in flight is cancelled and the store returns to its initial state.
func (s *ConnectionService) Reset() {
	s.releaseListeners()
	s.data.Cancel()
	previous := s.store.State().Connection.Session
	s.store.Dispatch(store.Reset())
	closeSessionClient(previous, nil)
	s.logger.Info("Application state reset")
}

// Close releases the listeners and the client of the current session.
func (s *ConnectionService) Close() {
	s.releaseListeners()
	s.data.Cancel()
	closeSessionClient(s.store.State().Connection.Session, nil)
}

func (s *ConnectionService) listen(provider port.WalletProvider) *Subscriptions {
	subs := subscribe(provider, s.onAccountsChanged, s.onChainChanged)

	s.mu.Lock()
	previous := s.subs
	s.subs = subs
	s.mu.Unlock()

	if previous != nil {
		previous.Close()
	}
	return subs
}

func (s *ConnectionService) releaseListeners() {
	s.mu.Lock()
	subs := s.subs
	s.subs = nil
	s.mu.Unlock()

	if subs != nil {
		subs.Close()
	}
}

// UpdateAccount switches the session account and then starts exactly one data sync.
// The sync result is delivered on the returned channel; a later update cancels it.
func (s *ConnectionService) UpdateAccount(ctx context.Context, account string) <-chan error {
	s.store.Dispatch(store.UpdateAccount(account))
	return s.data.StartFetch(ctx)
}

func (s *ConnectionService) onAccountsChanged(accounts []string) {
	account := ""
	if len(accounts) > 0 {
		account = accounts[0]
	}
	s.logger.Info("User changed the account", "account", account)

	// The read runs off the listener loop so a later change can cancel it.
	done := s.UpdateAccount(context.Background(), account)
	go func() {
		if err := <-done; err != nil && !errors.Is(err, ErrSuperseded) {
			s.logger.Warn("Data sync after account change failed", "error", err)
		}
	}()
}

func (s *ConnectionService) onChainChanged(networkID string) {
	s.logger.Info("Wallet network changed, reloading", "network", networkID)
	s.reloader.Reload()
}

func (s *ConnectionService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.requestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.requestTimeout)
}

func kindOf(err error) entity.ErrorKind {
	var fe *entity.FlowError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return entity.KindUnknown
}

func closeSessionClient(session *entity.WalletSession, keep entity.ClientHandle) {
	if session == nil || session.Client == nil || session.Client == keep {
		return
	}
	session.Client.Close()
}
