package service

import (
	"context"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/event"

	"minting_dapp/internal/app/port"
	"minting_dapp/internal/app/store"
	"minting_dapp/internal/domain/entity"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

type fakeConfigSource struct {
	cfg   entity.NetworkConfig
	err   error
	calls int
}

func (f *fakeConfigSource) LoadNetworkConfig(context.Context) (entity.NetworkConfig, error) {
	f.calls++
	return f.cfg, f.err
}

type fakeProvider struct {
	mu            sync.Mutex
	accounts      []string
	accountsErr   error
	networkID     string
	networkErr    error
	calls         []string
	subscriptions int

	accountsFeed event.Feed
	chainFeed    event.Feed
}

func (p *fakeProvider) IsWallet() bool   { return true }
func (p *fakeProvider) Identity() string { return "FakeWallet/v1" }

func (p *fakeProvider) Request(_ context.Context, result any, method string, _ ...any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, method)
	switch method {
	case port.MethodRequestAccounts:
		if p.accountsErr != nil {
			return p.accountsErr
		}
		*result.(*[]string) = append([]string(nil), p.accounts...)
	case port.MethodNetVersion:
		if p.networkErr != nil {
			return p.networkErr
		}
		*result.(*string) = p.networkID
	}
	return nil
}

func (p *fakeProvider) SubscribeAccountsChanged(ch chan<- []string) event.Subscription {
	p.mu.Lock()
	p.subscriptions++
	p.mu.Unlock()
	return p.accountsFeed.Subscribe(ch)
}

func (p *fakeProvider) SubscribeChainChanged(ch chan<- string) event.Subscription {
	p.mu.Lock()
	p.subscriptions++
	p.mu.Unlock()
	return p.chainFeed.Subscribe(ch)
}

func (p *fakeProvider) requestCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func (p *fakeProvider) subscriptionCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.subscriptions
}

type fakeDetector struct {
	provider *fakeProvider
	calls    int
}

func (d *fakeDetector) Detect(context.Context) (port.WalletProvider, bool) {
	d.calls++
	if d.provider == nil {
		return nil, false
	}
	return d.provider, true
}

type fakeClient struct {
	mu     sync.Mutex
	closed bool
}

func (c *fakeClient) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *fakeClient) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

type fakeContract struct {
	mu    sync.Mutex
	calls int
	fn    func(ctx context.Context, call int) (*big.Int, error)
}

func (c *fakeContract) Address() string { return "0x5FbDB2315678afecb367f032d93F642f64180aa3" }

func (c *fakeContract) TotalSupply(ctx context.Context) (*big.Int, error) {
	c.mu.Lock()
	c.calls++
	call := c.calls
	c.mu.Unlock()
	return c.fn(ctx, call)
}

func (c *fakeContract) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func supplyOf(n int64) func(context.Context, int) (*big.Int, error) {
	return func(context.Context, int) (*big.Int, error) { return big.NewInt(n), nil }
}

type fakeBinder struct {
	mu        sync.Mutex
	contract  *fakeContract
	clients   []*fakeClient
	contracts int
}

func (b *fakeBinder) NewClient(port.WalletProvider) (entity.ClientHandle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c := &fakeClient{}
	b.clients = append(b.clients, c)
	return c, nil
}

func (b *fakeBinder) NewContract(_ entity.ContractDescriptor, _ string, _ entity.ClientHandle) (entity.ContractHandle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.contracts++
	return b.contract, nil
}

type harness struct {
	store    *store.Store
	config   *fakeConfigSource
	provider *fakeProvider
	detector *fakeDetector
	binder   *fakeBinder
	contract *fakeContract
	data     *DataService
	conn     *ConnectionService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		store: store.New(),
		config: &fakeConfigSource{cfg: entity.NetworkConfig{
			RequiredNetworkID:   1,
			RequiredNetworkName: "Ethereum Mainnet",
			ContractAddress:     "0x5FbDB2315678afecb367f032d93F642f64180aa3",
		}},
		provider: &fakeProvider{accounts: []string{"0xABC"}, networkID: "1"},
		contract: &fakeContract{fn: supplyOf(42)},
	}
	h.detector = &fakeDetector{provider: h.provider}
	h.binder = &fakeBinder{contract: h.contract}
	h.data = NewDataService(h.store, time.Second, nil, nopLogger{})
	h.conn = NewConnectionService(ConnectionServiceDeps{
		Store:          h.store,
		ConfigSource:   h.config,
		Detector:       h.detector,
		Binder:         h.binder,
		Data:           h.data,
		Logger:         nopLogger{},
		RequestTimeout: time.Second,
	})
	t.Cleanup(h.conn.Close)
	return h
}

// waitFor blocks until pred holds for the store state or fails the test.
func waitFor(t *testing.T, st *store.Store, pred func(store.State) bool) store.State {
	t.Helper()
	ch := make(chan store.State, 16)
	unsubscribe := st.Subscribe(func(s store.State) {
		select {
		case ch <- s:
		default:
		}
	})
	defer unsubscribe()

	if s := st.State(); pred(s) {
		return s
	}
	deadline := time.After(2 * time.Second)
	for {
		select {
		case <-ch:
			if s := st.State(); pred(s) {
				return s
			}
		case <-deadline:
			t.Fatalf("timed out waiting for state, last: %+v", st.State())
		}
	}
}
