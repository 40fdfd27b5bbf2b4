package service

import (
	"sync"

	"github.com/ethereum/go-ethereum/event"

	"minting_dapp/internal/app/port"
)

// Subscriptions is the handle for the account-change and network-change listeners
// registered by a successful connection. Close is idempotent.
type Subscriptions struct {
	accounts event.Subscription
	chain    event.Subscription
	done     chan struct{}
	once     sync.Once
}

func subscribe(provider port.WalletProvider, onAccounts func([]string), onChain func(string)) *Subscriptions {
	accountsCh := make(chan []string, 4)
	chainCh := make(chan string, 1)

	subs := &Subscriptions{
		accounts: provider.SubscribeAccountsChanged(accountsCh),
		chain:    provider.SubscribeChainChanged(chainCh),
		done:     make(chan struct{}),
	}

	go subs.loop(accountsCh, chainCh, onAccounts, onChain)
	return subs
}

func (s *Subscriptions) loop(accountsCh <-chan []string, chainCh <-chan string, onAccounts func([]string), onChain func(string)) {
	for {
		select {
		case accounts := <-accountsCh:
			onAccounts(accounts)
		case networkID := <-chainCh:
			// The reload tears these subscriptions down, nothing else to read.
			onChain(networkID)
			return
		case <-s.accounts.Err():
			return
		case <-s.chain.Err():
			return
		case <-s.done:
			return
		}
	}
}

// Close unsubscribes both listeners. It does not wait for a handler that is already running.
func (s *Subscriptions) Close() {
	s.once.Do(func() {
		close(s.done)
		s.accounts.Unsubscribe()
		s.chain.Unsubscribe()
	})
}

// Done is closed once the subscriptions have been released.
func (s *Subscriptions) Done() <-chan struct{} {
	return s.done
}
