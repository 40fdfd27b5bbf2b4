package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"minting_dapp/internal/app/port"
	"minting_dapp/internal/app/store"
	"minting_dapp/internal/domain/entity"
)

// ErrSuperseded is returned by a sync whose result was discarded because a newer sync started.
var ErrSuperseded = errors.New("data sync superseded by a newer request")

// DataService runs the data sync flow: one totalSupply() read published into the store.
// Overlapping calls follow cancel-and-restart: starting a sync cancels the one in flight.
type DataService struct {
	store       *store.Store
	logger      port.Logger
	metrics     port.FlowMetrics
	callTimeout time.Duration

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
}

// NewDataService creates a new DataService.
func NewDataService(st *store.Store, callTimeout time.Duration, metrics port.FlowMetrics, logger port.Logger) *DataService {
	if metrics == nil {
		metrics = port.NopMetrics{}
	}
	return &DataService{
		store:       st,
		logger:      logger,
		metrics:     metrics,
		callTimeout: callTimeout,
	}
}

// FetchData reads the total supply from the connected contract.
// It returns entity.ErrNotConnected without touching state when no contract handle exists.
func (s *DataService) FetchData(ctx context.Context) error {
	return <-s.StartFetch(ctx)
}

// StartFetch publishes the loading state and cancels the sync in flight before it returns.
// The contract read runs in the background and its result is delivered on the returned channel.
func (s *DataService) StartFetch(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	contract := store.SelectContract(s.store.State())
	if contract == nil {
		s.logger.Warn("Data sync requested before a wallet connection")
		done <- entity.ErrNotConnected
		return done
	}

	start := time.Now()
	callCtx, gen := s.begin(ctx)
	go func() {
		done <- s.run(callCtx, contract, gen, start)
	}()
	return done
}

func (s *DataService) run(ctx context.Context, contract entity.ContractHandle, gen uint64, start time.Time) error {
	supply, err := contract.TotalSupply(ctx)
	if err == nil && supply == nil {
		err = fmt.Errorf("totalSupply returned no value")
	}

	if !s.complete(gen, supply, err) {
		s.logger.Debug("Discarding superseded data sync result", "generation", gen)
		return ErrSuperseded
	}

	if err != nil {
		s.logger.Error("Could not load data from contract", "contract", contract.Address(), "error", err)
		s.metrics.ObserveSync(entity.KindContractCall.String(), time.Since(start))
		return entity.NewFlowError(entity.KindContractCall, entity.MsgSyncFailed, err)
	}

	s.logger.Info("Total supply loaded", "contract", contract.Address(), "totalSupply", supply.String())
	s.metrics.ObserveSync("success", time.Since(start))
	return nil
}

// Cancel aborts the sync in flight, if any, and discards its result.
func (s *DataService) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.generation++
}

// begin cancels the previous sync, takes a new generation and publishes the loading state.
func (s *DataService) begin(ctx context.Context) (context.Context, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	var callCtx context.Context
	var cancel context.CancelFunc
	if s.callTimeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, s.callTimeout)
	} else {
		callCtx, cancel = context.WithCancel(ctx)
	}
	s.cancel = cancel
	s.generation++

	s.store.Dispatch(store.FetchDataRequest())
	return callCtx, s.generation
}

// complete publishes the result of generation gen and reports whether it was still current.
func (s *DataService) complete(gen uint64, supply *big.Int, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return false
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if err != nil {
		s.store.Dispatch(store.FetchDataFailed(entity.MsgSyncFailed))
	} else {
		s.store.Dispatch(store.FetchDataSuccess(supply))
	}
	return true
}
