package metrics

import (
	"math/big"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the dapp collectors on a dedicated prometheus registry.
// It implements port.FlowMetrics.
type Registry struct {
	registry        *prometheus.Registry
	connectTotal    *prometheus.CounterVec
	connectDuration *prometheus.HistogramVec
	syncTotal       *prometheus.CounterVec
	syncDuration    *prometheus.HistogramVec
	connected       prometheus.Gauge
	totalSupply     prometheus.Gauge
}

// NewRegistry creates and registers all collectors.
func NewRegistry() *Registry {
	connects := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "minting_dapp_connect_attempts_total",
		Help: "Wallet connection attempts by outcome",
	}, []string{"outcome"})

	connectDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "minting_dapp_connect_duration_seconds",
		Help:    "Duration of wallet connection attempts",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})

	syncs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "minting_dapp_sync_total",
		Help: "Contract data sync attempts by outcome",
	}, []string{"outcome"})

	syncDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "minting_dapp_sync_duration_seconds",
		Help:    "Duration of contract data syncs",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})

	connected := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "minting_dapp_wallet_connected",
		Help: "1 while a wallet session is connected",
	})

	supply := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "minting_dapp_total_supply",
		Help: "Last totalSupply value read from the contract",
	})

	r := prometheus.NewRegistry()
	r.MustRegister(connects, connectDuration, syncs, syncDuration, connected, supply)

	return &Registry{
		registry:        r,
		connectTotal:    connects,
		connectDuration: connectDuration,
		syncTotal:       syncs,
		syncDuration:    syncDuration,
		connected:       connected,
		totalSupply:     supply,
	}
}

// Handler serves the registry in the prometheus exposition format.
func (m *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Registry) ObserveConnect(outcome string, elapsed time.Duration) {
	m.connectTotal.WithLabelValues(outcome).Inc()
	m.connectDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

func (m *Registry) ObserveSync(outcome string, elapsed time.Duration) {
	m.syncTotal.WithLabelValues(outcome).Inc()
	m.syncDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// SetState mirrors the connection flag and the loaded supply. A nil supply leaves the gauge unchanged.
func (m *Registry) SetState(connected bool, supply *big.Int) {
	if connected {
		m.connected.Set(1)
	} else {
		m.connected.Set(0)
	}
	if supply != nil {
		f, _ := new(big.Float).SetInt(supply).Float64()
		m.totalSupply.Set(f)
	}
}
