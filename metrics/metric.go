package metrics

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/solana-archiver/block-syncer/logging"
)

var (
	SyncedSlotGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "synced_slot",
		Help: "Highest slot persisted and verified in the store.",
	})

	ChainHeadGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "chain_head_slot",
		Help: "Chain head slot reported by the RPC endpoint.",
	})

	ProcessedSlotCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "processed_slots_total",
		Help: "Slots persisted successfully.",
	})

	FailedSlotCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "failed_slots_total",
		Help: "Slots that could not be persisted, unavailable or exhausted retries.",
	})

	MetricsItems = []prometheus.Collector{
		SyncedSlotGauge,
		ChainHeadGauge,
		ProcessedSlotCounter,
		FailedSlotCounter,
	}
)

const DefaultMetricsAddress = "0.0.0.0:9090"

type Metrics struct {
	httpAddress string
	registry    *prometheus.Registry
	httpServer  *http.Server
}

func NewMetrics(address string) *Metrics {
	if address == "" {
		address = DefaultMetricsAddress
	}
	return &Metrics{
		httpAddress: address,
		registry:    prometheus.NewRegistry(),
	}
}

func (m *Metrics) Start() {
	m.registry.MustRegister(MetricsItems...)
	go m.serve()
}

func (m *Metrics) serve() {
	router := mux.NewRouter()
	router.Path("/metrics").Handler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	m.httpServer = &http.Server{
		Addr:    m.httpAddress,
		Handler: router,
	}
	if err := m.httpServer.ListenAndServe(); err != nil {
		logging.Logger.Errorf("failed to listen and serve, err=%s", err.Error())
		panic(err)
	}
}
