package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RPCMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settlement_rpc_messages_total",
			Help: "Inbound subscription channel frames by classification",
		},
		[]string{"kind"},
	)

	ValidationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settlement_validations_total",
			Help: "Dual-transfer validations by result",
		},
		[]string{"result"},
	)

	SettlementsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settlement_payments_completed_total",
			Help: "Payments moved to completed by source",
		},
		[]string{"source"},
	)

	SettlementLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "settlement_notification_handling_seconds",
			Help:    "Time spent handling one balance change notification",
			Buckets: prometheus.DefBuckets,
		},
	)

	WatchesReapedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "settlement_watches_reaped_total",
			Help: "Watches removed by the TTL sweep",
		},
	)

	ConnectionEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settlement_ws_connection_events_total",
			Help: "Subscription channel connects and disconnects",
		},
		[]string{"event"},
	)
)

// RegisterMetrics registers the settlement collectors plus gauges backed by
// the live monitor state.
func RegisterMetrics(activeWatches func() float64, connected func() float64) {
	prometheus.MustRegister(
		RPCMessagesTotal,
		ValidationsTotal,
		SettlementsTotal,
		SettlementLatency,
		WatchesReapedTotal,
		ConnectionEventsTotal,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "settlement_active_watches",
			Help: "Watches currently held in the registry",
		}, activeWatches),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "settlement_ws_connected",
			Help: "1 when the subscription channel is open",
		}, connected),
	)
}
