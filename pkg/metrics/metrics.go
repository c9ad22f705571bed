package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// OrdersProcessed counts orders that passed risk checks, by side (buy/sell)
var OrdersProcessed = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "fixgate_orders_processed_total",
		Help: "Total number of orders accepted by the risk engine",
	},
	[]string{"side"},
)

// OrdersRejected counts risk rejections by the check that fired
var OrdersRejected = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "fixgate_orders_rejected_total",
		Help: "Total number of orders rejected by the risk engine",
	},
	[]string{"check"},
)

// DecodeErrors counts FIX decode failures by error kind
var DecodeErrors = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "fixgate_decode_errors_total",
		Help: "Total number of inbound FIX messages rejected by the decoder",
	},
	[]string{"kind"},
)

// MessagesDecoded counts successfully decoded inbound FIX messages
var MessagesDecoded = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "fixgate_messages_decoded_total",
		Help: "Total number of inbound FIX messages decoded successfully",
	},
)

// ProcessLatency records latency distribution for the decode-risk-ack pipeline
var ProcessLatency = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "fixgate_message_processing_latency_seconds",
		Help:    "Latency in seconds to process a single inbound message",
		Buckets: prometheus.DefBuckets,
	},
)

func init() {
	prometheus.MustRegister(OrdersProcessed, OrdersRejected)
	prometheus.MustRegister(MessagesDecoded, DecodeErrors, ProcessLatency)
}
