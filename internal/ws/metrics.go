package ws

import "github.com/prometheus/client_golang/prometheus"

var (
	wsConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ws_connections",
			Help: "Currently connected websocket clients",
		},
	)
	eventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ws_events_published_total",
			Help: "Realtime events published by this instance",
		},
		[]string{"event"},
	)
	relayDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ws_relay_dropped_total",
			Help: "Events not sent to other instances because the relay queue was full",
		},
	)
)

func init() {
	prometheus.MustRegister(wsConnections)
	prometheus.MustRegister(eventsPublished)
	prometheus.MustRegister(relayDropped)
}
