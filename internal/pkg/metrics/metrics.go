package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// WsConnections tracks the number of currently open websocket connections.
	WsConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "looking4_ws_connections",
		Help: "Current number of open websocket connections",
	})

	// MessagesSent counts chat messages accepted by the message pipeline.
	MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "looking4_messages_sent_total",
		Help: "Total chat messages persisted and broadcast",
	})

	// EventsBroadcast counts events fanned out to room subscribers.
	EventsBroadcast = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "looking4_events_broadcast_total",
		Help: "Total websocket events broadcast, by event name",
	}, []string{"event"})

	// NotificationsCreated counts durable notifications persisted.
	NotificationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "looking4_notifications_created_total",
		Help: "Total notifications persisted",
	})
)
