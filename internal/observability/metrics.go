package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	messagesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vitalctl",
			Subsystem: "feed",
			Name:      "messages_sent_total",
			Help:      "HL7 messages handed to the MLLP client.",
		},
		[]string{"device"},
	)
	acksReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vitalctl",
			Subsystem: "feed",
			Name:      "acks_received_total",
			Help:      "Acknowledgments received before the deadline.",
		},
		[]string{"device"},
	)
	sendErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vitalctl",
			Subsystem: "feed",
			Name:      "send_errors_total",
			Help:      "Sends that failed with a transport error.",
		},
		[]string{"device"},
	)
	sendDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vitalctl",
			Subsystem: "feed",
			Name:      "send_duration_seconds",
			Help:      "Write-through-ack duration of one send.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"device"},
	)

	connectionsAccepted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "vitalctl",
			Subsystem: "mllp",
			Name:      "connections_total",
			Help:      "Inbound MLLP connections accepted.",
		},
	)
	framesReceived = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "vitalctl",
			Subsystem: "mllp",
			Name:      "frames_received_total",
			Help:      "Complete MLLP frames extracted from inbound streams.",
		},
	)
	acksSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "vitalctl",
			Subsystem: "mllp",
			Name:      "acks_sent_total",
			Help:      "Acknowledgment frames written back to senders.",
		},
	)
)

// RegisterMetrics registers every vitalctl collector exactly once.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			messagesSent, acksReceived, sendErrors, sendDuration,
			connectionsAccepted, framesReceived, acksSent,
		)
	})
}

// RecordSend accounts one client send attempt.
func RecordSend(device string, ackReceived bool, err error, duration time.Duration) {
	RegisterMetrics()
	messagesSent.WithLabelValues(device).Inc()
	if err != nil {
		sendErrors.WithLabelValues(device).Inc()
		return
	}
	if ackReceived {
		acksReceived.WithLabelValues(device).Inc()
	}
	sendDuration.WithLabelValues(device).Observe(duration.Seconds())
}

// RecordConnectionAccepted accounts one accepted inbound connection.
func RecordConnectionAccepted() {
	RegisterMetrics()
	connectionsAccepted.Inc()
}

// RecordFrameReceived accounts one extracted inbound frame.
func RecordFrameReceived() {
	RegisterMetrics()
	framesReceived.Inc()
}

// RecordAckSent accounts one acknowledgment written back.
func RecordAckSent() {
	RegisterMetrics()
	acksSent.Inc()
}
