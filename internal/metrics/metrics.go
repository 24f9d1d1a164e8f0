package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests The total number of handled HTTP requests (counter)
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tripbook",
			Name:      "http_requests_total",
			Help:      "The total number of handled HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPDuration Time spent serving HTTP requests (histogram)
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tripbook",
			Name:      "http_request_duration_seconds",
			Help:      "Time spent serving HTTP requests",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// BookingTransitions Booking status changes applied (counter)
	BookingTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tripbook",
			Name:      "booking_transitions_total",
			Help:      "Booking status changes applied",
		},
		[]string{"from", "to"},
	)

	// PaymentTransitions Payment status changes applied (counter)
	PaymentTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tripbook",
			Name:      "payment_transitions_total",
			Help:      "Payment status changes applied",
		},
		[]string{"from", "to"},
	)

	// QRGenerations QR generation attempts by outcome (counter)
	QRGenerations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tripbook",
			Name:      "qr_generations_total",
			Help:      "QR generation attempts by outcome",
		},
		[]string{"outcome"},
	)
)
