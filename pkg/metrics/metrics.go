package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studio_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "studio_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	AppointmentsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studio_appointments_created_total",
			Help: "Appointments created, by source",
		},
		[]string{"source"},
	)

	SlotConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "studio_slot_conflicts_total",
			Help: "Booking attempts rejected because the slot was taken",
		},
	)

	StatusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studio_appointment_status_transitions_total",
			Help: "Appointment status changes",
		},
		[]string{"from", "to"},
	)

	ReviewsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "studio_reviews_submitted_total",
			Help: "Reviews submitted by visitors",
		},
	)

	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studio_emails_sent_total",
			Help: "Emails sent, by kind and result",
		},
		[]string{"kind", "result"},
	)

	AvailabilityCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studio_availability_cache_total",
			Help: "Availability cache lookups, by result",
		},
		[]string{"result"},
	)

	RateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studio_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"route"},
	)
)

func RecordHTTPRequest(method, route, status string, seconds float64) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

func RecordAppointmentCreated(source string) {
	AppointmentsCreated.WithLabelValues(source).Inc()
}

func RecordSlotConflict() {
	SlotConflicts.Inc()
}

func RecordStatusTransition(from, to string) {
	StatusTransitions.WithLabelValues(from, to).Inc()
}

func RecordReviewSubmitted() {
	ReviewsSubmitted.Inc()
}

func RecordEmail(kind, result string) {
	EmailsSent.WithLabelValues(kind, result).Inc()
}

func RecordCacheLookup(hit bool) {
	if hit {
		AvailabilityCache.WithLabelValues("hit").Inc()
		return
	}
	AvailabilityCache.WithLabelValues("miss").Inc()
}

func RecordRateLimited(route string) {
	RateLimited.WithLabelValues(route).Inc()
}
