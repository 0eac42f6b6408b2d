package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parking_bookings_created_total",
		Help: "Bookings accepted by the reservation engine.",
	})
	BookingsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parking_bookings_cancelled_total",
		Help: "Bookings cancelled.",
	})
	BookingsExtended = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parking_bookings_extended_total",
		Help: "Bookings extended.",
	})
	BookingConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parking_booking_conflicts_total",
		Help: "Create or extend attempts rejected for interval overlap.",
	})
	SnapshotSaveFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parking_snapshot_save_failures_total",
		Help: "Booking snapshot saves that failed; the engine keeps serving from memory.",
	})
	BookingsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parking_bookings_completed_total",
		Help: "Active bookings flipped to completed by the sweep job.",
	})
)
