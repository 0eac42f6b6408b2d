package service

import (
	"log"
	"time"

	"campusparking/internal/metrics"
	"campusparking/internal/repository"
)

type JobService struct {
	Repo *repository.BookingRepository
}

func NewJobService(repo *repository.BookingRepository) *JobService {
	return &JobService{Repo: repo}
}

// CompleteExpiredBookings finds active bookings whose end time has passed and
// updates their status to "completed". Booking queries already treat anything
// non-active as past, so this is bookkeeping for the stored records, not a
// correctness requirement between runs.
func (s *JobService) CompleteExpiredBookings() error {
	log.Println("Cron Job: checking for bookings to mark as 'completed'...")

	ids, err := s.Repo.CompleteExpiredBookings(time.Now().UTC())
	if err != nil {
		// Statuses flipped in memory; only the snapshot save failed.
		log.Printf("Cron Job: snapshot save failed after completing bookings: %v", err)
		metrics.SnapshotSaveFailures.Inc()
	}

	if len(ids) == 0 {
		log.Println("Cron Job: no active bookings found past their end time.")
		return nil
	}

	metrics.BookingsCompleted.Add(float64(len(ids)))
	log.Printf("Cron Job: marked %d bookings as 'completed'. IDs: %v", len(ids), ids)
	return nil
}
