package repository

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"campusparking/internal/db"
)

// SnapshotKey is the logical key the booking snapshot is stored under.
const SnapshotKey = "bookings"

// BookingRepository owns the authoritative list of bookings. It is the single
// source of truth for occupancy; snapshots are serialized to the SnapshotStore
// after every mutation, newest booking first.
type BookingRepository struct {
	mu       sync.RWMutex
	store    SnapshotStore
	bookings []db.Booking
}

func NewBookingRepository(store SnapshotStore) *BookingRepository {
	return &BookingRepository{store: store}
}

// Load replaces the in-memory state with the persisted snapshot. A missing or
// corrupt snapshot initializes an empty store; individually malformed records
// are dropped with a warning. Startup never fails on persistence problems.
func (r *BookingRepository) Load() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bookings = nil

	data, found, err := r.store.Load(SnapshotKey)
	if err != nil {
		log.Printf("Error loading bookings snapshot, starting empty: %v", err)
		return
	}
	if !found {
		return
	}

	var records []db.Booking
	if err := json.Unmarshal(data, &records); err != nil {
		log.Printf("Corrupt bookings snapshot, starting empty: %v", err)
		return
	}

	for _, b := range records {
		if err := b.Validate(); err != nil {
			log.Printf("Dropping invalid booking record from snapshot: %v", err)
			continue
		}
		r.bookings = append(r.bookings, b)
	}
}

// List returns a copy of all bookings, newest first.
func (r *BookingRepository) List() []db.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]db.Booking, len(r.bookings))
	copy(out, r.bookings)
	return out
}

// Get returns the booking with the given id.
func (r *BookingRepository) Get(id string) (db.Booking, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.bookings {
		if b.ID == id {
			return b, true
		}
	}
	return db.Booking{}, false
}

// Insert prepends a booking and persists the snapshot. The insert always
// succeeds; a non-nil return is the persistence failure for the caller to log.
func (r *BookingRepository) Insert(b db.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings = append([]db.Booking{b}, r.bookings...)
	return r.saveLocked()
}

// Update replaces the booking with the same id and persists the snapshot.
// ok is false when the id is unknown.
func (r *BookingRepository) Update(b db.Booking) (ok bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.bookings {
		if r.bookings[i].ID == b.ID {
			r.bookings[i] = b
			return true, r.saveLocked()
		}
	}
	return false, nil
}

// CompleteExpiredBookings flips active bookings whose end time has passed to
// completed, in one critical section, and persists once. It returns the ids
// it updated.
func (r *BookingRepository) CompleteExpiredBookings(now time.Time) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var ids []string
	for i := range r.bookings {
		if r.bookings[i].Status == db.BookingActive && !r.bookings[i].EndTime.After(now) {
			r.bookings[i].Status = db.BookingCompleted
			ids = append(ids, r.bookings[i].ID)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return ids, r.saveLocked()
}

func (r *BookingRepository) saveLocked() error {
	data, err := json.Marshal(r.bookings)
	if err != nil {
		return err
	}
	return r.store.Save(SnapshotKey, data)
}
