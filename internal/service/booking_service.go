package service

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"sync"
	"time"

	"campusparking/internal/db"
	"campusparking/internal/entities"
	apperrors "campusparking/internal/errors"
	"campusparking/internal/metrics"
	"campusparking/internal/repository"

	"github.com/google/uuid"
)

// FullyBookedThreshold is the congestion policy: a slot with this many active
// bookings overlapping the next 24 hours is reported as fully booked.
const FullyBookedThreshold = 3

const fullyBookedWindow = 24 * time.Hour

// BookingService is the reservation engine: it validates and applies booking
// commands against the repository and derives slot statuses and availability
// statistics from the active-booking set.
//
// Status and conflict logic always takes the current instant from the caller,
// never the system clock, so it stays deterministic under test. Now is the
// clock handed to callers that need one (HTTP handlers, CreatedAt stamps) and
// is overridable in tests.
type BookingService struct {
	mu      sync.Mutex // serializes check-then-write command sequences
	Repo    *repository.BookingRepository
	Now     func() time.Time
	catalog []db.Slot
	slots   map[string]db.Slot
}

func NewBookingService(repo *repository.BookingRepository, catalog []db.Slot) *BookingService {
	slots := make(map[string]db.Slot, len(catalog))
	for _, s := range catalog {
		slots[s.ID] = s
	}
	return &BookingService{
		Repo:    repo,
		Now:     time.Now,
		catalog: catalog,
		slots:   slots,
	}
}

// CreateBooking reserves slotID for [start, end). The hourly rate is
// snapshotted from the catalog so later price changes never reprice the
// booking. The conflict check and the insert happen in one critical section.
func (s *BookingService) CreateBooking(slotID string, start, end time.Time) (*db.Booking, error) {
	slot, ok := s.slots[slotID]
	if !ok {
		return nil, apperrors.NewNotFoundError("slot", slotID)
	}
	if !end.After(start) {
		return nil, apperrors.NewInvalidArgumentError("end_time must be after start_time")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conflicts(slotID, start, end, "") {
		metrics.BookingConflicts.Inc()
		return nil, apperrors.NewConflictError(slotID, start, end)
	}

	duration := end.Sub(start).Hours()
	booking := db.Booking{
		ID:            "BK-" + uuid.NewString(),
		BookingNumber: s.nextBookingNumber(),
		SlotID:        slotID,
		Status:        db.BookingActive,
		StartTime:     start.UTC(),
		EndTime:       end.UTC(),
		Duration:      duration,
		HourlyRate:    slot.Price,
		TotalCost:     duration * slot.Price,
		CreatedAt:     s.Now().UTC(),
	}

	if err := s.Repo.Insert(booking); err != nil {
		// In-memory state is committed; persistence degrades to this session.
		log.Printf("Booking %s created but snapshot save failed: %v", booking.ID, err)
		metrics.SnapshotSaveFailures.Inc()
	}
	metrics.BookingsCreated.Inc()
	return &booking, nil
}

// CancelBooking marks a booking cancelled, freeing its slot for conflict and
// occupancy purposes. Cancelling an already-cancelled booking is a no-op.
func (s *BookingService) CancelBooking(id string) (*db.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	booking, ok := s.Repo.Get(id)
	if !ok {
		return nil, apperrors.NewNotFoundError("booking", id)
	}
	switch booking.Status {
	case db.BookingCancelled:
		return &booking, nil
	case db.BookingCompleted:
		return nil, apperrors.NewInvalidArgumentError("booking '%s' is completed and cannot be cancelled", id)
	}

	booking.Status = db.BookingCancelled
	if _, err := s.Repo.Update(booking); err != nil {
		log.Printf("Booking %s cancelled but snapshot save failed: %v", id, err)
		metrics.SnapshotSaveFailures.Inc()
	}
	metrics.BookingsCancelled.Inc()
	return &booking, nil
}

// ExtendBooking lengthens an active booking by additionalHours, re-validating
// the extended interval against the other active bookings on the slot.
func (s *BookingService) ExtendBooking(id string, additionalHours float64) (*db.Booking, error) {
	if additionalHours <= 0 {
		return nil, apperrors.NewInvalidArgumentError("additional_hours must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	booking, ok := s.Repo.Get(id)
	if !ok {
		return nil, apperrors.NewNotFoundError("booking", id)
	}
	if booking.Status != db.BookingActive {
		return nil, apperrors.NewInvalidArgumentError("booking '%s' is %s, only active bookings can be extended", id, booking.Status)
	}

	newEnd := booking.EndTime.Add(time.Duration(additionalHours * float64(time.Hour)))
	if s.conflicts(booking.SlotID, booking.StartTime, newEnd, booking.ID) {
		metrics.BookingConflicts.Inc()
		return nil, apperrors.NewConflictError(booking.SlotID, booking.EndTime, newEnd)
	}

	booking.EndTime = newEnd
	booking.Duration = newEnd.Sub(booking.StartTime).Hours()
	booking.TotalCost = booking.Duration * booking.HourlyRate
	if _, err := s.Repo.Update(booking); err != nil {
		log.Printf("Booking %s extended but snapshot save failed: %v", id, err)
		metrics.SnapshotSaveFailures.Inc()
	}
	metrics.BookingsExtended.Inc()
	return &booking, nil
}

// CheckTimeConflict reports whether [start, end) overlaps any active booking
// on the slot. Intervals are half-open: a booking ending exactly when another
// starts does not conflict.
func (s *BookingService) CheckTimeConflict(slotID string, start, end time.Time) bool {
	return s.conflicts(slotID, start, end, "")
}

func (s *BookingService) conflicts(slotID string, start, end time.Time, excludeID string) bool {
	for _, b := range s.Repo.List() {
		if b.SlotID != slotID || b.Status != db.BookingActive || b.ID == excludeID {
			continue
		}
		if start.Before(b.EndTime) && b.StartTime.Before(end) {
			return true
		}
	}
	return false
}

// SlotBooking returns the active booking in progress on the slot at now, if
// any. More than one match means the no-overlap invariant was violated and is
// surfaced rather than silently resolved.
func (s *BookingService) SlotBooking(slotID string, now time.Time) (*db.Booking, error) {
	var current *db.Booking
	for _, b := range s.Repo.List() {
		if b.SlotID != slotID || b.Status != db.BookingActive {
			continue
		}
		if !b.StartTime.After(now) && now.Before(b.EndTime) {
			if current != nil {
				return nil, fmt.Errorf("data integrity: slot '%s' has multiple active bookings in progress at %s", slotID, now.Format(time.RFC3339))
			}
			bc := b
			current = &bc
		}
	}
	return current, nil
}

// SlotBookings returns all active bookings for the slot, past, present and
// future, newest first.
func (s *BookingService) SlotBookings(slotID string) []db.Booking {
	var out []db.Booking
	for _, b := range s.Repo.List() {
		if b.SlotID == slotID && b.Status == db.BookingActive {
			out = append(out, b)
		}
	}
	return out
}

// IsSlotFullyBooked reports whether the slot is congested: at least
// FullyBookedThreshold active bookings overlap [now, now+24h). This is a
// heuristic signal, not a literal every-minute-is-booked check.
func (s *BookingService) IsSlotFullyBooked(slotID string, now time.Time) bool {
	windowEnd := now.Add(fullyBookedWindow)
	count := 0
	for _, b := range s.SlotBookings(slotID) {
		if b.EndTime.After(now) && b.StartTime.Before(windowEnd) {
			count++
		}
	}
	return count >= FullyBookedThreshold
}

// SlotStatus derives the display status for one slot. Precedence:
// fully-booked, then reserved (a booking is in progress right now), then
// available. Future-only bookings leave the slot available for now.
func (s *BookingService) SlotStatus(slotID string, now time.Time) (db.SlotStatus, error) {
	if s.IsSlotFullyBooked(slotID, now) {
		return db.SlotFullyBooked, nil
	}
	current, err := s.SlotBooking(slotID, now)
	if err != nil {
		return "", err
	}
	if current != nil {
		return db.SlotReserved, nil
	}
	return db.SlotAvailable, nil
}

// Slots returns the catalog with derived statuses, optionally filtered by
// zone.
func (s *BookingService) Slots(zone db.Zone, now time.Time) ([]db.Slot, error) {
	if zone != "" && !db.ValidZone(zone) {
		return nil, apperrors.NewInvalidArgumentError("unknown zone '%s'", zone)
	}
	var out []db.Slot
	for _, slot := range s.catalog {
		if zone != "" && slot.Zone != zone {
			continue
		}
		status, err := s.SlotStatus(slot.ID, now)
		if err != nil {
			return nil, err
		}
		slot.Status = status
		out = append(out, slot)
	}
	return out, nil
}

// SlotByID returns one catalog slot with its derived status.
func (s *BookingService) SlotByID(id string, now time.Time) (*db.Slot, error) {
	slot, ok := s.slots[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("slot", id)
	}
	status, err := s.SlotStatus(id, now)
	if err != nil {
		return nil, err
	}
	slot.Status = status
	return &slot, nil
}

// AvailableSlots returns the slots whose derived status is available at now.
func (s *BookingService) AvailableSlots(now time.Time) ([]db.Slot, error) {
	return s.slotsWithStatus(now, true)
}

// OccupiedSlots returns the slots that are reserved or fully booked at now.
func (s *BookingService) OccupiedSlots(now time.Time) ([]db.Slot, error) {
	return s.slotsWithStatus(now, false)
}

func (s *BookingService) slotsWithStatus(now time.Time, available bool) ([]db.Slot, error) {
	all, err := s.Slots("", now)
	if err != nil {
		return nil, err
	}
	var out []db.Slot
	for _, slot := range all {
		if (slot.Status == db.SlotAvailable) == available {
			out = append(out, slot)
		}
	}
	return out, nil
}

// ActiveBookings returns all bookings with active status, newest first.
func (s *BookingService) ActiveBookings() []db.Booking {
	return s.bookingsWhere(func(b db.Booking) bool { return b.Status == db.BookingActive })
}

// PastBookings returns the booking history: everything no longer active.
func (s *BookingService) PastBookings() []db.Booking {
	return s.bookingsWhere(func(b db.Booking) bool { return b.Status != db.BookingActive })
}

// AllBookings returns every booking, newest first.
func (s *BookingService) AllBookings() []db.Booking {
	return s.Repo.List()
}

// Booking returns one booking by id.
func (s *BookingService) Booking(id string) (*db.Booking, error) {
	b, ok := s.Repo.Get(id)
	if !ok {
		return nil, apperrors.NewNotFoundError("booking", id)
	}
	return &b, nil
}

func (s *BookingService) bookingsWhere(keep func(db.Booking) bool) []db.Booking {
	var out []db.Booking
	for _, b := range s.Repo.List() {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}

// AvailabilityStats summarizes the catalog at now. A slot with any active
// booking counts against availability even when that booking is in the
// future: it is occupied when fully booked, reserved otherwise.
func (s *BookingService) AvailabilityStats(now time.Time) entities.AvailabilityStats {
	stats := entities.AvailabilityStats{Total: len(s.catalog)}

	bookedSlots := make(map[string]bool)
	for _, b := range s.Repo.List() {
		if _, inCatalog := s.slots[b.SlotID]; inCatalog && b.Status == db.BookingActive {
			bookedSlots[b.SlotID] = true
		}
	}
	for slotID := range bookedSlots {
		if s.IsSlotFullyBooked(slotID, now) {
			stats.Occupied++
		} else {
			stats.Reserved++
		}
	}

	stats.Available = stats.Total - stats.Reserved - stats.Occupied
	if stats.Total > 0 {
		pct := float64(stats.Available) / float64(stats.Total) * 100
		stats.AvailabilityPercentage = math.Round(pct*10) / 10
	}
	return stats
}

// nextBookingNumber generates a human-facing number like #483920, retrying on
// the unlikely collision with an existing booking.
func (s *BookingService) nextBookingNumber() string {
	existing := make(map[string]bool)
	for _, b := range s.Repo.List() {
		existing[b.BookingNumber] = true
	}
	for {
		number := fmt.Sprintf("#%06d", 100000+rand.Intn(900000))
		if !existing[number] {
			return number
		}
	}
}
