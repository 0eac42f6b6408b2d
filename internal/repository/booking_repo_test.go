package repository

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"campusparking/internal/db"
	apperrors "campusparking/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBooking(id, slotID string, status db.BookingStatus, start, end time.Time) db.Booking {
	return db.Booking{
		ID:            id,
		BookingNumber: "#123456",
		SlotID:        slotID,
		Status:        status,
		StartTime:     start,
		EndTime:       end,
		Duration:      end.Sub(start).Hours(),
		HourlyRate:    5,
		TotalCost:     end.Sub(start).Hours() * 5,
		CreatedAt:     start,
	}
}

func TestFileSnapshotStore(t *testing.T) {
	store, err := NewFileSnapshotStore(t.TempDir())
	require.NoError(t, err)

	_, found, err := store.Load("bookings")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Save("bookings", []byte(`[{"id":"BK-1"}]`)))

	data, found, err := store.Load("bookings")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `[{"id":"BK-1"}]`, string(data))

	// Saves overwrite atomically, leaving no temp files behind.
	require.NoError(t, store.Save("bookings", []byte(`[]`)))
	entries, err := os.ReadDir(store.dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "bookings.json", entries[0].Name())
}

func TestBookingRepository_SaveLoadRoundtrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileSnapshotStore(dir)
	require.NoError(t, err)

	repo := NewBookingRepository(store)
	repo.Load()
	assert.Empty(t, repo.List())

	start := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	b1 := testBooking("BK-1", "RW-02", db.BookingActive, start, start.Add(2*time.Hour))
	b2 := testBooking("BK-2", "LW-01", db.BookingCancelled, start, start.Add(time.Hour))
	require.NoError(t, repo.Insert(b1))
	require.NoError(t, repo.Insert(b2))

	// A fresh repository over the same store sees the same records,
	// newest first.
	reloaded := NewBookingRepository(store)
	reloaded.Load()
	got := reloaded.List()
	require.Len(t, got, 2)
	assert.Equal(t, "BK-2", got[0].ID)
	assert.Equal(t, b1, got[1])
}

func TestBookingRepository_LoadCorruptSnapshot(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileSnapshotStore(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bookings.json"), []byte(`{not json`), 0o644))

	repo := NewBookingRepository(store)
	repo.Load()
	assert.Empty(t, repo.List())
}

func TestBookingRepository_LoadDropsMalformedRecords(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileSnapshotStore(dir)
	require.NoError(t, err)

	snapshot := `[
		{"id":"BK-1","bookingNumber":"#111111","slotId":"RW-02","status":"active",
		 "startTime":"2025-01-01T08:00:00Z","endTime":"2025-01-01T10:00:00Z",
		 "duration":2,"hourlyRate":5,"totalCost":10,"createdAt":"2025-01-01T07:00:00Z"},
		{"id":"BK-2","slotId":"","status":"active",
		 "startTime":"2025-01-01T08:00:00Z","endTime":"2025-01-01T10:00:00Z",
		 "duration":2,"hourlyRate":5,"totalCost":10,"createdAt":"2025-01-01T07:00:00Z"},
		{"id":"BK-3","bookingNumber":"#333333","slotId":"RW-03","status":"parked",
		 "startTime":"2025-01-01T08:00:00Z","endTime":"2025-01-01T10:00:00Z",
		 "duration":2,"hourlyRate":5,"totalCost":10,"createdAt":"2025-01-01T07:00:00Z"},
		{"id":"BK-4","bookingNumber":"#444444","slotId":"RW-04","status":"active",
		 "startTime":"2025-01-01T10:00:00Z","endTime":"2025-01-01T08:00:00Z",
		 "duration":2,"hourlyRate":5,"totalCost":10,"createdAt":"2025-01-01T07:00:00Z"}
	]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bookings.json"), []byte(snapshot), 0o644))

	repo := NewBookingRepository(store)
	repo.Load()

	// Only the well-formed record survives: BK-2 is missing its slot,
	// BK-3 has an unknown status, BK-4 ends before it starts.
	got := repo.List()
	require.Len(t, got, 1)
	assert.Equal(t, "BK-1", got[0].ID)
}

func TestBookingRepository_Update(t *testing.T) {
	store, err := NewFileSnapshotStore(t.TempDir())
	require.NoError(t, err)
	repo := NewBookingRepository(store)
	repo.Load()

	start := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	b := testBooking("BK-1", "RW-02", db.BookingActive, start, start.Add(2*time.Hour))
	require.NoError(t, repo.Insert(b))

	b.Status = db.BookingCancelled
	ok, err := repo.Update(b)
	require.NoError(t, err)
	assert.True(t, ok)

	got, found := repo.Get("BK-1")
	require.True(t, found)
	assert.Equal(t, db.BookingCancelled, got.Status)

	ok, err = repo.Update(testBooking("BK-missing", "RW-02", db.BookingActive, start, start.Add(time.Hour)))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBookingRepository_CompleteExpiredBookings(t *testing.T) {
	store, err := NewFileSnapshotStore(t.TempDir())
	require.NoError(t, err)
	repo := NewBookingRepository(store)
	repo.Load()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	expired := testBooking("BK-1", "RW-02", db.BookingActive, now.Add(-3*time.Hour), now.Add(-time.Hour))
	endingNow := testBooking("BK-2", "RW-03", db.BookingActive, now.Add(-2*time.Hour), now)
	running := testBooking("BK-3", "RW-04", db.BookingActive, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, repo.Insert(expired))
	require.NoError(t, repo.Insert(endingNow))
	require.NoError(t, repo.Insert(running))

	ids, err := repo.CompleteExpiredBookings(now)
	require.NoError(t, err)
	// The interval is half-open, so a booking ending exactly now is over.
	assert.ElementsMatch(t, []string{"BK-1", "BK-2"}, ids)

	got, _ := repo.Get("BK-3")
	assert.Equal(t, db.BookingActive, got.Status)

	ids, err = repo.CompleteExpiredBookings(now)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

// failingStore always fails to save, simulating an unavailable persistence
// collaborator.
type failingStore struct{}

func (failingStore) Load(string) ([]byte, bool, error) {
	return nil, false, apperrors.NewPersistenceError("load", errors.New("backend down"))
}

func (failingStore) Save(string, []byte) error {
	return apperrors.NewPersistenceError("save", errors.New("backend down"))
}

func TestBookingRepository_SaveFailureKeepsMutation(t *testing.T) {
	repo := NewBookingRepository(failingStore{})
	repo.Load() // load failure degrades to an empty store
	assert.Empty(t, repo.List())

	start := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	err := repo.Insert(testBooking("BK-1", "RW-02", db.BookingActive, start, start.Add(time.Hour)))

	// The failure is surfaced, but the in-memory mutation stands.
	var pe *apperrors.PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Len(t, repo.List(), 1)
}
