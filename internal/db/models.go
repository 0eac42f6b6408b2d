package db

import "time"

// Zone is the campus wing a slot belongs to.
type Zone string

const (
	ZoneLeftWing  Zone = "left-wing"
	ZoneRightWing Zone = "right-wing"
)

// ValidZone reports whether z is a known zone.
func ValidZone(z Zone) bool {
	return z == ZoneLeftWing || z == ZoneRightWing
}

// SlotStatus is derived from the active-booking set, never stored.
type SlotStatus string

const (
	SlotAvailable   SlotStatus = "available"
	SlotReserved    SlotStatus = "reserved"
	SlotFullyBooked SlotStatus = "fully-booked"
)

type BookingStatus string

const (
	BookingActive    BookingStatus = "active"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// Slot is a single parking space. Everything except Status is fixed at
// catalog initialization.
type Slot struct {
	ID       string     `json:"id"`
	Building string     `json:"building"`
	Zone     Zone       `json:"zone"`
	Price    float64    `json:"price"` // SAR per hour
	Row      int        `json:"row"`
	Position int        `json:"position"`
	Status   SlotStatus `json:"status,omitempty"`
}

// Booking reserves one slot for one half-open interval [StartTime, EndTime).
// HourlyRate snapshots the slot price at creation so later catalog changes
// never reprice an existing booking. TotalCost always equals
// Duration * HourlyRate, including after an extension.
type Booking struct {
	ID            string        `json:"id"`
	BookingNumber string        `json:"bookingNumber"`
	SlotID        string        `json:"slotId"`
	Status        BookingStatus `json:"status"`
	StartTime     time.Time     `json:"startTime"`
	EndTime       time.Time     `json:"endTime"`
	Duration      float64       `json:"duration"` // hours
	HourlyRate    float64       `json:"hourlyRate"`
	TotalCost     float64       `json:"totalCost"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// Validate rejects malformed booking records at the store boundary.
func (b *Booking) Validate() error {
	switch {
	case b.ID == "":
		return errMissing("id")
	case b.SlotID == "":
		return errMissing("slotId")
	case b.Status != BookingActive && b.Status != BookingCancelled && b.Status != BookingCompleted:
		return errField("status", string(b.Status))
	case b.StartTime.IsZero() || b.EndTime.IsZero():
		return errMissing("startTime/endTime")
	case !b.EndTime.After(b.StartTime):
		return errField("endTime", "must be after startTime")
	case b.Duration <= 0 || b.HourlyRate < 0 || b.TotalCost < 0:
		return errField("duration/hourlyRate/totalCost", "must be non-negative")
	}
	return nil
}

type fieldError struct {
	field  string
	detail string
}

func (e *fieldError) Error() string {
	return "booking record: invalid " + e.field + ": " + e.detail
}

func errMissing(field string) error { return &fieldError{field: field, detail: "missing"} }

func errField(field, detail string) error { return &fieldError{field: field, detail: detail} }
