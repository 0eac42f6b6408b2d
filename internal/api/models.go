package api

// Booking
type CreateBookingRequest struct {
	SlotID    string `json:"slot_id"`
	StartTime string `json:"start_time"` // RFC 3339
	EndTime   string `json:"end_time"`   // RFC 3339
}

type ExtendBookingRequest struct {
	AdditionalHours float64 `json:"additional_hours"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
