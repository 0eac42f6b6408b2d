package api

import (
	"encoding/json"
	"net/http"
	"time"

	"campusparking/internal/db"
	"campusparking/internal/entities"
	apperrors "campusparking/internal/errors"
	"campusparking/internal/service"

	"github.com/gorilla/mux"
)

type BookingHandler struct {
	Service *service.BookingService
}

func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperrors.NewInvalidArgumentError("invalid request body"))
		return
	}
	if req.SlotID == "" {
		respondError(w, apperrors.NewInvalidArgumentError("slot_id is required"))
		return
	}

	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		respondError(w, apperrors.NewInvalidArgumentError("start_time must be RFC 3339"))
		return
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		respondError(w, apperrors.NewInvalidArgumentError("end_time must be RFC 3339"))
		return
	}

	booking, err := h.Service.CreateBooking(req.SlotID, start, end)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, booking)
}

// ListBookings handles GET /api/bookings?scope=active|past|all (default all).
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	var bookings []db.Booking
	switch scope := r.URL.Query().Get("scope"); scope {
	case "active":
		bookings = h.Service.ActiveBookings()
	case "past":
		bookings = h.Service.PastBookings()
	case "", "all":
		bookings = h.Service.AllBookings()
	default:
		respondError(w, apperrors.NewInvalidArgumentError("unknown scope '%s'", scope))
		return
	}
	respondJSON(w, http.StatusOK, entities.BookingsList{Total: len(bookings), Bookings: bookings})
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := h.Service.Booking(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := h.Service.CancelBooking(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) ExtendBooking(w http.ResponseWriter, r *http.Request) {
	var req ExtendBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperrors.NewInvalidArgumentError("invalid request body"))
		return
	}

	booking, err := h.Service.ExtendBooking(mux.Vars(r)["id"], req.AdditionalHours)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, booking)
}
