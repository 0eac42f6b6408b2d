package api

import (
	"net/http"

	"campusparking/internal/db"
	"campusparking/internal/service"

	"github.com/gorilla/mux"
)

type SlotHandler struct {
	Service *service.BookingService
}

func NewSlotHandler(svc *service.BookingService) *SlotHandler {
	return &SlotHandler{Service: svc}
}

// ListSlots handles GET /api/slots?zone=left-wing|right-wing.
func (h *SlotHandler) ListSlots(w http.ResponseWriter, r *http.Request) {
	zone := db.Zone(r.URL.Query().Get("zone"))
	slots, err := h.Service.Slots(zone, h.Service.Now().UTC())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, slots)
}

func (h *SlotHandler) GetSlot(w http.ResponseWriter, r *http.Request) {
	slot, err := h.Service.SlotByID(mux.Vars(r)["id"], h.Service.Now().UTC())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, slot)
}

// GetSlotBookings returns all active bookings for the slot, including future
// ones.
func (h *SlotHandler) GetSlotBookings(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := h.Service.SlotByID(id, h.Service.Now().UTC()); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.Service.SlotBookings(id))
}

// GetSlotBooking returns the booking currently in progress on the slot, or
// 404 when the slot is free right now.
func (h *SlotHandler) GetSlotBooking(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	now := h.Service.Now().UTC()
	if _, err := h.Service.SlotByID(id, now); err != nil {
		respondError(w, err)
		return
	}
	booking, err := h.Service.SlotBooking(id, now)
	if err != nil {
		respondError(w, err)
		return
	}
	if booking == nil {
		respondJSON(w, http.StatusNotFound, ErrorResponse{Error: "no booking in progress for slot '" + id + "'"})
		return
	}
	respondJSON(w, http.StatusOK, booking)
}

func (h *SlotHandler) ListAvailableSlots(w http.ResponseWriter, r *http.Request) {
	slots, err := h.Service.AvailableSlots(h.Service.Now().UTC())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, slots)
}

func (h *SlotHandler) ListOccupiedSlots(w http.ResponseWriter, r *http.Request) {
	slots, err := h.Service.OccupiedSlots(h.Service.Now().UTC())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, slots)
}

func (h *SlotHandler) GetAvailabilityStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.Service.AvailabilityStats(h.Service.Now().UTC()))
}
