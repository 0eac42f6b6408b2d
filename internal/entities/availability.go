package entities

// AvailabilityStats summarizes the whole catalog at one instant. A slot with
// at least one active booking counts as occupied when it is fully booked and
// as reserved otherwise; everything else is available.
type AvailabilityStats struct {
	Total                  int     `json:"total"`
	Available              int     `json:"available"`
	Reserved               int     `json:"reserved"`
	Occupied               int     `json:"occupied"`
	AvailabilityPercentage float64 `json:"availability_percentage"`
}
