package db

import "fmt"

// DefaultCatalog returns the campus parking slots: building A on the left
// wing, building B on the right wing, two rows of five each.
func DefaultCatalog() []Slot {
	var slots []Slot
	slots = append(slots, wing("LW", "A", ZoneLeftWing, []float64{4, 4, 5, 5, 6, 4, 4, 5, 5, 6})...)
	slots = append(slots, wing("RW", "B", ZoneRightWing, []float64{5, 5, 6, 7, 8, 5, 5, 6, 7, 8})...)
	return slots
}

func wing(prefix, building string, zone Zone, prices []float64) []Slot {
	slots := make([]Slot, 0, len(prices))
	for i, price := range prices {
		slots = append(slots, Slot{
			ID:       fmt.Sprintf("%s-%02d", prefix, i+1),
			Building: building,
			Zone:     zone,
			Price:    price,
			Row:      i/5 + 1,
			Position: i%5 + 1,
		})
	}
	return slots
}
