package models

type ShelterStatus string

const (
	ShelterStatusOperational ShelterStatus = "operational"
	ShelterStatusClosed      ShelterStatus = "closed"
	ShelterStatusFull        ShelterStatus = "full"
)

type Shelter struct {
	ID         string        `json:"shelter_id" yaml:"shelter_id"`
	Name       string        `json:"name" yaml:"name"`
	Coordinate Coordinate    `json:"coordinate" yaml:"coordinate"`
	State      string        `json:"state" yaml:"state"`
	District   string        `json:"district" yaml:"district"`
	Capacity   int           `json:"capacity" yaml:"capacity"`
	Occupied   int           `json:"occupied" yaml:"occupied"`
	Status     ShelterStatus `json:"status" yaml:"status"`
	Amenities  []string      `json:"amenities" yaml:"amenities"`
	Contact    string        `json:"contact" yaml:"contact"`
}

// CapacityAvailable is the number of people the shelter can still take.
func (s *Shelter) CapacityAvailable() int {
	return s.Capacity - s.Occupied
}

// Selectable reports whether the shelter may be offered as an
// evacuation destination.
func (s *Shelter) Selectable() bool {
	return s.Status == ShelterStatusOperational && s.CapacityAvailable() > 0
}
