package models

type ZoneSeverity string

const (
	ZoneSeverityLow      ZoneSeverity = "low"
	ZoneSeverityMedium   ZoneSeverity = "medium"
	ZoneSeverityHigh     ZoneSeverity = "high"
	ZoneSeverityCritical ZoneSeverity = "critical"
)

// Rank orders severities for sorting, higher is worse.
func (s ZoneSeverity) Rank() int {
	switch s {
	case ZoneSeverityCritical:
		return 4
	case ZoneSeverityHigh:
		return 3
	case ZoneSeverityMedium:
		return 2
	case ZoneSeverityLow:
		return 1
	default:
		return 0
	}
}

// FloodZone is a hazardous polygon that routes should avoid. The
// polygon is a closed ring and is never mutated after load.
type FloodZone struct {
	ID            string       `json:"id" yaml:"id"`
	Name          string       `json:"name" yaml:"name"`
	State         string       `json:"state" yaml:"state"`
	District      string       `json:"district" yaml:"district"`
	Severity      ZoneSeverity `json:"severity" yaml:"severity"`
	Polygon       []Coordinate `json:"polygon" yaml:"polygon"`
	AffectedRoads []string     `json:"affected_roads" yaml:"affected_roads"`
}
