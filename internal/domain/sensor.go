package domain

import "math"

// Sensor keys in the reading document.
const (
	SensorMQ3   = "MQ-3"
	SensorMQ4   = "MQ-4"
	SensorMQ135 = "MQ-135"
)

// MatchThreshold is the reading at which a sensor identifies a scent.
const MatchThreshold = 30

// Readings is one snapshot of the three gas sensors.
type Readings struct {
	MQ3   float64 `json:"MQ-3"`
	MQ4   float64 `json:"MQ-4"`
	MQ135 float64 `json:"MQ-135"`
}

// Progress is the mean of the three readings capped at 100.
func (r Readings) Progress() float64 {
	return math.Min(100, (r.MQ3+r.MQ4+r.MQ135)/3)
}

// Complete reports whether this snapshot finishes sensing.
func (r Readings) Complete() bool {
	return r.Progress() >= 100
}

// SensingState is a scent finder phase.
type SensingState string

const (
	SensingInitial    SensingState = "initial"
	SensingActive     SensingState = "sensing"
	SensingProcessing SensingState = "processing"
	SensingResults    SensingState = "results"
)

// Scent-finder product ids.
const (
	ScentAlcoholMatch = 301
	ScentMethaneMatch = 302
)

// Classify maps a completed snapshot onto a scent-finder product id.
func Classify(r Readings) (int, bool) {
	switch {
	case r.MQ3 >= MatchThreshold:
		return ScentAlcoholMatch, true
	case r.MQ4 >= MatchThreshold:
		return ScentMethaneMatch, true
	default:
		return 0, false
	}
}
