package model

import "time"

// Earthquake is a single seismic event as read from an input file.
// The mapper treats it as read-only.
type Earthquake struct {
	Latitude  float64   `json:"latitude" yaml:"latitude"`   // WGS84 degrees
	Longitude float64   `json:"longitude" yaml:"longitude"` // WGS84 degrees
	Magnitude float64   `json:"magnitude" yaml:"magnitude"` // Reported magnitude, scale unspecified
	Place     string    `json:"place" yaml:"place"`         // Human-readable location
	Time      time.Time `json:"time" yaml:"time"`           // When the event occurred
}

// EventKind classifies the semantic class a record is mapped to
type EventKind string

const (
	EventKindEarthquake EventKind = "Earthquake" // Local name under the eq namespace
)
