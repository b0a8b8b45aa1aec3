package models

import (
	"math"
	"time"
)

// Venue represents a pub record with its geographic labels
type Venue struct {
	ID        string   `json:"id" db:"id"`
	Name      string   `json:"name" db:"name"`
	Address   string   `json:"address,omitempty" db:"address"`
	Area      string   `json:"area,omitempty" db:"area"`
	Borough   string   `json:"borough,omitempty" db:"borough"`
	Ownership string   `json:"ownership,omitempty" db:"ownership"`
	Lat       *float64 `json:"lat,omitempty" db:"lat"`
	Lon       *float64 `json:"lon,omitempty" db:"lon"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// HasCoordinates reports whether the venue carries a usable coordinate pair.
// Venues without coordinates are excluded from distance computations but are
// still counted in run summaries.
func (v *Venue) HasCoordinates() bool {
	if v.Lat == nil || v.Lon == nil {
		return false
	}
	if math.IsNaN(*v.Lat) || math.IsInf(*v.Lat, 0) {
		return false
	}
	if math.IsNaN(*v.Lon) || math.IsInf(*v.Lon, 0) {
		return false
	}
	return true
}

// VenueFilter contains filter parameters for venue queries
type VenueFilter struct {
	Area     string
	Borough  string
	Page     int
	PageSize int
}

// VenueUpdate is a partial field update applied to a single venue.
// Borough is only written when non-nil, mirroring the partial payloads the
// merge executor issues (area always, borough only when the decision carries one).
type VenueUpdate struct {
	Area    string
	Borough *string
}
