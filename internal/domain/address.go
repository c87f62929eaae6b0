package domain

import "time"

// Address is a geocoded address keyed by its raw text.
// A nil Coords marks a failed lookup and never counts as a cache hit.
type Address struct {
	Title       string
	Coords      *Coordinates
	RequestedAt time.Time
}

// Located reports whether the address carries usable coordinates.
func (a Address) Located() bool { return a.Coords != nil }
