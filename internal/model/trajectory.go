package model

import "time"

// Taxi mirrors the `taxis` table.
type Taxi struct {
	ID    uint64 `db:"id"`
	Plate string `db:"plate"`
}

// Trajectory is one positional sample of a taxi as stored in the
// `trajectories` table. Date holds the full sample timestamp; queries scope
// it to a calendar day.
type Trajectory struct {
	ID        uint64    `db:"id"`
	TaxiID    uint64    `db:"taxi_id"`
	Plate     string    `db:"plate"`
	Date      time.Time `db:"date"`
	Latitude  float64   `db:"latitude"`
	Longitude float64   `db:"longitude"`
}

// Page is a zero-based page request.
type Page struct {
	Number int
	Size   int
}

// Offset returns the number of rows skipped before this page.
func (p Page) Offset() int {
	return p.Number * p.Size
}
