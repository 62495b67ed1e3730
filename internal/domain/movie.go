package domain

import "time"

// FlopThreshold is the total gross a movie must reach to not count as a flop.
const FlopThreshold int64 = 225_000_000

// IsFlop reports whether a movie with the given total gross is a flop.
// A nil total gross means no figure is on record and counts as a flop.
func IsFlop(totalGross *int64) bool {
	return totalGross == nil || *totalGross < FlopThreshold
}

// Revenue captures the nested revenue payload returned by the box office API.
type Revenue struct {
	Worldwide        *int64 `json:"worldwide,omitempty"`
	OpeningWeekendUS *int64 `json:"openingWeekendUSA,omitempty"`
}

// BoxOffice mirrors the upstream boxOffice object.
type BoxOffice struct {
	Revenue     Revenue   `json:"revenue"`
	Currency    string    `json:"currency"`
	Source      string    `json:"source"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Movie represents the canonical movie entity in the database/service.
type Movie struct {
	ID          string
	Title       string
	ReleaseDate time.Time
	ReleaseYear int
	Genre       string
	Distributor *string
	Budget      *int64
	MpaRating   *string
	TotalGross  *int64
	BoxOffice   *BoxOffice
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsFlop applies IsFlop to the movie's loaded total gross.
func (m Movie) IsFlop() bool {
	return IsFlop(m.TotalGross)
}

// FlopSummary counts flops and hits across the catalogue.
type FlopSummary struct {
	Total     int64
	Flops     int64
	Hits      int64
	Threshold int64
}
