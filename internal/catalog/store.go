// Package catalog provides read-only access to the campaign's package,
// availability, and accommodation data, either from the static JSON feed or
// from the partner MuleSoft API.
package catalog

import (
	"context"

	"github.com/oakview/vacationdesk/internal/model/travel"
)

// AvailabilityQuery narrows the availability picture to a search window.
// A zero-value window returns the full summary. Guests and LengthOfStay are
// carried for backends that require them; the static feed ignores them.
type AvailabilityQuery struct {
	StartDate    string
	EndDate      string
	Guests       int
	LengthOfStay int
}

// AccommodationQuery selects accommodations for a concrete stay.
type AccommodationQuery struct {
	CheckInDate  string
	LengthOfStay int
	Guests       int
}

// Store exposes campaign data lookups to the tool functions and handlers.
type Store interface {
	Package(ctx context.Context) (travel.Package, error)
	Availability(ctx context.Context, q AvailabilityQuery) (travel.Availability, error)
	Accommodations(ctx context.Context, q AccommodationQuery) ([]travel.Accommodation, error)
}
