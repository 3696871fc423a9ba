package travel

import "time"

// BookingSummary is the structured recap the agent records once the guest has
// confirmed every choice in the sales flow.
type BookingSummary struct {
	Destination    string    `json:"destination"`
	CheckInDate    string    `json:"checkInDate"`
	LengthOfStay   int       `json:"lengthOfStay"`
	NumberOfGuests int       `json:"numberOfGuests"`
	PropertyCode   string    `json:"propertyCode"`
	RoomTypeCode   string    `json:"roomTypeCode"`
	TourDate       string    `json:"tourDate"`
	TourTime       string    `json:"tourTime"`
	ZipCode        string    `json:"zipCode,omitempty"`
	RecordedAt     time.Time `json:"recordedAt"`
}
