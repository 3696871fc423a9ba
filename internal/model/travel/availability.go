package travel

// Tour is a single bookable presentation slot.
type Tour struct {
	TourID          int    `json:"tourId"`
	NumberAvailable int    `json:"numberAvailable"`
	Time            string `json:"time"`
}

// TourDate groups the tours offered on one calendar day.
type TourDate struct {
	TourDate string `json:"tourDate"`
	Tours    []Tour `json:"tours"`
}

// DateRange is a stay window with the tour dates available inside it.
// FirstNight and LastNight are YYYY-MM-DD strings, matching the feed.
type DateRange struct {
	FirstNight string     `json:"firstNight"`
	LastNight  string     `json:"lastNight"`
	TourDates  []TourDate `json:"tourDates"`
}

// Availability is the full availability picture for a campaign destination.
type Availability struct {
	Destination    string      `json:"destination"`
	Campaign       string      `json:"campaign"`
	AvailableDates []DateRange `json:"availableDates"`
}
