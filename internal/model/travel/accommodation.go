package travel

// RoomType describes one bookable room category at a property.
type RoomType struct {
	PropertyRoomTypeID int    `json:"propertyRoomTypeId"`
	RoomTypeCode       string `json:"roomTypeCode"`
	Description        string `json:"description"`
	Occupancy          int    `json:"occupancy"`
}

// Accommodation is a property's offer for a concrete stay window.
type Accommodation struct {
	FirstNight   string     `json:"firstNight"`
	LastNight    string     `json:"lastNight"`
	PropertyCode string     `json:"propertyCode"`
	Name         string     `json:"name"`
	RoomTypes    []RoomType `json:"roomTypes"`
}
