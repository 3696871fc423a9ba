package travel

// Destination names a sellable market and the zip codes that do not qualify
// for the campaign offer.
type Destination struct {
	Destination string   `json:"destination"`
	NqZipCodes  []string `json:"nqZipCodes,omitempty"`
}

// Package describes the vacation package attached to the active campaign.
type Package struct {
	CampaignID        string        `json:"campaignId"`
	PackageID         string        `json:"packageId"`
	PackageExpiration string        `json:"packageExpiration"`
	AccommodationType string        `json:"accommodationType"`
	PackageName       string        `json:"packageName"`
	Destinations      []Destination `json:"destination"`
}

// PrimaryDestination returns the first destination on the package, which the
// scripted flow offers before any alternatives.
func (p Package) PrimaryDestination() (Destination, bool) {
	if len(p.Destinations) == 0 {
		return Destination{}, false
	}
	return p.Destinations[0], true
}
