package agent

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"

	"github.com/oakview/vacationdesk/internal/catalog"
	"github.com/oakview/vacationdesk/internal/model/travel"
)

type packageSummaryInput struct{}

type zipVerificationInput struct {
	Destination string `json:"destination" jsonschema:"description=Destination name the guest confirmed"`
	ZipCode     string `json:"zip_code" jsonschema:"description=Zip code provided by the guest"`
}

type availabilityInput struct {
	NumberOfGuests  int    `json:"number_of_guests" jsonschema:"description=Number of guests for the stay"`
	SearchStartDate string `json:"search_start_date,omitempty" jsonschema:"description=Window start in YYYY-MM-DD format; omit to see every available range"`
	SearchEndDate   string `json:"search_end_date,omitempty" jsonschema:"description=Window end in YYYY-MM-DD format; omit to see every available range"`
}

type accommodationsInput struct {
	CheckInDate    string `json:"check_in_date" jsonschema:"description=Check-in date in YYYY-MM-DD format"`
	LengthOfStay   int    `json:"length_of_stay" jsonschema:"description=Stay length in nights"`
	NumberOfGuests int    `json:"number_of_guests,omitempty" jsonschema:"description=Number of guests for the stay"`
}

type accommodationsOutput struct {
	Accommodations []travel.Accommodation `json:"accommodations"`
}

type bookingSummaryInput struct {
	Destination    string `json:"destination" jsonschema:"description=Confirmed destination"`
	CheckInDate    string `json:"check_in_date" jsonschema:"description=Check-in date in YYYY-MM-DD format"`
	LengthOfStay   int    `json:"length_of_stay" jsonschema:"description=Stay length in nights"`
	NumberOfGuests int    `json:"number_of_guests" jsonschema:"description=Number of guests"`
	PropertyCode   string `json:"property_code" jsonschema:"description=Code of the chosen property"`
	RoomTypeCode   string `json:"room_type_code" jsonschema:"description=Code of the chosen room type"`
	TourDate       string `json:"tour_date" jsonschema:"description=Chosen tour date in YYYY-MM-DD format"`
	TourTime       string `json:"tour_time" jsonschema:"description=Chosen tour time"`
	ZipCode        string `json:"zip_code" jsonschema:"description=Guest zip code"`
}

// tools assembles the capability set exposed to the model. Each tool is bound
// to this conversation so recorded state lands on the right session.
func (c *Conversation) tools() ([]tool.BaseTool, error) {
	packageSummary, err := utils.InferTool("get_package_summary",
		"Get the vacation package on offer including its destinations and expiration.",
		c.toolPackageSummary)
	if err != nil {
		return nil, err
	}

	zipVerification, err := utils.InferTool("verify_zip_code",
		"Check whether the guest's zip code qualifies for the confirmed destination.",
		c.toolVerifyZipCode)
	if err != nil {
		return nil, err
	}

	availability, err := utils.InferTool("get_availability",
		"List available stay date ranges with their tour dates and times.",
		c.toolAvailability)
	if err != nil {
		return nil, err
	}

	accommodations, err := utils.InferTool("get_accommodations",
		"List accommodations available for a check-in date and length of stay.",
		c.toolAccommodations)
	if err != nil {
		return nil, err
	}

	recordSummary, err := utils.InferTool("record_booking_summary",
		"Record the final booking summary once the guest has confirmed every detail.",
		c.toolRecordBookingSummary)
	if err != nil {
		return nil, err
	}

	return []tool.BaseTool{packageSummary, zipVerification, availability, accommodations, recordSummary}, nil
}

func (c *Conversation) toolPackageSummary(ctx context.Context, _ packageSummaryInput) (travel.Package, error) {
	log.Printf("[agent] session=%s tool=get_package_summary", c.sessionID)
	return c.catalog.Package(ctx)
}

func (c *Conversation) toolVerifyZipCode(ctx context.Context, in zipVerificationInput) (string, error) {
	destination := strings.ToUpper(strings.TrimSpace(in.Destination))
	zip := strings.TrimSpace(in.ZipCode)
	log.Printf("[agent] session=%s tool=verify_zip_code destination=%s", c.sessionID, destination)

	pkg, err := c.catalog.Package(ctx)
	if err != nil {
		return "", fmt.Errorf("load package for zip verification: %w", err)
	}

	for _, dest := range pkg.Destinations {
		if strings.ToUpper(dest.Destination) != destination {
			continue
		}
		for _, nq := range dest.NqZipCodes {
			if nq == zip {
				return fmt.Sprintf("The zip code %s is not valid for %s. Please provide a different zip code.", zip, dest.Destination), nil
			}
		}
		return fmt.Sprintf("The zip code %s is valid for %s. Let's continue with your vacation booking.", zip, dest.Destination), nil
	}

	return fmt.Sprintf("Unable to verify zip code: destination %q is not part of the current package.", in.Destination), nil
}

func (c *Conversation) toolAvailability(ctx context.Context, in availabilityInput) (travel.Availability, error) {
	log.Printf("[agent] session=%s tool=get_availability guests=%d window=%s..%s",
		c.sessionID, in.NumberOfGuests, in.SearchStartDate, in.SearchEndDate)

	return c.catalog.Availability(ctx, catalog.AvailabilityQuery{
		StartDate: strings.TrimSpace(in.SearchStartDate),
		EndDate:   strings.TrimSpace(in.SearchEndDate),
		Guests:    in.NumberOfGuests,
	})
}

func (c *Conversation) toolAccommodations(ctx context.Context, in accommodationsInput) (accommodationsOutput, error) {
	log.Printf("[agent] session=%s tool=get_accommodations checkin=%s nights=%d",
		c.sessionID, in.CheckInDate, in.LengthOfStay)

	accs, err := c.catalog.Accommodations(ctx, catalog.AccommodationQuery{
		CheckInDate:  strings.TrimSpace(in.CheckInDate),
		LengthOfStay: in.LengthOfStay,
		Guests:       in.NumberOfGuests,
	})
	if err != nil {
		return accommodationsOutput{}, err
	}
	return accommodationsOutput{Accommodations: accs}, nil
}

func (c *Conversation) toolRecordBookingSummary(_ context.Context, in bookingSummaryInput) (string, error) {
	summary := travel.BookingSummary{
		Destination:    strings.TrimSpace(in.Destination),
		CheckInDate:    strings.TrimSpace(in.CheckInDate),
		LengthOfStay:   in.LengthOfStay,
		NumberOfGuests: in.NumberOfGuests,
		PropertyCode:   strings.TrimSpace(in.PropertyCode),
		RoomTypeCode:   strings.TrimSpace(in.RoomTypeCode),
		TourDate:       strings.TrimSpace(in.TourDate),
		TourTime:       strings.TrimSpace(in.TourTime),
		ZipCode:        strings.TrimSpace(in.ZipCode),
		RecordedAt:     time.Now().UTC(),
	}
	c.recordSummary(summary)
	log.Printf("[agent] session=%s tool=record_booking_summary property=%s room=%s",
		c.sessionID, summary.PropertyCode, summary.RoomTypeCode)

	return fmt.Sprintf("Booking summary recorded for %s: check-in %s for %d night(s) with %d guest(s), property %s room %s, tour on %s at %s.",
		summary.Destination, summary.CheckInDate, summary.LengthOfStay, summary.NumberOfGuests,
		summary.PropertyCode, summary.RoomTypeCode, summary.TourDate, summary.TourTime), nil
}
