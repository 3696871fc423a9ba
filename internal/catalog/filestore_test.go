package catalog_test

import (
	"context"
	"testing"

	"github.com/oakview/vacationdesk/internal/catalog"
)

func newTestStore(t *testing.T) *catalog.FileStore {
	t.Helper()
	store, err := catalog.NewFileStore("testdata")
	if err != nil {
		t.Fatalf("NewFileStore err: %v", err)
	}
	return store
}

func TestNewFileStoreMissingDir(t *testing.T) {
	if _, err := catalog.NewFileStore("testdata/does-not-exist"); err == nil {
		t.Fatal("expected error for missing data directory")
	}
}

func TestPackagePrimaryDestination(t *testing.T) {
	store := newTestStore(t)

	pkg, err := store.Package(context.Background())
	if err != nil {
		t.Fatalf("Package err: %v", err)
	}

	if pkg.PackageName != "Oakview Orlando Getaway" {
		t.Fatalf("unexpected package name: %s", pkg.PackageName)
	}

	dest, ok := pkg.PrimaryDestination()
	if !ok {
		t.Fatal("expected a primary destination")
	}
	if dest.Destination != "ORLANDO" {
		t.Fatalf("unexpected primary destination: %s", dest.Destination)
	}
}

func TestAvailabilitySummaryReturnsAllRanges(t *testing.T) {
	store := newTestStore(t)

	avail, err := store.Availability(context.Background(), catalog.AvailabilityQuery{})
	if err != nil {
		t.Fatalf("Availability err: %v", err)
	}

	if len(avail.AvailableDates) != 3 {
		t.Fatalf("expected 3 date ranges, got %d", len(avail.AvailableDates))
	}
	if avail.Destination != "ORLANDO" {
		t.Fatalf("unexpected destination: %s", avail.Destination)
	}
}

func TestAvailabilityFiltersToWindow(t *testing.T) {
	store := newTestStore(t)

	avail, err := store.Availability(context.Background(), catalog.AvailabilityQuery{
		StartDate: "2025-09-01",
		EndDate:   "2025-09-30",
	})
	if err != nil {
		t.Fatalf("Availability err: %v", err)
	}

	if len(avail.AvailableDates) != 1 {
		t.Fatalf("expected 1 date range in September, got %d", len(avail.AvailableDates))
	}
	if avail.AvailableDates[0].FirstNight != "2025-09-12" {
		t.Fatalf("unexpected range: %+v", avail.AvailableDates[0])
	}
}

func TestAvailabilityEmptyWindow(t *testing.T) {
	store := newTestStore(t)

	avail, err := store.Availability(context.Background(), catalog.AvailabilityQuery{
		StartDate: "2026-01-01",
		EndDate:   "2026-01-31",
	})
	if err != nil {
		t.Fatalf("Availability err: %v", err)
	}

	if len(avail.AvailableDates) != 0 {
		t.Fatalf("expected no matches, got %d", len(avail.AvailableDates))
	}
}

func TestAccommodationsCoverFullStay(t *testing.T) {
	store := newTestStore(t)

	// Four nights from 2025-09-12 ends on 2025-09-15; only Oakview Lakes
	// covers the window.
	accs, err := store.Accommodations(context.Background(), catalog.AccommodationQuery{
		CheckInDate:  "2025-09-12",
		LengthOfStay: 4,
	})
	if err != nil {
		t.Fatalf("Accommodations err: %v", err)
	}

	if len(accs) != 1 {
		t.Fatalf("expected 1 accommodation, got %d", len(accs))
	}
	if accs[0].PropertyCode != "OAK-OL" {
		t.Fatalf("unexpected property: %s", accs[0].PropertyCode)
	}
}

func TestAccommodationsShortStayMatchesBoth(t *testing.T) {
	store := newTestStore(t)

	accs, err := store.Accommodations(context.Background(), catalog.AccommodationQuery{
		CheckInDate:  "2025-09-12",
		LengthOfStay: 2,
	})
	if err != nil {
		t.Fatalf("Accommodations err: %v", err)
	}

	if len(accs) != 2 {
		t.Fatalf("expected 2 accommodations, got %d", len(accs))
	}
}

func TestAccommodationsRejectsBadInput(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Accommodations(ctx, catalog.AccommodationQuery{CheckInDate: "not-a-date", LengthOfStay: 2}); err == nil {
		t.Fatal("expected error for invalid check-in date")
	}
	if _, err := store.Accommodations(ctx, catalog.AccommodationQuery{CheckInDate: "2025-09-12", LengthOfStay: 0}); err == nil {
		t.Fatal("expected error for zero-night stay")
	}
}
