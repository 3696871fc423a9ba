package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oakview/vacationdesk/internal/model/travel"
)

// Feed file names, matching the campaign data drop.
const (
	packageFile       = "PackageDetails.json"
	availabilityFile  = "availabilities.json"
	accommodationFile = "accommodations.json"
)

// FileStore serves campaign data loaded once from a directory of JSON files.
// All data is immutable after construction, so reads need no locking.
type FileStore struct {
	pkg            travel.Package
	availability   travel.Availability
	accommodations []travel.Accommodation
}

var _ Store = (*FileStore)(nil)

// NewFileStore loads the three feed files from dir. Any missing or malformed
// file is an error; callers treat that as fatal at startup.
func NewFileStore(dir string) (*FileStore, error) {
	s := &FileStore{}

	if err := readJSONFile(filepath.Join(dir, packageFile), &s.pkg); err != nil {
		return nil, err
	}
	if err := readJSONFile(filepath.Join(dir, availabilityFile), &s.availability); err != nil {
		return nil, err
	}
	if err := readJSONFile(filepath.Join(dir, accommodationFile), &s.accommodations); err != nil {
		return nil, err
	}

	return s, nil
}

func readJSONFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Package returns the campaign package.
func (s *FileStore) Package(_ context.Context) (travel.Package, error) {
	return s.pkg, nil
}

// Availability returns the date ranges falling inside the query window, or
// the full summary when the window is empty. Dates are YYYY-MM-DD strings, so
// plain string comparison orders them correctly.
func (s *FileStore) Availability(_ context.Context, q AvailabilityQuery) (travel.Availability, error) {
	out := s.availability
	if q.StartDate == "" && q.EndDate == "" {
		out.AvailableDates = append([]travel.DateRange(nil), s.availability.AvailableDates...)
		return out, nil
	}

	ranges := make([]travel.DateRange, 0, len(s.availability.AvailableDates))
	for _, r := range s.availability.AvailableDates {
		if q.StartDate != "" && r.FirstNight < q.StartDate {
			continue
		}
		if q.EndDate != "" && r.LastNight > q.EndDate {
			continue
		}
		ranges = append(ranges, r)
	}
	out.AvailableDates = ranges
	return out, nil
}

// Accommodations returns properties available for the exact check-in date
// whose stay window covers the requested number of nights.
func (s *FileStore) Accommodations(_ context.Context, q AccommodationQuery) ([]travel.Accommodation, error) {
	if q.LengthOfStay < 1 {
		return nil, fmt.Errorf("length of stay must be at least 1 night, got %d", q.LengthOfStay)
	}

	checkIn, err := time.Parse("2006-01-02", q.CheckInDate)
	if err != nil {
		return nil, fmt.Errorf("invalid check-in date %q: %w", q.CheckInDate, err)
	}
	lastNight := checkIn.AddDate(0, 0, q.LengthOfStay-1).Format("2006-01-02")

	matches := make([]travel.Accommodation, 0, 4)
	for _, a := range s.accommodations {
		if a.FirstNight != q.CheckInDate {
			continue
		}
		if a.LastNight < lastNight {
			continue
		}
		matches = append(matches, a)
	}
	return matches, nil
}
