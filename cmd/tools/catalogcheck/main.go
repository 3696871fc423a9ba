// Command catalogcheck probes a catalog backend before a campaign goes live.
// It loads the configured store (file or MuleSoft), fetches the package, and
// optionally runs availability and accommodation lookups against it.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/oakview/vacationdesk/internal/catalog"
	"github.com/oakview/vacationdesk/internal/config"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env, using system environment: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	dataDir := flag.String("data", "", "override the catalog data directory")
	start := flag.String("start", "", "availability window start (YYYY-MM-DD)")
	end := flag.String("end", "", "availability window end (YYYY-MM-DD)")
	checkin := flag.String("checkin", "", "accommodation check-in date (YYYY-MM-DD)")
	nights := flag.Int("nights", 4, "length of stay for the accommodation probe")
	guests := flag.Int("guests", 2, "party size for availability and accommodation probes")
	timeout := flag.Duration("timeout", 45*time.Second, "request timeout")

	flag.Parse()

	if *dataDir != "" {
		cfg.Catalog.Source = config.CatalogSourceFile
		cfg.Catalog.DataDir = *dataDir
	}

	store, err := newStore(cfg.Catalog)
	if err != nil {
		log.Fatalf("failed to open catalog: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	checkPackage(ctx, store)
	checkAvailability(ctx, store, *start, *end, *guests)
	if *checkin != "" {
		checkAccommodations(ctx, store, *checkin, *nights, *guests)
	}
}

func newStore(cfg config.CatalogConfig) (catalog.Store, error) {
	if cfg.Source == config.CatalogSourceMuleSoft {
		log.Printf("probing MuleSoft catalog at %s (env=%s)", cfg.MuleSoftBaseURL, cfg.MuleSoftEnv)
		return catalog.NewClient(cfg.MuleSoftBaseURL, cfg.MuleSoftEnv, cfg.PackageID), nil
	}
	log.Printf("probing file catalog in %s", cfg.DataDir)
	return catalog.NewFileStore(cfg.DataDir)
}

func checkPackage(ctx context.Context, store catalog.Store) {
	pkg, err := store.Package(ctx)
	if err != nil {
		log.Fatalf("package lookup failed: %v", err)
	}

	log.Printf("package: id=%s campaign=%s name=%q expires=%s", pkg.PackageID, pkg.CampaignID, pkg.PackageName, pkg.PackageExpiration)
	for _, d := range pkg.Destinations {
		log.Printf("  destination %s (%d non-qualifying zip codes)", d.Destination, len(d.NqZipCodes))
	}
	if len(pkg.Destinations) == 0 {
		log.Print("  warning: package has no destinations, the greeting will fall back to the generic script")
	}
}

func checkAvailability(ctx context.Context, store catalog.Store, start, end string, guests int) {
	q := catalog.AvailabilityQuery{StartDate: start, EndDate: end, Guests: guests}
	avail, err := store.Availability(ctx, q)
	if err != nil {
		log.Fatalf("availability lookup failed: %v", err)
	}

	if start != "" || end != "" {
		log.Printf("availability in window %s..%s: %d date range(s)", start, end, len(avail.AvailableDates))
	} else {
		log.Printf("availability summary: %d date range(s)", len(avail.AvailableDates))
	}
	for _, r := range avail.AvailableDates {
		tours := 0
		for _, td := range r.TourDates {
			tours += len(td.Tours)
		}
		log.Printf("  %s -> %s (%d tour dates, %d tour slots)", r.FirstNight, r.LastNight, len(r.TourDates), tours)
	}
}

func checkAccommodations(ctx context.Context, store catalog.Store, checkin string, nights, guests int) {
	q := catalog.AccommodationQuery{CheckInDate: checkin, LengthOfStay: nights, Guests: guests}
	accs, err := store.Accommodations(ctx, q)
	if err != nil {
		log.Fatalf("accommodation lookup failed: %v", err)
	}

	log.Printf("accommodations for %s, %d night(s), %d guest(s): %d match(es)", checkin, nights, guests, len(accs))
	for _, a := range accs {
		log.Printf("  %s %q (%d room types)", a.PropertyCode, a.Name, len(a.RoomTypes))
	}
}
