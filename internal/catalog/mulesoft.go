package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/oakview/vacationdesk/internal/model/travel"
)

const defaultMulesoftTimeout = 30 * time.Second

// Client is a Store backed by the partner MuleSoft vacation-package API.
// The package record is fetched once and reused to derive the campaign
// parameters the availability and accommodation endpoints require.
type Client struct {
	baseURL   string
	env       string
	packageID string
	http      *http.Client

	mu  sync.Mutex
	pkg *travel.Package
}

var _ Store = (*Client)(nil)

// NewClient builds a MuleSoft catalog client. env is passed as the X-Env
// header selecting the partner environment.
func NewClient(baseURL, env, packageID string) *Client {
	return &Client{
		baseURL:   baseURL,
		env:       env,
		packageID: packageID,
		http:      &http.Client{Timeout: defaultMulesoftTimeout},
	}
}

// Package fetches the campaign package, caching the first successful result
// for the process lifetime.
func (c *Client) Package(ctx context.Context) (travel.Package, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pkg != nil {
		return *c.pkg, nil
	}

	params := url.Values{"packageId": {c.packageID}}
	var pkg travel.Package
	if err := c.get(ctx, "/consumerweb/vacationPackages/orders", params, &pkg); err != nil {
		return travel.Package{}, fmt.Errorf("fetch package: %w", err)
	}

	c.pkg = &pkg
	return pkg, nil
}

// Availability queries the availability endpoint for the campaign package.
func (c *Client) Availability(ctx context.Context, q AvailabilityQuery) (travel.Availability, error) {
	pkg, err := c.Package(ctx)
	if err != nil {
		return travel.Availability{}, err
	}

	destination := ""
	if d, ok := pkg.PrimaryDestination(); ok {
		destination = d.Destination
	}

	params := url.Values{
		"packageId":             {pkg.PackageID},
		"destination":           {destination},
		"lengthOfStay":          {strconv.Itoa(q.LengthOfStay)},
		"campaignIntitiativeId": {pkg.CampaignID},
		"accommodationType":     {pkg.AccommodationType},
		"numberOfGuests":        {strconv.Itoa(q.Guests)},
		"searchStartDate":       {q.StartDate},
		"searchEndDate":         {q.EndDate},
	}

	var out travel.Availability
	if err := c.get(ctx, "/consumerweb/vacationPackages/orders/availabilities", params, &out); err != nil {
		return travel.Availability{}, fmt.Errorf("fetch availabilities: %w", err)
	}
	return out, nil
}

// Accommodations queries the accommodation endpoint for a concrete stay.
func (c *Client) Accommodations(ctx context.Context, q AccommodationQuery) ([]travel.Accommodation, error) {
	pkg, err := c.Package(ctx)
	if err != nil {
		return nil, err
	}

	destination := ""
	if d, ok := pkg.PrimaryDestination(); ok {
		destination = d.Destination
	}

	params := url.Values{
		"campaignInitiativeId": {pkg.CampaignID},
		"accommodationType":    {pkg.AccommodationType},
		"lengthOfStay":         {strconv.Itoa(q.LengthOfStay)},
		"numberOfGuests":       {strconv.Itoa(q.Guests)},
		"destination":          {destination},
		"checkinDate":          {q.CheckInDate},
	}

	var out []travel.Accommodation
	if err := c.get(ctx, "/consumerweb/vacationPackages/orders/accommodations", params, &out); err != nil {
		return nil, fmt.Errorf("fetch accommodations: %w", err)
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.env != "" {
		req.Header.Set("X-Env", c.env)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
