package atapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/atnz/at-engine/src/common/types"
	"github.com/atnz/at-engine/src/common/utils"
)

const requestTimeout = 10 * time.Second

// ErrInvalidCredentials is returned by ValidateKey when the API rejects
// the subscription key. It is the only fatal error in the pipeline.
var ErrInvalidCredentials = errors.New("atapi: invalid credentials")

// TransportError wraps a failed upstream call. Callers treat it as
// recoverable: the poll degrades to "no new data".
type TransportError struct {
	URL    string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("atapi: request to %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("atapi: request to %s returned status %d", e.URL, e.Status)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Client talks to the Auckland Transport GTFS and legacy realtime APIs.
type Client struct {
	key         string
	baseURL     string
	realtimeURL string
	http        *http.Client
}

func NewClient(key, baseURL, realtimeURL string) *Client {
	return &Client{
		key:         key,
		baseURL:     strings.TrimRight(baseURL, "/"),
		realtimeURL: realtimeURL,
		http:        &http.Client{Timeout: requestTimeout},
	}
}

func (c *Client) get(ctx context.Context, rawURL string, params url.Values, noCache bool) ([]byte, error) {
	if len(params) > 0 {
		rawURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &TransportError{URL: rawURL, Err: err}
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.key)
	if noCache {
		req.Header.Set("Cache-Control", "no-cache")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: rawURL, Status: resp.StatusCode, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{URL: rawURL, Status: resp.StatusCode}
	}

	return body, nil
}

// Stops fetches the full stop directory.
func (c *Client) Stops(ctx context.Context) ([]types.Stop, error) {
	body, err := c.get(ctx, c.baseURL+"/stops", nil, true)
	if err != nil {
		return nil, err
	}

	var envelope types.StopsResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, err
	}

	stops := make([]types.Stop, 0, len(envelope.Data))
	for _, record := range envelope.Data {
		stops = append(stops, record.Stop())
	}
	return stops, nil
}

// ValidateKey checks the subscription key against the stop directory
// endpoint. A 401 or 403 means the key itself is bad.
func (c *Client) ValidateKey(ctx context.Context) error {
	_, err := c.get(ctx, c.baseURL+"/stops", nil, true)
	if err == nil {
		return nil
	}

	var te *TransportError
	if errors.As(err, &te) && (te.Status == http.StatusUnauthorized || te.Status == http.StatusForbidden) {
		return ErrInvalidCredentials
	}
	return err
}

// StopTrips fetches the scheduled trips calling at a stop within the given
// hour window. Records missing a trip id or departure time are dropped;
// sparse fields are expected, not an error.
func (c *Client) StopTrips(ctx context.Context, stopID string, date time.Time, startHour, hourRange int) ([]types.ScheduledTrip, error) {
	params := url.Values{}
	params.Set("filter[date]", date.Format("2006-01-02"))
	params.Set("filter[start_hour]", strconv.Itoa(startHour))
	params.Set("filter[hour_range]", strconv.Itoa(hourRange))

	endpoint := c.baseURL + "/stops/" + url.PathEscape(stopID) + "/stoptrips"
	body, err := c.get(ctx, endpoint, params, false)
	if err != nil {
		return nil, err
	}

	var envelope types.StopTripsResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &TransportError{URL: endpoint, Err: err}
	}

	var trips []types.ScheduledTrip
	for _, record := range envelope.Data {
		trip := record.Trip()
		if trip.TripID == "" || trip.DepartureTime == "" {
			continue
		}
		trips = append(trips, trip)
	}
	return trips, nil
}

// TripUpdates batch-fetches realtime updates for a set of trips in a
// single call. Only entities matching a requested trip id contribute.
// Error and malformed responses yield an empty map; absence means no
// known delay.
func (c *Client) TripUpdates(ctx context.Context, tripIDs []string) map[string]types.RealtimeUpdate {
	updates := make(map[string]types.RealtimeUpdate)
	if len(tripIDs) == 0 {
		return updates
	}

	params := url.Values{}
	params.Set("tripid", strings.Join(tripIDs, ","))

	body, err := c.get(ctx, c.realtimeURL, params, true)
	if err != nil {
		utils.GetLogger().Warnw("realtime fetch failed", "error", err)
		return updates
	}

	var envelope types.TripUpdatesResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		utils.GetLogger().Warnw("malformed realtime response", "error", err)
		return updates
	}

	requested := make(map[string]bool, len(tripIDs))
	for _, id := range tripIDs {
		requested[id] = true
	}

	for _, entity := range envelope.Response.Entity {
		if entity.TripUpdate == nil {
			continue
		}
		tripID := entity.TripID()
		if !requested[tripID] {
			continue
		}
		updates[tripID] = types.RealtimeUpdate{
			TripID:  tripID,
			Delay:   entity.TripUpdate.DelaySeconds(),
			Vehicle: entity.TripUpdate.VehiclePlate(),
		}
	}

	return updates
}
