// Package geocode resolves free-form addresses to coordinates through a
// Nominatim-compatible endpoint.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"campdir/internal/apperr"
)

// Geocoder resolves an address or zipcode to a location.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (Result, error)
}

// Result is the first match for a geocoding query.
type Result struct {
	Latitude         float64
	Longitude        float64
	FormattedAddress string
	Street           string
	City             string
	State            string
	Zipcode          string
	Country          string
}

type nominatimHit struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Address     struct {
		Road     string `json:"road"`
		City     string `json:"city"`
		Town     string `json:"town"`
		Village  string `json:"village"`
		State    string `json:"state"`
		Postcode string `json:"postcode"`
		Country  string `json:"country"`
	} `json:"address"`
}

// Client is a thin HTTP client for the Nominatim search API.
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

func NewClient(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
		log:     log,
	}
}

// Geocode returns the best match for query. Upstream faults and empty result
// sets surface as Upstream errors; they are terminal for the request.
func (c *Client) Geocode(ctx context.Context, query string) (Result, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("addressdetails", "1")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("User-Agent", "campdir/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("query", query).Msg("geocoder request failed")
		return Result{}, apperr.Upstream("geocoding service unavailable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Error().Int("status", resp.StatusCode).Msg("geocoder upstream error")
		return Result{}, apperr.Upstream("geocoding service unavailable", fmt.Errorf("upstream status %d", resp.StatusCode))
	}

	var hits []nominatimHit
	if err := json.NewDecoder(resp.Body).Decode(&hits); err != nil {
		return Result{}, apperr.Upstream("invalid geocoder response", err)
	}
	if len(hits) == 0 {
		return Result{}, apperr.BadRequest("address could not be geocoded")
	}

	return buildResult(hits[0])
}

func buildResult(hit nominatimHit) (Result, error) {
	lat, err := strconv.ParseFloat(hit.Lat, 64)
	if err != nil {
		return Result{}, apperr.Upstream("invalid geocoder response", err)
	}
	lon, err := strconv.ParseFloat(hit.Lon, 64)
	if err != nil {
		return Result{}, apperr.Upstream("invalid geocoder response", err)
	}

	city := hit.Address.City
	if city == "" {
		city = hit.Address.Town
	}
	if city == "" {
		city = hit.Address.Village
	}

	return Result{
		Latitude:         lat,
		Longitude:        lon,
		FormattedAddress: hit.DisplayName,
		Street:           hit.Address.Road,
		City:             city,
		State:            hit.Address.State,
		Zipcode:          hit.Address.Postcode,
		Country:          hit.Address.Country,
	}, nil
}
