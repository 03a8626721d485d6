package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/forgo/wayfind/api/internal/model"
)

// Geocoder resolves a street address to coordinates
type Geocoder interface {
	Geocode(ctx context.Context, address string) (model.Location, error)
}

// HTTPGeocoderConfig holds configuration for the HTTP geocoder
type HTTPGeocoderConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// HTTPGeocoder resolves addresses against a Nominatim-compatible search
// endpoint (GET {base}/search?q=...&format=json&limit=1).
type HTTPGeocoder struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewHTTPGeocoder creates a geocoder from config
func NewHTTPGeocoder(cfg HTTPGeocoderConfig) *HTTPGeocoder {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPGeocoder{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		client:    &http.Client{Timeout: timeout},
	}
}

// geocodeResult is the subset of the search response we need
type geocodeResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode resolves an address. Returns ErrGeocodeFailed when the provider is
// unreachable, responds badly, or finds no match for the address.
func (g *HTTPGeocoder) Geocode(ctx context.Context, address string) (model.Location, error) {
	endpoint := fmt.Sprintf("%s/search?q=%s&format=json&limit=1",
		g.baseURL, url.QueryEscape(address))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.Location{}, fmt.Errorf("%w: %v", ErrGeocodeFailed, err)
	}
	if g.userAgent != "" {
		req.Header.Set("User-Agent", g.userAgent)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return model.Location{}, fmt.Errorf("%w: %v", ErrGeocodeFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Location{}, fmt.Errorf("%w: provider returned %d", ErrGeocodeFailed, resp.StatusCode)
	}

	var results []geocodeResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return model.Location{}, fmt.Errorf("%w: %v", ErrGeocodeFailed, err)
	}
	if len(results) == 0 {
		return model.Location{}, fmt.Errorf("%w: no results for address", ErrGeocodeFailed)
	}

	lat, latErr := strconv.ParseFloat(results[0].Lat, 64)
	lng, lngErr := strconv.ParseFloat(results[0].Lon, 64)
	if latErr != nil || lngErr != nil {
		return model.Location{}, fmt.Errorf("%w: malformed coordinates", ErrGeocodeFailed)
	}

	return model.Location{Lat: lat, Lng: lng}, nil
}
