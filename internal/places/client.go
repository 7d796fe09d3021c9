// Package places implements the outbound client for the provider's
// "search nearby" endpoint, including continuation-token pagination.
package places

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultURL is the provider endpoint for circular nearby searches.
const DefaultURL = "https://places.googleapis.com/v1/places:searchNearby"

// PageCap is the maximum number of results the provider returns per page.
// A leaf query that fills a full page signals that results were cut off.
const PageCap = 20

// maxExtraPages bounds pagination: the initial request plus this many
// continuation requests.
const maxExtraPages = 2

// Place is a single provider record. The provider returns arbitrarily
// nested documents; the only field the pipeline relies on is the string "id".
type Place = map[string]interface{}

type searchRequest struct {
	IncludedTypes       []string            `json:"includedTypes"`
	MaxResultCount      int                 `json:"maxResultCount"`
	LocationRestriction locationRestriction `json:"locationRestriction"`
	PageToken           string              `json:"pageToken,omitempty"`
}

type locationRestriction struct {
	Circle circle `json:"circle"`
}

type circle struct {
	Center center  `json:"center"`
	Radius float64 `json:"radius"`
}

type center struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type searchResponse struct {
	Places        []Place `json:"places"`
	NextPageToken string  `json:"nextPageToken"`
}

// Client issues nearby-search queries. It holds only static configuration
// and is safe to reuse across queries.
type Client struct {
	apiKey     string
	url        string
	httpClient *http.Client

	// PageDelay is the pause before each continuation request; the provider
	// needs time before a freshly issued token becomes valid.
	PageDelay time.Duration

	sleep func(time.Duration)
}

// NewClient creates a places client using the given HTTP client. A nil
// httpClient falls back to a 15 second timeout default.
func NewClient(apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	return &Client{
		apiKey:     apiKey,
		url:        DefaultURL,
		httpClient: httpClient,
		PageDelay:  2 * time.Second,
		sleep:      time.Sleep,
	}
}

// SetURL overrides the provider endpoint. Used by tests.
func (c *Client) SetURL(url string) { c.url = url }

// SetSleep overrides the pagination pause hook. Used by tests.
func (c *Client) SetSleep(fn func(time.Duration)) { c.sleep = fn }

// SearchNearby returns all places of the included types inside the circle,
// following up to two continuation tokens. The returned error covers
// transport failures, non-2xx statuses and malformed bodies; callers decide
// whether that aborts anything (the area sweep treats it as zero results).
func (c *Client) SearchNearby(ctx context.Context, lat, lon, radiusMeters float64, includedTypes []string) ([]Place, error) {
	req := searchRequest{
		IncludedTypes:  includedTypes,
		MaxResultCount: PageCap,
		LocationRestriction: locationRestriction{
			Circle: circle{
				Center: center{Latitude: lat, Longitude: lon},
				Radius: radiusMeters,
			},
		},
	}

	resp, err := c.post(ctx, req)
	if err != nil {
		return nil, err
	}

	results := resp.Places

	for page := 0; page < maxExtraPages; page++ {
		if resp.NextPageToken == "" {
			break
		}

		c.sleep(c.PageDelay)

		req.PageToken = resp.NextPageToken
		resp, err = c.post(ctx, req)
		if err != nil {
			return nil, err
		}

		results = append(results, resp.Places...)
	}

	return results, nil
}

func (c *Client) post(ctx context.Context, body searchRequest) (*searchResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Float64("lat", body.LocationRestriction.Circle.Center.Latitude).
		Float64("lon", body.LocationRestriction.Circle.Center.Longitude).
		Float64("radius_m", body.LocationRestriction.Circle.Radius).
		Bool("continuation", body.PageToken != "").
		Msg("Requesting nearby places")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", "*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}

	return &out, nil
}
