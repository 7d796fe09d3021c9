package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matryer/is"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *[]time.Duration) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("test-key", srv.Client())
	c.SetURL(srv.URL)

	var sleeps []time.Duration
	c.SetSleep(func(d time.Duration) { sleeps = append(sleeps, d) })

	return c, &sleeps
}

func pageOf(n int, prefix string) []Place {
	out := make([]Place, n)
	for i := range out {
		out[i] = Place{"id": fmt.Sprintf("%s-%d", prefix, i)}
	}
	return out
}

func TestSearchNearbySinglePage(t *testing.T) {
	is := is.New(t)

	var got searchRequest
	var gotMethod, gotKey, gotMask, gotType string
	c, sleeps := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotKey = r.Header.Get("X-Goog-Api-Key")
		gotMask = r.Header.Get("X-Goog-FieldMask")
		gotType = r.Header.Get("Content-Type")

		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(searchResponse{Places: pageOf(3, "p")})
	})

	results, err := c.SearchNearby(context.Background(), 24.45, 54.37, 15000, []string{"gas_station"})

	is.NoErr(err)
	is.Equal(len(results), 3)
	is.Equal(len(*sleeps), 0)

	is.Equal(gotMethod, http.MethodPost)
	is.Equal(gotKey, "test-key")
	is.Equal(gotMask, "*")
	is.Equal(gotType, "application/json")

	is.Equal(got.MaxResultCount, PageCap)
	is.Equal(got.IncludedTypes, []string{"gas_station"})
	is.Equal(got.LocationRestriction.Circle.Center.Latitude, 24.45)
	is.Equal(got.LocationRestriction.Circle.Center.Longitude, 54.37)
	is.Equal(got.LocationRestriction.Circle.Radius, 15000.0)
	is.Equal(got.PageToken, "")
}

func TestSearchNearbyFollowsContinuationTokens(t *testing.T) {
	is := is.New(t)

	var tokens []string
	c, sleeps := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		tokens = append(tokens, req.PageToken)

		resp := searchResponse{Places: pageOf(PageCap, fmt.Sprintf("page%d", len(tokens)))}
		switch len(tokens) {
		case 1:
			resp.NextPageToken = "token-1"
		case 2:
			resp.NextPageToken = "token-2"
		}
		_ = json.NewEncoder(w).Encode(resp)
	})

	results, err := c.SearchNearby(context.Background(), 24.45, 54.37, 15000, []string{"cafe"})

	is.NoErr(err)
	is.Equal(len(results), 3*PageCap)
	is.Equal(tokens, []string{"", "token-1", "token-2"})

	// each continuation request is paced
	is.Equal(len(*sleeps), 2)
	for _, d := range *sleeps {
		is.Equal(d, c.PageDelay)
	}
}

func TestSearchNearbyStopsAfterThreePages(t *testing.T) {
	is := is.New(t)

	requests := 0
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		// always hand out another token; the client must give up on its own
		_ = json.NewEncoder(w).Encode(searchResponse{
			Places:        pageOf(PageCap, fmt.Sprintf("page%d", requests)),
			NextPageToken: fmt.Sprintf("token-%d", requests),
		})
	})

	results, err := c.SearchNearby(context.Background(), 24.45, 54.37, 15000, []string{"cafe"})

	is.NoErr(err)
	is.Equal(requests, 3)
	is.Equal(len(results), 3*PageCap)
}

func TestSearchNearbyHTTPError(t *testing.T) {
	is := is.New(t)

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	results, err := c.SearchNearby(context.Background(), 24.45, 54.37, 15000, []string{"cafe"})

	is.True(err != nil)
	is.Equal(len(results), 0)
}

func TestSearchNearbyContinuationError(t *testing.T) {
	is := is.New(t)

	requests := 0
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests > 1 {
			http.Error(w, "boom", http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(searchResponse{
			Places:        pageOf(PageCap, "page1"),
			NextPageToken: "token-1",
		})
	})

	_, err := c.SearchNearby(context.Background(), 24.45, 54.37, 15000, []string{"cafe"})

	is.True(err != nil)
}
