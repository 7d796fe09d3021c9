package sweep

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/Infomineo-da/SIA-Partners-Gas-Station-Abu-Dhabi/internal/geo"
	"github.com/Infomineo-da/SIA-Partners-Gas-Station-Abu-Dhabi/internal/places"

	"github.com/matryer/is"
)

type searchCall struct {
	Lat, Lon, Radius float64
}

// mockSearcher records every query and answers through the respond hook.
type mockSearcher struct {
	calls   []searchCall
	respond func(call int, lat, lon, radius float64) []places.Place
}

func (m *mockSearcher) SearchNearby(_ context.Context, lat, lon, radius float64, _ []string) ([]places.Place, error) {
	n := len(m.calls)
	m.calls = append(m.calls, searchCall{Lat: lat, Lon: lon, Radius: radius})
	if m.respond == nil {
		return nil, nil
	}
	return m.respond(n, lat, lon, radius), nil
}

func place(id string, extra ...interface{}) places.Place {
	p := places.Place{"id": id}
	for i := 0; i+1 < len(extra); i += 2 {
		p[extra[i].(string)] = extra[i+1]
	}
	return p
}

func fullPage(prefix string) []places.Place {
	page := make([]places.Place, places.PageCap)
	for i := range page {
		page[i] = place(fmt.Sprintf("%s-%d", prefix, i))
	}
	return page
}

func TestRadiusTriggerNeverQueriesOversizedRectangle(t *testing.T) {
	is := is.New(t)

	// roughly 111x101 km, approximate radius ~75 km
	rect := geo.Rectangle{SWLat: 24.0, SWLon: 54.0, NELat: 25.0, NELon: 55.0}
	mock := &mockSearcher{}
	s := New(mock)

	_, areaLog := s.Run(context.Background(), rect, []string{"gas_station"}, 1)

	// the oversized rectangle subdivides once, its four quarters qualify
	is.Equal(len(mock.calls), 4)
	is.Equal(areaLog.Len(), 4)

	for _, c := range mock.calls {
		is.True(c.Radius <= MaxRadiusKm*1000)
	}
}

func TestDensityTriggerOnFullPage(t *testing.T) {
	is := is.New(t)

	rect := geo.Rectangle{SWLat: 24.0, SWLon: 54.0, NELat: 24.2, NELon: 54.2}
	mock := &mockSearcher{
		respond: func(call int, _, _, _ float64) []places.Place {
			if call == 0 {
				return fullPage("dense")
			}
			return []places.Place{place(fmt.Sprintf("sub-%d", call))}
		},
	}
	s := New(mock)

	results, areaLog := s.Run(context.Background(), rect, []string{"gas_station"}, 1)

	// one dense leaf plus its four quarters
	is.Equal(areaLog.Len(), 5)
	is.True(areaLog.Records()[0].Subdivided)
	is.Equal(areaLog.Records()[0].Results, places.PageCap)
	for _, rec := range areaLog.Records()[1:] {
		is.True(!rec.Subdivided)
	}

	// leaf results come first, sub-results are appended
	is.Equal(len(results), places.PageCap+4)
	is.Equal(results[0]["id"], "dense-0")
}

func TestNoDensityTriggerBelowPageCap(t *testing.T) {
	is := is.New(t)

	rect := geo.Rectangle{SWLat: 24.0, SWLon: 54.0, NELat: 24.2, NELon: 54.2}
	mock := &mockSearcher{
		respond: func(int, float64, float64, float64) []places.Place {
			return fullPage("x")[:places.PageCap-1]
		},
	}
	s := New(mock)

	_, areaLog := s.Run(context.Background(), rect, []string{"gas_station"}, 1)

	is.Equal(len(mock.calls), 1)
	is.Equal(areaLog.Len(), 1)
	is.True(!areaLog.Records()[0].Subdivided)
}

func TestMaxDepthStopsDensityRecursion(t *testing.T) {
	is := is.New(t)

	rect := geo.Rectangle{SWLat: 24.0, SWLon: 54.0, NELat: 24.2, NELon: 54.2}
	mock := &mockSearcher{
		respond: func(call int, _, _, _ float64) []places.Place {
			return fullPage(fmt.Sprintf("c%d", call))
		},
	}
	s := New(mock)
	s.MaxDepth = 1

	_, areaLog := s.Run(context.Background(), rect, []string{"gas_station"}, 1)

	// depth 0 subdivides, the four depth-1 leaves hit the cap and stop
	is.Equal(areaLog.Len(), 5)
	is.True(areaLog.Records()[0].Subdivided)
	for _, rec := range areaLog.Records()[1:] {
		is.Equal(rec.Results, places.PageCap)
		is.True(!rec.Subdivided)
	}
}

func TestLogFidelityDepthFirstOrder(t *testing.T) {
	is := is.New(t)

	rect := geo.Rectangle{SWLat: 24.0, SWLon: 54.0, NELat: 24.4, NELon: 54.4}
	mock := &mockSearcher{}
	s := New(mock)

	_, areaLog := s.Run(context.Background(), rect, []string{"cafe"}, 2)

	cells := geo.Subdivide(rect, 2)
	is.Equal(areaLog.Len(), len(cells))
	for i, rec := range areaLog.Records() {
		is.Equal(rec.Rect, cells[i])
		is.Equal(rec.Results, 0)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	is := is.New(t)

	rect := geo.Rectangle{SWLat: 24.0, SWLon: 54.0, NELat: 24.4, NELon: 54.4}
	respond := func(_ int, lat, lon, _ float64) []places.Place {
		// overlapping circles return a shared place plus a local one
		return []places.Place{
			place("shared", "seen_at", fmt.Sprintf("%.4f,%.4f", lat, lon)),
			place(fmt.Sprintf("local-%.4f-%.4f", lat, lon)),
		}
	}

	run := func() ([]places.Place, []Record) {
		mock := &mockSearcher{respond: respond}
		s := New(mock)
		results, areaLog := s.Run(context.Background(), rect, []string{"cafe"}, 2)
		return results, areaLog.Records()
	}

	r1, l1 := run()
	r2, l2 := run()

	is.True(reflect.DeepEqual(r1, r2))
	is.True(reflect.DeepEqual(l1, l2))

	// the shared id keeps its first slot but its latest value
	is.Equal(r1[0]["id"], "shared")
	lastLat, lastLon := l1[len(l1)-1].Rect.Center()
	is.Equal(r1[0]["seen_at"], fmt.Sprintf("%.4f,%.4f", lastLat, lastLon))
}

type failingSearcher struct{ calls int }

func (f *failingSearcher) SearchNearby(context.Context, float64, float64, float64, []string) ([]places.Place, error) {
	f.calls++
	return nil, fmt.Errorf("status 500")
}

func TestLeafFailureIsSoft(t *testing.T) {
	is := is.New(t)

	rect := geo.Rectangle{SWLat: 24.0, SWLon: 54.0, NELat: 24.4, NELon: 54.4}
	mock := &failingSearcher{}
	s := New(mock)

	results, areaLog := s.Run(context.Background(), rect, []string{"cafe"}, 2)

	is.Equal(len(results), 0)
	is.Equal(mock.calls, 4)
	is.Equal(areaLog.Len(), 4)
	for _, rec := range areaLog.Records() {
		is.Equal(rec.Results, 0)
	}
}
