package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
)

func newStubNominatim(t *testing.T, hits *atomic.Int64, payload string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/search" {
			t.Errorf("path = %q, want /search", r.URL.Path)
		}
		if got := r.URL.Query().Get("format"); got != "json" {
			t.Errorf("format = %q, want json", got)
		}
		if r.Header.Get("User-Agent") == "" {
			t.Error("missing User-Agent header")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestSearch(t *testing.T) {
	var hits atomic.Int64
	server := newStubNominatim(t, &hits,
		`[{"display_name":"Antananarivo, Madagascar","lat":"-18.8792","lon":"47.5079"}]`)

	svc, err := NewGeocodingService(server.URL, 10, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewGeocodingService: %v", err)
	}

	locations, err := svc.Search(context.Background(), "Antananarivo")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(locations) != 1 {
		t.Fatalf("got %d locations, want 1", len(locations))
	}
	if locations[0].Lat != "-18.8792" || locations[0].Lon != "47.5079" {
		t.Errorf("unexpected location: %+v", locations[0])
	}
}

func TestSearchShortQuerySkipsLookup(t *testing.T) {
	var hits atomic.Int64
	server := newStubNominatim(t, &hits, `[]`)

	svc, err := NewGeocodingService(server.URL, 10, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewGeocodingService: %v", err)
	}

	locations, err := svc.Search(context.Background(), "ab")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(locations) != 0 {
		t.Errorf("got %d locations, want 0", len(locations))
	}
	if hits.Load() != 0 {
		t.Errorf("geocoder called %d times for a short query", hits.Load())
	}
}

func TestSearchCachesResults(t *testing.T) {
	var hits atomic.Int64
	server := newStubNominatim(t, &hits,
		`[{"display_name":"Antananarivo, Madagascar","lat":"-18.8792","lon":"47.5079"}]`)

	svc, err := NewGeocodingService(server.URL, 10, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewGeocodingService: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := svc.Search(context.Background(), "Antananarivo"); err != nil {
			t.Fatalf("Search %d: %v", i, err)
		}
	}
	// Case differences hit the same cache entry.
	if _, err := svc.Search(context.Background(), "ANTANANARIVO"); err != nil {
		t.Fatalf("Search: %v", err)
	}

	if hits.Load() != 1 {
		t.Errorf("geocoder called %d times, want 1", hits.Load())
	}
}

func TestSearchUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)

	svc, err := NewGeocodingService(server.URL, 10, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewGeocodingService: %v", err)
	}

	if _, err := svc.Search(context.Background(), "Antananarivo"); err == nil {
		t.Error("expected error for non-200 upstream response")
	}
}
