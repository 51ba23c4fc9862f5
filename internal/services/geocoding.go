package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
)

// minQueryLength matches the booking UI, which only geocodes once the user
// has typed at least 3 characters.
const minQueryLength = 3

// Location is one forward-geocoding candidate as nominatim returns it.
// Lat and Lon stay strings on the wire.
type Location struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// GeocodingService resolves free-text addresses to coordinates through the
// nominatim search API. Results are memoized in an LRU cache keyed by the
// normalized query, since the same addresses get looked up repeatedly.
type GeocodingService struct {
	baseURL string
	client  *http.Client
	cache   *lru.Cache[string, []Location]
	log     zerolog.Logger
}

func NewGeocodingService(baseURL string, cacheSize int, log zerolog.Logger) (*GeocodingService, error) {
	cache, err := lru.New[string, []Location](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create geocoder cache: %w", err)
	}
	return &GeocodingService{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		cache:   cache,
		log:     log,
	}, nil
}

// Search forward-geocodes an address. Queries shorter than 3 characters
// return an empty list without calling out.
func (s *GeocodingService) Search(ctx context.Context, address string) ([]Location, error) {
	address = strings.TrimSpace(address)
	if len(address) < minQueryLength {
		return []Location{}, nil
	}

	key := strings.ToLower(address)
	if locations, ok := s.cache.Get(key); ok {
		s.log.Debug().Str("query", address).Msg("geocoder cache hit")
		return locations, nil
	}

	searchURL := fmt.Sprintf("%s/search?format=json&accept-language=en&q=%s",
		s.baseURL, url.QueryEscape(address))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geocoder request: %w", err)
	}
	// Nominatim's usage policy requires an identifying User-Agent.
	req.Header.Set("User-Agent", "mediqueue-api")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoder request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var locations []Location
	if err := json.NewDecoder(resp.Body).Decode(&locations); err != nil {
		return nil, fmt.Errorf("failed to decode geocoder response: %w", err)
	}
	if locations == nil {
		locations = []Location{}
	}

	s.cache.Add(key, locations)
	return locations, nil
}
