package geocoder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"devcamper/internal/models"
)

// MapQuest queries the MapQuest geocoding v1 "address" endpoint.
type MapQuest struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewMapQuest creates a MapQuest provider. A nil client gets a 10s timeout.
func NewMapQuest(baseURL, apiKey string, client *http.Client) *MapQuest {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &MapQuest{baseURL: baseURL, apiKey: apiKey, client: client}
}

// Name implements Provider.
func (m *MapQuest) Name() string { return "mapquest" }

type mapQuestResponse struct {
	Info struct {
		StatusCode int      `json:"statuscode"`
		Messages   []string `json:"messages"`
	} `json:"info"`
	Results []struct {
		Locations []struct {
			Street     string `json:"street"`
			AdminArea5 string `json:"adminArea5"` // city
			AdminArea3 string `json:"adminArea3"` // state
			AdminArea1 string `json:"adminArea1"` // country
			PostalCode string `json:"postalCode"`
			Quality    string `json:"geocodeQualityCode"`
			LatLng     struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"latLng"`
		} `json:"locations"`
	} `json:"results"`
}

// tooCoarse reports whether a geocodeQualityCode is a country or state
// centroid, which MapQuest returns when nothing in the query matched.
func tooCoarse(quality string) bool {
	return strings.HasPrefix(quality, "A1") || strings.HasPrefix(quality, "A3")
}

// Geocode implements Provider.
func (m *MapQuest) Geocode(ctx context.Context, query string) ([]models.Location, error) {
	if m.apiKey == "" {
		return nil, errors.New("mapquest: missing API key")
	}

	params := url.Values{}
	params.Set("key", m.apiKey)
	params.Set("location", query)
	params.Set("maxResults", "5")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("mapquest: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mapquest: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("mapquest: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload mapQuestResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("mapquest: decode response: %w", err)
	}
	if payload.Info.StatusCode != 0 {
		return nil, fmt.Errorf("mapquest: status %d: %s", payload.Info.StatusCode, strings.Join(payload.Info.Messages, "; "))
	}

	var out []models.Location
	for _, result := range payload.Results {
		for _, l := range result.Locations {
			if tooCoarse(l.Quality) {
				continue
			}
			loc := models.Location{
				Lat:     l.LatLng.Lat,
				Lng:     l.LatLng.Lng,
				Street:  l.Street,
				City:    l.AdminArea5,
				State:   l.AdminArea3,
				Zipcode: l.PostalCode,
				Country: l.AdminArea1,
			}
			loc.FormattedAddress = FormatAddress(loc)
			out = append(out, loc)
		}
	}
	return out, nil
}
