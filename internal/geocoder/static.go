package geocoder

import (
	"context"
	"hash/fnv"
	"strings"

	"devcamper/internal/models"
)

// Static answers from a fixed table. With derive set, unknown queries get a
// stable pseudo-location inside the continental US so local development works
// without an API key.
type Static struct {
	entries map[string]models.Location
	derive  bool
}

// NewStatic builds a Static provider. Keys are matched case- and space-insensitively.
func NewStatic(entries map[string]models.Location, derive bool) *Static {
	normalized := make(map[string]models.Location, len(entries))
	for k, v := range entries {
		normalized[normalizeQuery(k)] = v
	}
	return &Static{entries: normalized, derive: derive}
}

// Name implements Provider.
func (s *Static) Name() string { return "static" }

// Geocode implements Provider.
func (s *Static) Geocode(_ context.Context, query string) ([]models.Location, error) {
	if loc, ok := s.entries[normalizeQuery(query)]; ok {
		return []models.Location{loc}, nil
	}
	if !s.derive {
		return nil, nil
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(normalizeQuery(query)))
	sum := h.Sum64()

	loc := models.Location{
		Lat:              25 + float64(sum%2400)/100,        // 25.00 .. 48.99
		Lng:              -124 + float64((sum>>16)%5700)/100, // -124.00 .. -67.01
		FormattedAddress: strings.TrimSpace(query),
		Country:          "US",
	}
	return []models.Location{loc}, nil
}

func normalizeQuery(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}
