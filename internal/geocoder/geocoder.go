// Package geocoder resolves free-text addresses and zipcodes to coordinates.
package geocoder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"devcamper/internal/cache"
	"devcamper/internal/config"
	"devcamper/internal/models"
	"devcamper/internal/observability"
)

// Provider looks a query up with an external geocoding service. Implementations
// return every match in the provider's ranking order and no error on zero matches.
type Provider interface {
	Name() string
	Geocode(ctx context.Context, query string) ([]models.Location, error)
}

// Resolver picks the first provider match and caches answers in Redis.
type Resolver struct {
	provider Provider
	cacheTTL time.Duration
	useCache func() bool
	logger   *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCacheTTL sets how long answers stay cached. Zero disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(r *Resolver) { r.cacheTTL = ttl }
}

// WithCacheToggle makes caching conditional, e.g. on a feature flag.
func WithCacheToggle(enabled func() bool) Option {
	return func(r *Resolver) { r.useCache = enabled }
}

// WithLogger sets the logger for provider failures.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// NewResolver wraps provider.
func NewResolver(provider Provider, opts ...Option) *Resolver {
	r := &Resolver{
		provider: provider,
		cacheTTL: cache.GeocodeTTL,
		useCache: func() bool { return true },
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the first match for query. Zero matches yield a LOOKUP_FAILED AppError.
func (r *Resolver) Resolve(ctx context.Context, query string) (models.Location, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return models.Location{}, models.NewValidationError("Please add an address")
	}

	caching := r.cacheTTL > 0 && r.useCache()
	key := cache.GeocodeKey(query)
	if caching {
		var cached models.Location
		if found, err := cache.GetJSON(ctx, key, &cached); err == nil && found {
			observability.GeocoderCache.WithLabelValues(observability.ResultHit).Inc()
			return cached, nil
		}
		observability.GeocoderCache.WithLabelValues(observability.ResultMiss).Inc()
	}

	ctx, span := observability.GetTraceLayer().TraceExternalCall(ctx, "geocoder", r.provider.Name())
	defer span.End()

	matches, err := r.provider.Geocode(ctx, query)
	if err != nil {
		span.RecordError(err)
		observability.GeocoderLookups.WithLabelValues(r.provider.Name(), observability.ResultError).Inc()
		r.logger.ErrorContext(ctx, "geocoder lookup failed",
			slog.String("provider", r.provider.Name()),
			slog.String("query", query),
			slog.String("error", err.Error()),
		)
		return models.Location{}, models.NewInternalError(fmt.Errorf("geocode %q: %w", query, err))
	}
	if len(matches) == 0 {
		observability.GeocoderLookups.WithLabelValues(r.provider.Name(), observability.ResultEmpty).Inc()
		return models.Location{}, models.NewLookupFailedError(query)
	}
	observability.GeocoderLookups.WithLabelValues(r.provider.Name(), observability.ResultSuccess).Inc()

	loc := matches[0]
	if loc.FormattedAddress == "" {
		loc.FormattedAddress = FormatAddress(loc)
	}

	if caching {
		_ = cache.SetJSON(ctx, key, loc, r.cacheTTL)
	}
	return loc, nil
}

// Center resolves query to the center point of a radius search.
func (r *Resolver) Center(ctx context.Context, query string) (Point, error) {
	loc, err := r.Resolve(ctx, query)
	if err != nil {
		return Point{}, err
	}
	return Point{Lat: loc.Lat, Lng: loc.Lng}, nil
}

// FormatAddress joins the structured parts the way "street, city, state zipcode, country" reads.
func FormatAddress(loc models.Location) string {
	var parts []string
	if loc.Street != "" {
		parts = append(parts, loc.Street)
	}
	if loc.City != "" {
		parts = append(parts, loc.City)
	}
	stateZip := strings.TrimSpace(loc.State + " " + loc.Zipcode)
	if stateZip != "" {
		parts = append(parts, stateZip)
	}
	if loc.Country != "" {
		parts = append(parts, loc.Country)
	}
	return strings.Join(parts, ", ")
}

// NewProvider selects the provider named by GEOCODER_PROVIDER.
func NewProvider(cfg *config.Config) (Provider, error) {
	switch cfg.GeocoderProvider {
	case "", "mapquest":
		return NewMapQuest(cfg.GeocoderBaseURL, cfg.GeocoderAPIKey, nil), nil
	case "static":
		return NewStatic(nil, true), nil
	default:
		return nil, fmt.Errorf("unsupported GEOCODER_PROVIDER %q", cfg.GeocoderProvider)
	}
}
