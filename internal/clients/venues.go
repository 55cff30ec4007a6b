package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/SitaaronKL/thenetwork-backend/internal/logger"
	"github.com/SitaaronKL/thenetwork-backend/internal/types"
)

const venueCacheTTL = 10 * time.Minute

// VenueClient fronts the venue-search provider. Results come back ranked
// by the provider's own rating/distance heuristics. A short-lived redis
// cache absorbs repeat lookups for the same city and activity, since one
// batch can hit the provider up to five times.
type VenueClient interface {
	Search(ctx context.Context, activityType, city string, limit int) ([]types.Venue, error)
}

type venueClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	rdb        *redis.Client
	log        *logger.Logger
}

func NewVenueClient(log *logger.Logger, baseURL, apiKey string, rdb *redis.Client) (VenueClient, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("missing venue service URL")
	}
	return &venueClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultClientTimeout},
		rdb:        rdb,
		log:        log.With("client", "VenueClient"),
	}, nil
}

func (vc *venueClient) Search(ctx context.Context, activityType, city string, limit int) ([]types.Venue, error) {
	if limit <= 0 {
		limit = 10
	}
	cacheKey := fmt.Sprintf("venues:%s:%s", strings.ToLower(strings.TrimSpace(city)), activityType)

	if cached, ok := vc.fromCache(ctx, cacheKey); ok {
		return cached, nil
	}

	var out struct {
		Venues []types.Venue `json:"venues"`
	}
	body := map[string]any{
		"activity_type": activityType,
		"city":          city,
		"limit":         limit,
	}
	if err := postJSON(ctx, vc.httpClient, vc.baseURL+"/v1/venues/search", vc.apiKey, body, &out); err != nil {
		return nil, fmt.Errorf("venue search: %w", err)
	}

	vc.toCache(ctx, cacheKey, out.Venues)
	return out.Venues, nil
}

func (vc *venueClient) fromCache(ctx context.Context, key string) ([]types.Venue, bool) {
	if vc.rdb == nil {
		return nil, false
	}
	raw, err := vc.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			vc.log.Debug("Venue cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	var venues []types.Venue
	if err := json.Unmarshal(raw, &venues); err != nil {
		return nil, false
	}
	return venues, true
}

func (vc *venueClient) toCache(ctx context.Context, key string, venues []types.Venue) {
	if vc.rdb == nil || len(venues) == 0 {
		return
	}
	raw, err := json.Marshal(venues)
	if err != nil {
		return
	}
	if err := vc.rdb.Set(ctx, key, raw, venueCacheTTL).Err(); err != nil {
		vc.log.Debug("Venue cache write failed", "key", key, "error", err)
	}
}
