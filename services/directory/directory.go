package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"labprobe/client"
	"labprobe/utils"
)

const (
	locationsCacheKey = "labprobe:directory:locations"
	brandsCacheKey    = "labprobe:directory:brands"
)

func (s *DefaultDirectoryService) LocationByName(ctx context.Context, name string) (Location, error) {
	locs, err := s.loadLocations(ctx)
	if err != nil {
		return Location{}, err
	}
	for _, loc := range locs {
		if strings.EqualFold(strings.TrimSpace(loc.Name), strings.TrimSpace(name)) {
			return loc, nil
		}
	}
	return Location{}, &NotFoundError{Kind: "location", Name: name}
}

func (s *DefaultDirectoryService) BrandByName(ctx context.Context, name string) (Brand, error) {
	brands, err := s.loadBrands(ctx)
	if err != nil {
		return Brand{}, err
	}
	for _, b := range brands {
		if strings.EqualFold(strings.TrimSpace(b.Name), strings.TrimSpace(name)) {
			return b, nil
		}
	}
	return Brand{}, &NotFoundError{Kind: "brand", Name: name}
}

func (s *DefaultDirectoryService) Refresh() {
	s.mu.Lock()
	s.locations = nil
	s.brands = nil
	s.mu.Unlock()
	if s.Cache != nil {
		s.Cache.Del(context.Background(), locationsCacheKey, brandsCacheKey)
	}
}

func (s *DefaultDirectoryService) loadLocations(ctx context.Context) ([]Location, error) {
	s.mu.RLock()
	if s.locations != nil {
		locs := s.locations
		s.mu.RUnlock()
		return locs, nil
	}
	s.mu.RUnlock()

	var locs []Location
	if s.fromRedis(ctx, locationsCacheKey, &locs) {
		s.store(&s.locations, locs)
		return locs, nil
	}

	resp, err := s.Exec.Do(ctx, client.Request{
		Method: http.MethodGet,
		Path:   client.PathGetLocations,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch locations: %w", err)
	}
	env, err := resp.Envelope()
	if err != nil {
		return nil, err
	}
	if err := env.List(&locs); err != nil {
		return nil, fmt.Errorf("parse locations: %w", err)
	}

	utils.GetLogger().Debug("directory locations loaded", zap.Int("count", len(locs)))
	s.toRedis(ctx, locationsCacheKey, locs)
	s.store(&s.locations, locs)
	return locs, nil
}

func (s *DefaultDirectoryService) loadBrands(ctx context.Context) ([]Brand, error) {
	s.mu.RLock()
	if s.brands != nil {
		brands := s.brands
		s.mu.RUnlock()
		return brands, nil
	}
	s.mu.RUnlock()

	var brands []Brand
	if s.fromRedis(ctx, brandsCacheKey, &brands) {
		s.storeBrands(brands)
		return brands, nil
	}

	resp, err := s.Exec.Do(ctx, client.Request{
		Method: http.MethodGet,
		Path:   client.PathGetAllBrands,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch brands: %w", err)
	}
	env, err := resp.Envelope()
	if err != nil {
		return nil, err
	}
	if err := env.List(&brands); err != nil {
		return nil, fmt.Errorf("parse brands: %w", err)
	}

	utils.GetLogger().Debug("directory brands loaded", zap.Int("count", len(brands)))
	s.toRedis(ctx, brandsCacheKey, brands)
	s.storeBrands(brands)
	return brands, nil
}

func (s *DefaultDirectoryService) store(dst *[]Location, locs []Location) {
	s.mu.Lock()
	*dst = locs
	s.mu.Unlock()
}

func (s *DefaultDirectoryService) storeBrands(brands []Brand) {
	s.mu.Lock()
	s.brands = brands
	s.mu.Unlock()
}

// fromRedis attempts a cache read; any failure falls through to the backend.
func (s *DefaultDirectoryService) fromRedis(ctx context.Context, key string, out interface{}) bool {
	if s.Cache == nil {
		return false
	}
	raw, err := s.Cache.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(raw), out) == nil
}

func (s *DefaultDirectoryService) toRedis(ctx context.Context, key string, val interface{}) {
	if s.Cache == nil {
		return
	}
	raw, err := json.Marshal(val)
	if err != nil {
		return
	}
	ttl := time.Duration(s.TTL) * time.Minute
	if ttl <= 0 {
		ttl = time.Hour
	}
	if err := s.Cache.Set(ctx, key, raw, ttl).Err(); err != nil {
		utils.GetLogger().Warn("directory cache write failed", zap.String("key", key), zap.Error(err))
	}
}
