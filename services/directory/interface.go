package directory

import (
	"context"
	"sync"

	"github.com/go-redis/redis/v8"

	"labprobe/client"
)

// Location is one serviceable catchment area.
type Location struct {
	ID   string `json:"_id"`
	GUID string `json:"guid"`
	Name string `json:"name"`
	City string `json:"city"`
}

// Brand is one test brand available in the catalog.
type Brand struct {
	ID   string `json:"_id"`
	GUID string `json:"guid"`
	Name string `json:"name"`
}

// DirectoryService resolves location and brand names to backend identifiers.
// Lookups are cached; the directory rarely changes within a run.
type DirectoryService interface {
	// LocationByName resolves a location by case-insensitive name match.
	LocationByName(ctx context.Context, name string) (Location, error)

	// BrandByName resolves a brand by case-insensitive name match.
	BrandByName(ctx context.Context, name string) (Brand, error)

	// Refresh discards cached directory data.
	Refresh()
}

// DefaultDirectoryService is the production implementation. Redis is optional:
// when Cache is nil, only the in-process maps are used.
type DefaultDirectoryService struct {
	Exec  client.Executor
	Cache *redis.Client
	TTL   int // minutes, for the redis entries

	mu        sync.RWMutex
	locations []Location
	brands    []Brand
}
