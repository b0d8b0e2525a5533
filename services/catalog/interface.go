package catalog

import (
	"context"

	"labprobe/client"
	"labprobe/models"
)

// Filter narrows catalog searches to a location and brand. Empty fields are
// left out of the query.
type Filter struct {
	LocationID string
	BrandID    string
}

// CatalogService finds purchasable tests and packages in the global catalog.
type CatalogService interface {
	// Search runs one raw catalog query and returns the results in backend order.
	Search(ctx context.Context, query string, f Filter) ([]models.CatalogItem, error)

	// ResolveProducts matches each requested name against the catalog, trying
	// punctuation variants of the name until one returns a usable hit, and
	// stores matched items on the session under their canonical backend names.
	// A name that cannot be matched is skipped; ResolveProducts fails only
	// when nothing matched at all.
	ResolveProducts(ctx context.Context, session *models.CustomerSession, names []string, f Filter) error
}

// DefaultCatalogService is the production implementation.
type DefaultCatalogService struct {
	Exec client.Executor
}
