package catalog

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"labprobe/client"
	"labprobe/models"
	"labprobe/utils"
)

func (s *DefaultCatalogService) Search(ctx context.Context, query string, f Filter) ([]models.CatalogItem, error) {
	body := map[string]interface{}{
		"search": query,
	}
	if f.LocationID != "" {
		body["location_id"] = f.LocationID
	}
	if f.BrandID != "" {
		body["brand_id"] = f.BrandID
	}
	resp, err := s.Exec.Do(ctx, client.Request{
		Method: http.MethodPost,
		Path:   client.PathAdminTests,
		Body:   body,
	})
	if err != nil {
		return nil, fmt.Errorf("catalog search %q: %w", query, err)
	}

	env, err := resp.Envelope()
	if err != nil {
		return nil, err
	}
	if !env.HasData() {
		return nil, nil
	}
	var items []models.CatalogItem
	if err := env.List(&items); err != nil {
		return nil, fmt.Errorf("parse catalog results for %q: %w", query, err)
	}
	return items, nil
}

func (s *DefaultCatalogService) ResolveProducts(ctx context.Context, session *models.CustomerSession, names []string, f Filter) error {
	logger := utils.GetLogger()

	matched := 0
	for _, name := range names {
		item, canonical, found := s.resolveOne(ctx, name, f)
		if !found {
			logger.Warn("product not found in catalog, skipping",
				zap.String("actor", string(session.Actor)),
				zap.String("query", name))
			continue
		}
		session.StoreItem(canonical, item)
		matched++
		logger.Info("product matched",
			zap.String("query", name),
			zap.String("canonical", canonical),
			zap.String("product_id", item.ProductID))
	}

	if matched == 0 {
		return ErrNoProductsMatched
	}
	return nil
}

// resolveOne walks the query variants for one name and returns the first
// usable match along with its canonical backend name.
func (s *DefaultCatalogService) resolveOne(ctx context.Context, name string, f Filter) (models.CatalogItem, string, bool) {
	logger := utils.GetLogger()

	for _, variant := range queryVariants(name) {
		items, err := s.Search(ctx, variant, f)
		if err != nil {
			// One failed query must not sink the whole resolution pass.
			logger.Warn("catalog query failed",
				zap.String("variant", variant),
				zap.Error(err))
			continue
		}
		if len(items) == 0 {
			continue
		}
		if item, ok := pickMatch(variant, items); ok {
			canonical := item.DisplayName()
			if canonical == "" {
				canonical = name
			}
			return item, canonical, true
		}
	}
	return models.CatalogItem{}, "", false
}
