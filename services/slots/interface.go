package slots

import (
	"context"

	"labprobe/client"
	"labprobe/models"
)

// SlotService locates a bookable home-collection window for an address.
type SlotService interface {
	// CentersForAddress returns the collection centers serving the given
	// coordinates.
	CentersForAddress(ctx context.Context, token, lat, lng string) ([]models.Center, error)

	// FindFirstAvailable scans dates from today forward, one day at a time,
	// and returns the first slot with remaining capacity. The scan is bounded
	// by HorizonDays; exhaustion returns ErrNoSlotAvailable.
	FindFirstAvailable(ctx context.Context, token, centerGUID string) (models.Slot, error)
}

// DefaultSlotService is the production implementation.
type DefaultSlotService struct {
	Exec        client.Executor
	HorizonDays int
}
