package slots

import "errors"

// ErrNoSlotAvailable indicates the date scan exhausted its horizon without
// finding a slot with capacity.
var ErrNoSlotAvailable = errors.New("no slot with capacity within the search horizon")
