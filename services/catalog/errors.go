package catalog

import "errors"

// ErrNoProductsMatched indicates that none of the requested names could be
// resolved to a catalog item.
var ErrNoProductsMatched = errors.New("no requested products matched the catalog")
