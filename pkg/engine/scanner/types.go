package scanner

import (
	"context"

	"github.com/DrSkyle/hdfslash/pkg/catalog"
)

// Scanner defines the interface for cluster discovery modules.
type Scanner interface {
	Name() string
	// Scan ingests records into the catalog. It returns an error only for
	// fatal failures; partials should be logged/added to catalog metadata.
	Scan(ctx context.Context, cat *catalog.Catalog) error
}
