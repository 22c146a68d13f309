package ports

import (
	"context"

	"schooldash/domain/dataset"
)

// TableSource loads the two raw input tables. Implementations re-read their
// backing files on every call; callers rely on that to pick up edits.
type TableSource interface {
	Load(ctx context.Context) (dataset.RawTables, error)
}
