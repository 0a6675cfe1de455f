package vectorutils

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/lecternhq/lectern/pkg/dotdir"
	"github.com/lecternhq/lectern/pkg/vector"
	"github.com/lecternhq/lectern/pkg/vector/chroma"
	"github.com/lecternhq/lectern/pkg/vector/memory"
	"github.com/lecternhq/lectern/pkg/vector/pgvector"
	"github.com/lecternhq/lectern/pkg/vector/sqlitevec"
)

type NewVectorDriverOpts struct {
	ProviderType string
	TargetURL    string
	Collection   string
	Dimensions   uint
	Logger       *zap.Logger
}

// NewVectorDriver builds a vector.Driver for the configured provider.
// TargetURL is the Chroma server URL, the pgvector connection string,
// or the sqlite database path, depending on the provider.
func NewVectorDriver(ctx context.Context, o *NewVectorDriverOpts) (vector.Driver, error) {
	switch o.ProviderType {
	case "chroma":
		return chroma.NewDriver(chroma.Config{
			URL:            o.TargetURL,
			CollectionName: o.Collection,
		}, o.Logger)
	case "sqlite":
		dbPath := o.TargetURL
		if dbPath == "" {
			// Default database lives next to the config in the .lectern dir.
			dir, err := dotdir.NewManager().Target("")
			if err != nil {
				return nil, fmt.Errorf("resolving default database path: %w", err)
			}
			dbPath = filepath.Join(dir, "lectern.db")
		}
		return sqlitevec.NewDriver(sqlitevec.Config{
			DBPath:     dbPath,
			Dimensions: o.Dimensions,
		}, o.Logger)
	case "pgvector":
		return pgvector.NewDriver(ctx, pgvector.Config{
			ConnString: o.TargetURL,
			Dimensions: o.Dimensions,
		}, o.Logger)
	case "memory":
		return memory.NewDriver(), nil
	default:
		return nil, fmt.Errorf("unsupported vector store provider: %s", o.ProviderType)
	}
}
