package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/jask/dockyard/internal/database/repository"
	"github.com/jask/dockyard/internal/layout"
)

// SeedDefaults ensures the predefined layouts exist in the library. Layouts
// the user has overwritten under the same name are left alone. It is
// idempotent and safe to run on every startup.
//
// Seeds are stored unresolved so the configured dimensions apply when they
// are opened.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	repo := repository.NewLayoutRepo(db)
	configs, err := layout.Predefined()
	if err != nil {
		return fmt.Errorf("parse predefined layouts: %w", err)
	}
	now := Now()
	for _, name := range layout.PredefinedNames() {
		data, err := layout.MarshalConfig(configs[name])
		if err != nil {
			return err
		}
		id := uuid.NewSHA1(uuid.NameSpaceOID, []byte("layout:"+name)).String()
		l := repository.SavedLayout{ID: id, Name: name, Config: string(data), CreatedAt: now, UpdatedAt: now}
		if _, err := repo.InsertIfMissing(ctx, l); err != nil {
			return fmt.Errorf("seed layout %s: %w", name, err)
		}
	}
	return nil
}
