package store

import (
	"context"

	"housechat/core/logger"
	"log/slog"
)

// DefaultBuildings is the building set applied on first startup.
// Existing rows are never overwritten by seeding.
var DefaultBuildings = []string{"1.1", "1.2", "1.3", "1.4", "2.1", "2.2"}

// SeedDefaultBuildings inserts the default building set, attributed to the
// super operator. Safe to call on every startup.
func SeedDefaultBuildings(ctx context.Context, s BuildingStore, addedBy int64) error {
	if err := s.SeedDefaults(ctx, DefaultBuildings, addedBy); err != nil {
		return err
	}
	logger.SEED.LogAttrs(ctx, slog.LevelInfo, "buildings.seeded",
		slog.String("status", "ok"),
		slog.Int("count", len(DefaultBuildings)),
	)
	return nil
}
