// Package store persists residents and buildings.
package store

import (
	"context"
	"errors"

	"housechat/internal/domain"
)

// ErrBuildingExists signals an add on a building name that is already taken.
var ErrBuildingExists = errors.New("building already exists")

// ResidentStore persists chat participants and their registration progress.
type ResidentStore interface {
	// UpsertBasic records identity fields on first contact. For a known
	// user it refreshes names only and never touches registration data.
	UpsertBasic(ctx context.Context, userID int64, username, firstName, lastName string) error
	// SetBuilding stores the chosen building on an in-flight registration.
	SetBuilding(ctx context.Context, userID int64, building string) error
	// Complete stores apartment and phone and flips registered in one write.
	Complete(ctx context.Context, userID int64, apartment, phone string) error
	IsRegistered(ctx context.Context, userID int64) (bool, error)
	// ListResidents returns registered residents of the apartment ordered
	// by registration time ascending.
	ListResidents(ctx context.Context, building, apartment string) ([]domain.Resident, error)
	CountResidents(ctx context.Context, building, apartment string) (int, error)
}

// BuildingStore persists the building catalogue.
type BuildingStore interface {
	// ListBuildings returns all buildings ordered by name.
	ListBuildings(ctx context.Context) ([]domain.Building, error)
	// AddBuilding inserts a building, returning ErrBuildingExists on a
	// name collision.
	AddBuilding(ctx context.Context, name string, addedBy int64) error
	// SeedDefaults inserts the given names, silently skipping existing ones.
	SeedDefaults(ctx context.Context, names []string, addedBy int64) error
}

// Store is the full persistence surface of the bot.
type Store interface {
	ResidentStore
	BuildingStore
}
