package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"housechat/internal/domain"
)

// uniqueViolation is the Postgres error code for unique constraint hits.
const uniqueViolation = "23505"

// Postgres implements Store on top of sqlx.
type Postgres struct {
	db *sqlx.DB
}

// NewPostgres wraps an open database handle.
func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) UpsertBasic(ctx context.Context, userID int64, username, firstName, lastName string) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO residents (user_id, username, first_name, last_name, registered)
		VALUES ($1, NULLIF($2, ''), $3, NULLIF($4, ''), FALSE)
		ON CONFLICT (user_id) DO UPDATE SET
			username   = EXCLUDED.username,
			first_name = EXCLUDED.first_name,
			last_name  = EXCLUDED.last_name`,
		userID, username, firstName, lastName)
	if err != nil {
		return fmt.Errorf("upsert resident %d: %w", userID, err)
	}
	return nil
}

func (p *Postgres) SetBuilding(ctx context.Context, userID int64, building string) error {
	_, err := p.db.ExecContext(ctx,
		`UPDATE residents SET building = $1 WHERE user_id = $2`,
		building, userID)
	if err != nil {
		return fmt.Errorf("set building for %d: %w", userID, err)
	}
	return nil
}

func (p *Postgres) Complete(ctx context.Context, userID int64, apartment, phone string) error {
	_, err := p.db.ExecContext(ctx, `
		UPDATE residents
		SET apartment = $1, phone = $2, registered = TRUE, registration_time = NOW()
		WHERE user_id = $3`,
		apartment, phone, userID)
	if err != nil {
		return fmt.Errorf("complete registration for %d: %w", userID, err)
	}
	return nil
}

func (p *Postgres) IsRegistered(ctx context.Context, userID int64) (bool, error) {
	var registered bool
	err := p.db.GetContext(ctx, &registered,
		`SELECT registered FROM residents WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("registration status for %d: %w", userID, err)
	}
	return registered, nil
}

func (p *Postgres) ListResidents(ctx context.Context, building, apartment string) ([]domain.Resident, error) {
	var residents []domain.Resident
	err := p.db.SelectContext(ctx, &residents, `
		SELECT user_id, username, first_name, last_name, building, apartment,
		       phone, registered, registration_time
		FROM residents
		WHERE building = $1 AND apartment = $2 AND registered = TRUE
		ORDER BY registration_time ASC`,
		building, apartment)
	if err != nil {
		return nil, fmt.Errorf("list residents %s-%s: %w", building, apartment, err)
	}
	return residents, nil
}

func (p *Postgres) CountResidents(ctx context.Context, building, apartment string) (int, error) {
	var count int
	err := p.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM residents
		WHERE building = $1 AND apartment = $2 AND registered = TRUE`,
		building, apartment)
	if err != nil {
		return 0, fmt.Errorf("count residents %s-%s: %w", building, apartment, err)
	}
	return count, nil
}

func (p *Postgres) ListBuildings(ctx context.Context) ([]domain.Building, error) {
	var buildings []domain.Building
	err := p.db.SelectContext(ctx, &buildings,
		`SELECT name, added_by, added_time FROM buildings ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list buildings: %w", err)
	}
	return buildings, nil
}

func (p *Postgres) AddBuilding(ctx context.Context, name string, addedBy int64) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO buildings (name, added_by) VALUES ($1, $2)`,
		name, addedBy)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return ErrBuildingExists
		}
		return fmt.Errorf("add building %q: %w", name, err)
	}
	return nil
}

func (p *Postgres) SeedDefaults(ctx context.Context, names []string, addedBy int64) error {
	for _, name := range names {
		_, err := p.db.ExecContext(ctx,
			`INSERT INTO buildings (name, added_by) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
			name, addedBy)
		if err != nil {
			return fmt.Errorf("seed building %q: %w", name, err)
		}
	}
	return nil
}
