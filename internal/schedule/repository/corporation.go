package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shiftboard/shiftboard-backend/internal/schedule/domain"
	"github.com/shiftboard/shiftboard-backend/pkg/database"
	"github.com/shiftboard/shiftboard-backend/pkg/errors"
)

const corporationColumns = `id, name, business_day_start_hour, business_day_end_hour`

// CorporationRepository reads corporation operating hours
type CorporationRepository struct {
	db *database.DB
}

// NewCorporationRepository creates a new corporation repository
func NewCorporationRepository(db *database.DB) *CorporationRepository {
	return &CorporationRepository{db: db}
}

// FindByID returns NotFound for ids that are not UUIDs without querying,
// since legacy keys are often names.
func (r *CorporationRepository) FindByID(ctx context.Context, id string) (*domain.Corporation, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.NotFound("corporation")
	}
	return r.findOne(ctx, "id = $1", id)
}

// FindByName matches the exact corporation name
func (r *CorporationRepository) FindByName(ctx context.Context, name string) (*domain.Corporation, error) {
	return r.findOne(ctx, "name = $1", name)
}

func (r *CorporationRepository) findOne(ctx context.Context, cond string, arg string) (*domain.Corporation, error) {
	var corp domain.Corporation
	err := r.db.GetContext(ctx, &corp, "SELECT "+corporationColumns+" FROM corporations WHERE "+cond, arg)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("corporation")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get corporation: %w", err)
	}
	return &corp, nil
}
