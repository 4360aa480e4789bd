package importers

import (
	"context"

	"github.com/mrlokans/curriculum/internal/entities"
)

// DryRunID is the id every record gets when nothing is persisted.
const DryRunID uint = 0

// Repository is the content store the importer writes to.
// content.Repository is the persistent implementation.
type Repository interface {
	Upsert(ctx context.Context, record entities.Record) (uint, error)
	UpsertAll(ctx context.Context, records []entities.Record) ([]uint, error)
}

// DryRunRepository accepts every record and persists nothing.
type DryRunRepository struct{}

func (DryRunRepository) Upsert(context.Context, entities.Record) (uint, error) {
	return DryRunID, nil
}

func (DryRunRepository) UpsertAll(_ context.Context, records []entities.Record) ([]uint, error) {
	return make([]uint, len(records)), nil
}

var _ Repository = DryRunRepository{}
