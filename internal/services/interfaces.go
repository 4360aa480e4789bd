package services

import (
	"context"

	"github.com/mrlokans/curriculum/internal/entities"
)

// RunStore persists import run history.
// runs.Repository is the gorm implementation.
type RunStore interface {
	Save(ctx context.Context, run *entities.ImportRun) error
}
