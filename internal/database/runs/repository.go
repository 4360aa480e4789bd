package runs

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/curriculum/internal/entities"
)

const defaultLimit = 50

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Save creates or replaces a stored import run.
func (r *Repository) Save(ctx context.Context, run *entities.ImportRun) error {
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	return r.db.WithContext(ctx).Save(run).Error
}

// List retrieves paginated import runs, most recent first.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]entities.ImportRun, int64, error) {
	var runs []entities.ImportRun
	var total int64

	query := r.db.WithContext(ctx).Model(&entities.ImportRun{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = defaultLimit
	}
	if offset < 0 {
		offset = 0
	}

	// Reports can be large; listings leave them out.
	err := query.Omit("report").Order("started_at DESC").Limit(limit).Offset(offset).Find(&runs).Error
	return runs, total, err
}

// Get retrieves a single import run including its stored report.
func (r *Repository) Get(ctx context.Context, id string) (*entities.ImportRun, error) {
	var run entities.ImportRun
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&run).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// Latest retrieves the most recent run for an export path.
func (r *Repository) Latest(ctx context.Context, exportPath string) (*entities.ImportRun, error) {
	var run entities.ImportRun
	err := r.db.WithContext(ctx).
		Where("export_path = ?", exportPath).
		Order("started_at DESC").
		First(&run).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// DeleteOlderThan removes finished runs started before the cutoff.
// Returns the number of deleted runs.
func (r *Repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("started_at < ? AND status <> ?", cutoff, entities.ImportStatusRunning).
		Delete(&entities.ImportRun{})
	return result.RowsAffected, result.Error
}
