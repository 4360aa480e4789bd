package content

import (
	"context"

	"github.com/cockroachdb/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/curriculum/internal/entities"
)

var ErrMissingSourceID = errors.New("record has no source id")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert inserts the record or updates the row sharing its source_id, and returns the row id.
func (r *Repository) Upsert(ctx context.Context, record entities.Record) (uint, error) {
	return upsert(r.db.WithContext(ctx), record)
}

// UpsertAll upserts every record inside one transaction. Nothing is kept if any upsert fails.
func (r *Repository) UpsertAll(ctx context.Context, records []entities.Record) ([]uint, error) {
	ids := make([]uint, 0, len(records))
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, record := range records {
			id, err := upsert(tx, record)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// FindBySourceID loads the row with the given source_id into dest.
func (r *Repository) FindBySourceID(ctx context.Context, dest entities.Record, sourceID string) error {
	return r.db.WithContext(ctx).Where("source_id = ?", sourceID).Take(dest).Error
}

// CountByTable returns the row count for each content table.
func (r *Repository) CountByTable(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, model := range entities.ContentModels() {
		record := model.(entities.Record)
		var n int64
		if err := r.db.WithContext(ctx).Model(model).Count(&n).Error; err != nil {
			return nil, errors.Wrapf(err, "count %s", record.TableName())
		}
		counts[record.TableName()] = n
	}
	return counts, nil
}

func upsert(db *gorm.DB, record entities.Record) (uint, error) {
	key := record.ConflictKey()
	if key == "" {
		return 0, errors.Wrapf(ErrMissingSourceID, "upsert into %s", record.TableName())
	}

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "source_id"}},
		UpdateAll: true,
	}).Create(record).Error
	if err != nil {
		return 0, errors.Wrapf(err, "upsert %s", key)
	}

	// Not every driver reports the id of a row that was updated instead of inserted.
	var ids []uint
	if err := db.Table(record.TableName()).Where("source_id = ?", key).Pluck("id", &ids).Error; err != nil {
		return 0, errors.Wrapf(err, "reload %s", key)
	}
	if len(ids) == 0 {
		return 0, errors.Newf("upserted %s not found", key)
	}
	return ids[0], nil
}
