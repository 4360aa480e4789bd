package database

import (
	"github.com/cockroachdb/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mrlokans/curriculum/internal/config"
	"github.com/mrlokans/curriculum/internal/entities"
	"github.com/mrlokans/curriculum/internal/logger"
)

type Database struct {
	DB *gorm.DB
}

// NewDatabase opens the content store for the configured driver and migrates all tables.
func NewDatabase(cfg config.Database, log *logger.Logger) (*Database, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	models := append(entities.ContentModels(), &entities.ImportRun{})
	if err := db.AutoMigrate(models...); err != nil {
		return nil, errors.Wrap(err, "failed to migrate database")
	}

	log.Info("Database initialized", "driver", cfg.Driver, logger.FieldPath, cfg.Path)

	return &Database{DB: db}, nil
}

func dialectorFor(cfg config.Database) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DatabaseDriverSQLite, "":
		if cfg.Path == "" {
			return nil, errors.New("database path is required for sqlite")
		}
		return sqlite.Open(cfg.Path), nil
	case config.DatabaseDriverPostgres:
		if cfg.DSN == "" {
			return nil, errors.New("database dsn is required for postgres")
		}
		return postgres.Open(cfg.DSN), nil
	default:
		return nil, errors.Newf("unsupported database driver %q", cfg.Driver)
	}
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
