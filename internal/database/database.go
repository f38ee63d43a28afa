package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookscan/internal/database/books"
	"github.com/mrlokans/bookscan/internal/database/progress"
	"github.com/mrlokans/bookscan/internal/entities"
	"github.com/mrlokans/bookscan/internal/logging"
)

type Database struct {
	DB *gorm.DB

	Books    *books.Repository
	Progress *progress.Repository
}

func NewDatabase(dbPath string, log *zap.Logger) (*Database, error) {
	log = logging.OrNop(log)

	gormLevel := logger.Warn
	if log.Core().Enabled(zap.DebugLevel) {
		gormLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(gormLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.Book{},
		&entities.EnrichmentRun{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Info("database initialized", zap.String("path", dbPath))

	return &Database{
		DB:       db,
		Books:    books.NewRepository(db),
		Progress: progress.NewRepository(db),
	}, nil
}

// Ping checks the underlying connection.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
