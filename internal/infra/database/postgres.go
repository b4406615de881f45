package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hashtagchobi/chobi-site/internal/infra/database/models"
)

const (
	postgresMaxOpenConns = 10
	postgresMaxIdleTime  = 5 * time.Minute
)

// NewPostgres opens the enquiry database. gorm output goes through the
// default slog handler at warn level.
func NewPostgres(ctx context.Context, dsn string) (*gorm.DB, error) {
	gormLogger := logger.New(
		slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
		logger.Config{
			SlowThreshold:             300 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger,
	})
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "postgres handle")
	}
	sqlDB.SetMaxOpenConns(postgresMaxOpenConns)
	sqlDB.SetConnMaxIdleTime(postgresMaxIdleTime)

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, errors.Wrap(err, "ping postgres")
	}
	return db, nil
}

func MigratePostgres(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Enquiry{},
	)
}
