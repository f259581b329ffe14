package database

import (
	"context"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yukikurage/task-manager/internal/config"
	"github.com/yukikurage/task-manager/internal/models"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Models lists every persisted model in dependency order.
func Models() []any {
	return []any{
		&models.Position{},
		&models.TaskType{},
		&models.Employee{},
		&models.Task{},
		&models.TaskAssignment{},
	}
}

// Migrate brings the schema up to date. Postgres is versioned with goose;
// mysql and sqlite are migrated from the model definitions.
func Migrate(ctx context.Context, db *gorm.DB, driver string, log *zap.SugaredLogger) error {
	log.Infow("running database migrations", "driver", driver)

	if driver == config.DriverPostgres {
		if err := runGoose(ctx, db); err != nil {
			return err
		}
		log.Info("database migrations completed")
		return nil
	}

	if err := AutoMigrate(db); err != nil {
		return err
	}
	if err := AddIndexes(db, log); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	log.Info("database migrations completed")
	return nil
}

// AutoMigrate creates or updates tables for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func runGoose(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, sqlDB, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// AddIndexes adds the list-view indexes that the model tags do not declare.
func AddIndexes(db *gorm.DB, log *zap.SugaredLogger) error {
	indexes := []struct {
		model   any
		name    string
		columns string
	}{
		// Default task ordering
		{&models.Task{}, "idx_tasks_is_completed_deadline", "is_completed, deadline"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.model, idx.name) {
			log.Debugw("index already exists, skipping", "index", idx.name)
			continue
		}

		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(idx.model); err != nil {
			return fmt.Errorf("failed to parse model for index %s: %w", idx.name, err)
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, stmt.Schema.Table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Infow("created index", "index", idx.name, "table", stmt.Schema.Table, "columns", idx.columns)
	}

	return nil
}
