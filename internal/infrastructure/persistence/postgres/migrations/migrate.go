package migrations

import (
	"fmt"
	"time"

	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/activity"
	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/membership"
	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/project"
	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/task"
	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/user"
	"github.com/buihuuthinh2018/backend-crm-task/internal/infrastructure/persistence/postgres/connection"
	"github.com/buihuuthinh2018/backend-crm-task/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MigrationRecord tracks the migration history
type MigrationRecord struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"not null;unique"`
	Version   int       `gorm:"not null"`
	AppliedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for migration records
func (MigrationRecord) TableName() string {
	return "schema_migrations"
}

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *connection.Database, log *logger.Logger) error {
	log.Info("Starting automatic database migration...")

	// Enable UUID extension for PostgreSQL
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		log.Error("Failed to create UUID extension", zap.Error(err))
		return fmt.Errorf("failed to create UUID extension: %v", err)
	}

	// Create migrations table if it doesn't exist
	if err := db.AutoMigrate(&MigrationRecord{}); err != nil {
		log.Error("Failed to create migrations table", zap.Error(err))
		return fmt.Errorf("failed to create migrations table: %v", err)
	}

	// Run the whole migration pass in a single transaction
	return db.Transaction(func(tx *gorm.DB) error {
		txDB := &connection.Database{DB: tx}

		var lastVersion int
		if err := txDB.Model(&MigrationRecord{}).Select("COALESCE(MAX(version), 0)").Scan(&lastVersion).Error; err != nil {
			return fmt.Errorf("failed to get last version: %v", err)
		}

		// Order matters due to foreign key relationships
		models := []interface{}{
			&user.User{},
			&project.Project{},
			&membership.ProjectMember{},
			&task.Task{},
			&membership.TaskMember{},
			&activity.Log{},
		}

		for i, model := range models {
			modelName := fmt.Sprintf("%T", model)

			var record MigrationRecord
			err := txDB.Where("name = ?", modelName).First(&record).Error
			isNewMigration := err == gorm.ErrRecordNotFound

			if err := txDB.AutoMigrate(model); err != nil {
				log.Error("Failed to migrate model",
					zap.String("model", modelName),
					zap.Error(err),
				)
				return fmt.Errorf("failed to migrate %s: %v", modelName, err)
			}

			if isNewMigration {
				record = MigrationRecord{
					Name:      modelName,
					Version:   lastVersion + i + 1,
					AppliedAt: time.Now(),
				}
				if err := txDB.Create(&record).Error; err != nil {
					log.Error("Failed to record migration",
						zap.String("model", modelName),
						zap.Error(err),
					)
					return fmt.Errorf("failed to record migration for %s: %v", modelName, err)
				}
				log.Info("Applied new migration",
					zap.String("model", modelName),
					zap.Int("version", record.Version),
				)
			}
		}

		if err := createConstraints(tx); err != nil {
			return err
		}

		log.Info("Database migration completed successfully")
		return nil
	})
}

// createConstraints adds the constraints AutoMigrate cannot express.
func createConstraints(db *gorm.DB) error {
	statements := []string{
		// At most one PRIMARY assignee per task. Two transactions racing to
		// promote different members serialize here; the loser sees 23505.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_task_members_single_primary
			ON task_members (task_id) WHERE role = 'PRIMARY'`,
		`ALTER TABLE project_members
			DROP CONSTRAINT IF EXISTS fk_project_members_project,
			ADD CONSTRAINT fk_project_members_project
			FOREIGN KEY (project_id) REFERENCES projects(id)`,
		`ALTER TABLE project_members
			DROP CONSTRAINT IF EXISTS fk_project_members_user,
			ADD CONSTRAINT fk_project_members_user
			FOREIGN KEY (user_id) REFERENCES users(id)`,
		`ALTER TABLE task_members
			DROP CONSTRAINT IF EXISTS fk_task_members_task,
			ADD CONSTRAINT fk_task_members_task
			FOREIGN KEY (task_id) REFERENCES tasks(id)`,
		`ALTER TABLE task_members
			DROP CONSTRAINT IF EXISTS fk_task_members_user,
			ADD CONSTRAINT fk_task_members_user
			FOREIGN KEY (user_id) REFERENCES users(id)`,
		`ALTER TABLE tasks
			DROP CONSTRAINT IF EXISTS fk_tasks_project,
			ADD CONSTRAINT fk_tasks_project
			FOREIGN KEY (project_id) REFERENCES projects(id)`,
		`ALTER TABLE tasks
			DROP CONSTRAINT IF EXISTS fk_tasks_parent,
			ADD CONSTRAINT fk_tasks_parent
			FOREIGN KEY (parent_id) REFERENCES tasks(id)`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to apply constraint: %w", err)
		}
	}
	return nil
}
