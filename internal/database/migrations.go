package database

import (
	"fmt"
	"log"

	"github.com/knagano/todolist-api/internal/models"
	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		model   any
		table   string
		name    string
		columns string
	}{
		// The list query filters by owner+status+category and sorts by rank,
		// then created_at as the legacy tie break.
		{&models.Task{}, "tasks", "idx_tasks_partition_rank", "owner_id, done, category, sort_rank, created_at"},
		{&models.Task{}, "tasks", "idx_tasks_owner_done", "owner_id, done"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.model, idx.name) {
			log.Printf("Index %s already exists, skipping", idx.name)
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Printf("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}
