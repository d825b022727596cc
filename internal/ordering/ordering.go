// Package ordering maintains the manual order of tasks. Ranks are scoped
// per (owner, done, category) partition so reordering one filtered view
// never disturbs the order visible under a different filter. Every
// function runs inside the caller's transaction so a rank reassignment
// commits or rolls back together with the mutation that triggered it.
package ordering

import (
	"errors"
	"fmt"

	"github.com/knagano/todolist-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrTaskNotFound is returned when the task to reposition does not exist
// for the given owner.
var ErrTaskNotFound = errors.New("task not found")

// lockForUpdate adds a FOR UPDATE row lock on drivers that support it.
// Without the lock, two transactions under InnoDB REPEATABLE READ or
// Postgres READ COMMITTED can both read the same MAX(sort_rank) and
// insert a duplicate rank. sqlite has no row locks and rejects the
// clause; its single writer serializes these reads on its own.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// NextRank returns the rank for a task appended to the end of a partition.
// MAX+1 rather than COUNT so that gaps left by deletes never produce a
// duplicate. The aggregate read locks the partition's rows, so concurrent
// writers to the same partition serialize against the caller's
// transaction.
func NextRank(tx *gorm.DB, ownerID uint64, done bool, category models.Category) (int, error) {
	var next int
	err := lockForUpdate(tx).Model(&models.Task{}).
		Where("owner_id = ? AND done = ? AND category = ?", ownerID, done, category).
		Select("COALESCE(MAX(sort_rank) + 1, 0)").
		Scan(&next).Error
	if err != nil {
		return 0, fmt.Errorf("failed to compute next rank: %w", err)
	}
	return next, nil
}

// Reposition moves a task to newIndex within its visible list, i.e. the
// partition the task currently belongs to, and rewrites that partition's
// ranks as a contiguous 0..n-1 sequence. Both reads lock the rows they
// touch, so a concurrent reposition or create for the same partition
// blocks until the caller's transaction finishes. newIndex is clamped
// into the valid range.
func Reposition(tx *gorm.DB, ownerID, taskID uint64, newIndex int) error {
	var task models.Task
	if err := lockForUpdate(tx).Where("owner_id = ?", ownerID).First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	var partition []models.Task
	err := lockForUpdate(tx).
		Where("owner_id = ? AND done = ? AND category = ?", ownerID, task.Done, task.Category).
		Order("sort_rank ASC, created_at ASC").
		Find(&partition).Error
	if err != nil {
		return fmt.Errorf("failed to load partition: %w", err)
	}

	sequence := moveToIndex(partition, task.ID, newIndex)

	for i, t := range sequence {
		if t.Rank == i {
			continue
		}
		err := tx.Model(&models.Task{}).
			Where("id = ?", t.ID).
			Update("sort_rank", i).Error
		if err != nil {
			return fmt.Errorf("failed to update rank: %w", err)
		}
	}

	return nil
}

// moveToIndex removes the task with the given id from the sequence and
// reinserts it at newIndex, clamped to the sequence bounds.
func moveToIndex(tasks []models.Task, id uint64, newIndex int) []models.Task {
	rest := make([]models.Task, 0, len(tasks))
	var moved *models.Task
	for i := range tasks {
		if tasks[i].ID == id {
			moved = &tasks[i]
			continue
		}
		rest = append(rest, tasks[i])
	}
	if moved == nil {
		return tasks
	}

	if newIndex < 0 {
		newIndex = 0
	}
	if newIndex > len(rest) {
		newIndex = len(rest)
	}

	sequence := make([]models.Task, 0, len(tasks))
	sequence = append(sequence, rest[:newIndex]...)
	sequence = append(sequence, *moved)
	sequence = append(sequence, rest[newIndex:]...)
	return sequence
}
