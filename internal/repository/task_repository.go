package repository

import (
	"github.com/knagano/todolist-api/internal/models"
	"github.com/knagano/todolist-api/internal/ordering"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create inserts the task with its rank assigned at the end of its
// partition. Reading the current maximum and inserting happen in one
// transaction so concurrent creates or repositions cannot interleave.
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		rank, err := ordering.NextRank(tx, task.OwnerID, task.Done, task.Category)
		if err != nil {
			return err
		}
		task.Rank = rank
		return tx.Create(task).Error
	})
}

// FindByOwner finds a task by id, scoped to the owner
func (r *GormTaskRepository) FindByOwner(ownerID, id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.Where("owner_id = ?", ownerID).First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves tasks in their manual order
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, error) {
	tasks := []models.Task{}

	query := r.db.
		Where("owner_id = ? AND done = ?", filter.OwnerID, filter.Done).
		Order("sort_rank ASC, created_at ASC")

	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}

	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

// Save persists the task's fields. With reRank the task has changed
// partition (done or category edit) and is appended to the end of its
// new partition. A non-nil order then repositions the task within that
// partition. Everything runs in one transaction, so a failed reposition
// rolls the field changes back as well.
func (r *GormTaskRepository) Save(task *models.Task, reRank bool, order *int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if reRank {
			rank, err := ordering.NextRank(tx, task.OwnerID, task.Done, task.Category)
			if err != nil {
				return err
			}
			task.Rank = rank
		}
		if err := tx.Save(task).Error; err != nil {
			return err
		}
		if order != nil {
			return ordering.Reposition(tx, task.OwnerID, task.ID, *order)
		}
		return nil
	})
}

// Delete removes a task, scoped to the owner. The vacated rank leaves a
// gap; the next reposition in that partition compacts it.
func (r *GormTaskRepository) Delete(ownerID, id uint64) error {
	result := r.db.Where("owner_id = ?", ownerID).Delete(&models.Task{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountByOwner counts an owner's tasks with the given done state
func (r *GormTaskRepository) CountByOwner(ownerID uint64, done bool) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).
		Where("owner_id = ? AND done = ?", ownerID, done).
		Count(&count).Error
	return count, err
}
