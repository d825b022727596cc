package repository

import (
	"github.com/knagano/todolist-api/internal/models"
)

// UserRepository defines the interface for account data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email; callers pass the lowercased form
	FindByEmail(email string) (*models.User, error)
}

// TaskRepository defines the interface for task data access. Every lookup
// and mutation is scoped to an owner; a task belonging to someone else is
// indistinguishable from a missing one.
type TaskRepository interface {
	// Create inserts a task, assigning its rank at the end of the task's
	// (owner, done, category) partition within the same transaction.
	Create(task *models.Task) error

	// FindByOwner finds a task by id, scoped to the owner
	FindByOwner(ownerID, id uint64) (*models.Task, error)

	// List retrieves the tasks matching the filter, ordered by rank with
	// created_at as the tie break for legacy rows sharing a rank.
	List(filter TaskFilter) ([]models.Task, error)

	// Save persists field changes in one transaction. When reRank is true
	// the task has moved to a different partition and is appended to the
	// end of it; a non-nil order then repositions it within that partition.
	Save(task *models.Task, reRank bool, order *int) error

	// Delete removes a task, scoped to the owner
	Delete(ownerID, id uint64) error

	// CountByOwner counts an owner's tasks with the given done state
	CountByOwner(ownerID uint64, done bool) (int64, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	OwnerID  uint64
	Done     bool
	Category *models.Category
}
