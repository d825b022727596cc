package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/knagano/todolist-api/internal/constants"
	"github.com/knagano/todolist-api/internal/models"
	"github.com/knagano/todolist-api/internal/ordering"
	"github.com/knagano/todolist-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrTitleEmpty             = errors.New("title cannot be empty")
	ErrInvalidCategory        = errors.New("category must be WORK or PERSONAL")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksSuggested     = errors.New("AI did not suggest any tasks")
)

// TaskService is the facade over task storage and the ordering engine.
// Every operation takes the verified account id of the caller; a task
// owned by another account behaves exactly like a missing one.
type TaskService struct {
	taskRepo  repository.TaskRepository
	userRepo  repository.UserRepository
	aiService *AIService
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, aiService *AIService) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		userRepo:  userRepo,
		aiService: aiService,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	OwnerID  uint64
	Done     bool
	Category *models.Category
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	OwnerID  uint64
	Title    string
	Category models.Category
	DueDate  *time.Time
}

// UpdateTaskInput represents a partial update. Nil fields are left
// untouched; ClearDueDate distinguishes "set to null" from "not sent".
type UpdateTaskInput struct {
	Title        *string
	Category     *models.Category
	Done         *bool
	DueDate      *time.Time
	ClearDueDate bool
	Order        *int
}

// AccountSummary is the read-only aggregate for the account page. The
// counts are computed per call rather than maintained, so they can never
// drift from the task store.
type AccountSummary struct {
	Email          string
	CreatedAt      time.Time
	ActiveCount    int64
	CompletedCount int64
}

// ListTasks returns the owner's tasks for one status, optionally narrowed
// to a category, in manual order.
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, error) {
	if input.Category != nil && !input.Category.Valid() {
		return nil, ErrInvalidCategory
	}

	tasks, err := s.taskRepo.List(repository.TaskFilter{
		OwnerID:  input.OwnerID,
		Done:     input.Done,
		Category: input.Category,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// CreateTask creates a task at the last position of its partition.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleEmpty
	}

	category := input.Category
	if category == "" {
		category = models.CategoryPersonal
	}
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}

	task := &models.Task{
		OwnerID:  input.OwnerID,
		Title:    title,
		Category: category,
		Done:     false,
		DueDate:  input.DueDate,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// UpdateTask applies a partial update. A done transition is the only
// writer of CompletedAt: flipping to done stamps it, flipping back clears
// it, and resending the stored value changes nothing. A done or category
// change moves the task to the end of its new partition. A supplied Order
// repositions the task within its (possibly new) partition in the same
// transaction as the field changes.
func (s *TaskService) UpdateTask(ownerID, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByOwner(ownerID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	partitionChanged := false

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleEmpty
		}
		task.Title = title
	}
	if input.Category != nil {
		if !input.Category.Valid() {
			return nil, ErrInvalidCategory
		}
		if task.Category != *input.Category {
			task.Category = *input.Category
			partitionChanged = true
		}
	}
	if input.Done != nil && task.Done != *input.Done {
		task.Done = *input.Done
		if task.Done {
			now := time.Now()
			task.CompletedAt = &now
		} else {
			task.CompletedAt = nil
		}
		partitionChanged = true
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}

	if err := s.taskRepo.Save(task, partitionChanged, input.Order); err != nil {
		if errors.Is(err, ordering.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	if input.Order != nil {
		return s.reload(ownerID, task.ID)
	}

	return task, nil
}

// DeleteTask removes a task owned by the caller. No cascades.
func (s *TaskService) DeleteTask(ownerID, taskID uint64) error {
	if err := s.taskRepo.Delete(ownerID, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// GetAccountSummary returns the account's public fields and live task counts.
func (s *TaskService) GetAccountSummary(ownerID uint64) (*AccountSummary, error) {
	user, err := s.userRepo.FindByID(ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	activeCount, err := s.taskRepo.CountByOwner(ownerID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to count active tasks: %w", err)
	}
	completedCount, err := s.taskRepo.CountByOwner(ownerID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to count completed tasks: %w", err)
	}

	return &AccountSummary{
		Email:          user.Email,
		CreatedAt:      user.CreatedAt,
		ActiveCount:    activeCount,
		CompletedCount: completedCount,
	}, nil
}

// SuggestTasks asks the AI service to extract task suggestions from free
// text. Suggestions are not persisted; the client creates tasks from them.
func (s *TaskService) SuggestTasks(ctx context.Context, text string) ([]SuggestedTask, error) {
	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}

	suggestions, err := s.aiService.SuggestTasksFromText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest tasks: %w", err)
	}

	if len(suggestions) > constants.MaxSuggestedTasks {
		suggestions = suggestions[:constants.MaxSuggestedTasks]
	}

	valid := make([]SuggestedTask, 0, len(suggestions))
	for _, suggestion := range suggestions {
		if strings.TrimSpace(suggestion.Title) == "" {
			continue
		}
		if !suggestion.Category.Valid() {
			suggestion.Category = models.CategoryPersonal
		}
		valid = append(valid, suggestion)
	}

	if len(valid) == 0 {
		return nil, ErrAINoTasksSuggested
	}

	return valid, nil
}

func (s *TaskService) reload(ownerID, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByOwner(ownerID, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}
	return task, nil
}
