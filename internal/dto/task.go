package dto

import (
	"time"

	"github.com/knagano/todolist-api/internal/models"
	"github.com/knagano/todolist-api/internal/services"
)

// UserDTO represents an account's public fields in API responses
type UserDTO struct {
	ID        uint64    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// TaskDTO represents a task in API responses. Timestamps serialize as
// ISO-8601; the stored rank is exposed as "order".
type TaskDTO struct {
	ID          uint64          `json:"id"`
	Title       string          `json:"title"`
	Category    models.Category `json:"category"`
	Done        bool            `json:"done"`
	DueDate     *time.Time      `json:"dueDate"`
	CompletedAt *time.Time      `json:"completedAt"`
	CreatedAt   time.Time       `json:"createdAt"`
	Order       int             `json:"order"`
}

// AccountSummaryDTO represents the account page aggregate
type AccountSummaryDTO struct {
	Email          string    `json:"email"`
	CreatedAt      time.Time `json:"createdAt"`
	ActiveCount    int64     `json:"activeCount"`
	CompletedCount int64     `json:"completedCount"`
}

// SuggestedTaskDTO represents one AI task suggestion
type SuggestedTaskDTO struct {
	Title    string          `json:"title"`
	Category models.Category `json:"category"`
	DueDate  *time.Time      `json:"dueDate"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Category:    task.Category,
		Done:        task.Done,
		DueDate:     task.DueDate,
		CompletedAt: task.CompletedAt,
		CreatedAt:   task.CreatedAt,
		Order:       task.Rank,
	}
}

// ToTaskDTOs converts a slice of tasks preserving order
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}

// ToAccountSummaryDTO converts a service summary to its wire shape
func ToAccountSummaryDTO(summary services.AccountSummary) AccountSummaryDTO {
	return AccountSummaryDTO{
		Email:          summary.Email,
		CreatedAt:      summary.CreatedAt,
		ActiveCount:    summary.ActiveCount,
		CompletedCount: summary.CompletedCount,
	}
}

// ToSuggestedTaskDTOs converts AI suggestions to their wire shape
func ToSuggestedTaskDTOs(suggestions []services.SuggestedTask) []SuggestedTaskDTO {
	dtos := make([]SuggestedTaskDTO, len(suggestions))
	for i, s := range suggestions {
		dtos[i] = SuggestedTaskDTO{
			Title:    s.Title,
			Category: s.Category,
			DueDate:  s.DueDate,
		}
	}
	return dtos
}
