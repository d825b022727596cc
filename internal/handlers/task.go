package handlers

import (
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/knagano/todolist-api/internal/dto"
	apierrors "github.com/knagano/todolist-api/internal/errors"
	"github.com/knagano/todolist-api/internal/middleware"
	"github.com/knagano/todolist-api/internal/models"
	"github.com/knagano/todolist-api/internal/services"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the caller's tasks for one status tab, optionally
// filtered by category, in manual order.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return
	}

	var done bool
	switch c.Query("completed") {
	case "true":
		done = true
	case "false":
		done = false
	default:
		apierrors.InvalidInput(c, "completed must be \"true\" or \"false\"")
		return
	}

	var category *models.Category
	if raw := c.Query("category"); raw != "" {
		cat := models.Category(raw)
		if !cat.Valid() {
			apierrors.InvalidInput(c, "category must be WORK or PERSONAL")
			return
		}
		category = &cat
	}

	tasks, err := h.taskService.ListTasks(services.ListTasksInput{
		OwnerID:  userID,
		Done:     done,
		Category: category,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// CreateTask creates a new task at the end of its list.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return
	}

	type CreateTaskRequest struct {
		Title    string          `json:"title" binding:"required"`
		Category models.Category `json:"category"`
		DueDate  *time.Time      `json:"dueDate"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.InvalidInput(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		OwnerID:  userID,
		Title:    req.Title,
		Category: req.Category,
		DueDate:  req.DueDate,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update. The body is parsed as a raw map so
// an absent field, a null field, and a zero-valued field stay
// distinguishable. "order" is the only accepted reposition field; the
// legacy "sortIndex" alias is ignored like any unknown key.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.InvalidInput(c, "Invalid task ID")
		return
	}

	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.InvalidInput(c, "Invalid request body")
		return
	}

	var input services.UpdateTaskInput

	if raw, ok := rawReq["title"]; ok {
		title, ok := raw.(string)
		if !ok {
			apierrors.InvalidInput(c, "title must be a string")
			return
		}
		input.Title = &title
	}
	if raw, ok := rawReq["category"]; ok {
		str, ok := raw.(string)
		if !ok {
			apierrors.InvalidInput(c, "category must be WORK or PERSONAL")
			return
		}
		category := models.Category(str)
		input.Category = &category
	}
	if raw, ok := rawReq["done"]; ok {
		done, ok := raw.(bool)
		if !ok {
			apierrors.InvalidInput(c, "done must be a boolean")
			return
		}
		input.Done = &done
	}
	if raw, ok := rawReq["dueDate"]; ok {
		if raw == nil {
			input.ClearDueDate = true
		} else {
			str, ok := raw.(string)
			if !ok {
				apierrors.InvalidInput(c, "dueDate must be an ISO-8601 string or null")
				return
			}
			parsed, err := time.Parse(time.RFC3339, str)
			if err != nil {
				apierrors.InvalidInput(c, "dueDate must be an ISO-8601 string or null")
				return
			}
			input.DueDate = &parsed
		}
	}
	if raw, ok := rawReq["order"]; ok {
		// encoding/json decodes numbers into float64
		num, ok := raw.(float64)
		if !ok || num != math.Trunc(num) {
			apierrors.InvalidInput(c, "order must be an integer")
			return
		}
		order := int(num)
		input.Order = &order
	}

	task, err := h.taskService.UpdateTask(userID, taskID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask removes a task owned by the caller.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.InvalidInput(c, "Invalid task ID")
		return
	}

	if err := h.taskService.DeleteTask(userID, taskID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// SuggestTasks generates task suggestions from free text using AI.
func (h *TaskHandler) SuggestTasks(c *gin.Context) {
	if _, exists := middleware.GetUserID(c); !exists {
		apierrors.Unauthenticated(c, "")
		return
	}

	type SuggestTasksRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req SuggestTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.InvalidInput(c, "Invalid request body")
		return
	}

	suggestions, err := h.taskService.SuggestTasks(c.Request.Context(), req.Text)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"suggestions": dto.ToSuggestedTaskDTOs(suggestions),
	})
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrTitleEmpty),
		errors.Is(err, services.ErrInvalidCategory):
		apierrors.InvalidInput(c, err.Error())
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, "AI suggestions are not configured")
	case errors.Is(err, services.ErrAINoTasksSuggested):
		apierrors.InvalidInput(c, err.Error())
	default:
		log.Printf("task handler: %v", err)
		apierrors.Unavailable(c)
	}
}
