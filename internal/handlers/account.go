package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/knagano/todolist-api/internal/dto"
	apierrors "github.com/knagano/todolist-api/internal/errors"
	"github.com/knagano/todolist-api/internal/middleware"
	"github.com/knagano/todolist-api/internal/services"
)

// AccountHandler serves the account page aggregate.
type AccountHandler struct {
	taskService *services.TaskService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(taskService *services.TaskService) *AccountHandler {
	return &AccountHandler{
		taskService: taskService,
	}
}

// GetSummary returns the caller's email, signup time, and live task counts.
func (h *AccountHandler) GetSummary(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return
	}

	summary, err := h.taskService.GetAccountSummary(userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountSummaryDTO(*summary))
}
