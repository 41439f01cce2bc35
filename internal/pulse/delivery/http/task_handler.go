package http

import (
	"net/http"
	"strconv"

	"marketpulse/internal/pulse/dto"
	"marketpulse/internal/pulse/service"
	"marketpulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// TaskHandler handles HTTP requests for the task list.
type TaskHandler struct {
	taskService service.TaskService
	logger      *logger.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService service.TaskService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{taskService: taskService, logger: logger}
}

// RegisterRoutes registers the task routes to the Echo group.
func (h *TaskHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/tasks", h.ListOpen)
	g.POST("/tasks", h.Create)
	g.POST("/tasks/:id/done", h.MarkDone)
}

// Create adds a new task.
func (h *TaskHandler) Create(c echo.Context) error {
	var req dto.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	task, err := h.taskService.Create(c.Request().Context(), &req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, task)
}

// ListOpen returns open tasks, newest first.
func (h *TaskHandler) ListOpen(c echo.Context) error {
	tasks, err := h.taskService.ListOpen(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to list tasks", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to list tasks"})
	}
	return c.JSON(http.StatusOK, echo.Map{"tasks": tasks})
}

// MarkDone stamps a task as completed.
func (h *TaskHandler) MarkDone(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid task ID"})
	}

	if err := h.taskService.MarkDone(c.Request().Context(), uint(id)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}
