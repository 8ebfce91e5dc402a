package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"newsdesk/internal/model"
	"newsdesk/internal/service"
)

// TaskHandler handles task endpoints.
type TaskHandler struct {
	taskService service.TaskService
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// ListTasks godoc
// @Summary List tasks
// @Tags tasks
// @Produce json
// @Success 200 {array} model.Task
// @Router /tasks [get]
func (h *TaskHandler) ListTasks(c echo.Context) error {
	tasks, err := h.taskService.ListTasks(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, tasks)
}

// GetTask godoc
// @Summary Get task by id
// @Tags tasks
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {object} model.Task
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/{id} [get]
func (h *TaskHandler) GetTask(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	task, err := h.taskService.GetTask(c.Request().Context(), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, task)
}

// ListByAssignee godoc
// @Summary List tasks assigned to a user
// @Tags tasks
// @Produce json
// @Param uid path string true "Assignee UID"
// @Success 200 {array} model.Task
// @Router /tasks/assignedTo/{uid} [get]
func (h *TaskHandler) ListByAssignee(c echo.Context) error {
	tasks, err := h.taskService.ListByAssignee(c.Request().Context(), c.Param("uid"))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, tasks)
}

// ListByCreator godoc
// @Summary List tasks created by a user
// @Tags tasks
// @Produce json
// @Param uid path string true "Creator UID"
// @Success 200 {array} model.Task
// @Router /tasks/createdBy/{uid} [get]
func (h *TaskHandler) ListByCreator(c echo.Context) error {
	tasks, err := h.taskService.ListByCreator(c.Request().Context(), c.Param("uid"))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, tasks)
}

// CreateTask godoc
// @Summary Create task
// @Tags tasks
// @Accept json
// @Produce json
// @Param task body model.CreateTaskInput true "Task payload"
// @Success 201 {object} model.Task
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /tasks [post]
func (h *TaskHandler) CreateTask(c echo.Context) error {
	var input model.CreateTaskInput
	if err := bindAndValidate(c, &input); err != nil {
		return err
	}
	task, err := h.taskService.CreateTask(c.Request().Context(), input)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, task)
}

// UpdateTask godoc
// @Summary Partially update task
// @Description Moving a task into "completed" stamps completedAt; leaving it clears completedAt.
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path int true "Task ID"
// @Param task body model.TaskPatch true "Fields to change"
// @Success 200 {object} model.Task
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /tasks/{id} [put]
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var patch model.TaskPatch
	if err := bindAndValidate(c, &patch); err != nil {
		return err
	}
	task, err := h.taskService.UpdateTask(c.Request().Context(), id, patch)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, task)
}

// DeleteTask godoc
// @Summary Delete task
// @Tags tasks
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.taskService.DeleteTask(c.Request().Context(), id); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Task deleted successfully"})
}
