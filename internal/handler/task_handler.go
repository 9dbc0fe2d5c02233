package handler

import (
	"net/http"

	"taskplanner/internal/model"
	"taskplanner/internal/planner"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TaskHandler struct {
	planner Planner
}

func NewTaskHandler(planner Planner) *TaskHandler {
	return &TaskHandler{planner: planner}
}

// CreateTaskRequest is the body of POST /api/tasks
type CreateTaskRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Priority    int      `json:"priority" binding:"omitempty,min=1,max=3"`
	Week        int      `json:"week" binding:"min=0"`
	Subtasks    []string `json:"subtasks"`
	DependsOn   []string `json:"depends_on" binding:"dive,uuid"`
}

// UpdateTaskRequest is the body of PUT /api/tasks/:id; omitted fields are kept
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *int    `json:"priority"`
	Week        *int    `json:"week"`
}

// StatusRequest is the body of POST /api/tasks/:id/status
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// GetAll lists every task
// @Summary List tasks
// @Tags Tasks
// @Produce json
// @Success 200 {array} TaskResponse
// @Router /api/tasks [get]
func (h *TaskHandler) GetAll(c *gin.Context) {
	tasks, err := h.planner.ListTasks(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve tasks")
		return
	}
	c.JSON(http.StatusOK, newTaskResponses(tasks))
}

// Create creates a new task
// @Summary Create a task
// @Tags Tasks
// @Accept json
// @Produce json
// @Param task body CreateTaskRequest true "Task"
// @Success 201 {object} TaskResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request"})
		return
	}

	dependsOn := make([]uuid.UUID, 0, len(req.DependsOn))
	for _, raw := range req.DependsOn {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid dependency ID format"})
			return
		}
		dependsOn = append(dependsOn, id)
	}

	task, err := h.planner.CreateTask(c.Request.Context(), planner.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    model.Priority(req.Priority),
		Week:        req.Week,
		Subtasks:    req.Subtasks,
		DependsOn:   dependsOn,
	})
	if err != nil {
		respondError(c, err, "Failed to create task")
		return
	}

	c.JSON(http.StatusCreated, newTaskResponse(task))
}

// GetByID returns a task with its subtasks, prerequisites and dependents
// @Summary Get a task
// @Tags Tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} TaskDetailResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	taskID, ok := parseID(c, "id", "task")
	if !ok {
		return
	}

	detail, err := h.planner.GetTask(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, err, "Failed to retrieve task")
		return
	}

	c.JSON(http.StatusOK, newTaskDetailResponse(detail))
}

// Update edits title, description, priority or week
// @Summary Update a task
// @Tags Tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param task body UpdateTaskRequest true "Fields to change"
// @Success 200 {object} TaskResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	taskID, ok := parseID(c, "id", "task")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request"})
		return
	}

	in := planner.EditTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Week:        req.Week,
	}
	if req.Priority != nil {
		p := model.Priority(*req.Priority)
		in.Priority = &p
	}

	task, err := h.planner.EditTask(c.Request.Context(), taskID, in)
	if err != nil {
		respondError(c, err, "Failed to update task")
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

// Delete removes a task; its dependents are re-evaluated
// @Summary Delete a task
// @Tags Tasks
// @Param id path string true "Task ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	taskID, ok := parseID(c, "id", "task")
	if !ok {
		return
	}

	if err := h.planner.DeleteTask(c.Request.Context(), taskID); err != nil {
		respondError(c, err, "Failed to delete task")
		return
	}

	c.Status(http.StatusNoContent)
}

// SetStatus applies an explicit status change
// @Summary Set task status
// @Tags Tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param status body StatusRequest true "todo, in_progress or done"
// @Success 200 {object} TaskResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/tasks/{id}/status [post]
func (h *TaskHandler) SetStatus(c *gin.Context) {
	taskID, ok := parseID(c, "id", "task")
	if !ok {
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request"})
		return
	}

	task, err := h.planner.SetTaskStatus(c.Request.Context(), taskID, model.Status(req.Status))
	if err != nil {
		respondError(c, err, "Failed to update status")
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

// GetDependents lists the tasks that directly depend on a task
// @Summary List dependents
// @Tags Tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {array} TaskResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/tasks/{id}/dependents [get]
func (h *TaskHandler) GetDependents(c *gin.Context) {
	taskID, ok := parseID(c, "id", "task")
	if !ok {
		return
	}

	tasks, err := h.planner.Dependents(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, err, "Failed to retrieve dependents")
		return
	}

	c.JSON(http.StatusOK, newTaskResponses(tasks))
}
