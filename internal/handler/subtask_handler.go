package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SubtaskHandler answers with the owning task after every change, since a
// subtask change may move the task's status and progress.
type SubtaskHandler struct {
	planner Planner
}

func NewSubtaskHandler(planner Planner) *SubtaskHandler {
	return &SubtaskHandler{planner: planner}
}

// SubtaskRequest is the body of POST /api/tasks/:id/subtasks
type SubtaskRequest struct {
	Title string `json:"title" binding:"required"`
}

// Create appends a subtask to a task
// @Summary Add a subtask
// @Tags Subtasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param subtask body SubtaskRequest true "Subtask"
// @Success 201 {object} TaskResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/tasks/{id}/subtasks [post]
func (h *SubtaskHandler) Create(c *gin.Context) {
	taskID, ok := parseID(c, "id", "task")
	if !ok {
		return
	}

	var req SubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request"})
		return
	}

	task, err := h.planner.AddSubtask(c.Request.Context(), taskID, req.Title)
	if err != nil {
		respondError(c, err, "Failed to add subtask")
		return
	}

	c.JSON(http.StatusCreated, newTaskResponse(task))
}

// Toggle flips a subtask between done and not done
// @Summary Toggle a subtask
// @Tags Subtasks
// @Produce json
// @Param id path string true "Subtask ID"
// @Success 200 {object} TaskResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/subtasks/{id}/toggle [post]
func (h *SubtaskHandler) Toggle(c *gin.Context) {
	subtaskID, ok := parseID(c, "id", "subtask")
	if !ok {
		return
	}

	task, err := h.planner.ToggleSubtask(c.Request.Context(), subtaskID)
	if err != nil {
		respondError(c, err, "Failed to toggle subtask")
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

// Delete removes a subtask
// @Summary Delete a subtask
// @Tags Subtasks
// @Produce json
// @Param id path string true "Subtask ID"
// @Success 200 {object} TaskResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/subtasks/{id} [delete]
func (h *SubtaskHandler) Delete(c *gin.Context) {
	subtaskID, ok := parseID(c, "id", "subtask")
	if !ok {
		return
	}

	task, err := h.planner.DeleteSubtask(c.Request.Context(), subtaskID)
	if err != nil {
		respondError(c, err, "Failed to delete subtask")
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}
