package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DependencyHandler struct {
	planner Planner
}

func NewDependencyHandler(planner Planner) *DependencyHandler {
	return &DependencyHandler{planner: planner}
}

// DependencyRequest is the body of POST /api/tasks/:id/dependencies
type DependencyRequest struct {
	DependsOnID string `json:"depends_on_id" binding:"required,uuid"`
}

// Create makes a task depend on another one
// @Summary Add a dependency
// @Tags Dependencies
// @Accept json
// @Produce json
// @Param id path string true "Dependent task ID"
// @Param dependency body DependencyRequest true "Prerequisite"
// @Success 201 {object} TaskResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/tasks/{id}/dependencies [post]
func (h *DependencyHandler) Create(c *gin.Context) {
	taskID, ok := parseID(c, "id", "task")
	if !ok {
		return
	}

	var req DependencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request"})
		return
	}
	dependsOnID, err := uuid.Parse(req.DependsOnID)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid dependency ID format"})
		return
	}

	task, err := h.planner.AddDependency(c.Request.Context(), taskID, dependsOnID)
	if err != nil {
		respondError(c, err, "Failed to add dependency")
		return
	}

	c.JSON(http.StatusCreated, newTaskResponse(task))
}

// Delete removes a dependency; missing edges are ignored
// @Summary Remove a dependency
// @Tags Dependencies
// @Produce json
// @Param id path string true "Dependent task ID"
// @Param dep path string true "Prerequisite task ID"
// @Success 200 {object} TaskResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/tasks/{id}/dependencies/{dep} [delete]
func (h *DependencyHandler) Delete(c *gin.Context) {
	taskID, ok := parseID(c, "id", "task")
	if !ok {
		return
	}
	dependsOnID, ok := parseID(c, "dep", "dependency")
	if !ok {
		return
	}

	task, err := h.planner.RemoveDependency(c.Request.Context(), taskID, dependsOnID)
	if err != nil {
		respondError(c, err, "Failed to remove dependency")
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}
