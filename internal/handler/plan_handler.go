package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PlanHandler serves the whole-plan views
type PlanHandler struct {
	planner Planner
}

func NewPlanHandler(planner Planner) *PlanHandler {
	return &PlanHandler{planner: planner}
}

// Graph returns every task and dependency edge
// @Summary Dependency graph
// @Tags Plan
// @Produce json
// @Success 200 {object} GraphResponse
// @Router /api/graph [get]
func (h *PlanHandler) Graph(c *gin.Context) {
	graph, err := h.planner.Graph(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve graph")
		return
	}
	c.JSON(http.StatusOK, newGraphResponse(graph))
}

// Board groups tasks by plan week
// @Summary Weekly board
// @Tags Plan
// @Produce json
// @Success 200 {array} WeekResponse
// @Router /api/board [get]
func (h *PlanHandler) Board(c *gin.Context) {
	weeks, err := h.planner.Board(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve board")
		return
	}
	c.JSON(http.StatusOK, newWeekResponses(weeks))
}
