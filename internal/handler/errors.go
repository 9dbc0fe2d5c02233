package handler

import (
	"errors"
	"net/http"

	"taskplanner/internal/errs"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string   `json:"error"`
	Cycle []string `json:"cycle,omitempty"`
}

// respondError translates planner errors into HTTP responses. Anything
// unexpected is logged and reported as a generic 500.
func respondError(c *gin.Context, err error, fallback string) {
	var (
		validation *errs.ValidationError
		notFound   *errs.NotFoundError
		self       *errs.SelfDependencyError
		duplicate  *errs.DuplicateEdgeError
		cycle      *errs.CycleError
		blocked    *errs.BlockedError
		conflict   *errs.ConflictError
	)

	switch {
	case errors.As(err, &validation), errors.As(err, &self):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.As(err, &cycle):
		path := make([]string, len(cycle.Path))
		for i, id := range cycle.Path {
			path[i] = id.String()
		}
		c.JSON(http.StatusConflict, ErrorResponse{Error: "dependency cycle detected", Cycle: path})
	case errors.As(err, &duplicate), errors.As(err, &blocked):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Concurrent update, please retry"})
	default:
		log.Error(fallback, "err", err, "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: fallback})
	}
}

// parseID reads a uuid path parameter, answering 400 when it is malformed.
func parseID(c *gin.Context, param, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid " + what + " ID format"})
		return uuid.Nil, false
	}
	return id, true
}
