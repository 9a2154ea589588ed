// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"routebee/internal/logging"
	"routebee/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeRouteError maps planner errors to status codes. Internal detail is
// logged, never returned.
func writeRouteError(c *gin.Context, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNoCandidates):
		writeError(c, http.StatusNotFound, "No routes match your requirements. Try relaxing the accessibility or priority settings.")
	default:
		logging.FromContext(c.Request.Context(), log).Error("route planning failed", zap.Error(err))
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
