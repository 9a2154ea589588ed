// README: Route search handler for GET /api/routes.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"routebee/internal/modules/itinerary"
	"routebee/internal/service"
)

// Planner is satisfied by *service.RoutePlanner.
type Planner interface {
	Plan(ctx context.Context, req service.Request) (service.Plan, error)
}

type RouteHandler struct {
	planner Planner
	log     *zap.Logger
}

func NewRouteHandler(p Planner, log *zap.Logger) *RouteHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &RouteHandler{planner: p, log: log}
}

type routeQuery struct {
	From       string `form:"from" binding:"required"`
	To         string `form:"to" binding:"required"`
	Priority   string `form:"priority" binding:"omitempty,oneof=speed cost comfort balanced"`
	Noise      string `form:"noise" binding:"omitempty,oneof=low moderate high"`
	Safety     string `form:"safety" binding:"omitempty,oneof=low moderate high"`
	Bags       int    `form:"bags" binding:"min=0"`
	Wheelchair bool   `form:"wheelchair"`
}

func (h *RouteHandler) Search(c *gin.Context) {
	var q routeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeError(c, http.StatusBadRequest, "invalid query: from and to are required; priority, noise, safety and bags must be valid")
		return
	}
	plan, err := h.planner.Plan(c.Request.Context(), service.Request{
		From: q.From,
		To:   q.To,
		Preference: itinerary.Preference{
			Priority:   itinerary.Priority(q.Priority),
			Noise:      itinerary.Sensitivity(q.Noise),
			Safety:     itinerary.Sensitivity(q.Safety),
			Bags:       q.Bags,
			Wheelchair: q.Wheelchair,
		},
	})
	if err != nil {
		writeRouteError(c, h.log, err)
		return
	}
	writeJSON(c, http.StatusOK, plan)
}

func Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}
