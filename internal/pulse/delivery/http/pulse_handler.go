package http

import (
	"net/http"

	"marketpulse/internal/pulse/dto"
	"marketpulse/internal/pulse/service"
	"marketpulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// PulseHandler handles HTTP requests for headlines, quotes, decisions, and
// briefs.
type PulseHandler struct {
	pulseService service.PulseService
	logger       *logger.Logger
}

// NewPulseHandler creates a new PulseHandler.
func NewPulseHandler(pulseService service.PulseService, logger *logger.Logger) *PulseHandler {
	return &PulseHandler{pulseService: pulseService, logger: logger}
}

// RegisterRoutes registers the pulse routes to the Echo group.
func (h *PulseHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/pulse", h.GetPulse)
	g.GET("/headlines", h.GetHeadlines)
	g.GET("/decision", h.GetDecision)
	g.GET("/brief/pack", h.GetBriefPack)
	g.POST("/brief/generate", h.GenerateBrief)
	g.GET("/health", h.Health)
}

func forceParam(c echo.Context) bool {
	return c.QueryParam("force") == "true"
}

// GetPulse returns the current market snapshot.
func (h *PulseHandler) GetPulse(c echo.Context) error {
	snapshot, err := h.pulseService.GetPulse(c.Request().Context(), forceParam(c))
	if err != nil {
		h.logger.Error("Failed to get pulse", logger.ErrorField(err))
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"pulse": snapshot})
}

// GetHeadlines returns the aggregated headline list.
func (h *PulseHandler) GetHeadlines(c echo.Context) error {
	headlines, err := h.pulseService.GetHeadlines(c.Request().Context(), forceParam(c))
	if err != nil {
		h.logger.Error("Failed to get headlines", logger.ErrorField(err))
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"headlines": headlines, "count": len(headlines)})
}

// GetDecision returns the current decision record. Always succeeds.
func (h *PulseHandler) GetDecision(c echo.Context) error {
	record, source := h.pulseService.GetDecision(c.Request().Context(), forceParam(c))
	return c.JSON(http.StatusOK, echo.Map{"decision": record, "source": source})
}

// GetBriefPack returns the assembled retrieval pack.
func (h *PulseHandler) GetBriefPack(c echo.Context) error {
	pack, err := h.pulseService.BuildBriefPack(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to build brief pack", logger.ErrorField(err))
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, pack)
}

// GenerateBrief produces the morning brief. Always succeeds, possibly as a
// draft.
func (h *PulseHandler) GenerateBrief(c echo.Context) error {
	brief := h.pulseService.GenerateBrief(c.Request().Context())
	return c.JSON(http.StatusOK, dto.BriefResponse{Brief: brief})
}

// Health is the liveness endpoint.
func (h *PulseHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
