package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/student-support/internal/analytics"
	"github.com/spec-kit/student-support/internal/knowledge"
)

// AnalyticsHandler exposes the query log and the configured catalog.
type AnalyticsHandler struct {
	recorder *analytics.Recorder
	base     *knowledge.Base
}

// NewAnalyticsHandler constructs the handler.
func NewAnalyticsHandler(recorder *analytics.Recorder, base *knowledge.Base) *AnalyticsHandler {
	return &AnalyticsHandler{recorder: recorder, base: base}
}

// RecentQueries GET /analytics/queries?limit=.
func (h *AnalyticsHandler) RecentQueries(c *fiber.Ctx) error {
	limit := parseInt(c.Query("limit"), 50)
	records, err := h.recorder.RecentQueries(c.Context(), limit)
	if err != nil {
		return err
	}
	if records == nil {
		records = []analytics.QueryRecord{}
	}
	return c.JSON(fiber.Map{"data": records})
}

// Stats GET /analytics/stats.
func (h *AnalyticsHandler) Stats(c *fiber.Ctx) error {
	snapshot, err := h.recorder.Stats(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": snapshot})
}

// Categories GET /knowledge/categories — the configured catalog, keywords
// only; templates stay server side.
func (h *AnalyticsHandler) Categories(c *fiber.Ctx) error {
	type categoryInfo struct {
		Category  string   `json:"category"`
		Keywords  []string `json:"keywords"`
		Templates int      `json:"template_count"`
	}
	items := make([]categoryInfo, 0, len(h.base.Categories))
	for _, entry := range h.base.Categories {
		items = append(items, categoryInfo{
			Category:  string(entry.Name),
			Keywords:  entry.Keywords,
			Templates: len(entry.Templates),
		})
	}
	return c.JSON(fiber.Map{"data": items})
}
