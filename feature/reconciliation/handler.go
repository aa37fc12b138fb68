package reconciliation

import (
	"errors"

	"order-sync/core/logger"
	"order-sync/feature/reconciliation/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const defaultListLimit = 20

// Handler handles HTTP requests for sync runs.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the sync routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/sync")
	group.Get("/runs", h.HandleListRuns)
	group.Post("/runs", h.HandleTriggerRun)
	group.Get("/runs/:id", h.HandleGetRun)
	group.Get("/runs/:id/report", h.HandleGetArchivedReport)
	group.Get("/cache", h.HandleCache)
	group.Get("/health", h.HandleHealth)
}

// HandleListRuns lists recent runs.
// @Summary List Sync Runs
// @Description Returns the most recent sync runs, newest first, without per-order outcomes.
// @Tags sync
// @Produce json
// @Param limit query int false "Maximum number of runs" default(20)
// @Success 200 {object} map[string]interface{} "Runs"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sync/runs [get]
func (h *Handler) HandleListRuns(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultListLimit)
	if limit <= 0 {
		limit = defaultListLimit
	}

	runs, err := h.service.History().List(c.UserContext(), limit)
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Failed to list runs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if runs == nil {
		runs = []models.SyncRun{}
	}
	return c.JSON(fiber.Map{"runs": runs})
}

// HandleGetRun returns one run with its per-order outcomes.
// @Summary Get Sync Run
// @Description Returns a journaled sync run including the outcome of every order.
// @Tags sync
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} models.SyncRun
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sync/runs/{id} [get]
func (h *Handler) HandleGetRun(c *fiber.Ctx) error {
	run, err := h.service.History().Get(c.UserContext(), c.Params("id"))
	if errors.Is(err, ErrRunNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Failed to get run", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(run)
}

// HandleGetArchivedReport streams the archived report of a run.
// @Summary Get Archived Run Report
// @Description Downloads the full run report from the archive bucket.
// @Tags sync
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Run Report"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 502 {object} map[string]string "Archive Error"
// @Router /sync/runs/{id}/report [get]
func (h *Handler) HandleGetArchivedReport(c *fiber.Ctx) error {
	archive := h.service.Archive()
	if archive == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "archiving is disabled"})
	}

	data, err := archive.Report(c.UserContext(), c.Params("id"))
	if errors.Is(err, ErrRunNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Failed to fetch archived report", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(data)
}

// HandleTriggerRun performs a sync run and returns its report.
// @Summary Trigger Sync Run
// @Description Runs one reconciliation pass synchronously. Returns 409 while another run is active.
// @Tags sync
// @Produce json
// @Success 200 {object} map[string]interface{} "Run Report"
// @Failure 409 {object} map[string]string "Run In Progress"
// @Failure 502 {object} map[string]interface{} "Run Aborted"
// @Router /sync/runs [post]
func (h *Handler) HandleTriggerRun(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)
	l.Info("Triggering sync run")

	report, err := h.service.Run(c.UserContext())
	switch {
	case errors.Is(err, ErrRunInProgress):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		l.Error("Sync run failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":  err.Error(),
			"report": report,
		})
	}
	return c.JSON(report)
}

// HandleCache lists the codes in the idempotency cache.
// @Summary Show Idempotency Cache
// @Description Returns the external codes recorded as settled.
// @Tags sync
// @Produce json
// @Success 200 {object} map[string]interface{} "Cache"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sync/cache [get]
func (h *Handler) HandleCache(c *fiber.Ctx) error {
	path, entries, err := h.service.CacheEntries()
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Failed to read cache", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"path":    path,
		"count":   len(entries),
		"entries": entries,
	})
}

// HandleHealth reports cache and journal health.
// @Summary Sync Health
// @Description Checks that the cache is readable and the journal schema is complete.
// @Tags sync
// @Produce json
// @Success 200 {object} HealthReport
// @Failure 503 {object} HealthReport
// @Router /sync/health [get]
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	report := h.service.Health(c.UserContext())
	if report.Status != "ok" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(report)
	}
	return c.JSON(report)
}
