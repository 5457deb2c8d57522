package mirror

import (
	"errors"

	"card-mirror/core/logger"
	"card-mirror/core/revision"
	"card-mirror/feature/mirror/publish"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for mirror maintenance.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	// Force import for Swagger
	var _ = publish.BucketReport{}
	return &Handler{service: service}
}

// RegisterRoutes registers the mirror routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/mirror")
	group.Get("/status", h.HandleStatus)
	group.Post("/sync", h.HandleSync)
	group.Get("/bucket", h.HandleBucketCheck)
}

// HandleStatus reports the state of the local mirror.
// @Summary Mirror Status
// @Description Local and remote revision, pending invalidations and literal elements missing on disk.
// @Tags mirror
// @Produce json
// @Success 200 {object} Status "Status"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /mirror/status [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	status, err := h.service.Status(c.Context())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Status failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(status)
}

// HandleSync replays pending revisions.
// @Summary Sync Revisions
// @Description Replays every manifest between the local and the remote revision.
// @Tags mirror
// @Produce json
// @Success 200 {object} SyncReport "Sync Report"
// @Failure 409 {object} map[string]string "Sync In Progress"
// @Failure 502 {object} map[string]string "Sync Failed"
// @Router /mirror/sync [post]
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering revision sync")

	report, err := h.service.Sync(c.Context())
	switch {
	case err == nil:
		return c.JSON(report)
	case errors.Is(err, revision.ErrSyncInProgress):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	default:
		l.Error("Revision sync failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
}

// HandleBucketCheck lists literal elements missing from the bucket.
// @Summary Check Bucket
// @Description Checks that every literal element of the registry was published.
// @Tags mirror
// @Produce json
// @Success 200 {object} publish.BucketReport "Bucket Report"
// @Failure 503 {object} map[string]string "No Bucket"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /mirror/bucket [get]
func (h *Handler) HandleBucketCheck(c *fiber.Ctx) error {
	report, err := h.service.CheckBucket(c.Context())
	switch {
	case err == nil:
		return c.JSON(report)
	case errors.Is(err, ErrNoBucket):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	default:
		logger.WithRayID(h.service.logger, c).Error("Bucket check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
