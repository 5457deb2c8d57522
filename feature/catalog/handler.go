package catalog

import (
	"errors"
	"strconv"

	"card-mirror/core/identity"
	"card-mirror/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for card lookups.
type Handler struct {
	service  *Service
	language string
}

// NewHandler creates a new HTTP handler. language is used when a search does
// not name one.
func NewHandler(service *Service, language string) *Handler {
	if language == "" {
		language = identity.PrimaryLanguage
	}
	return &Handler{service: service, language: language}
}

// RegisterRoutes registers the catalog routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/cards")
	group.Get("/search", h.HandleSearch)
	group.Get("/passcode/:passcode", h.HandleLookupPasscode)
	group.Get("/konami/:id", h.HandleLookupKonamiID)
	group.Get("/print/:code", h.HandleLookupPrintCode)
}

// HandleLookupPasscode returns the card of a passcode.
// @Summary Lookup By Passcode
// @Description Resolve a passcode to its internal identifier, names, archetype and print variants.
// @Tags cards
// @Produce json
// @Param passcode path int true "Passcode (e.g. 89631139)"
// @Success 200 {object} identity.CardRecord "Card"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /cards/passcode/{passcode} [get]
func (h *Handler) HandleLookupPasscode(c *fiber.Ctx) error {
	passcode, err := strconv.Atoi(c.Params("passcode"))
	if err != nil || passcode <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "passcode must be a positive integer"})
	}
	rec, err := h.service.LookupPasscode(c.Context(), passcode)
	return h.respond(c, rec, err)
}

// HandleLookupKonamiID returns the card of an internal identifier.
// @Summary Lookup By Konami ID
// @Description Resolve an internal identifier to its canonical passcode and names.
// @Tags cards
// @Produce json
// @Param id path int true "Internal identifier (e.g. 4007)"
// @Success 200 {object} identity.CardRecord "Card"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /cards/konami/{id} [get]
func (h *Handler) HandleLookupKonamiID(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "id must be a positive integer"})
	}
	rec, err := h.service.LookupKonamiID(c.Context(), id)
	return h.respond(c, rec, err)
}

// HandleLookupPrintCode returns the card of a print code.
// @Summary Lookup By Print Code
// @Description Resolve a print code such as LOB-EN001.
// @Tags cards
// @Produce json
// @Param code path string true "Print code"
// @Success 200 {object} identity.CardRecord "Card"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /cards/print/{code} [get]
func (h *Handler) HandleLookupPrintCode(c *fiber.Ctx) error {
	rec, err := h.service.LookupPrintCode(c.Context(), c.Params("code"))
	return h.respond(c, rec, err)
}

// HandleSearch finds cards by name.
// @Summary Search By Name
// @Description Fuzzy search over the localized name table.
// @Tags cards
// @Produce json
// @Param q query string true "Query"
// @Param lang query string false "Language (en, fr, ja)"
// @Param limit query int false "Maximum results"
// @Success 200 {array} SearchResult "Matches"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /cards/search [get]
func (h *Handler) HandleSearch(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing query parameter q"})
	}
	lang := c.Query("lang", h.language)
	limit := c.QueryInt("limit", DefaultSearchLimit)

	results, err := h.service.Search(c.Context(), query, lang, limit)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Card search failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if results == nil {
		results = []SearchResult{}
	}
	return c.JSON(results)
}

func (h *Handler) respond(c *fiber.Ctx, rec identity.CardRecord, err error) error {
	switch {
	case err == nil:
		return c.JSON(rec)
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	default:
		logger.WithRayID(h.service.logger, c).Error("Card lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
