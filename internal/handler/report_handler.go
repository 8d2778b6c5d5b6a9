package handler

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/asap-api/internal/dto"
	"github.com/noah-isme/asap-api/internal/service"
	"github.com/noah-isme/asap-api/internal/utils"
)

// ReportHandler exposes the saved report history.
type ReportHandler struct {
	service service.ReportService
	logger  zerolog.Logger
}

// NewReportHandler constructs a report history handler.
func NewReportHandler(service service.ReportService, logger zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger.With().Str("component", "report_handler").Logger(),
	}
}

// Register wires report history routes.
func (h *ReportHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Delete("", h.clear)
	router.Get("/:id", h.get)
	router.Delete("/:id", h.delete)
}

func (h *ReportHandler) list(c *fiber.Ctx) error {
	reports, err := h.service.List(c.UserContext())
	if err != nil {
		return handleError(c, h.logger, err, "failed to load reports")
	}

	return utils.OK(c, dto.NewReportSummaries(reports), "reports retrieved", fiber.Map{"total": len(reports)})
}

func (h *ReportHandler) get(c *fiber.Ctx) error {
	id, err := reportID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid report id")
	}

	report, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return handleError(c, h.logger, err, "failed to load report")
	}

	return utils.SendSuccess(c, "report retrieved", report)
}

func (h *ReportHandler) delete(c *fiber.Ctx) error {
	id, err := reportID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid report id")
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return handleError(c, h.logger, err, "failed to delete report")
	}

	return utils.SendSuccess(c, "report deleted", nil)
}

func (h *ReportHandler) clear(c *fiber.Ctx) error {
	if err := h.service.Clear(c.UserContext()); err != nil {
		return handleError(c, h.logger, err, "failed to clear reports")
	}

	return utils.SendSuccess(c, "report history cleared", nil)
}

// reportID decodes the id path parameter. Ids are timestamps, so clients that
// percent-encode path segments send colons as %3A.
func reportID(c *fiber.Ctx) (string, error) {
	return url.PathUnescape(c.Params("id"))
}
