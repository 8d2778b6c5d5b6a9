package handler

import (
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/asap-api/internal/dto"
	"github.com/noah-isme/asap-api/internal/service"
	"github.com/noah-isme/asap-api/internal/utils"
	"github.com/noah-isme/asap-api/pkg/ai"
)

// EvaluationHandler starts analyses.
type EvaluationHandler struct {
	service  service.EvaluationService
	encoder  service.UploadEncoder
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewEvaluationHandler constructs an evaluation handler.
func NewEvaluationHandler(service service.EvaluationService, encoder service.UploadEncoder, validate *validator.Validate, logger zerolog.Logger) *EvaluationHandler {
	return &EvaluationHandler{
		service:  service,
		encoder:  encoder,
		validate: validate,
		logger:   logger.With().Str("component", "evaluation_handler").Logger(),
	}
}

// Register wires evaluation routes. Extra handlers run before the analysis endpoints.
func (h *EvaluationHandler) Register(router fiber.Router, guards ...fiber.Handler) {
	router.Get("/status", h.status)
	router.Post("", chain(guards, h.create)...)
	router.Post("/upload", chain(guards, h.upload)...)
}

func chain(guards []fiber.Handler, final fiber.Handler) []fiber.Handler {
	handlers := make([]fiber.Handler, 0, len(guards)+1)
	handlers = append(handlers, guards...)
	return append(handlers, final)
}

func (h *EvaluationHandler) create(c *fiber.Ctx) error {
	var payload dto.EvaluationRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := h.validate.Struct(payload); err != nil {
		return handleError(c, h.logger, err, "failed to analyze project")
	}

	return h.analyze(c, payload.Config, payload.Files)
}

func (h *EvaluationHandler) upload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid multipart payload")
	}

	rawConfig := form.Value["config"]
	if len(rawConfig) == 0 || strings.TrimSpace(rawConfig[0]) == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "config field is required")
	}

	var cfg ai.EvaluationConfig
	if err := json.Unmarshal([]byte(rawConfig[0]), &cfg); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "config field must be valid JSON")
	}

	files, err := h.encoder.EncodeMultipart(c.UserContext(), form.File["files"])
	if err != nil {
		return handleError(c, h.logger, err, "failed to read uploaded files")
	}

	return h.analyze(c, cfg, files)
}

func (h *EvaluationHandler) analyze(c *fiber.Ctx, cfg ai.EvaluationConfig, files []ai.UploadedFile) error {
	report, err := h.service.Analyze(c.UserContext(), cfg, files)
	if err != nil {
		return handleError(c, h.logger, err, "failed to analyze project")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "analysis completed", report)
}

func (h *EvaluationHandler) status(c *fiber.Ctx) error {
	return utils.SendSuccess(c, "analysis status", fiber.Map{"inProgress": h.service.InProgress()})
}
