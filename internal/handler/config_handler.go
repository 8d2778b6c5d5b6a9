package handler

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/asap-api/internal/dto"
	"github.com/noah-isme/asap-api/internal/service"
	"github.com/noah-isme/asap-api/internal/utils"
	"github.com/noah-isme/asap-api/pkg/ai"
)

// ConfigHandler edits the working evaluation configuration.
type ConfigHandler struct {
	service  service.ConfigService
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewConfigHandler constructs a configuration handler.
func NewConfigHandler(service service.ConfigService, validate *validator.Validate, logger zerolog.Logger) *ConfigHandler {
	return &ConfigHandler{
		service:  service,
		validate: validate,
		logger:   logger.With().Str("component", "config_handler").Logger(),
	}
}

// Register wires configuration routes.
func (h *ConfigHandler) Register(router fiber.Router) {
	router.Get("", h.get)
	router.Put("", h.save)
	router.Delete("", h.reset)
	router.Post("/discipline", h.switchDiscipline)
	router.Post("/criteria", h.addCriterion)
	router.Delete("/criteria/:index", h.removeCriterion)
}

// Catalog returns a handler listing disciplines and academic levels.
func Catalog() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return utils.SendSuccess(c, "catalog retrieved", service.Catalog())
	}
}

func (h *ConfigHandler) get(c *fiber.Ctx) error {
	cfg, err := h.service.Get(c.UserContext())
	if err != nil {
		return handleError(c, h.logger, err, "failed to load configuration")
	}
	return utils.SendSuccess(c, "configuration retrieved", cfg)
}

func (h *ConfigHandler) save(c *fiber.Ctx) error {
	var payload ai.EvaluationConfig
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	cfg, err := h.service.Save(c.UserContext(), payload)
	if err != nil {
		return handleError(c, h.logger, err, "failed to save configuration")
	}
	return utils.SendSuccess(c, "configuration saved", cfg)
}

func (h *ConfigHandler) reset(c *fiber.Ctx) error {
	cfg, err := h.service.Reset(c.UserContext())
	if err != nil {
		return handleError(c, h.logger, err, "failed to reset configuration")
	}
	return utils.SendSuccess(c, "configuration reset", cfg)
}

func (h *ConfigHandler) switchDiscipline(c *fiber.Ctx) error {
	var payload dto.DisciplineRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := h.validate.Struct(payload); err != nil {
		return handleError(c, h.logger, err, "failed to switch discipline")
	}

	cfg, err := h.service.SwitchDiscipline(c.UserContext(), payload.Discipline)
	if err != nil {
		return handleError(c, h.logger, err, "failed to switch discipline")
	}
	return utils.SendSuccess(c, "discipline updated", cfg)
}

func (h *ConfigHandler) addCriterion(c *fiber.Ctx) error {
	var payload dto.CriterionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
		}
	}
	if err := h.validate.Struct(payload); err != nil {
		return handleError(c, h.logger, err, "failed to add criterion")
	}

	cfg, err := h.service.AddCriterion(c.UserContext(), payload.Criterion)
	if err != nil {
		return handleError(c, h.logger, err, "failed to add criterion")
	}
	return utils.SendSuccess(c, "criterion added", cfg)
}

func (h *ConfigHandler) removeCriterion(c *fiber.Ctx) error {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid criterion index")
	}

	cfg, err := h.service.RemoveCriterion(c.UserContext(), index)
	if err != nil {
		return handleError(c, h.logger, err, "failed to remove criterion")
	}
	return utils.SendSuccess(c, "criterion removed", cfg)
}
