package handler

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/asap-api/internal/observability"
	"github.com/noah-isme/asap-api/internal/service"
	"github.com/noah-isme/asap-api/internal/utils"
	"github.com/noah-isme/asap-api/pkg/ai"
)

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	if c == nil {
		return &base
	}
	return observability.Logger(c.UserContext(), base)
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}

func fieldErrors(err error) []ai.FieldError {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}
	out := make([]ai.FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		out = append(out, ai.FieldError{
			Field:   fe.Namespace(),
			Message: fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()),
		})
	}
	return out
}

// handleError maps service and pipeline errors onto the response envelope.
func handleError(c *fiber.Ctx, base zerolog.Logger, err error, fallback string) error {
	logger := requestLogger(base, c)

	var ve *ai.ValidationError
	var rf *ai.RemoteFailure
	switch {
	case errors.As(err, &ve):
		return utils.Fail(c, fiber.StatusBadRequest, ve.Error(), ve.Fields)
	case isValidationError(err):
		return utils.Fail(c, fiber.StatusBadRequest, "invalid payload", fieldErrors(err))
	case errors.As(err, &rf):
		logger.Error().Str("reason", rf.Reason).Str("detail", rf.Detail()).Msg("model evaluation failed")
		return utils.SendError(c, fiber.StatusBadGateway, ai.RemoteFailureMessage)
	case errors.Is(err, service.ErrAnalysisInProgress):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrReportNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrUploadTooLarge):
		return utils.SendError(c, fiber.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, service.ErrUploadInvalid):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnknownDiscipline), errors.Is(err, service.ErrCriteriaLimit):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrCriterionIndex):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	default:
		logger.Error().Err(err).Msg(fallback)
		return utils.SendError(c, fiber.StatusInternalServerError, fallback)
	}
}
