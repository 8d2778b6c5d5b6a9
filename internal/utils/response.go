package utils

import "github.com/gofiber/fiber/v2"

const (
	defaultSuccessMessage = "success"
	defaultErrorMessage   = "error"
)

// APIResponse is the envelope every endpoint answers with.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message"`
	Meta    interface{} `json:"meta,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// SendSuccess answers 200 with data.
func SendSuccess(c *fiber.Ctx, message string, data interface{}) error {
	return SendSuccessWithStatus(c, fiber.StatusOK, message, data)
}

// SendSuccessWithStatus answers with a success envelope and the given status, 200 when zero.
func SendSuccessWithStatus(c *fiber.Ctx, status int, message string, data interface{}) error {
	if status == 0 {
		status = fiber.StatusOK
	}
	return respond(c, status, APIResponse{Success: true, Data: data, Message: message})
}

// OK answers 200 with data and list metadata such as totals.
func OK(c *fiber.Ctx, data interface{}, message string, meta interface{}) error {
	return respond(c, fiber.StatusOK, APIResponse{Success: true, Data: data, Message: message, Meta: meta})
}

// SendError answers with an error envelope and no details.
func SendError(c *fiber.Ctx, status int, message string) error {
	return Fail(c, status, message, nil)
}

// Fail answers with an error envelope; details usually carries per-field validation errors.
func Fail(c *fiber.Ctx, status int, message string, details interface{}) error {
	return respond(c, status, APIResponse{Message: message, Details: details})
}

func respond(c *fiber.Ctx, status int, body APIResponse) error {
	if body.Message == "" {
		body.Message = defaultErrorMessage
		if body.Success {
			body.Message = defaultSuccessMessage
		}
	}
	return c.Status(status).JSON(body)
}
