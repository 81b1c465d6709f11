package shared

import (
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
)

// Response is the uniform API envelope: every payload carries a success
// flag and a human-readable message the client can show as-is.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

var jsonAPI = sonic.Config{
	UseNumber:            true,
	EscapeHTML:           false,
	SortMapKeys:          false,
	CompactMarshaler:     true,
	NoQuoteTextMarshaler: true,
	NoNullSliceOrMap:     true,
}.Froze()

func writeJSON(c *fiber.Ctx, httpCode int, body interface{}) error {
	payload, err := jsonAPI.Marshal(body)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Status(httpCode).Send(payload)
}

func ResponseJSON(c *fiber.Ctx, httpCode int, message string, data interface{}) error {
	return writeJSON(c, httpCode, Response{
		Success: httpCode < http.StatusBadRequest,
		Message: message,
		Data:    data,
	})
}

func ResponseOK(c *fiber.Ctx, data interface{}) error {
	return ResponseJSON(c, http.StatusOK, "Success", data)
}

func ResponseCreated(c *fiber.Ctx, message string, data interface{}) error {
	return ResponseJSON(c, http.StatusCreated, message, data)
}

// ResponseError renders an AppError, lifting its flags (isSuspended,
// kickOut) to the top level of the body where the client looks for them.
func ResponseError(c *fiber.Ctx, appErr *AppError) error {
	body := map[string]interface{}{
		"success": false,
		"message": appErr.Message,
	}
	for k, v := range appErr.Flags {
		body[k] = v
	}
	return writeJSON(c, appErr.StatusCode, body)
}
