package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/socialnet-api/internal/api/middleware"
	"github.com/maheshrc27/socialnet-api/internal/service"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// GetUserID returns the authenticated caller, if the auth middleware ran.
func GetUserID(c *fiber.Ctx) (int64, bool) {
	userID, ok := c.Locals(middleware.UserIDKey).(int64)
	return userID, ok
}

// requester resolves who is acting. When the request is authenticated the
// body's userId must match the token.
func requester(c *fiber.Ctx, bodyUserID int64) (int64, error) {
	if authID, ok := GetUserID(c); ok && authID != bodyUserID {
		return 0, &service.Error{Kind: service.ErrForbidden, Message: "userId does not match the authenticated user"}
	}
	return bodyUserID, nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		slog.Info(err.Error())
		return &service.Error{Kind: service.ErrMissingField, Message: "Unable to parse request body"}
	}
	if err := validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
			return &service.Error{Kind: service.ErrMissingField, Message: fmt.Sprintf("invalid or missing fields: %s", strings.Join(fields, ", "))}
		}
		return &service.Error{Kind: service.ErrMissingField, Message: err.Error()}
	}
	return nil
}

func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, &service.Error{Kind: service.ErrMissingField, Message: fmt.Sprintf("%s must be a positive integer", name)}
	}
	return int64(id), nil
}

func writeError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrStorage):
	case errors.Is(err, service.ErrMissingField),
		errors.Is(err, service.ErrInvalidSchedule),
		errors.Is(err, service.ErrAlreadyPublished),
		errors.Is(err, service.ErrInvalidMedia):
		status = fiber.StatusBadRequest
	case errors.Is(err, service.ErrForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		status = fiber.StatusNotFound
	}

	if status >= fiber.StatusInternalServerError {
		slog.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	}

	return c.Status(status).JSON(fiber.Map{
		"error": service.Message(err),
		"code":  service.Code(err),
	})
}
