package api

import (
	"context"
	"errors"
	"log"

	"github.com/example/taskboard/domain/apperr"
	"github.com/gofiber/fiber/v2"
)

// writeError maps a service error onto a status code and ErrorResponse.
// Errors from request-reply services arrive as mono remote errors, so classification goes through apperr.Is.
func writeError(c *fiber.Ctx, err error) error {
	switch {
	case apperr.Is(err, apperr.ErrEmptyResult):
		return respond(c, fiber.StatusInternalServerError, "empty_result",
			"No suggestions were generated, try another keyword")
	case apperr.Is(err, apperr.ErrUpstream), isTimeout(err):
		log.Printf("[api] Suggestion upstream failure: %v", err)
		return respond(c, fiber.StatusInternalServerError, "upstream_error",
			"The suggestion service is unavailable, try again later")
	case apperr.Is(err, apperr.ErrUnauthorized):
		return respond(c, fiber.StatusUnauthorized, "unauthorized",
			detail(err, apperr.ErrUnauthorized, "Authentication required"))
	case apperr.Is(err, apperr.ErrValidation):
		return respond(c, fiber.StatusBadRequest, "validation_error",
			detail(err, apperr.ErrValidation, "Invalid request"))
	case apperr.Is(err, apperr.ErrNotFound):
		return respond(c, fiber.StatusNotFound, "not_found", "Not found")
	case apperr.Is(err, apperr.ErrConflict):
		return respond(c, fiber.StatusConflict, "conflict",
			detail(err, apperr.ErrConflict, "Conflict"))
	default:
		log.Printf("[api] Internal error: %v", err)
		return respond(c, fiber.StatusInternalServerError, "internal_error",
			"An internal error occurred")
	}
}

func respond(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(ErrorResponse{Error: code, Message: message})
}

func detail(err, target error, fallback string) string {
	if msg := apperr.Message(err, target); msg != "" {
		return msg
	}
	return fallback
}

func isTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

// customErrorHandler handles errors returned by handlers and middleware.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	} else {
		log.Printf("[api] Unhandled error: %v", err)
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   errorCode(code),
		Message: message,
	})
}

func errorCode(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "bad_request"
	case fiber.StatusUnauthorized:
		return "unauthorized"
	case fiber.StatusNotFound:
		return "not_found"
	case fiber.StatusMethodNotAllowed:
		return "method_not_allowed"
	default:
		return "server_error"
	}
}
