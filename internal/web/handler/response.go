package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/applytrack/applytrack/internal/db/controller/listing"
)

// Response is the envelope of mutating endpoints.
type Response struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// InternalError hides err behind a generic message. The error handler logs err
// and answers 500 with Message.
type InternalError struct {
	Message string
	Err     error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.Message
	}

	return e.Message + ": " + e.Err.Error()
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Internal wraps err into an InternalError with the public message msg.
func Internal(err error, msg string) error {
	return &InternalError{Message: msg, Err: err}
}

// Reply sends the {message,data} envelope.
func Reply(c *fiber.Ctx, status int, msg string, data any) error {
	return c.Status(status).JSON(Response{Message: msg, Data: data})
}

// ParseID reads the :id route parameter.
func ParseID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid ID ["+c.Params("id")+"].")
	}

	return uint(id), nil
}

// PageFrom reads page and pageSize from the query string. Missing or invalid values
// fall back to DefaultPage and DefaultPageSize, a pageSize above maxPageSize is capped.
func PageFrom(c *fiber.Ctx, maxPageSize int) listing.Page {
	page := c.QueryInt("page", DefaultPage)
	if page < 1 {
		page = DefaultPage
	}

	size := c.QueryInt("pageSize", DefaultPageSize)
	if size < 1 {
		size = DefaultPageSize
	}

	if maxPageSize > 0 && size > maxPageSize {
		size = maxPageSize
	}

	return listing.Page{Page: page, PageSize: size}
}

// ExportPage reads the page of an export. Without a pageSize query parameter
// every matching row is exported.
func ExportPage(c *fiber.Ctx) listing.Page {
	if c.Query("pageSize") == "" {
		return listing.Page{}
	}

	return PageFrom(c, 0)
}

// ErrorHandler renders errors returned by handlers as JSON.
// Validation errors answer 400 with the failed fields, *fiber.Error keeps its
// status and message, anything else is logged and answered with 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var (
		vErr  *ValidationError
		fErr  *fiber.Error
		inErr *InternalError
	)

	switch {
	case errors.As(err, &vErr):
		return c.Status(fiber.StatusBadRequest).JSON(vErr)
	case errors.As(err, &fErr):
		if fErr.Code >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		}

		return c.Status(fErr.Code).JSON(Response{Message: fErr.Message})
	case errors.As(err, &inErr):
		log.Error().Err(inErr.Err).Str("method", c.Method()).Str("path", c.Path()).Msg(inErr.Message)

		return c.Status(fiber.StatusInternalServerError).JSON(Response{Message: inErr.Message})
	default:
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("unhandled error")

		return c.Status(fiber.StatusInternalServerError).JSON(Response{Message: "Internal Server Error"})
	}
}
