package handler

import (
	"context"
	"errors"

	"learntrack/internal/middleware"
	"learntrack/internal/service"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog"
)

func getUserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return "", huma.Error401Unauthorized("User ID not found in context")
	}
	return userID, nil
}

// toHumaError maps service errors onto HTTP status errors. Unknown errors are
// logged and reported as 500 with msg.
func toHumaError(logger zerolog.Logger, err error, msg string) error {
	switch {
	case errors.Is(err, service.ErrCourseNotFound),
		errors.Is(err, service.ErrModuleNotFound),
		errors.Is(err, service.ErrQuizNotFound),
		errors.Is(err, service.ErrAttemptNotFound),
		errors.Is(err, service.ErrProgressNotFound),
		errors.Is(err, service.ErrContentNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, service.ErrForbidden), errors.Is(err, service.ErrNotPublished):
		return huma.Error403Forbidden(err.Error())
	case errors.Is(err, service.ErrInvalidInput):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, service.ErrConflict), errors.Is(err, service.ErrAttemptLimit):
		return huma.Error409Conflict(err.Error())
	case errors.Is(err, service.ErrStorageDisabled):
		return huma.Error503ServiceUnavailable(err.Error())
	}
	logger.Error().Err(err).Msg(msg)
	return huma.Error500InternalServerError(msg)
}
