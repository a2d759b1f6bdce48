package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/geocoder89/travellog/internal/domain/place"
	"github.com/geocoder89/travellog/internal/domain/trip"
	"github.com/geocoder89/travellog/internal/domain/user"
	"github.com/geocoder89/travellog/internal/security"
	"github.com/geocoder89/travellog/internal/service"
	"github.com/gin-gonic/gin"
)

type APIError struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"requestId,omitempty"`
	Details   interface{} `json:"details,omitempty"`
}

func requestIDFrom(ctx *gin.Context) string {
	v, ok := ctx.Get("request_id")

	if ok {
		s, ok := v.(string)
		if ok && s != "" {
			return s
		}
	}

	// fallback header
	return ctx.GetHeader("X-Request-Id")
}

func RespondError(ctx *gin.Context, status int, code, message string, details interface{}) {
	ctx.JSON(status, gin.H{
		"error": APIError{
			Code:      code,
			Message:   message,
			RequestID: requestIDFrom(ctx),
			Details:   details,
		},
	})
}

func RespondBadRequest(ctx *gin.Context, message string, details interface{}) {
	RespondError(ctx, http.StatusBadRequest, "invalid_request", message, details)
}

// RespondNotFound answers in plain text, the one error that is not wrapped in
// the JSON envelope.
func RespondNotFound(ctx *gin.Context, entity, id string) {
	ctx.String(http.StatusNotFound, "No %s found with ID %s", entity, id)
}

func RespondInternal(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusInternalServerError, "internal_error", message, nil)
}

func RespondConflict(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusConflict, code, message, nil)
}

func RespondUnAuthorized(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusUnauthorized, code, message, nil)
}

func RespondForbidden(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusForbidden, "forbidden", message, nil)
}

func RespondUnprocessable(ctx *gin.Context, code, message string, details interface{}) {
	RespondError(ctx, http.StatusUnprocessableEntity, code, message, details)
}

// respondServiceError maps service and store errors onto HTTP responses. id
// is the path id used for the 404 message.
func respondServiceError(ctx *gin.Context, err error, id, fallback string) {
	switch {
	case errors.Is(err, user.ErrNotFound):
		RespondNotFound(ctx, "user", id)
	case errors.Is(err, trip.ErrNotFound):
		RespondNotFound(ctx, "trip", id)
	case errors.Is(err, place.ErrNotFound):
		RespondNotFound(ctx, "place", id)

	case errors.Is(err, user.ErrEmailTaken):
		RespondConflict(ctx, "email_taken", "Email is already in use.")
	case errors.Is(err, user.ErrIDTaken),
		errors.Is(err, trip.ErrIDTaken),
		errors.Is(err, place.ErrIDTaken):
		RespondConflict(ctx, "id_taken", err.Error())

	case errors.Is(err, trip.ErrCreatorNotFound):
		RespondUnprocessable(ctx, "invalid_reference", "tripCreator does not reference an existing user", gin.H{"field": "tripCreator"})
	case errors.Is(err, place.ErrTripNotFound):
		RespondUnprocessable(ctx, "invalid_reference", "placeCorrTrip does not reference an existing trip", gin.H{"field": "placeCorrTrip"})

	case errors.Is(err, security.ErrPasswordTooLong):
		RespondBadRequest(ctx, "Invalid request body", gin.H{"fields": []FieldError{{
			Field:   "password",
			Rule:    "bcryptlen",
			Message: validationMessage("bcryptlen", ""),
		}}})

	case errors.Is(err, service.ErrNoActor):
		RespondUnAuthorized(ctx, "unauthorized", "Authentication required")

	default:
		slog.ErrorContext(ctx.Request.Context(), "request failed",
			"route", ctx.FullPath(),
			"request_id", requestIDFrom(ctx),
			"err", err,
		)
		_ = ctx.Error(err)
		RespondInternal(ctx, fallback)
	}
}
