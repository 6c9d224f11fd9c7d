package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"salon/backend/internal/service/bookings"
	"salon/backend/internal/service/entities"
	"salon/backend/internal/store"
)

const timestampLayout = "2006-01-02 15:04:05"

type errorBody struct {
	Timestamp string `json:"timestamp"`
	Message   string `json:"message"`
	Status    int    `json:"status"`
	Path      string `json:"path"`
}

func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, errorBody{
		Timestamp: time.Now().UTC().Format(timestampLayout),
		Message:   message,
		Status:    status,
		Path:      c.Request.URL.Path,
	})
}

// fail maps a service error onto a status code and logs it at the level its kind deserves.
func fail(c *gin.Context, log *slog.Logger, kind string, err error, attrs ...any) {
	var vErr *entities.ValidationError
	if errors.As(err, &vErr) {
		log.Warn("invalid request", append(attrs, slog.Any("err", err))...)
		abortWithError(c, http.StatusBadRequest, vErr.Error())
		return
	}

	var cErr *bookings.ConflictError
	if errors.As(err, &cErr) {
		log.Info(
			"booking conflict",
			append(attrs,
				slog.String("staff_id", cErr.StaffID.String()),
				slog.String("conflicting_booking_id", cErr.BookingID.String()),
			)...,
		)
		abortWithError(c, http.StatusConflict, cErr.Error())
		return
	}

	switch {
	case errors.Is(err, store.ErrNotFound):
		log.Info(kind+" not found", attrs...)
		abortWithError(c, http.StatusNotFound, kind+" not found")
	case errors.Is(err, store.ErrConflict):
		log.Info(kind+" conflict", append(attrs, slog.Any("err", err))...)
		abortWithError(c, http.StatusConflict, kind+" already exists")
	case errors.Is(err, context.DeadlineExceeded):
		log.Warn("request timed out", attrs...)
		abortWithError(c, http.StatusGatewayTimeout, "request timed out")
	default:
		log.Error(kind+" request failed", append(attrs, slog.Any("err", err))...)
		abortWithError(c, http.StatusInternalServerError, "internal error")
	}
}
