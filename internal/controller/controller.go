// Package controller holds the HTTP helpers shared by the user and admin
// controllers.
package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/behavio/internal/dto"
	"github.com/lshigami/behavio/internal/service"
	"github.com/rs/zerolog/log"
)

// StatusFor maps a service error onto an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidState), errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err as a dto.ErrorResponse. Internal errors are logged
// and their details withheld from the client.
func RespondError(ctx *gin.Context, op string, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("op", op).Msg("Request failed")
		ctx.JSON(status, dto.ErrorResponse{Message: "Internal server error"})
		return
	}
	log.Warn().Err(err).Str("op", op).Int("status", status).Msg("Request rejected")
	ctx.JSON(status, dto.ErrorResponse{Message: err.Error()})
}

// BadRequest reports a malformed request, e.g. a failed bind.
func BadRequest(ctx *gin.Context, message string, err error) {
	resp := dto.ErrorResponse{Message: message}
	if err != nil {
		resp.Details = []string{err.Error()}
	}
	ctx.JSON(http.StatusBadRequest, resp)
}

// UintParam reads a positive numeric path parameter.
func UintParam(ctx *gin.Context, name string) (uint, bool) {
	val, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || val == 0 {
		BadRequest(ctx, "Invalid "+name+" format", nil)
		return 0, false
	}
	return uint(val), true
}
