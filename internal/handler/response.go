package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"carpool/internal/remote"
	"carpool/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// mapErrorToHTTPStatus maps service/remote errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	var apiErr *remote.APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}

	switch {
	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidRoute),
		errors.Is(err, service.ErrInvalidSchedule),
		errors.Is(err, service.ErrInvalidCapacity),
		errors.Is(err, service.ErrInvalidPartySize),
		errors.Is(err, service.ErrInvalidFare),
		errors.Is(err, service.ErrInvalidGender),
		errors.Is(err, service.ErrProfileIncomplete):
		return http.StatusBadRequest

	// Permission errors
	case errors.Is(err, service.ErrFemaleOnlyRestricted),
		errors.Is(err, service.ErrNotCreator),
		errors.Is(err, service.ErrEmailDomainNotAllowed),
		errors.Is(err, remote.ErrForbidden):
		return http.StatusForbidden

	// Conflict errors
	case errors.Is(err, service.ErrAlreadyMember),
		errors.Is(err, service.ErrPoolFull):
		return http.StatusConflict

	// Session errors
	case errors.Is(err, service.ErrNoSession),
		errors.Is(err, remote.ErrUnauthorized):
		return http.StatusUnauthorized

	case errors.Is(err, remote.ErrNotFound):
		return http.StatusNotFound

	// Remote collaborator unreachable
	case errors.Is(err, remote.ErrTimeout),
		errors.Is(err, remote.ErrUnavailable):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}
