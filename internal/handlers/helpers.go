package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rajputgas/agency-api/internal/apperrors"
)

// respondError maps domain errors to HTTP status codes.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperrors.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrOverReturn),
		errors.Is(err, apperrors.ErrOverpayment),
		errors.Is(err, apperrors.ErrInvalidState):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrInvariant):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// paramUint parses a positive integer path parameter.
func paramUint(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || v == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(v), true
}
