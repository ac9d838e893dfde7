package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"linkly-be/internal/service"
)

// respondError writes the JSON error matching a service error.
func respondError(c *gin.Context, err error) {
	status, message := http.StatusInternalServerError, "Internal server error"

	switch {
	case errors.Is(err, service.ErrInvalidURL):
		status, message = http.StatusBadRequest, "Invalid URL: an absolute http or https URL is required"
	case errors.Is(err, service.ErrUnauthenticated):
		status, message = http.StatusUnauthorized, "Authentication required"
	case errors.Is(err, service.ErrInvalidCredentials):
		status, message = http.StatusUnauthorized, err.Error()
	case errors.Is(err, service.ErrForbidden):
		status, message = http.StatusForbidden, "You do not have access to this link"
	case errors.Is(err, service.ErrNotFound):
		status, message = http.StatusNotFound, "Link not found"
	case errors.Is(err, service.ErrEmailTaken):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrStoreUnavailable):
		status, message = http.StatusServiceUnavailable, "Service temporarily unavailable, please retry"
	}

	if status >= http.StatusInternalServerError {
		log.Printf("ERROR: %s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"error": message})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request body",
		"details": err.Error(),
	})
}
