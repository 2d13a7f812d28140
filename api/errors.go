package api

import (
	"log"
	"net/http"

	"flightbooking/internal/domain"

	"github.com/gin-gonic/gin"
)

// respondError maps a domain error kind to an HTTP status. Infrastructure
// failures are logged with full context and surfaced generically.
func respondError(c *gin.Context, err error) {
	kind := domain.KindOf(err)
	switch kind {
	case domain.KindValidation, domain.KindConflict:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	case domain.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
	case domain.KindForbidden:
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": err.Error()})
	default:
		log.Printf("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
	}
}
