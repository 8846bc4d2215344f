package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/studioplan/lessongrid-api/internal/middleware"
	"github.com/studioplan/lessongrid-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// ownerFromContext returns the authenticated owner's id, empty when the
// request carries no valid claims.
func ownerFromContext(c *gin.Context) string {
	claims := claimsFromContext(c)
	if claims == nil {
		return ""
	}
	return claims.UserID
}
