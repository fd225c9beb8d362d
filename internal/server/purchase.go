package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	subscriptiondomain "github.com/unsentpro/unsent-api/internal/subscription/domain"
)

// AddSubscription validates a store purchase and records the entitlement.
func (s *Server) AddSubscription(c *gin.Context) {
	var req subscriptiondomain.AddSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	sub, err := s.subscriptionSvc.AddSubscription(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"subscription": sub,
	})
}
