package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	messagedomain "github.com/unsentpro/unsent-api/internal/message/domain"
	subscriptiondomain "github.com/unsentpro/unsent-api/internal/subscription/domain"
)

// GetSubscription returns the customer's active subscription, if any.
func (s *Server) GetSubscription(c *gin.Context) {
	customerUserID := strings.TrimSpace(c.Query("customer_user_id"))
	if customerUserID == "" {
		AbortWithError(c, messagedomain.ErrMissingCustomerUserID)
		return
	}

	sub, err := s.subscriptionSvc.GetActiveByCustomerUserID(c.Request.Context(), subscriptiondomain.GetSubscriptionRequest{
		CustomerUserID: customerUserID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"subscription": sub,
	})
}
