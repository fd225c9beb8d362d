package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	messagedomain "github.com/unsentpro/unsent-api/internal/message/domain"
	"go.uber.org/zap"
)

// GenerateCustomMessage turns a free-form draft into a polished message.
func (s *Server) GenerateCustomMessage(c *gin.Context) {
	var req messagedomain.GenerateCustomMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	req.CustomerUserID = strings.TrimSpace(req.CustomerUserID)
	if req.CustomerUserID == "" {
		AbortWithError(c, messagedomain.ErrMissingCustomerUserID)
		return
	}
	if !s.allowGeneration(c, req.CustomerUserID) {
		return
	}

	msg, err := s.messageSvc.GenerateCustomMessage(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"input_prompt":      msg.UserPrompt,
		"generated_message": msg.GeneratedMessage,
	})
}

// GenerateStructuredMessage builds a message from the guided questionnaire.
func (s *Server) GenerateStructuredMessage(c *gin.Context) {
	var req messagedomain.GenerateStructuredMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	req.CustomerUserID = strings.TrimSpace(req.CustomerUserID)
	if req.CustomerUserID == "" {
		AbortWithError(c, messagedomain.ErrMissingCustomerUserID)
		return
	}
	if !s.allowGeneration(c, req.CustomerUserID) {
		return
	}

	msg, err := s.messageSvc.GenerateStructuredMessage(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"system_prompt":     msg.SystemPrompt,
		"user_prompt":       msg.UserPrompt,
		"generated_message": msg.GeneratedMessage,
	})
}

func (s *Server) allowGeneration(c *gin.Context, customerUserID string) bool {
	allowed, err := s.messageLimiter.Allow(c.Request.Context(), customerUserID)
	if err != nil {
		s.log.Warn("rate limiter unavailable",
			zap.String("customer_user_id", customerUserID),
			zap.Error(err),
		)
	}
	if !allowed {
		AbortWithError(c, messagedomain.ErrRateLimited)
		return false
	}
	return true
}
