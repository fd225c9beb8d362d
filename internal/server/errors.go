package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	messagedomain "github.com/unsentpro/unsent-api/internal/message/domain"
	subscriptiondomain "github.com/unsentpro/unsent-api/internal/subscription/domain"
)

// errorResponse is the uniform failure envelope: {"success": false, "error": "..."}.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrMethodNotAllowed = errors.New("method_not_allowed")
	ErrInvalidRequest   = errors.New("invalid_request")
)

// ErrorHandlingMiddleware renders the last gin error as the JSON envelope
// once the handler chain finishes without writing a response.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, message := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Success: false, Error: message})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, string) {
	var validationErr *subscriptiondomain.ValidationFailedError
	if errors.As(err, &validationErr) {
		return http.StatusForbidden, validationErr.Error()
	}

	var unknownProductErr *subscriptiondomain.UnknownProductError
	if errors.As(err, &unknownProductErr) {
		return http.StatusBadRequest, unknownProductErr.Error()
	}

	var storeErr *subscriptiondomain.StoreError
	if errors.As(err, &storeErr) {
		return http.StatusInternalServerError, storeErr.Error()
	}

	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed, "Method not allowed"
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest, "Invalid request body"
	case errors.Is(err, subscriptiondomain.ErrMissingRequiredFields):
		return http.StatusBadRequest, "Missing required fields: customer_user_id, product, price and currency are required"
	case errors.Is(err, subscriptiondomain.ErrInvalidPurchaseDate):
		return http.StatusBadRequest, "Invalid purchase_date: must be an RFC 3339 timestamp"
	case errors.Is(err, subscriptiondomain.ErrSubscriptionNotFound):
		return http.StatusNotFound, "No active subscription found"
	case errors.Is(err, messagedomain.ErrMissingCustomerUserID):
		return http.StatusBadRequest, "Missing customer_user_id: customer_user_id is required"
	case errors.Is(err, messagedomain.ErrNoActiveSubscription):
		return http.StatusForbidden, "No active subscription found"
	case errors.Is(err, messagedomain.ErrRateLimited):
		return http.StatusTooManyRequests, "Too many message requests, slow down"
	default:
		return http.StatusInternalServerError, "An unexpected error occurred"
	}
}

// classifyErrorForLog feeds the request logger's error fields.
func classifyErrorForLog(err error) (string, string) {
	status, _ := mapError(err)
	switch {
	case status == http.StatusUnauthorized:
		return "auth_error", "unauthorized"
	case status == http.StatusForbidden:
		return "validation_error", "forbidden"
	case status == http.StatusTooManyRequests:
		return "rate_limit", "too_many_requests"
	case status >= http.StatusBadRequest && status < http.StatusInternalServerError:
		return "validation_error", "bad_request"
	default:
		return "internal_error", "internal"
	}
}
