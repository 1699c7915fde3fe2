package utils

import (
	"errors"
	"github.com/gin-gonic/gin"
	"log"
	"net/http"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func traceID(c *gin.Context) string {
	if v, ok := c.Get("trace_id"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrPlanNotFound),
		errors.Is(err, ErrPaymentNotFound),
		errors.Is(err, ErrPayoutNotFound),
		errors.Is(err, RecordNotFound):
		RespondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrPlanNotInGuild),
		errors.Is(err, ErrPlanInactive),
		errors.Is(err, ErrPlanAlreadyDeleted),
		errors.Is(err, ErrBelowMinimumPayout),
		errors.Is(err, ErrInsufficientBalance),
		errors.Is(err, ErrInvalidPlanInput):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrSubscriptionExpired):
		RespondError(c, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, ErrGatewayUnavailable):
		RespondError(c, http.StatusBadGateway, err.Error())
	case errors.Is(err, ErrDatabaseError):
		log.Printf("Database error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		log.Printf("Unknown error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
