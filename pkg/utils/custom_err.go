package utils

import "errors"

var (
	ErrPlanNotFound        = errors.New("plan not found")
	ErrPlanNotInGuild      = errors.New("plan belongs to a different guild")
	ErrPlanInactive        = errors.New("plan is not active")
	ErrPlanAlreadyDeleted  = errors.New("plan already deleted")
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrPayoutNotFound      = errors.New("payout not found")
	ErrSubscriptionExpired = errors.New("bot subscription expired or not paid")
	ErrBelowMinimumPayout  = errors.New("amount below minimum payout threshold")
	ErrInsufficientBalance = errors.New("not enough collected balance")
	ErrGatewayUnavailable  = errors.New("payment gateway unavailable")
	ErrInvalidPlanInput    = errors.New("invalid plan input")
	ErrDatabaseError       = errors.New("database error")
	RecordNotFound         = errors.New("record not found")
)
