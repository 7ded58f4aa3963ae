package apperrors

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInternalServerError = errors.New("internal server error")

	ErrShowtimeNotFound = errors.New("showtime not found")
	ErrSeatNotFound     = errors.New("seat not found")
	ErrSeatConflict     = errors.New("seat already held or sold")

	ErrBookingNotFound = errors.New("booking not found")
	ErrBookingNotPaid  = errors.New("booking not paid")

	ErrPromotionNotFound  = errors.New("promotion not found")
	ErrPromotionNotActive = errors.New("promotion not active")
	ErrPromotionExpired   = errors.New("promotion expired")
	ErrPromotionMinAmount = errors.New("promotion minimum amount not reached")
	ErrPromotionExhausted = errors.New("promotion usage limit reached")

	ErrComboNotFound = errors.New("combo not found")

	ErrTicketNotFound    = errors.New("ticket not found")
	ErrTicketAlreadyUsed = errors.New("ticket already checked in")
	ErrTicketExpired     = errors.New("ticket expired")
)
