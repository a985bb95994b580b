package helpers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"auction-marketplace/internal/auctionerrors"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
)

// dateLayout is the wire format for calendar dates (end dates, birth dates).
const dateLayout = "2006-01-02"

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, auctionerrors.ErrUserNotFound),
		errors.Is(err, auctionerrors.ErrItemNotFound),
		errors.Is(err, auctionerrors.ErrBidNotFound),
		errors.Is(err, auctionerrors.ErrMessageNotFound),
		errors.Is(err, auctionerrors.ErrNoImage):
		return http.StatusNotFound, unwrapMessage(err)
	case errors.Is(err, auctionerrors.ErrInvalidInput),
		errors.Is(err, auctionerrors.ErrBidTooLow),
		errors.Is(err, auctionerrors.ErrBelowMinimumBid),
		errors.Is(err, auctionerrors.ErrAuctionEnded),
		errors.Is(err, auctionerrors.ErrPastEndDate),
		errors.Is(err, auctionerrors.ErrCrossItemReply),
		errors.Is(err, auctionerrors.ErrDuplicateEmail):
		return http.StatusBadRequest, unwrapMessage(err)
	case errors.Is(err, auctionerrors.ErrOwnItemBid),
		errors.Is(err, auctionerrors.ErrPermissionDenied):
		return http.StatusForbidden, unwrapMessage(err)
	case errors.Is(err, auctionerrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, unwrapMessage(err)
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// RespondError maps err, sends the JSON error body and logs it once.
func RespondError(c *gin.Context, handlerName string, err error) {
	status, msg := MapErrorToHTTP(err)
	utils.JSONError(c, status, msg)

	fields := map[string]any{"status": status, "error": err.Error()}
	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": request failed", fields)
	} else {
		utils.Warn(handlerName+": request rejected", fields)
	}
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}

// ParseDate parses a calendar date from its wire format.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w - expected date as %s", auctionerrors.ErrInvalidInput, dateLayout)
	}
	return t, nil
}

// ParseIDParam reads a positive integer path parameter.
func ParseIDParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w - invalid %s", auctionerrors.ErrInvalidInput, name)
	}
	return uint(id), nil
}

// unwrapMessage strips "service:" style prefixes so the client sees only
// the human-readable reason.
func unwrapMessage(err error) string {
	for _, sentinel := range []error{
		auctionerrors.ErrUserNotFound,
		auctionerrors.ErrItemNotFound,
		auctionerrors.ErrBidNotFound,
		auctionerrors.ErrMessageNotFound,
		auctionerrors.ErrNoImage,
		auctionerrors.ErrBidTooLow,
		auctionerrors.ErrBelowMinimumBid,
		auctionerrors.ErrAuctionEnded,
		auctionerrors.ErrPastEndDate,
		auctionerrors.ErrCrossItemReply,
		auctionerrors.ErrDuplicateEmail,
		auctionerrors.ErrOwnItemBid,
		auctionerrors.ErrPermissionDenied,
		auctionerrors.ErrInvalidCredentials,
		auctionerrors.ErrInvalidInput,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}
