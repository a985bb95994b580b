package auctionerrors

import "errors"

// Repository-level errors
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrItemNotFound    = errors.New("item not found")
	ErrBidNotFound     = errors.New("bid not found")
	ErrMessageNotFound = errors.New("message not found")
	ErrNoBids          = errors.New("no bids found for item")
	ErrDuplicateEmail  = errors.New("email already registered")
)

// business logic errors
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrBidTooLow          = errors.New("bid must be greater than current highest bid")
	ErrBelowMinimumBid    = errors.New("bid must be at least the minimum bid")
	ErrAuctionEnded       = errors.New("auction ended")
	ErrOwnItemBid         = errors.New("cannot bid on own item")
	ErrPastEndDate        = errors.New("auction end date must be in the future")
	ErrCrossItemReply     = errors.New("reply must belong to the same item as its parent")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoImage            = errors.New("no image to delete")
)
