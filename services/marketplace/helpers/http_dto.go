package helpers

// Request/Response DTOs

type SignupRequest struct {
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DateOfBirth string `json:"date_of_birth" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type UpdateProfileRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Email       *string `json:"email"`
	Password    *string `json:"password"`
	DateOfBirth *string `json:"date_of_birth"`
}

// ItemRequest is the payload for both listing creation and update; an
// update replaces every field.
type ItemRequest struct {
	Title          string `json:"title" binding:"required"`
	Description    string `json:"description" binding:"required"`
	MinimumBid     int64  `json:"minimum_bid" binding:"required,gt=0"`
	AuctionEndDate string `json:"auction_end_date" binding:"required"`
}

type PlaceBidRequest struct {
	ItemID uint  `json:"item_id" binding:"required"`
	Amount int64 `json:"bid_amount" binding:"required,gt=0"`
}

type CreateMessageRequest struct {
	ItemID       uint   `json:"item_id" binding:"required"`
	ReplyingToID *uint  `json:"replying_to_id"`
	Title        string `json:"title" binding:"required"`
	Body         string `json:"body" binding:"required"`
}

type UpdateMessageRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body" binding:"required"`
}
