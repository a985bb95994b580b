package models

import "time"

// User represents a marketplace account. Email doubles as the login name.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	Password       string    `json:"-"` // bcrypt hash, never serialized
	DateOfBirth    time.Time `gorm:"type:date" json:"date_of_birth"`
	IsAdmin        bool      `gorm:"default:false" json:"is_admin"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Item represents an auction listing. OwnerID and AuctionWinnerID are
// nullable so that deleting a user preserves the auction history.
type Item struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"not null" json:"title"`
	Description     string    `gorm:"type:text;not null" json:"description"`
	OwnerID         *uint     `json:"owner_id"`
	Owner           *User     `gorm:"foreignKey:OwnerID;constraint:OnDelete:SET NULL" json:"-"`
	MinimumBid      int64     `gorm:"not null" json:"minimum_bid"`
	AuctionEndDate  time.Time `gorm:"type:date;not null" json:"auction_end_date"`
	Image           string    `json:"image,omitempty"`
	AuctionWinnerID *uint     `json:"auction_winner_id"`
	AuctionWinner   *User     `gorm:"foreignKey:AuctionWinnerID;constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Bid represents a monetary offer on an item. Bids are append-only: they
// are created and deleted, never mutated.
type Bid struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BidderID  *uint     `json:"bidder_id"`
	Bidder    *User     `gorm:"foreignKey:BidderID;constraint:OnDelete:SET NULL" json:"-"`
	ItemID    uint      `gorm:"not null" json:"item_id"`
	Item      *Item     `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" json:"-"`
	BidAmount int64     `gorm:"not null" json:"bid_amount"`
	CreatedAt time.Time `json:"created_at"`
}

// Message represents a post in an item's discussion thread. ReplyingToID
// points at the parent message; replies are removed with their parent.
type Message struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	PosterID     *uint     `json:"poster_id"`
	Poster       *User     `gorm:"foreignKey:PosterID;constraint:OnDelete:SET NULL" json:"-"`
	ItemID       uint      `gorm:"not null" json:"item_id"`
	Item         *Item     `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" json:"-"`
	ReplyingToID *uint     `json:"replying_to_id"`
	ReplyingTo   *Message  `gorm:"foreignKey:ReplyingToID;constraint:OnDelete:CASCADE" json:"-"`
	Title        string    `gorm:"not null" json:"title"`
	Body         string    `gorm:"type:text;not null" json:"body"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DateOnly reduces t to its calendar date, normalized to UTC midnight.
// Auction end dates and birth dates are calendar dates; normalizing to a
// single location keeps comparisons correct when the database returns
// dates at UTC midnight while the clock runs server-local.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsActive reports whether the auction is still open: the end date has not
// passed yet (bidding is allowed on the end date itself).
func (i Item) IsActive(now time.Time) bool {
	return !DateOnly(i.AuctionEndDate).Before(DateOnly(now))
}
