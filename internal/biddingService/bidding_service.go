package bidding

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"auction-marketplace/internal/auctionerrors"
	model "auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"
)

// ItemStatus classifies an auction from a bidder's point of view.
type ItemStatus string

const (
	StatusOngoing ItemStatus = "ongoing"
	StatusWon     ItemStatus = "won"
	StatusLost    ItemStatus = "lost"
)

// BiddedItem is one entry in a user's bidded-items overview: the listing,
// its status for that user, the user's most recent bid and the item-wide
// highest amount.
type BiddedItem struct {
	Item       model.Item `json:"item"`
	Status     ItemStatus `json:"status"`
	IsWinning  bool       `json:"is_winning"`
	LastBid    model.Bid  `json:"last_bid"`
	HighestBid int64      `json:"highest_bid"`
}

// BiddingService defines the business logic for auction bidding
type BiddingService struct {
	repo repository.AuctionDB
}

// NewBiddingService creates a new BiddingService instance
func NewBiddingService(repo repository.AuctionDB) *BiddingService {
	return &BiddingService{
		repo: repo,
	}
}

// PlaceBid validates and records a user's bid for an item.
// A first bid must reach the item's minimum; later bids must strictly
// exceed the current highest. Existing bids are never touched.
func (s *BiddingService) PlaceBid(itemID, bidderID uint, amount int64, now time.Time) (model.Bid, error) {
	item, err := s.repo.GetItemByID(itemID)
	if err != nil {
		return model.Bid{}, fmt.Errorf("service: %w", err)
	}

	if !item.IsActive(now) {
		return model.Bid{}, fmt.Errorf("service: %w", auctionerrors.ErrAuctionEnded)
	}
	if item.OwnerID != nil && *item.OwnerID == bidderID {
		return model.Bid{}, fmt.Errorf("service: %w", auctionerrors.ErrOwnItemBid)
	}
	if amount <= 0 {
		return model.Bid{}, fmt.Errorf("service: %w - non-positive bid amount", auctionerrors.ErrInvalidInput)
	}

	highest, err := s.repo.GetHighestBid(itemID)
	switch {
	case err == nil:
		if amount <= highest.BidAmount {
			return model.Bid{}, fmt.Errorf("service: %w - current highest bid is %d", auctionerrors.ErrBidTooLow, highest.BidAmount)
		}
	case errors.Is(err, auctionerrors.ErrNoBids):
		if amount < item.MinimumBid {
			return model.Bid{}, fmt.Errorf("service: %w - minimum bid is %d", auctionerrors.ErrBelowMinimumBid, item.MinimumBid)
		}
	default:
		return model.Bid{}, fmt.Errorf("service: failed to check highest bid: %w", err)
	}

	bid := model.Bid{
		BidderID:  &bidderID,
		ItemID:    itemID,
		BidAmount: amount,
		CreatedAt: now.UTC(),
	}
	if err := s.repo.CreateBid(&bid); err != nil {
		return model.Bid{}, fmt.Errorf("service: failed to record bid for item %d by user %d: %w", itemID, bidderID, err)
	}
	return bid, nil
}

// DeleteBid removes a bid. Only the bidder or an admin may do so.
func (s *BiddingService) DeleteBid(bidID, actorID uint, isAdmin bool) error {
	bid, err := s.repo.GetBidByID(bidID)
	if err != nil {
		return fmt.Errorf("service: %w", err)
	}
	if !isAdmin && (bid.BidderID == nil || *bid.BidderID != actorID) {
		return fmt.Errorf("service: %w", auctionerrors.ErrPermissionDenied)
	}
	if err := s.repo.DeleteBid(bidID); err != nil {
		return fmt.Errorf("service: failed to delete bid %d: %w", bidID, err)
	}
	return nil
}

// GetItemBids returns all bids for a specific item in creation order.
func (s *BiddingService) GetItemBids(itemID uint) ([]model.Bid, error) {
	if _, err := s.repo.GetItemByID(itemID); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	bids, err := s.repo.GetBidsByItem(itemID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for item %d: %w", itemID, err)
	}
	return bids, nil
}

// GetUserBids returns all bids placed by a user.
func (s *BiddingService) GetUserBids(userID uint) ([]model.Bid, error) {
	bids, err := s.repo.GetBidsByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for user %d: %w", userID, err)
	}
	return bids, nil
}

// GetHighestBid returns the leading bid for an item: the earliest bid at
// the highest amount.
func (s *BiddingService) GetHighestBid(itemID uint) (model.Bid, error) {
	bid, err := s.repo.GetHighestBid(itemID)
	if err != nil {
		return model.Bid{}, fmt.Errorf("service: failed to get highest bid for item %d: %w", itemID, err)
	}
	return bid, nil
}

// GetUserBiddedItems returns one entry per item the user has bid on,
// regardless of bid count, classified as ongoing, won or lost. Active
// auctions come first, then ascending end date within each group.
func (s *BiddingService) GetUserBiddedItems(userID uint, now time.Time) ([]BiddedItem, error) {
	bids, err := s.repo.GetBidsByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for user %d: %w", userID, err)
	}

	// Bids arrive in creation order, so the last write per item is the
	// user's most recent bid on it.
	lastBids := make(map[uint]model.Bid)
	for _, b := range bids {
		lastBids[b.ItemID] = b
	}

	entries := make([]BiddedItem, 0, len(lastBids))
	for itemID, last := range lastBids {
		item, err := s.repo.GetItemByID(itemID)
		if errors.Is(err, auctionerrors.ErrItemNotFound) {
			continue // listing removed, nothing to show
		}
		if err != nil {
			return nil, fmt.Errorf("service: %w", err)
		}

		highest, err := s.repo.GetHighestBid(itemID)
		if err != nil {
			return nil, fmt.Errorf("service: failed to get highest bid for item %d: %w", itemID, err)
		}
		winning := highest.BidderID != nil && *highest.BidderID == userID

		entry := BiddedItem{
			Item:       item,
			IsWinning:  winning,
			LastBid:    last,
			HighestBid: highest.BidAmount,
		}
		switch {
		case item.IsActive(now):
			entry.Status = StatusOngoing
		case winning:
			entry.Status = StatusWon
		default:
			entry.Status = StatusLost
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		activeI := entries[i].Status == StatusOngoing
		activeJ := entries[j].Status == StatusOngoing
		if activeI != activeJ {
			return activeI
		}
		endI := model.DateOnly(entries[i].Item.AuctionEndDate)
		endJ := model.DateOnly(entries[j].Item.AuctionEndDate)
		if !endI.Equal(endJ) {
			return endI.Before(endJ)
		}
		return entries[i].Item.ID < entries[j].Item.ID
	})
	return entries, nil
}
