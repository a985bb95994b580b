package items

import (
	"fmt"
	"strings"
	"time"

	"auction-marketplace/internal/auctionerrors"
	model "auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"
)

// ItemInput carries the writable listing fields for create and update.
type ItemInput struct {
	Title          string
	Description    string
	MinimumBid     int64
	AuctionEndDate time.Time
}

// ItemService defines the business logic for auction listings
type ItemService struct {
	repo repository.AuctionDB
}

// NewItemService creates a new ItemService instance
func NewItemService(repo repository.AuctionDB) *ItemService {
	return &ItemService{
		repo: repo,
	}
}

func (s *ItemService) validateInput(in ItemInput, now time.Time) error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("service: %w - title is required", auctionerrors.ErrInvalidInput)
	}
	if strings.TrimSpace(in.Description) == "" {
		return fmt.Errorf("service: %w - description is required", auctionerrors.ErrInvalidInput)
	}
	if in.MinimumBid <= 0 {
		return fmt.Errorf("service: %w - minimum bid must be positive", auctionerrors.ErrInvalidInput)
	}
	// Strictly future: listing an auction that ends today is pointless,
	// the winner sweep for today may already have run.
	if !model.DateOnly(in.AuctionEndDate).After(model.DateOnly(now)) {
		return fmt.Errorf("service: %w", auctionerrors.ErrPastEndDate)
	}
	return nil
}

// canManage reports whether the actor may modify the item.
func canManage(item model.Item, actorID uint, isAdmin bool) bool {
	if isAdmin {
		return true
	}
	return item.OwnerID != nil && *item.OwnerID == actorID
}

// CreateItem validates and stores a new listing owned by ownerID.
func (s *ItemService) CreateItem(ownerID uint, in ItemInput, now time.Time) (model.Item, error) {
	if err := s.validateInput(in, now); err != nil {
		return model.Item{}, err
	}

	item := model.Item{
		Title:          strings.TrimSpace(in.Title),
		Description:    strings.TrimSpace(in.Description),
		OwnerID:        &ownerID,
		MinimumBid:     in.MinimumBid,
		AuctionEndDate: model.DateOnly(in.AuctionEndDate),
	}
	if err := s.repo.CreateItem(&item); err != nil {
		return model.Item{}, fmt.Errorf("service: failed to create item for user %d: %w", ownerID, err)
	}
	return item, nil
}

// UpdateItem rewrites a listing's fields. Owner or admin only.
func (s *ItemService) UpdateItem(itemID, actorID uint, isAdmin bool, in ItemInput, now time.Time) (model.Item, error) {
	item, err := s.repo.GetItemByID(itemID)
	if err != nil {
		return model.Item{}, fmt.Errorf("service: %w", err)
	}
	if !canManage(item, actorID, isAdmin) {
		return model.Item{}, fmt.Errorf("service: %w", auctionerrors.ErrPermissionDenied)
	}
	if err := s.validateInput(in, now); err != nil {
		return model.Item{}, err
	}

	item.Title = strings.TrimSpace(in.Title)
	item.Description = strings.TrimSpace(in.Description)
	item.MinimumBid = in.MinimumBid
	item.AuctionEndDate = model.DateOnly(in.AuctionEndDate)
	if err := s.repo.UpdateItem(&item); err != nil {
		return model.Item{}, fmt.Errorf("service: failed to update item %d: %w", itemID, err)
	}
	return item, nil
}

// DeleteItem removes a listing together with its bids and message thread.
func (s *ItemService) DeleteItem(itemID, actorID uint, isAdmin bool) error {
	item, err := s.repo.GetItemByID(itemID)
	if err != nil {
		return fmt.Errorf("service: %w", err)
	}
	if !canManage(item, actorID, isAdmin) {
		return fmt.Errorf("service: %w", auctionerrors.ErrPermissionDenied)
	}
	if err := s.repo.DeleteItem(itemID); err != nil {
		return fmt.Errorf("service: failed to delete item %d: %w", itemID, err)
	}
	return nil
}

// GetItem returns a single listing by ID.
func (s *ItemService) GetItem(itemID uint) (model.Item, error) {
	item, err := s.repo.GetItemByID(itemID)
	if err != nil {
		return model.Item{}, fmt.Errorf("service: %w", err)
	}
	return item, nil
}

// SearchItems returns listings matching query (title or description),
// paginated by start/end row indices, plus the total match count.
func (s *ItemService) SearchItems(query string, start, end int) ([]model.Item, int64, error) {
	if start < 0 || end <= start {
		return nil, 0, fmt.Errorf("service: %w - invalid pagination range [%d, %d)", auctionerrors.ErrInvalidInput, start, end)
	}
	items, total, err := s.repo.SearchItems(query, start, end)
	if err != nil {
		return nil, 0, fmt.Errorf("service: failed to search items: %w", err)
	}
	return items, total, nil
}

// GetUserItems returns all listings owned by a user.
func (s *ItemService) GetUserItems(ownerID uint) ([]model.Item, error) {
	items, err := s.repo.GetItemsByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get items for user %d: %w", ownerID, err)
	}
	return items, nil
}

// SetItemImage records a freshly stored image URL on the listing and
// returns the previous URL so the caller can clean up the old file.
func (s *ItemService) SetItemImage(itemID, actorID uint, isAdmin bool, url string) (string, error) {
	item, err := s.repo.GetItemByID(itemID)
	if err != nil {
		return "", fmt.Errorf("service: %w", err)
	}
	if !canManage(item, actorID, isAdmin) {
		return "", fmt.Errorf("service: %w", auctionerrors.ErrPermissionDenied)
	}
	old := item.Image
	item.Image = url
	if err := s.repo.UpdateItem(&item); err != nil {
		return "", fmt.Errorf("service: failed to set image for item %d: %w", itemID, err)
	}
	return old, nil
}

// ClearItemImage removes the listing's image reference and returns the
// old URL for file cleanup.
func (s *ItemService) ClearItemImage(itemID, actorID uint, isAdmin bool) (string, error) {
	item, err := s.repo.GetItemByID(itemID)
	if err != nil {
		return "", fmt.Errorf("service: %w", err)
	}
	if !canManage(item, actorID, isAdmin) {
		return "", fmt.Errorf("service: %w", auctionerrors.ErrPermissionDenied)
	}
	if item.Image == "" {
		return "", fmt.Errorf("service: %w", auctionerrors.ErrNoImage)
	}
	old := item.Image
	item.Image = ""
	if err := s.repo.UpdateItem(&item); err != nil {
		return "", fmt.Errorf("service: failed to clear image for item %d: %w", itemID, err)
	}
	return old, nil
}
