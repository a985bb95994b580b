package repository

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"auction-marketplace/internal/auctionerrors"
	model "auction-marketplace/internal/models"
)

// MemoryRepo is a concurrency-safe in-memory implementation of AuctionDB,
// used by unit and integration tests. It mimics the schema's referential
// behavior: deleting a user nulls references, deleting an item removes its
// bids and messages, deleting a message removes its replies.
type MemoryRepo struct {
	mu       sync.RWMutex
	users    map[uint]model.User
	items    map[uint]model.Item
	bids     map[uint]model.Bid
	messages map[uint]model.Message
	lastID   uint
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		users:    make(map[uint]model.User),
		items:    make(map[uint]model.Item),
		bids:     make(map[uint]model.Bid),
		messages: make(map[uint]model.Message),
	}
}

// allocID must be called with the write lock held.
func (r *MemoryRepo) allocID() uint {
	r.lastID++
	return r.lastID
}

func (r *MemoryRepo) CreateUser(user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return fmt.Errorf("create user %s: %w", user.Email, auctionerrors.ErrDuplicateEmail)
		}
	}

	user.ID = r.allocID()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryRepo) GetUserByID(id uint) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return model.User{}, fmt.Errorf("get user %d: %w", id, auctionerrors.ErrUserNotFound)
	}
	return user, nil
}

func (r *MemoryRepo) GetUserByEmail(email string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, fmt.Errorf("get user %s: %w", email, auctionerrors.ErrUserNotFound)
}

func (r *MemoryRepo) UpdateUser(user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return fmt.Errorf("update user %d: %w", user.ID, auctionerrors.ErrUserNotFound)
	}
	for _, u := range r.users {
		if u.Email == user.Email && u.ID != user.ID {
			return fmt.Errorf("update user %d: %w", user.ID, auctionerrors.ErrDuplicateEmail)
		}
	}
	user.UpdatedAt = time.Now().UTC()
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryRepo) DeleteUser(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return fmt.Errorf("delete user %d: %w", id, auctionerrors.ErrUserNotFound)
	}
	delete(r.users, id)

	// SET NULL semantics: auction history survives the account.
	for itemID, item := range r.items {
		if item.OwnerID != nil && *item.OwnerID == id {
			item.OwnerID = nil
		}
		if item.AuctionWinnerID != nil && *item.AuctionWinnerID == id {
			item.AuctionWinnerID = nil
		}
		r.items[itemID] = item
	}
	for bidID, bid := range r.bids {
		if bid.BidderID != nil && *bid.BidderID == id {
			bid.BidderID = nil
			r.bids[bidID] = bid
		}
	}
	for msgID, msg := range r.messages {
		if msg.PosterID != nil && *msg.PosterID == id {
			msg.PosterID = nil
			r.messages[msgID] = msg
		}
	}
	return nil
}

func (r *MemoryRepo) CreateItem(item *model.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item.ID = r.allocID()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	item.UpdatedAt = item.CreatedAt
	r.items[item.ID] = *item
	return nil
}

func (r *MemoryRepo) GetItemByID(id uint) (model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return model.Item{}, fmt.Errorf("get item %d: %w", id, auctionerrors.ErrItemNotFound)
	}
	return item, nil
}

func (r *MemoryRepo) SearchItems(query string, start, end int) ([]model.Item, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(query)
	matched := make([]model.Item, 0, len(r.items))
	for _, item := range r.items {
		if needle == "" ||
			strings.Contains(strings.ToLower(item.Title), needle) ||
			strings.Contains(strings.ToLower(item.Description), needle) {
			matched = append(matched, item)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := int64(len(matched))
	if start >= len(matched) {
		return []model.Item{}, total, nil
	}
	if end > len(matched) {
		end = len(matched)
	}
	return append([]model.Item(nil), matched[start:end]...), total, nil
}

func (r *MemoryRepo) GetItemsByOwner(ownerID uint) ([]model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]model.Item, 0)
	for _, item := range r.items {
		if item.OwnerID != nil && *item.OwnerID == ownerID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})
	return items, nil
}

func (r *MemoryRepo) UpdateItem(item *model.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; !ok {
		return fmt.Errorf("update item %d: %w", item.ID, auctionerrors.ErrItemNotFound)
	}
	item.UpdatedAt = time.Now().UTC()
	r.items[item.ID] = *item
	return nil
}

func (r *MemoryRepo) DeleteItem(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return fmt.Errorf("delete item %d: %w", id, auctionerrors.ErrItemNotFound)
	}
	delete(r.items, id)

	// CASCADE semantics: bids and the whole thread go with the listing.
	for bidID, bid := range r.bids {
		if bid.ItemID == id {
			delete(r.bids, bidID)
		}
	}
	for msgID, msg := range r.messages {
		if msg.ItemID == id {
			delete(r.messages, msgID)
		}
	}
	return nil
}

func (r *MemoryRepo) GetEndingItems(day time.Time) ([]model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	target := model.DateOnly(day)
	items := make([]model.Item, 0)
	for _, item := range r.items {
		if item.AuctionWinnerID == nil && model.DateOnly(item.AuctionEndDate).Equal(target) {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *MemoryRepo) SetAuctionWinner(itemID, winnerID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[itemID]
	if !ok {
		return fmt.Errorf("set auction winner for item %d: %w", itemID, auctionerrors.ErrItemNotFound)
	}
	item.AuctionWinnerID = &winnerID
	item.UpdatedAt = time.Now().UTC()
	r.items[itemID] = item
	return nil
}

func (r *MemoryRepo) CreateBid(bid *model.Bid) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[bid.ItemID]; !ok {
		return fmt.Errorf("create bid for item %d: %w", bid.ItemID, auctionerrors.ErrItemNotFound)
	}
	bid.ID = r.allocID()
	if bid.CreatedAt.IsZero() {
		bid.CreatedAt = time.Now().UTC()
	}
	r.bids[bid.ID] = *bid
	return nil
}

func (r *MemoryRepo) GetBidByID(id uint) (model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bid, ok := r.bids[id]
	if !ok {
		return model.Bid{}, fmt.Errorf("get bid %d: %w", id, auctionerrors.ErrBidNotFound)
	}
	return bid, nil
}

func (r *MemoryRepo) GetBidsByItem(itemID uint) ([]model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bids := make([]model.Bid, 0)
	for _, bid := range r.bids {
		if bid.ItemID == itemID {
			bids = append(bids, bid)
		}
	}
	sortBidsByCreation(bids)
	return bids, nil
}

func (r *MemoryRepo) GetBidsByUser(userID uint) ([]model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bids := make([]model.Bid, 0)
	for _, bid := range r.bids {
		if bid.BidderID != nil && *bid.BidderID == userID {
			bids = append(bids, bid)
		}
	}
	sortBidsByCreation(bids)
	return bids, nil
}

func (r *MemoryRepo) GetHighestBid(itemID uint) (model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var winning model.Bid
	found := false
	for _, b := range r.bids {
		if b.ItemID != itemID {
			continue
		}
		if !found || beats(b, winning) {
			winning = b
			found = true
		}
	}
	if !found {
		return model.Bid{}, fmt.Errorf("get highest bid for item %d: %w", itemID, auctionerrors.ErrNoBids)
	}
	return winning, nil
}

// beats reports whether a outranks b: higher amount wins, ties go to the
// earlier bid.
func beats(a, b model.Bid) bool {
	if a.BidAmount != b.BidAmount {
		return a.BidAmount > b.BidAmount
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

func (r *MemoryRepo) DeleteBid(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bids[id]; !ok {
		return fmt.Errorf("delete bid %d: %w", id, auctionerrors.ErrBidNotFound)
	}
	delete(r.bids, id)
	return nil
}

func (r *MemoryRepo) CreateMessage(msg *model.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[msg.ItemID]; !ok {
		return fmt.Errorf("create message for item %d: %w", msg.ItemID, auctionerrors.ErrItemNotFound)
	}
	msg.ID = r.allocID()
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	msg.UpdatedAt = msg.CreatedAt
	r.messages[msg.ID] = *msg
	return nil
}

func (r *MemoryRepo) GetMessageByID(id uint) (model.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	msg, ok := r.messages[id]
	if !ok {
		return model.Message{}, fmt.Errorf("get message %d: %w", id, auctionerrors.ErrMessageNotFound)
	}
	return msg, nil
}

func (r *MemoryRepo) GetMessagesByItem(itemID uint) ([]model.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	msgs := make([]model.Message, 0)
	for _, msg := range r.messages {
		if msg.ItemID == itemID {
			msgs = append(msgs, msg)
		}
	}
	sort.Slice(msgs, func(i, j int) bool {
		if !msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
		}
		return msgs[i].ID < msgs[j].ID
	})
	return msgs, nil
}

func (r *MemoryRepo) UpdateMessage(msg *model.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.messages[msg.ID]; !ok {
		return fmt.Errorf("update message %d: %w", msg.ID, auctionerrors.ErrMessageNotFound)
	}
	msg.UpdatedAt = time.Now().UTC()
	r.messages[msg.ID] = *msg
	return nil
}

func (r *MemoryRepo) DeleteMessage(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.messages[id]; !ok {
		return fmt.Errorf("delete message %d: %w", id, auctionerrors.ErrMessageNotFound)
	}
	r.deleteMessageTree(id)
	return nil
}

// deleteMessageTree removes a message and, recursively, its replies.
// Must be called with the write lock held.
func (r *MemoryRepo) deleteMessageTree(id uint) {
	delete(r.messages, id)
	for childID, msg := range r.messages {
		if msg.ReplyingToID != nil && *msg.ReplyingToID == id {
			r.deleteMessageTree(childID)
		}
	}
}

func sortBidsByCreation(bids []model.Bid) {
	sort.Slice(bids, func(i, j int) bool {
		if !bids[i].CreatedAt.Equal(bids[j].CreatedAt) {
			return bids[i].CreatedAt.Before(bids[j].CreatedAt)
		}
		return bids[i].ID < bids[j].ID
	})
}
