package repository

import (
	"errors"
	"fmt"
	"time"

	"auction-marketplace/internal/auctionerrors"
	model "auction-marketplace/internal/models"

	"gorm.io/gorm"
)

// UserDB defines account storage.
type UserDB interface {
	CreateUser(user *model.User) error
	GetUserByID(id uint) (model.User, error)
	GetUserByEmail(email string) (model.User, error)
	UpdateUser(user *model.User) error
	DeleteUser(id uint) error
}

// ItemDB defines listing storage. SearchItems paginates by start/end row
// indices and also returns the total match count.
type ItemDB interface {
	CreateItem(item *model.Item) error
	GetItemByID(id uint) (model.Item, error)
	SearchItems(query string, start, end int) ([]model.Item, int64, error)
	GetItemsByOwner(ownerID uint) ([]model.Item, error)
	UpdateItem(item *model.Item) error
	DeleteItem(id uint) error
	GetEndingItems(day time.Time) ([]model.Item, error)
	SetAuctionWinner(itemID, winnerID uint) error
}

// BidDB defines bid storage. GetHighestBid resolves ties by earliest
// creation time.
type BidDB interface {
	CreateBid(bid *model.Bid) error
	GetBidByID(id uint) (model.Bid, error)
	GetBidsByItem(itemID uint) ([]model.Bid, error)
	GetBidsByUser(userID uint) ([]model.Bid, error)
	GetHighestBid(itemID uint) (model.Bid, error)
	DeleteBid(id uint) error
}

// MessageDB defines thread storage. GetMessagesByItem returns messages in
// creation order, so parents always precede their replies.
type MessageDB interface {
	CreateMessage(msg *model.Message) error
	GetMessageByID(id uint) (model.Message, error)
	GetMessagesByItem(itemID uint) ([]model.Message, error)
	UpdateMessage(msg *model.Message) error
	DeleteMessage(id uint) error
}

// AuctionDB is the full storage interface for the marketplace.
type AuctionDB interface {
	UserDB
	ItemDB
	BidDB
	MessageDB
}

// GormRepo is the Postgres-backed implementation of AuctionDB. Foreign-key
// semantics (SET NULL on user deletion, CASCADE on item/message deletion)
// live in the schema constraints, not in application code.
type GormRepo struct {
	db *gorm.DB
}

// NewGormRepo creates a new Postgres repository instance
func NewGormRepo(db *gorm.DB) *GormRepo {
	return &GormRepo{db: db}
}

func (r *GormRepo) CreateUser(user *model.User) error {
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("create user %s: %w", user.Email, auctionerrors.ErrDuplicateEmail)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *GormRepo) GetUserByID(id uint) (model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.User{}, fmt.Errorf("get user %d: %w", id, auctionerrors.ErrUserNotFound)
		}
		return model.User{}, fmt.Errorf("get user %d: %w", id, err)
	}
	return user, nil
}

func (r *GormRepo) GetUserByEmail(email string) (model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.User{}, fmt.Errorf("get user %s: %w", email, auctionerrors.ErrUserNotFound)
		}
		return model.User{}, fmt.Errorf("get user %s: %w", email, err)
	}
	return user, nil
}

func (r *GormRepo) UpdateUser(user *model.User) error {
	if err := r.db.Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("update user %d: %w", user.ID, auctionerrors.ErrDuplicateEmail)
		}
		return fmt.Errorf("update user %d: %w", user.ID, err)
	}
	return nil
}

func (r *GormRepo) DeleteUser(id uint) error {
	result := r.db.Delete(&model.User{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete user %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete user %d: %w", id, auctionerrors.ErrUserNotFound)
	}
	return nil
}

func (r *GormRepo) CreateItem(item *model.Item) error {
	if err := r.db.Create(item).Error; err != nil {
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

func (r *GormRepo) GetItemByID(id uint) (model.Item, error) {
	var item model.Item
	if err := r.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Item{}, fmt.Errorf("get item %d: %w", id, auctionerrors.ErrItemNotFound)
		}
		return model.Item{}, fmt.Errorf("get item %d: %w", id, err)
	}
	return item, nil
}

func (r *GormRepo) SearchItems(query string, start, end int) ([]model.Item, int64, error) {
	q := r.db.Model(&model.Item{})
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("title ILIKE ? OR description ILIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}

	var items []model.Item
	err := q.Order("created_at DESC, id DESC").
		Offset(start).
		Limit(end - start).
		Find(&items).Error
	if err != nil {
		return nil, 0, fmt.Errorf("search items: %w", err)
	}
	return items, total, nil
}

func (r *GormRepo) GetItemsByOwner(ownerID uint) ([]model.Item, error) {
	var items []model.Item
	err := r.db.Where("owner_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("get items for owner %d: %w", ownerID, err)
	}
	return items, nil
}

func (r *GormRepo) UpdateItem(item *model.Item) error {
	if err := r.db.Save(item).Error; err != nil {
		return fmt.Errorf("update item %d: %w", item.ID, err)
	}
	return nil
}

func (r *GormRepo) DeleteItem(id uint) error {
	result := r.db.Delete(&model.Item{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete item %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete item %d: %w", id, auctionerrors.ErrItemNotFound)
	}
	return nil
}

func (r *GormRepo) GetEndingItems(day time.Time) ([]model.Item, error) {
	var items []model.Item
	err := r.db.Where("auction_end_date = ?", day.Format("2006-01-02")).
		Where("auction_winner_id IS NULL").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("get items ending %s: %w", day.Format("2006-01-02"), err)
	}
	return items, nil
}

func (r *GormRepo) SetAuctionWinner(itemID, winnerID uint) error {
	result := r.db.Model(&model.Item{}).
		Where("id = ?", itemID).
		Update("auction_winner_id", winnerID)
	if result.Error != nil {
		return fmt.Errorf("set auction winner for item %d: %w", itemID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("set auction winner for item %d: %w", itemID, auctionerrors.ErrItemNotFound)
	}
	return nil
}

func (r *GormRepo) CreateBid(bid *model.Bid) error {
	if err := r.db.Create(bid).Error; err != nil {
		return fmt.Errorf("create bid: %w", err)
	}
	return nil
}

func (r *GormRepo) GetBidByID(id uint) (model.Bid, error) {
	var bid model.Bid
	if err := r.db.First(&bid, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Bid{}, fmt.Errorf("get bid %d: %w", id, auctionerrors.ErrBidNotFound)
		}
		return model.Bid{}, fmt.Errorf("get bid %d: %w", id, err)
	}
	return bid, nil
}

func (r *GormRepo) GetBidsByItem(itemID uint) ([]model.Bid, error) {
	var bids []model.Bid
	err := r.db.Where("item_id = ?", itemID).
		Order("created_at ASC, id ASC").
		Find(&bids).Error
	if err != nil {
		return nil, fmt.Errorf("get bids for item %d: %w", itemID, err)
	}
	return bids, nil
}

func (r *GormRepo) GetBidsByUser(userID uint) ([]model.Bid, error) {
	var bids []model.Bid
	err := r.db.Where("bidder_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&bids).Error
	if err != nil {
		return nil, fmt.Errorf("get bids for user %d: %w", userID, err)
	}
	return bids, nil
}

func (r *GormRepo) GetHighestBid(itemID uint) (model.Bid, error) {
	var bid model.Bid
	err := r.db.Where("item_id = ?", itemID).
		Order("bid_amount DESC, created_at ASC, id ASC").
		First(&bid).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Bid{}, fmt.Errorf("get highest bid for item %d: %w", itemID, auctionerrors.ErrNoBids)
		}
		return model.Bid{}, fmt.Errorf("get highest bid for item %d: %w", itemID, err)
	}
	return bid, nil
}

func (r *GormRepo) DeleteBid(id uint) error {
	result := r.db.Delete(&model.Bid{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete bid %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete bid %d: %w", id, auctionerrors.ErrBidNotFound)
	}
	return nil
}

func (r *GormRepo) CreateMessage(msg *model.Message) error {
	if err := r.db.Create(msg).Error; err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}

func (r *GormRepo) GetMessageByID(id uint) (model.Message, error) {
	var msg model.Message
	if err := r.db.First(&msg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Message{}, fmt.Errorf("get message %d: %w", id, auctionerrors.ErrMessageNotFound)
		}
		return model.Message{}, fmt.Errorf("get message %d: %w", id, err)
	}
	return msg, nil
}

func (r *GormRepo) GetMessagesByItem(itemID uint) ([]model.Message, error) {
	var msgs []model.Message
	err := r.db.Where("item_id = ?", itemID).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("get messages for item %d: %w", itemID, err)
	}
	return msgs, nil
}

func (r *GormRepo) UpdateMessage(msg *model.Message) error {
	if err := r.db.Save(msg).Error; err != nil {
		return fmt.Errorf("update message %d: %w", msg.ID, err)
	}
	return nil
}

func (r *GormRepo) DeleteMessage(id uint) error {
	result := r.db.Delete(&model.Message{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete message %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete message %d: %w", id, auctionerrors.ErrMessageNotFound)
	}
	return nil
}
