package bidding

import (
	"errors"
	"testing"
	"time"

	"auction-marketplace/internal/auctionerrors"
	model "auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint { return &v }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Tests PlaceBid
func TestBiddingService_PlaceBid(t *testing.T) {
	now := date(2025, time.March, 10)

	activeItem := model.Item{
		ID:             1,
		Title:          "antique clock",
		OwnerID:        uintPtr(7),
		MinimumBid:     100,
		AuctionEndDate: date(2025, time.March, 20),
	}

	tests := []struct {
		name          string
		itemID        uint
		bidderID      uint
		amount        int64
		mockSetup     func(mockRepo *repository.MockAuctionDB)
		expectedError error
		wantAnyError  bool
	}{
		{
			name:     "first_bid_at_minimum_succeeds",
			itemID:   1,
			bidderID: 2,
			amount:   100,
			mockSetup: func(mockRepo *repository.MockAuctionDB) {
				mockRepo.EXPECT().GetItemByID(uint(1)).Return(activeItem, nil)
				mockRepo.EXPECT().GetHighestBid(uint(1)).Return(model.Bid{}, auctionerrors.ErrNoBids)
				mockRepo.EXPECT().CreateBid(gomock.Any()).Return(nil)
			},
		},
		{
			name:     "first_bid_below_minimum_rejected",
			itemID:   1,
			bidderID: 2,
			amount:   99,
			mockSetup: func(mockRepo *repository.MockAuctionDB) {
				mockRepo.EXPECT().GetItemByID(uint(1)).Return(activeItem, nil)
				mockRepo.EXPECT().GetHighestBid(uint(1)).Return(model.Bid{}, auctionerrors.ErrNoBids)
			},
			expectedError: auctionerrors.ErrBelowMinimumBid,
		},
		{
			name:     "equal_to_highest_rejected",
			itemID:   1,
			bidderID: 2,
			amount:   150,
			mockSetup: func(mockRepo *repository.MockAuctionDB) {
				mockRepo.EXPECT().GetItemByID(uint(1)).Return(activeItem, nil)
				mockRepo.EXPECT().GetHighestBid(uint(1)).Return(model.Bid{BidAmount: 150}, nil)
			},
			expectedError: auctionerrors.ErrBidTooLow,
		},
		{
			name:     "one_above_highest_succeeds",
			itemID:   1,
			bidderID: 2,
			amount:   151,
			mockSetup: func(mockRepo *repository.MockAuctionDB) {
				mockRepo.EXPECT().GetItemByID(uint(1)).Return(activeItem, nil)
				mockRepo.EXPECT().GetHighestBid(uint(1)).Return(model.Bid{BidAmount: 150}, nil)
				mockRepo.EXPECT().CreateBid(gomock.Any()).Return(nil)
			},
		},
		{
			name:     "owner_cannot_bid",
			itemID:   1,
			bidderID: 7,
			amount:   500,
			mockSetup: func(mockRepo *repository.MockAuctionDB) {
				mockRepo.EXPECT().GetItemByID(uint(1)).Return(activeItem, nil)
			},
			expectedError: auctionerrors.ErrOwnItemBid,
		},
		{
			name:     "ended_auction_rejected",
			itemID:   1,
			bidderID: 2,
			amount:   500,
			mockSetup: func(mockRepo *repository.MockAuctionDB) {
				ended := activeItem
				ended.AuctionEndDate = date(2025, time.March, 9)
				mockRepo.EXPECT().GetItemByID(uint(1)).Return(ended, nil)
			},
			expectedError: auctionerrors.ErrAuctionEnded,
		},
		{
			name:     "bidding_allowed_on_end_date",
			itemID:   1,
			bidderID: 2,
			amount:   100,
			mockSetup: func(mockRepo *repository.MockAuctionDB) {
				ending := activeItem
				ending.AuctionEndDate = date(2025, time.March, 10)
				mockRepo.EXPECT().GetItemByID(uint(1)).Return(ending, nil)
				mockRepo.EXPECT().GetHighestBid(uint(1)).Return(model.Bid{}, auctionerrors.ErrNoBids)
				mockRepo.EXPECT().CreateBid(gomock.Any()).Return(nil)
			},
		},
		{
			name:     "non_positive_amount_rejected",
			itemID:   1,
			bidderID: 2,
			amount:   0,
			mockSetup: func(mockRepo *repository.MockAuctionDB) {
				mockRepo.EXPECT().GetItemByID(uint(1)).Return(activeItem, nil)
			},
			expectedError: auctionerrors.ErrInvalidInput,
		},
		{
			name:     "unknown_item",
			itemID:   99,
			bidderID: 2,
			amount:   100,
			mockSetup: func(mockRepo *repository.MockAuctionDB) {
				mockRepo.EXPECT().GetItemByID(uint(99)).Return(model.Item{}, auctionerrors.ErrItemNotFound)
			},
			expectedError: auctionerrors.ErrItemNotFound,
		},
		{
			name:     "repo_write_failure_wrapped",
			itemID:   1,
			bidderID: 2,
			amount:   200,
			mockSetup: func(mockRepo *repository.MockAuctionDB) {
				mockRepo.EXPECT().GetItemByID(uint(1)).Return(activeItem, nil)
				mockRepo.EXPECT().GetHighestBid(uint(1)).Return(model.Bid{BidAmount: 150}, nil)
				mockRepo.EXPECT().CreateBid(gomock.Any()).Return(errors.New("write failed"))
			},
			wantAnyError: true, // wrapped repo error, no sentinel to match
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRepo := repository.NewMockAuctionDB(ctrl)
			service := NewBiddingService(mockRepo)
			tc.mockSetup(mockRepo)

			bid, err := service.PlaceBid(tc.itemID, tc.bidderID, tc.amount, now)

			switch {
			case tc.wantAnyError:
				require.Error(t, err)
			case tc.expectedError != nil:
				require.Error(t, err)
				require.ErrorIs(t, err, tc.expectedError)
			default:
				require.NoError(t, err)
				require.Equal(t, tc.itemID, bid.ItemID)
				require.NotNil(t, bid.BidderID)
				require.Equal(t, tc.bidderID, *bid.BidderID)
				require.Equal(t, tc.amount, bid.BidAmount)
			}
		})
	}
}

// Tests DeleteBid permissions
func TestBiddingService_DeleteBid(t *testing.T) {
	tests := []struct {
		name          string
		actorID       uint
		isAdmin       bool
		mockSetup     func(mockRepo *repository.MockAuctionDB)
		expectedError error
	}{
		{
			name:    "bidder_deletes_own_bid",
			actorID: 2,
			mockSetup: func(mockRepo *repository.MockAuctionDB) {
				mockRepo.EXPECT().GetBidByID(uint(5)).Return(model.Bid{ID: 5, BidderID: uintPtr(2)}, nil)
				mockRepo.EXPECT().DeleteBid(uint(5)).Return(nil)
			},
		},
		{
			name:    "admin_deletes_any_bid",
			actorID: 99,
			isAdmin: true,
			mockSetup: func(mockRepo *repository.MockAuctionDB) {
				mockRepo.EXPECT().GetBidByID(uint(5)).Return(model.Bid{ID: 5, BidderID: uintPtr(2)}, nil)
				mockRepo.EXPECT().DeleteBid(uint(5)).Return(nil)
			},
		},
		{
			name:    "stranger_denied",
			actorID: 3,
			mockSetup: func(mockRepo *repository.MockAuctionDB) {
				mockRepo.EXPECT().GetBidByID(uint(5)).Return(model.Bid{ID: 5, BidderID: uintPtr(2)}, nil)
			},
			expectedError: auctionerrors.ErrPermissionDenied,
		},
		{
			name:    "orphaned_bid_not_owned_by_anyone",
			actorID: 2,
			mockSetup: func(mockRepo *repository.MockAuctionDB) {
				mockRepo.EXPECT().GetBidByID(uint(5)).Return(model.Bid{ID: 5, BidderID: nil}, nil)
			},
			expectedError: auctionerrors.ErrPermissionDenied,
		},
		{
			name:    "missing_bid",
			actorID: 2,
			mockSetup: func(mockRepo *repository.MockAuctionDB) {
				mockRepo.EXPECT().GetBidByID(uint(5)).Return(model.Bid{}, auctionerrors.ErrBidNotFound)
			},
			expectedError: auctionerrors.ErrBidNotFound,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRepo := repository.NewMockAuctionDB(ctrl)
			service := NewBiddingService(mockRepo)
			tc.mockSetup(mockRepo)

			err := service.DeleteBid(5, tc.actorID, tc.isAdmin)
			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// Tests the bidded-items overview against the in-memory repository.
func TestBiddingService_GetUserBiddedItems(t *testing.T) {
	now := date(2025, time.March, 10)

	repo := repository.NewMemoryRepo()
	service := NewBiddingService(repo)

	owner := model.User{FirstName: "Olive", LastName: "Owner", Email: "owner@example.com"}
	alice := model.User{FirstName: "Alice", LastName: "A", Email: "alice@example.com"}
	bob := model.User{FirstName: "Bob", LastName: "B", Email: "bob@example.com"}
	require.NoError(t, repo.CreateUser(&owner))
	require.NoError(t, repo.CreateUser(&alice))
	require.NoError(t, repo.CreateUser(&bob))

	ongoing := model.Item{Title: "ongoing", Description: "d", OwnerID: &owner.ID, MinimumBid: 10, AuctionEndDate: date(2025, time.March, 15)}
	wonItem := model.Item{Title: "won", Description: "d", OwnerID: &owner.ID, MinimumBid: 10, AuctionEndDate: date(2025, time.March, 5)}
	lostItem := model.Item{Title: "lost", Description: "d", OwnerID: &owner.ID, MinimumBid: 10, AuctionEndDate: date(2025, time.March, 1)}
	require.NoError(t, repo.CreateItem(&ongoing))
	require.NoError(t, repo.CreateItem(&wonItem))
	require.NoError(t, repo.CreateItem(&lostItem))

	addBid := func(itemID, bidderID uint, amount int64, at time.Time) {
		bid := model.Bid{ItemID: itemID, BidderID: &bidderID, BidAmount: amount, CreatedAt: at}
		require.NoError(t, repo.CreateBid(&bid))
	}

	t1 := date(2025, time.February, 1)
	t2 := t1.Add(time.Hour)
	t3 := t1.Add(2 * time.Hour)

	// Alice bids twice on the ongoing item; only one entry may come back
	// and it must show the later bid.
	addBid(ongoing.ID, alice.ID, 20, t1)
	addBid(ongoing.ID, alice.ID, 30, t2)

	// On the won item Alice and Bob tie at 50; Alice bid first.
	addBid(wonItem.ID, alice.ID, 50, t1)
	addBid(wonItem.ID, bob.ID, 50, t2)

	// On the lost item Bob outbid Alice.
	addBid(lostItem.ID, alice.ID, 40, t1)
	addBid(lostItem.ID, bob.ID, 60, t3)

	entries, err := service.GetUserBiddedItems(alice.ID, now)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Active auctions first, then ascending end date.
	require.Equal(t, ongoing.ID, entries[0].Item.ID)
	require.Equal(t, StatusOngoing, entries[0].Status)
	require.True(t, entries[0].IsWinning)
	require.Equal(t, int64(30), entries[0].LastBid.BidAmount)
	require.Equal(t, int64(30), entries[0].HighestBid)

	require.Equal(t, lostItem.ID, entries[1].Item.ID)
	require.Equal(t, StatusLost, entries[1].Status)
	require.False(t, entries[1].IsWinning)
	require.Equal(t, int64(60), entries[1].HighestBid)

	// The tie goes to the earlier bid, so Alice won.
	require.Equal(t, wonItem.ID, entries[2].Item.ID)
	require.Equal(t, StatusWon, entries[2].Status)
	require.True(t, entries[2].IsWinning)
	require.Equal(t, int64(50), entries[2].HighestBid)
}

// A deleted listing disappears from the overview instead of failing it.
func TestBiddingService_GetUserBiddedItems_DeletedItem(t *testing.T) {
	now := date(2025, time.March, 10)

	repo := repository.NewMemoryRepo()
	service := NewBiddingService(repo)

	owner := model.User{FirstName: "O", LastName: "W", Email: "o@example.com"}
	alice := model.User{FirstName: "A", LastName: "L", Email: "a@example.com"}
	require.NoError(t, repo.CreateUser(&owner))
	require.NoError(t, repo.CreateUser(&alice))

	item := model.Item{Title: "gone", Description: "d", OwnerID: &owner.ID, MinimumBid: 10, AuctionEndDate: date(2025, time.March, 15)}
	keep := model.Item{Title: "keep", Description: "d", OwnerID: &owner.ID, MinimumBid: 10, AuctionEndDate: date(2025, time.March, 15)}
	require.NoError(t, repo.CreateItem(&item))
	require.NoError(t, repo.CreateItem(&keep))

	bidGone := model.Bid{ItemID: item.ID, BidderID: &alice.ID, BidAmount: 20, CreatedAt: now}
	bidKeep := model.Bid{ItemID: keep.ID, BidderID: &alice.ID, BidAmount: 20, CreatedAt: now}
	require.NoError(t, repo.CreateBid(&bidGone))
	require.NoError(t, repo.CreateBid(&bidKeep))

	require.NoError(t, repo.DeleteItem(item.ID))

	entries, err := service.GetUserBiddedItems(alice.ID, now)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, keep.ID, entries[0].Item.ID)
}
