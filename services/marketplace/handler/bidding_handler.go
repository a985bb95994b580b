package handler

import (
	"errors"
	"net/http"
	"time"

	"auction-marketplace/internal/auctionerrors"
	bidding "auction-marketplace/internal/biddingService"
	model "auction-marketplace/internal/models"
	"auction-marketplace/services/marketplace/helpers"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
)

type BiddingServiceInterface interface {
	PlaceBid(itemID, bidderID uint, amount int64, now time.Time) (model.Bid, error)
	DeleteBid(bidID, actorID uint, isAdmin bool) error
	GetItemBids(itemID uint) ([]model.Bid, error)
	GetUserBids(userID uint) ([]model.Bid, error)
	GetHighestBid(itemID uint) (model.Bid, error)
	GetUserBiddedItems(userID uint, now time.Time) ([]bidding.BiddedItem, error)
}

type BiddingHandler struct {
	service BiddingServiceInterface
}

func NewBiddingHandler(service BiddingServiceInterface) *BiddingHandler {
	return &BiddingHandler{service: service}
}

// PlaceBidHandler handles POST /bids/create
func (h *BiddingHandler) PlaceBidHandler(c *gin.Context) {
	bidderID, _ := principal(c)

	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	bid, err := h.service.PlaceBid(req.ItemID, bidderID, req.Amount, time.Now())
	if err != nil {
		helpers.RespondError(c, "PlaceBidHandler", err)
		return
	}

	utils.JSONSuccess(c, http.StatusCreated, gin.H{"bid": bid})
	helpers.LogSuccess("PlaceBidHandler", "bid placed", map[string]any{
		"bid_id":    bid.ID,
		"item_id":   req.ItemID,
		"bidder_id": bidderID,
		"amount":    req.Amount,
	})
}

// DeleteBidHandler handles DELETE /bids/:bid_id/delete
func (h *BiddingHandler) DeleteBidHandler(c *gin.Context) {
	actorID, isAdmin := principal(c)

	bidID, err := helpers.ParseIDParam(c, "bid_id")
	if err != nil {
		helpers.RespondError(c, "DeleteBidHandler", err)
		return
	}

	if err := h.service.DeleteBid(bidID, actorID, isAdmin); err != nil {
		helpers.RespondError(c, "DeleteBidHandler", err)
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{})
	helpers.LogSuccess("DeleteBidHandler", "bid deleted", map[string]any{
		"bid_id":   bidID,
		"actor_id": actorID,
	})
}

// GetItemBidsHandler handles GET /items/:item_id/bids
func (h *BiddingHandler) GetItemBidsHandler(c *gin.Context) {
	itemID, err := helpers.ParseIDParam(c, "item_id")
	if err != nil {
		helpers.RespondError(c, "GetItemBidsHandler", err)
		return
	}

	bids, err := h.service.GetItemBids(itemID)
	if err != nil {
		helpers.RespondError(c, "GetItemBidsHandler", err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"bids": bids})
}

// GetHighestBidHandler handles GET /items/:item_id/highest-bid
func (h *BiddingHandler) GetHighestBidHandler(c *gin.Context) {
	itemID, err := helpers.ParseIDParam(c, "item_id")
	if err != nil {
		helpers.RespondError(c, "GetHighestBidHandler", err)
		return
	}

	bid, err := h.service.GetHighestBid(itemID)
	if errors.Is(err, auctionerrors.ErrNoBids) {
		utils.JSONSuccess(c, http.StatusOK, gin.H{"bid": nil})
		return
	}
	if err != nil {
		helpers.RespondError(c, "GetHighestBidHandler", err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"bid": bid})
}

// GetMyBidsHandler handles GET /users/me/bids
func (h *BiddingHandler) GetMyBidsHandler(c *gin.Context) {
	userID, _ := principal(c)

	bids, err := h.service.GetUserBids(userID)
	if err != nil {
		helpers.RespondError(c, "GetMyBidsHandler", err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"bids": bids})
}

// GetBiddedItemsHandler handles GET /users/:user_id/bidded-items
func (h *BiddingHandler) GetBiddedItemsHandler(c *gin.Context) {
	userID, err := helpers.ParseIDParam(c, "user_id")
	if err != nil {
		helpers.RespondError(c, "GetBiddedItemsHandler", err)
		return
	}
	h.respondBiddedItems(c, userID)
}

// GetMyBiddedItemsHandler handles GET /users/me/bidded-items
func (h *BiddingHandler) GetMyBiddedItemsHandler(c *gin.Context) {
	userID, _ := principal(c)
	h.respondBiddedItems(c, userID)
}

func (h *BiddingHandler) respondBiddedItems(c *gin.Context, userID uint) {
	list, err := h.service.GetUserBiddedItems(userID, time.Now())
	if err != nil {
		helpers.RespondError(c, "GetBiddedItemsHandler", err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"bidded_items": list})
}
