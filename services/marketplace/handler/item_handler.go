package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"auction-marketplace/internal/auctionerrors"
	items "auction-marketplace/internal/itemService"
	model "auction-marketplace/internal/models"
	"auction-marketplace/internal/storage"
	"auction-marketplace/services/marketplace/helpers"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
)

// Default search window when the caller gives no pagination indices.
const defaultPageSize = 20

type ItemServiceInterface interface {
	CreateItem(ownerID uint, in items.ItemInput, now time.Time) (model.Item, error)
	UpdateItem(itemID, actorID uint, isAdmin bool, in items.ItemInput, now time.Time) (model.Item, error)
	DeleteItem(itemID, actorID uint, isAdmin bool) error
	GetItem(itemID uint) (model.Item, error)
	SearchItems(query string, start, end int) ([]model.Item, int64, error)
	GetUserItems(ownerID uint) ([]model.Item, error)
	SetItemImage(itemID, actorID uint, isAdmin bool, url string) (string, error)
	ClearItemImage(itemID, actorID uint, isAdmin bool) (string, error)
}

type ItemHandler struct {
	service ItemServiceInterface
	files   storage.FileStore
}

func NewItemHandler(service ItemServiceInterface, files storage.FileStore) *ItemHandler {
	return &ItemHandler{service: service, files: files}
}

func (h *ItemHandler) bindItemInput(c *gin.Context, handlerName string) (items.ItemInput, bool) {
	var req helpers.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, handlerName, err)
		return items.ItemInput{}, false
	}

	endDate, err := helpers.ParseDate(req.AuctionEndDate)
	if err != nil {
		helpers.RespondError(c, handlerName, err)
		return items.ItemInput{}, false
	}

	return items.ItemInput{
		Title:          req.Title,
		Description:    req.Description,
		MinimumBid:     req.MinimumBid,
		AuctionEndDate: endDate,
	}, true
}

// CreateItemHandler handles POST /items/create
func (h *ItemHandler) CreateItemHandler(c *gin.Context) {
	ownerID, _ := principal(c)

	in, ok := h.bindItemInput(c, "CreateItemHandler")
	if !ok {
		return
	}

	item, err := h.service.CreateItem(ownerID, in, time.Now())
	if err != nil {
		helpers.RespondError(c, "CreateItemHandler", err)
		return
	}

	utils.JSONSuccess(c, http.StatusCreated, gin.H{"item": item})
	helpers.LogSuccess("CreateItemHandler", "item listed", map[string]any{
		"item_id":  item.ID,
		"owner_id": ownerID,
	})
}

// UpdateItemHandler handles PUT /items/:item_id/update
func (h *ItemHandler) UpdateItemHandler(c *gin.Context) {
	actorID, isAdmin := principal(c)

	itemID, err := helpers.ParseIDParam(c, "item_id")
	if err != nil {
		helpers.RespondError(c, "UpdateItemHandler", err)
		return
	}

	in, ok := h.bindItemInput(c, "UpdateItemHandler")
	if !ok {
		return
	}

	item, err := h.service.UpdateItem(itemID, actorID, isAdmin, in, time.Now())
	if err != nil {
		helpers.RespondError(c, "UpdateItemHandler", err)
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{"item": item})
	helpers.LogSuccess("UpdateItemHandler", "item updated", map[string]any{"item_id": itemID})
}

// DeleteItemHandler handles DELETE /items/:item_id/delete
func (h *ItemHandler) DeleteItemHandler(c *gin.Context) {
	actorID, isAdmin := principal(c)

	itemID, err := helpers.ParseIDParam(c, "item_id")
	if err != nil {
		helpers.RespondError(c, "DeleteItemHandler", err)
		return
	}

	if err := h.service.DeleteItem(itemID, actorID, isAdmin); err != nil {
		helpers.RespondError(c, "DeleteItemHandler", err)
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{})
	helpers.LogSuccess("DeleteItemHandler", "item deleted", map[string]any{
		"item_id":  itemID,
		"actor_id": actorID,
	})
}

// GetItemHandler handles GET /items/:item_id
func (h *ItemHandler) GetItemHandler(c *gin.Context) {
	itemID, err := helpers.ParseIDParam(c, "item_id")
	if err != nil {
		helpers.RespondError(c, "GetItemHandler", err)
		return
	}

	item, err := h.service.GetItem(itemID)
	if err != nil {
		helpers.RespondError(c, "GetItemHandler", err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"item": item})
}

// SearchItemsHandler handles GET /items?query=&start=&end=
func (h *ItemHandler) SearchItemsHandler(c *gin.Context) {
	query := c.Query("query")
	start, err := parseIndex(c.DefaultQuery("start", "0"))
	if err != nil {
		helpers.RespondError(c, "SearchItemsHandler", err)
		return
	}
	end, err := parseIndex(c.DefaultQuery("end", strconv.Itoa(start+defaultPageSize)))
	if err != nil {
		helpers.RespondError(c, "SearchItemsHandler", err)
		return
	}

	results, total, err := h.service.SearchItems(query, start, end)
	if err != nil {
		helpers.RespondError(c, "SearchItemsHandler", err)
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"items": results,
		"total": total,
	})
}

// GetUserItemsHandler handles GET /users/:user_id/items
func (h *ItemHandler) GetUserItemsHandler(c *gin.Context) {
	ownerID, err := helpers.ParseIDParam(c, "user_id")
	if err != nil {
		helpers.RespondError(c, "GetUserItemsHandler", err)
		return
	}

	list, err := h.service.GetUserItems(ownerID)
	if err != nil {
		helpers.RespondError(c, "GetUserItemsHandler", err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"items": list})
}

// GetMyItemsHandler handles GET /users/me/items
func (h *ItemHandler) GetMyItemsHandler(c *gin.Context) {
	ownerID, _ := principal(c)

	list, err := h.service.GetUserItems(ownerID)
	if err != nil {
		helpers.RespondError(c, "GetMyItemsHandler", err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"items": list})
}

// UploadItemImageHandler handles POST /items/:item_id/image
func (h *ItemHandler) UploadItemImageHandler(c *gin.Context) {
	actorID, isAdmin := principal(c)

	itemID, err := helpers.ParseIDParam(c, "item_id")
	if err != nil {
		helpers.RespondError(c, "UploadItemImageHandler", err)
		return
	}

	file, err := imageUpload(c, "image")
	if err != nil {
		helpers.RespondError(c, "UploadItemImageHandler", err)
		return
	}
	src, err := file.Open()
	if err != nil {
		helpers.RespondError(c, "UploadItemImageHandler", err)
		return
	}
	defer src.Close()

	url, err := h.files.Save(file.Filename, src)
	if err != nil {
		helpers.RespondError(c, "UploadItemImageHandler", err)
		return
	}

	old, err := h.service.SetItemImage(itemID, actorID, isAdmin, url)
	if err != nil {
		if delErr := h.files.Delete(url); delErr != nil {
			utils.Warn("UploadItemImageHandler: orphan cleanup failed", map[string]any{"error": delErr.Error()})
		}
		helpers.RespondError(c, "UploadItemImageHandler", err)
		return
	}
	if old != "" {
		if delErr := h.files.Delete(old); delErr != nil {
			utils.Warn("UploadItemImageHandler: failed to delete old image", map[string]any{"error": delErr.Error()})
		}
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{"image": url})
	helpers.LogSuccess("UploadItemImageHandler", "image uploaded", map[string]any{"item_id": itemID})
}

// DeleteItemImageHandler handles DELETE /items/:item_id/image
func (h *ItemHandler) DeleteItemImageHandler(c *gin.Context) {
	actorID, isAdmin := principal(c)

	itemID, err := helpers.ParseIDParam(c, "item_id")
	if err != nil {
		helpers.RespondError(c, "DeleteItemImageHandler", err)
		return
	}

	old, err := h.service.ClearItemImage(itemID, actorID, isAdmin)
	if err != nil {
		helpers.RespondError(c, "DeleteItemImageHandler", err)
		return
	}
	if delErr := h.files.Delete(old); delErr != nil {
		utils.Warn("DeleteItemImageHandler: failed to delete file", map[string]any{"error": delErr.Error()})
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{})
}

func parseIndex(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w - pagination indices must be non-negative integers", auctionerrors.ErrInvalidInput)
	}
	return n, nil
}
