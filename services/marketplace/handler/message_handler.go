package handler

import (
	"net/http"

	messages "auction-marketplace/internal/messageService"
	model "auction-marketplace/internal/models"
	"auction-marketplace/services/marketplace/helpers"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
)

type MessageServiceInterface interface {
	CreateMessage(posterID uint, in messages.MessageInput) (model.Message, error)
	GetItemThread(itemID uint) ([]*messages.MessageNode, error)
	UpdateMessage(messageID, actorID uint, isAdmin bool, title, body string) (model.Message, error)
	DeleteMessage(messageID, actorID uint, isAdmin bool) error
}

type MessageHandler struct {
	service MessageServiceInterface
}

func NewMessageHandler(service MessageServiceInterface) *MessageHandler {
	return &MessageHandler{service: service}
}

// CreateMessageHandler handles POST /messages/create
func (h *MessageHandler) CreateMessageHandler(c *gin.Context) {
	posterID, _ := principal(c)

	var req helpers.CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateMessageHandler", err)
		return
	}

	msg, err := h.service.CreateMessage(posterID, messages.MessageInput{
		ItemID:       req.ItemID,
		ReplyingToID: req.ReplyingToID,
		Title:        req.Title,
		Body:         req.Body,
	})
	if err != nil {
		helpers.RespondError(c, "CreateMessageHandler", err)
		return
	}

	utils.JSONSuccess(c, http.StatusCreated, gin.H{"message": msg})
	helpers.LogSuccess("CreateMessageHandler", "message posted", map[string]any{
		"message_id": msg.ID,
		"item_id":    req.ItemID,
		"poster_id":  posterID,
	})
}

// GetItemThreadHandler handles GET /items/:item_id/messages
func (h *MessageHandler) GetItemThreadHandler(c *gin.Context) {
	itemID, err := helpers.ParseIDParam(c, "item_id")
	if err != nil {
		helpers.RespondError(c, "GetItemThreadHandler", err)
		return
	}

	thread, err := h.service.GetItemThread(itemID)
	if err != nil {
		helpers.RespondError(c, "GetItemThreadHandler", err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"messages": thread})
}

// UpdateMessageHandler handles PUT /messages/:message_id/update
func (h *MessageHandler) UpdateMessageHandler(c *gin.Context) {
	actorID, isAdmin := principal(c)

	messageID, err := helpers.ParseIDParam(c, "message_id")
	if err != nil {
		helpers.RespondError(c, "UpdateMessageHandler", err)
		return
	}

	var req helpers.UpdateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "UpdateMessageHandler", err)
		return
	}

	msg, err := h.service.UpdateMessage(messageID, actorID, isAdmin, req.Title, req.Body)
	if err != nil {
		helpers.RespondError(c, "UpdateMessageHandler", err)
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": msg})
	helpers.LogSuccess("UpdateMessageHandler", "message updated", map[string]any{"message_id": messageID})
}

// DeleteMessageHandler handles DELETE /messages/:message_id/delete
func (h *MessageHandler) DeleteMessageHandler(c *gin.Context) {
	actorID, isAdmin := principal(c)

	messageID, err := helpers.ParseIDParam(c, "message_id")
	if err != nil {
		helpers.RespondError(c, "DeleteMessageHandler", err)
		return
	}

	if err := h.service.DeleteMessage(messageID, actorID, isAdmin); err != nil {
		helpers.RespondError(c, "DeleteMessageHandler", err)
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{})
	helpers.LogSuccess("DeleteMessageHandler", "message deleted", map[string]any{
		"message_id": messageID,
		"actor_id":   actorID,
	})
}
