package messages

import (
	"fmt"
	"strings"

	"auction-marketplace/internal/auctionerrors"
	model "auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"
)

// MessageInput carries the fields for posting a message on a listing.
type MessageInput struct {
	ItemID       uint
	ReplyingToID *uint
	Title        string
	Body         string
}

// MessageNode is one message in a reply tree.
type MessageNode struct {
	Message model.Message  `json:"message"`
	Replies []*MessageNode `json:"replies"`
}

// MessageService defines the business logic for item discussion threads
type MessageService struct {
	repo repository.AuctionDB
}

// NewMessageService creates a new MessageService instance
func NewMessageService(repo repository.AuctionDB) *MessageService {
	return &MessageService{
		repo: repo,
	}
}

// CreateMessage posts a message on an item. A reply's parent must belong
// to the same item; violations are rejected before anything is persisted.
func (s *MessageService) CreateMessage(posterID uint, in MessageInput) (model.Message, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Body) == "" {
		return model.Message{}, fmt.Errorf("service: %w - title and body are required", auctionerrors.ErrInvalidInput)
	}
	if _, err := s.repo.GetItemByID(in.ItemID); err != nil {
		return model.Message{}, fmt.Errorf("service: %w", err)
	}
	if in.ReplyingToID != nil {
		parent, err := s.repo.GetMessageByID(*in.ReplyingToID)
		if err != nil {
			return model.Message{}, fmt.Errorf("service: %w", err)
		}
		if parent.ItemID != in.ItemID {
			return model.Message{}, fmt.Errorf("service: %w", auctionerrors.ErrCrossItemReply)
		}
	}

	msg := model.Message{
		PosterID:     &posterID,
		ItemID:       in.ItemID,
		ReplyingToID: in.ReplyingToID,
		Title:        strings.TrimSpace(in.Title),
		Body:         in.Body,
	}
	if err := s.repo.CreateMessage(&msg); err != nil {
		return model.Message{}, fmt.Errorf("service: failed to create message on item %d: %w", in.ItemID, err)
	}
	return msg, nil
}

// GetItemThread returns an item's messages as a forest: top-level messages
// carry their replies, recursively. Built in one linear pass: messages
// arrive in creation order, so a parent is always registered before its
// replies show up.
func (s *MessageService) GetItemThread(itemID uint) ([]*MessageNode, error) {
	if _, err := s.repo.GetItemByID(itemID); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	msgs, err := s.repo.GetMessagesByItem(itemID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get messages for item %d: %w", itemID, err)
	}

	nodes := make(map[uint]*MessageNode, len(msgs))
	roots := make([]*MessageNode, 0)
	for _, m := range msgs {
		node := &MessageNode{Message: m, Replies: []*MessageNode{}}
		nodes[m.ID] = node
		if m.ReplyingToID != nil {
			if parent, ok := nodes[*m.ReplyingToID]; ok {
				parent.Replies = append(parent.Replies, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots, nil
}

// UpdateMessage rewrites a message's title and body. Poster or admin only.
func (s *MessageService) UpdateMessage(messageID, actorID uint, isAdmin bool, title, body string) (model.Message, error) {
	msg, err := s.repo.GetMessageByID(messageID)
	if err != nil {
		return model.Message{}, fmt.Errorf("service: %w", err)
	}
	if !isAdmin && (msg.PosterID == nil || *msg.PosterID != actorID) {
		return model.Message{}, fmt.Errorf("service: %w", auctionerrors.ErrPermissionDenied)
	}
	if strings.TrimSpace(title) == "" || strings.TrimSpace(body) == "" {
		return model.Message{}, fmt.Errorf("service: %w - title and body are required", auctionerrors.ErrInvalidInput)
	}

	msg.Title = strings.TrimSpace(title)
	msg.Body = body
	if err := s.repo.UpdateMessage(&msg); err != nil {
		return model.Message{}, fmt.Errorf("service: failed to update message %d: %w", messageID, err)
	}
	return msg, nil
}

// DeleteMessage removes a message and its replies. Poster or admin only.
func (s *MessageService) DeleteMessage(messageID, actorID uint, isAdmin bool) error {
	msg, err := s.repo.GetMessageByID(messageID)
	if err != nil {
		return fmt.Errorf("service: %w", err)
	}
	if !isAdmin && (msg.PosterID == nil || *msg.PosterID != actorID) {
		return fmt.Errorf("service: %w", auctionerrors.ErrPermissionDenied)
	}
	if err := s.repo.DeleteMessage(messageID); err != nil {
		return fmt.Errorf("service: failed to delete message %d: %w", messageID, err)
	}
	return nil
}
