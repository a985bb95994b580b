package messages

import (
	"testing"
	"time"

	"auction-marketplace/internal/auctionerrors"
	model "auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"

	"github.com/stretchr/testify/require"
)

func setupThread(t *testing.T) (*MessageService, *repository.MemoryRepo, model.User, model.Item) {
	t.Helper()
	repo := repository.NewMemoryRepo()
	service := NewMessageService(repo)

	user := model.User{FirstName: "Poster", LastName: "P", Email: "poster@example.com"}
	require.NoError(t, repo.CreateUser(&user))
	item := model.Item{
		Title: "desk", Description: "d", OwnerID: &user.ID,
		MinimumBid: 10, AuctionEndDate: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.CreateItem(&item))
	return service, repo, user, item
}

func TestMessageService_CreateMessage(t *testing.T) {
	service, repo, user, item := setupThread(t)

	t.Run("top_level_message", func(t *testing.T) {
		msg, err := service.CreateMessage(user.ID, MessageInput{
			ItemID: item.ID, Title: "hello", Body: "is this available?",
		})
		require.NoError(t, err)
		require.Nil(t, msg.ReplyingToID)
		require.Equal(t, item.ID, msg.ItemID)
	})

	t.Run("missing_title_rejected", func(t *testing.T) {
		_, err := service.CreateMessage(user.ID, MessageInput{
			ItemID: item.ID, Title: "  ", Body: "body",
		})
		require.ErrorIs(t, err, auctionerrors.ErrInvalidInput)
	})

	t.Run("unknown_item_rejected", func(t *testing.T) {
		_, err := service.CreateMessage(user.ID, MessageInput{
			ItemID: 9999, Title: "t", Body: "b",
		})
		require.ErrorIs(t, err, auctionerrors.ErrItemNotFound)
	})

	t.Run("unknown_parent_rejected", func(t *testing.T) {
		missing := uint(9999)
		_, err := service.CreateMessage(user.ID, MessageInput{
			ItemID: item.ID, ReplyingToID: &missing, Title: "t", Body: "b",
		})
		require.ErrorIs(t, err, auctionerrors.ErrMessageNotFound)
	})

	t.Run("cross_item_reply_rejected", func(t *testing.T) {
		other := model.Item{
			Title: "other", Description: "d", OwnerID: &user.ID,
			MinimumBid: 10, AuctionEndDate: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		}
		require.NoError(t, repo.CreateItem(&other))

		parent, err := service.CreateMessage(user.ID, MessageInput{
			ItemID: other.ID, Title: "t", Body: "b",
		})
		require.NoError(t, err)

		before, err := repo.GetMessagesByItem(item.ID)
		require.NoError(t, err)

		_, err = service.CreateMessage(user.ID, MessageInput{
			ItemID: item.ID, ReplyingToID: &parent.ID, Title: "t", Body: "b",
		})
		require.ErrorIs(t, err, auctionerrors.ErrCrossItemReply)

		// Nothing was persisted.
		after, err := repo.GetMessagesByItem(item.ID)
		require.NoError(t, err)
		require.Len(t, after, len(before))
	})
}

func TestMessageService_GetItemThread(t *testing.T) {
	service, _, user, item := setupThread(t)

	post := func(parent *uint, title string) model.Message {
		msg, err := service.CreateMessage(user.ID, MessageInput{
			ItemID: item.ID, ReplyingToID: parent, Title: title, Body: "b",
		})
		require.NoError(t, err)
		return msg
	}

	// M1 <- M2 <- M3 forms a single chain.
	m1 := post(nil, "M1")
	m2 := post(&m1.ID, "M2")
	m3 := post(&m2.ID, "M3")

	thread, err := service.GetItemThread(item.ID)
	require.NoError(t, err)
	require.Len(t, thread, 1)

	require.Equal(t, m1.ID, thread[0].Message.ID)
	require.Len(t, thread[0].Replies, 1)
	require.Equal(t, m2.ID, thread[0].Replies[0].Message.ID)
	require.Len(t, thread[0].Replies[0].Replies, 1)
	require.Equal(t, m3.ID, thread[0].Replies[0].Replies[0].Message.ID)
	require.Empty(t, thread[0].Replies[0].Replies[0].Replies)
}

func TestMessageService_GetItemThread_Forest(t *testing.T) {
	service, _, user, item := setupThread(t)

	post := func(parent *uint, title string) model.Message {
		msg, err := service.CreateMessage(user.ID, MessageInput{
			ItemID: item.ID, ReplyingToID: parent, Title: title, Body: "b",
		})
		require.NoError(t, err)
		return msg
	}

	r1 := post(nil, "first root")
	r2 := post(nil, "second root")
	post(&r1.ID, "reply to first")
	post(&r2.ID, "reply to second")
	post(&r1.ID, "another reply to first")

	thread, err := service.GetItemThread(item.ID)
	require.NoError(t, err)
	require.Len(t, thread, 2)
	require.Equal(t, r1.ID, thread[0].Message.ID)
	require.Len(t, thread[0].Replies, 2)
	require.Equal(t, r2.ID, thread[1].Message.ID)
	require.Len(t, thread[1].Replies, 1)
}

func TestMessageService_UpdateAndDeletePermissions(t *testing.T) {
	service, repo, user, item := setupThread(t)

	other := model.User{FirstName: "Other", LastName: "O", Email: "other@example.com"}
	require.NoError(t, repo.CreateUser(&other))

	msg, err := service.CreateMessage(user.ID, MessageInput{
		ItemID: item.ID, Title: "t", Body: "b",
	})
	require.NoError(t, err)

	t.Run("stranger_cannot_update", func(t *testing.T) {
		_, err := service.UpdateMessage(msg.ID, other.ID, false, "new", "body")
		require.ErrorIs(t, err, auctionerrors.ErrPermissionDenied)
	})

	t.Run("poster_updates", func(t *testing.T) {
		updated, err := service.UpdateMessage(msg.ID, user.ID, false, "new title", "new body")
		require.NoError(t, err)
		require.Equal(t, "new title", updated.Title)
		require.Equal(t, "new body", updated.Body)
	})

	t.Run("stranger_cannot_delete", func(t *testing.T) {
		err := service.DeleteMessage(msg.ID, other.ID, false)
		require.ErrorIs(t, err, auctionerrors.ErrPermissionDenied)
	})

	t.Run("admin_deletes", func(t *testing.T) {
		require.NoError(t, service.DeleteMessage(msg.ID, other.ID, true))
		_, err := repo.GetMessageByID(msg.ID)
		require.ErrorIs(t, err, auctionerrors.ErrMessageNotFound)
	})
}
