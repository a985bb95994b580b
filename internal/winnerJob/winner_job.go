// Package winner resolves auctions on their end date and notifies winners.
package winner

import (
	"errors"
	"fmt"
	"time"

	"auction-marketplace/internal/auctionerrors"
	"auction-marketplace/internal/mailer"
	model "auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"
	"auction-marketplace/utils"
)

// Job marks the winning bidder on every auction ending today and emails
// them. It is safe to run more than once per day: items that already have
// a winner are not returned by the repository.
type Job struct {
	repo repository.AuctionDB
	mail mailer.Mailer
	now  func() time.Time
}

func NewJob(repo repository.AuctionDB, mail mailer.Mailer) *Job {
	return &Job{repo: repo, mail: mail, now: time.Now}
}

// Run implements cron.Job.
func (j *Job) Run() {
	if err := j.ProcessAuctionWinners(); err != nil {
		utils.Error("winner job failed", map[string]any{"error": err.Error()})
	}
}

// ProcessAuctionWinners resolves every unresolved auction whose end date is
// today. A failure on one item never blocks the rest.
func (j *Job) ProcessAuctionWinners() error {
	today := model.DateOnly(j.now())

	items, err := j.repo.GetEndingItems(today)
	if err != nil {
		return fmt.Errorf("winner: failed to load ending auctions: %w", err)
	}

	utils.Info("winner job started", map[string]any{
		"ending": today.Format("2006-01-02"),
		"items":  len(items),
	})

	for _, item := range items {
		if err := j.resolveItem(item); err != nil {
			utils.Error("winner job: failed to resolve item", map[string]any{
				"item_id": item.ID,
				"error":   err.Error(),
			})
		}
	}
	return nil
}

func (j *Job) resolveItem(item model.Item) error {
	bid, err := j.repo.GetHighestBid(item.ID)
	if errors.Is(err, auctionerrors.ErrNoBids) {
		// Nobody bid; the auction stays unresolved.
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load highest bid: %w", err)
	}
	if bid.BidderID == nil {
		// The winning bidder deleted their account.
		return nil
	}

	if err := j.repo.SetAuctionWinner(item.ID, *bid.BidderID); err != nil {
		return fmt.Errorf("failed to set winner: %w", err)
	}

	user, err := j.repo.GetUserByID(*bid.BidderID)
	if err != nil {
		return fmt.Errorf("failed to load winner %d: %w", *bid.BidderID, err)
	}

	subject := fmt.Sprintf("Congratulations! You won %s", item.Title)
	body := "Log in to your account to check shipping details."
	if err := j.mail.Send(user.Email, subject, body); err != nil {
		// The winner is already recorded; mail failures are not fatal.
		utils.Error("winner job: failed to email winner", map[string]any{
			"item_id": item.ID,
			"email":   user.Email,
			"error":   err.Error(),
		})
	} else {
		utils.Info("winner job: auction resolved", map[string]any{
			"item_id":   item.ID,
			"winner_id": *bid.BidderID,
			"amount":    bid.BidAmount,
		})
	}
	return nil
}
