package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/samandr77/microservices/bills/internal/entity"
)

type Reviews struct {
	repo ReviewRepository
}

func NewReviews(repo ReviewRepository) *Reviews {
	return &Reviews{repo: repo}
}

// Apply records an admin decision. Redelivered decisions are no-ops.
func (r *Reviews) Apply(ctx context.Context, review entity.Review) error {
	if review.BillID == "" || !review.Status.IsValid() {
		return fmt.Errorf("%w: review %+v", entity.ErrIncorrectRequestBody, review)
	}

	bill, err := r.repo.BillByID(ctx, review.BillID)
	if err != nil {
		return fmt.Errorf("get bill %s: %w", review.BillID, err)
	}

	if bill.Status == review.Status {
		return nil
	}

	if !bill.Status.CanTransitionTo(review.Status) {
		return fmt.Errorf("%w: bill %s %s -> %s", entity.ErrInvalidTransition, bill.ID, bill.Status, review.Status)
	}

	err = r.repo.SetStatus(ctx, bill.ID, bill.Status, review.Status, review.CommentAdmin)
	if err != nil {
		return fmt.Errorf("set status of bill %s: %w", bill.ID, err)
	}

	slog.InfoContext(ctx, "bill reviewed", "bill_id", bill.ID, "status", review.Status)

	return nil
}

type DraftCleaner struct {
	repo DraftRepository
	ttl  time.Duration
	now  func() time.Time
}

func NewDraftCleaner(repo DraftRepository, ttl time.Duration) *DraftCleaner {
	return &DraftCleaner{
		repo: repo,
		ttl:  ttl,
		now:  time.Now,
	}
}

// Run deletes drafts whose form was never submitted within the TTL.
func (c *DraftCleaner) Run(ctx context.Context) error {
	deleted, err := c.repo.DeleteStaleDrafts(ctx, c.now().Add(-c.ttl))
	if err != nil {
		return fmt.Errorf("delete stale drafts: %w", err)
	}

	if deleted > 0 {
		slog.InfoContext(ctx, "stale drafts deleted", "count", deleted)
	}

	return nil
}
