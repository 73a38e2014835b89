package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/samandr77/microservices/bills/internal/entity"
)

type Reviews interface {
	Apply(ctx context.Context, review entity.Review) error
}

type EventHandler struct {
	reviews Reviews
}

func NewEventHandler(reviews Reviews) *EventHandler {
	return &EventHandler{reviews: reviews}
}

// OnBillReviewed applies an admin decision published on the bill-reviewed topic.
func (h *EventHandler) OnBillReviewed(ctx context.Context, msg kafka.Message) error {
	var review entity.Review

	err := json.Unmarshal(msg.Value, &review)
	if err != nil {
		return fmt.Errorf("unmarshal event: %w", err)
	}

	err = h.reviews.Apply(ctx, review)
	if err != nil {
		return fmt.Errorf("apply review: %w", err)
	}

	return nil
}
