package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/samandr77/microservices/bills/internal/entity"
)

type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	l                  *slog.Logger
	w                  Writer
	billSubmittedTopic string
}

func NewProducer(l *slog.Logger, brokers []string, topic string) *Producer {
	l = l.WithGroup("kafka").With("topic", topic)

	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.LeastBytes{},
		Async:                  true,
		Logger:                 &infoLogger{l: l},
		ErrorLogger:            &errorLogger{l: l},
		AllowAutoTopicCreation: true,
	}

	return NewProducerWithWriter(l, w, topic)
}

func NewProducerWithWriter(l *slog.Logger, w Writer, topic string) *Producer {
	return &Producer{
		l:                  l,
		w:                  w,
		billSubmittedTopic: topic,
	}
}

type BillSubmittedEvent struct {
	BillID   string          `json:"bill_id"`
	Email    string          `json:"email"`
	Type     string          `json:"type"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	Date     string          `json:"date"`
	FileURL  string          `json:"file_url"`
	FileName string          `json:"file_name"`
}

// BillSubmitted never fails the caller: delivery problems are logged.
func (p *Producer) BillSubmitted(ctx context.Context, bill entity.Bill) {
	event := BillSubmittedEvent{
		BillID:   bill.ID,
		Email:    bill.Email,
		Type:     bill.Type,
		Name:     bill.Name,
		Amount:   decimal.NewFromInt(int64(bill.Amount)),
		Date:     bill.Date,
		FileURL:  bill.FileURL,
		FileName: bill.FileName,
	}

	b, err := json.Marshal(event)
	if err != nil {
		p.l.ErrorContext(ctx, fmt.Sprintf("marshal event: %s", err))
		return
	}

	err = p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(bill.ID),
		Value: b,
		Topic: p.billSubmittedTopic,
	})
	if err != nil {
		p.l.ErrorContext(ctx, fmt.Sprintf("write kafka message: %s", err))
		return
	}
}

func (p *Producer) Close() {
	err := p.w.Close()
	if err != nil {
		p.l.Error(fmt.Sprintf("close kafka writer: %s", err))
	}
}
