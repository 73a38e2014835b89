package broker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	defaultHandleAttempts = 3
	defaultRetryDelay     = time.Second
)

type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type HandlerFunc func(context.Context, kafka.Message) error

// Consumer commits a message once its handler succeeded or gave up after
// the configured number of attempts. Handlers must be idempotent.
type Consumer struct {
	l             *slog.Logger
	r             Reader
	wg            *sync.WaitGroup
	topicHandlers map[string]HandlerFunc
	attempts      int
	retryDelay    time.Duration
}

func NewConsumer(
	brokers []string,
	groupID string,
	topics ...string,
) *Consumer {
	l := slog.Default().WithGroup("kafka").With("group_id", groupID)

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		GroupTopics: topics,
		Logger:      &infoLogger{l: l},
		ErrorLogger: &errorLogger{l: l},
	})

	return NewConsumerWithReader(l, r, defaultHandleAttempts, defaultRetryDelay)
}

func NewConsumerWithReader(l *slog.Logger, r Reader, attempts int, retryDelay time.Duration) *Consumer {
	if attempts < 1 {
		attempts = 1
	}

	return &Consumer{
		l:             l,
		r:             r,
		wg:            &sync.WaitGroup{},
		topicHandlers: make(map[string]HandlerFunc),
		attempts:      attempts,
		retryDelay:    retryDelay,
	}
}

func (c *Consumer) Handle(topic string, handler HandlerFunc) *Consumer {
	c.topicHandlers[topic] = handler
	return c
}

func (c *Consumer) Consume(ctx context.Context) *Consumer {
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		for {
			m, err := c.r.FetchMessage(ctx)
			if err != nil {
				if errors.Is(err, io.EOF) || ctx.Err() != nil {
					c.l.Info("consumer stopped")
					return
				}

				c.l.Error(fmt.Sprintf("fetch kafka msg: %s", err))

				continue
			}

			handler, ok := c.topicHandlers[m.Topic]
			if !ok {
				c.l.Warn("kafka handler not found", "topic", m.Topic)
			} else if !c.handle(ctx, handler, m) {
				return
			}

			err = c.r.CommitMessages(ctx, m)
			if err != nil && ctx.Err() == nil {
				c.l.Error(fmt.Sprintf("commit kafka msg: %s", err), "topic", m.Topic, "offset", m.Offset)
			}
		}
	}()

	return c
}

// handle reports false when ctx was cancelled before the message could be handled.
func (c *Consumer) handle(ctx context.Context, handler HandlerFunc, m kafka.Message) bool {
	for attempt := 1; ; attempt++ {
		err := handler(ctx, m)
		if err == nil {
			return true
		}

		if attempt >= c.attempts {
			c.l.Error(fmt.Sprintf("handler kafka msg: %s", err), "topic", m.Topic, "offset", m.Offset, "attempts", attempt)
			return true
		}

		c.l.Warn(fmt.Sprintf("handler kafka msg: %s", err), "topic", m.Topic, "offset", m.Offset, "attempt", attempt)

		select {
		case <-ctx.Done():
			return false
		case <-time.After(c.retryDelay):
		}
	}
}

func (c *Consumer) Close() {
	err := c.r.Close()
	if err != nil {
		c.l.Error(fmt.Sprintf("close kafka reader: %s", err))
	}

	c.wg.Wait()
}

type infoLogger struct {
	l *slog.Logger
}

func (l *infoLogger) Printf(format string, v ...any) {
	l.l.Info(fmt.Sprintf(format, v...))
}

type errorLogger struct {
	l *slog.Logger
}

func (l *errorLogger) Printf(format string, v ...any) {
	l.l.Error(fmt.Sprintf(format, v...))
}
