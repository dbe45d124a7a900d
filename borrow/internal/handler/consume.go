package handler

import (
	"context"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-borrow/borrow/internal/errs"
	"github.com/Astemirdum/library-borrow/borrow/internal/model"
	"github.com/Astemirdum/library-borrow/pkg/kafka"
)

type borrow func(ctx context.Context, requestID string, req model.BorrowRequest) error

type Consumer struct {
	borrowHandler borrow
	timeout       time.Duration
	log           *zap.Logger
}

func NewConsumer(borrow borrow, timeout time.Duration, log *zap.Logger) *Consumer {
	return &Consumer{
		borrowHandler: borrow,
		timeout:       timeout,
		log:           log.Named("consumer"),
	}
}

func (consumer *Consumer) Setup(session sarama.ConsumerGroupSession) error {
	consumer.log.Info("session started",
		zap.String("member", session.MemberID()),
		zap.Int32("generation", session.GenerationID()),
	)
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited.
func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim marks a message only once it is handled or can never succeed.
// A transient failure ends the session so the group rejoins from the last
// committed offset and the message is delivered again.
func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				consumer.log.Warn("message channel was closed")
				return nil
			}
			if err := consumer.handle(session.Context(), message); err != nil {
				consumer.log.Error("consumer.borrowHandler",
					zap.Int32("partition", message.Partition),
					zap.Int64("offset", message.Offset),
					zap.Error(err),
				)
				return err
			}
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

func (consumer *Consumer) handle(ctx context.Context, message *sarama.ConsumerMessage) error {
	requestID := kafka.RequestID(message)
	var req model.BorrowRequest
	if err := kafka.Decode(message.Value, &req); err != nil {
		consumer.log.Warn("borrow dropped",
			zap.String("event", "borrow_dropped"),
			zap.String("reason", "malformed"),
			zap.String("requestId", requestID),
			zap.ByteString("value", message.Value),
			zap.Error(err),
		)
		return nil
	}

	if consumer.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, consumer.timeout)
		defer cancel()
	}
	if err := consumer.borrowHandler(ctx, requestID, req); err != nil && !errs.IsDrop(err) {
		return err
	}

	consumer.log.Debug("message claimed",
		zap.String("topic", message.Topic),
		zap.Time("timestamp", message.Timestamp),
		zap.String("requestId", requestID),
	)
	return nil
}
