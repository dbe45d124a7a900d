package kafka

import (
	"context"
	"time"

	"github.com/IBM/sarama"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	BorrowTopic         = "borrow_queue"
	BorrowConsumerGroup = "borrow-consumer"

	HeaderRequestID = "request-id"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Config struct {
	Addrs       []string      `envconfig:"KAFKA_ADDRS" default:"localhost:9092"`
	RejoinDelay time.Duration `envconfig:"KAFKA_REJOIN_DELAY" default:"1s"`
}

func NewProducer(cfg Config) (sarama.SyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true
	defaultCfg.Producer.Partitioner = sarama.NewHashPartitioner

	return sarama.NewSyncProducer(cfg.Addrs, defaultCfg)
}

// NewConsumer joins group. Offsets are committed only for marked messages,
// so an unmarked message is delivered again after the session restarts.
func NewConsumer(cfg Config, group string) (sarama.ConsumerGroup, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	defaultCfg.Consumer.Offsets.AutoCommit.Enable = true
	defaultCfg.Consumer.Offsets.AutoCommit.Interval = time.Second

	return sarama.NewConsumerGroup(cfg.Addrs, group, defaultCfg)
}

// Consume keeps the group member joined until ctx is done or the group is closed.
// A session that ends with an error is rejoined after delay, resuming from the
// last committed offset.
func Consume(ctx context.Context, group sarama.ConsumerGroup, handler sarama.ConsumerGroupHandler, log *zap.Logger, delay time.Duration, topics ...string) {
	for {
		if err := group.Consume(ctx, topics, handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return
			}
			log.Error("group.Consume", zap.Error(err), zap.Strings("topics", topics))
		}
		if ctx.Err() != nil {
			return
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return
		}
	}
}

func Encode(v any) (sarama.Encoder, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return sarama.ByteEncoder(data), nil
}

func Decode(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func RequestID(msg *sarama.ConsumerMessage) string {
	for _, h := range msg.Headers {
		if h != nil && string(h.Key) == HeaderRequestID {
			return string(h.Value)
		}
	}
	return ""
}
