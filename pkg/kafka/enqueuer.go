package kafka

import (
	"github.com/IBM/sarama"
	"github.com/pkg/errors"
)

type Enqueuer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewEnqueuer(producer sarama.SyncProducer, topic string) *Enqueuer {
	return &Enqueuer{
		producer: producer,
		topic:    topic,
	}
}

// Enqueue publishes v as JSON. Messages with the same key land on the same partition.
func (q *Enqueuer) Enqueue(key, requestID string, v any) error {
	value, err := Encode(v)
	if err != nil {
		return errors.Wrap(err, "encode")
	}
	msg := &sarama.ProducerMessage{
		Topic: q.topic,
		Key:   sarama.StringEncoder(key),
		Value: value,
	}
	if requestID != "" {
		msg.Headers = []sarama.RecordHeader{{Key: []byte(HeaderRequestID), Value: []byte(requestID)}}
	}
	if _, _, err = q.producer.SendMessage(msg); err != nil {
		return errors.Wrap(err, "producer.SendMessage")
	}
	return nil
}
