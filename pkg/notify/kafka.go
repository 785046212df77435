package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"storebot/pkg/logger"
)

type Event struct {
	Event  string    `json:"event"`
	Fields Fields    `json:"fields"`
	At     time.Time `json:"at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka publishes events for downstream consumers such as a CRM dashboard.
type Kafka struct {
	writer messageWriter
	log    logger.ILogger
}

func NewKafka(brokers []string, topic string, log logger.ILogger) *Kafka {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.Error("failed to publish notification", logger.Int("messages", len(messages)), logger.Error(err))
			}
		},
	}
	return &Kafka{writer: w, log: log}
}

func (k *Kafka) Notify(ctx context.Context, event string, fields Fields) {
	value, err := json.Marshal(Event{Event: event, Fields: fields, At: time.Now().UTC()})
	if err != nil {
		k.log.Error("failed to encode notification", logger.String("event", event), logger.Error(err))
		return
	}
	if err := k.writer.WriteMessages(ctx, kafka.Message{Key: []byte(event), Value: value}); err != nil {
		k.log.Error("failed to write notification", logger.String("event", event), logger.Error(err))
	}
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}
