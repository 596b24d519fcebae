package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher forwards audit events to a topic, keyed by entity id so
// events of one entity stay ordered within a partition.
type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 50 * time.Millisecond,
		},
	}
}

type kafkaEvent struct {
	Action   string    `json:"action"`
	Entity   string    `json:"entity"`
	EntityID *uint     `json:"entity_id,omitempty"`
	MedspaID *uint     `json:"medspa_id,omitempty"`
	UserID   *uint     `json:"user_id,omitempty"`
	Metadata any       `json:"metadata,omitempty"`
	At       time.Time `json:"at"`
}

func (p *KafkaPublisher) Write(ctx context.Context, ev Event) error {
	value, err := json.Marshal(kafkaEvent{
		Action:   ev.Action,
		Entity:   ev.Entity,
		EntityID: ev.EntityID,
		MedspaID: ev.MedspaID,
		UserID:   ev.UserID,
		Metadata: ev.Metadata,
		At:       ev.At,
	})
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	key := ev.Entity
	if ev.EntityID != nil {
		key = ev.Entity + ":" + strconv.FormatUint(uint64(*ev.EntityID), 10)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "action", Value: []byte(ev.Action)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish audit event: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
