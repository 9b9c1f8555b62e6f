package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"wardrobewizard/backend/internal/domain"
)

const producerName = "cart-engine"

// KafkaPublisher writes cart events through a buffered inbox so HTTP request
// handling never blocks on the broker. Messages still queued when the inbox
// is full are dropped, not retried.
type KafkaPublisher struct {
	w       *kafka.Writer
	inbox   chan kafka.Message
	closeCh chan struct{}
	logger  *zap.Logger
}

func NewKafkaPublisher(brokers []string, topic string, buf int, logger *zap.Logger) *KafkaPublisher {
	if buf < 1 {
		buf = 256
	}
	return &KafkaPublisher{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        true,
		},
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
		logger:  logger,
	}
}

// Start runs the writer loop until ctx is cancelled, then flushes whatever
// remains in the inbox.
func (p *KafkaPublisher) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				close(p.inbox)
				for m := range p.inbox {
					p.write(m)
				}
				_ = p.w.Close()
				close(p.closeCh)
				return
			case m, ok := <-p.inbox:
				if !ok {
					_ = p.w.Close()
					close(p.closeCh)
					return
				}
				p.write(m)
			}
		}
	}()
}

func (p *KafkaPublisher) write(m kafka.Message) {
	if err := p.w.WriteMessages(context.Background(), m); err != nil {
		p.logger.Warn("kafka publish failed", zap.Error(err))
	}
}

func (p *KafkaPublisher) Publish(eventType string, sessionID string, view domain.CartView) {
	payload, err := json.Marshal(view)
	if err != nil {
		p.logger.Warn("marshal cart view", zap.Error(err))
		return
	}
	envelope := Envelope{
		EventID:      uuid.NewString(),
		EventType:    eventType,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     producerName,
		SessionID:    sessionID,
		Payload:      payload,
	}
	value, err := json.Marshal(envelope)
	if err != nil {
		p.logger.Warn("marshal event envelope", zap.Error(err))
		return
	}

	msg := kafka.Message{
		Key:   []byte(sessionID),
		Value: value,
		Time:  envelope.OccurredAt,
	}
	select {
	case p.inbox <- msg:
	default:
		p.logger.Warn("event inbox full, dropping event",
			zap.String("event_type", eventType),
			zap.String("session_id", sessionID))
	}
}

// WaitClosed blocks until the writer loop has flushed and exited.
func (p *KafkaPublisher) WaitClosed() { <-p.closeCh }
