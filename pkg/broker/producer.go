package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/samandr77/microservices/swish/internal/entity"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes payment request status changes. Delivery is asynchronous and best effort.
type Producer struct {
	l     *slog.Logger
	w     messageWriter
	topic string
}

func NewProducer(l *slog.Logger, brokers []string, topic string) *Producer {
	l = l.WithGroup("kafka").With("topic", topic)

	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		Async:                  true,
		Logger:                 &infoLogger{l: l},
		ErrorLogger:            &errorLogger{l: l},
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		l:     l,
		w:     w,
		topic: topic,
	}
}

type StatusChangedEvent struct {
	ID         string     `json:"id"`
	Status     string     `json:"status"`
	StatusCode int        `json:"statusCode"`
	Amount     string     `json:"amount"`
	Currency   string     `json:"currency"`
	ErrorCode  string     `json:"errorCode,omitempty"`
	DatePaid   *time.Time `json:"datePaid,omitempty"`
}

func NewStatusChangedEvent(state entity.PaymentRequestState) StatusChangedEvent {
	return StatusChangedEvent{
		ID:         state.ID,
		Status:     state.Status.String(),
		StatusCode: state.StatusCode,
		Amount:     state.Amount.StringFixed(2),
		Currency:   state.Currency,
		ErrorCode:  state.ErrorCode,
		DatePaid:   state.DatePaid,
	}
}

// SendStatusChanged is keyed by payment request id so events of one request stay ordered.
func (p *Producer) SendStatusChanged(ctx context.Context, state entity.PaymentRequestState) {
	b, err := json.Marshal(NewStatusChangedEvent(state))
	if err != nil {
		p.l.ErrorContext(ctx, fmt.Sprintf("marshal event: %s", err))
		return
	}

	err = p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(state.ID),
		Value: b,
		Topic: p.topic,
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
