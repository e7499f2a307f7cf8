// Package events публикует события бронирований в Kafka для сервиса заказов
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"

	"github.com/m04kA/decor-rental-service/internal/domain"
)

const (
	headerEventType = "event-type"
	headerEventID   = "event-id"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Observer счетчик опубликованных событий
type Observer interface {
	ObserveEvent(eventType, status string)
}

// KafkaPublisher синхронный издатель событий
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	log      Logger
	obs      Observer
}

// NewKafkaPublisher подключается к брокерам
func NewKafkaPublisher(brokers []string, topic string, log Logger, obs Observer) (*KafkaPublisher, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	cfg.Producer.Return.Successes = true
	cfg.Net.MaxOpenRequests = 1

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: connect to %v: %v", ErrPublish, brokers, err)
	}

	return NewKafkaPublisherWithProducer(producer, topic, log, obs), nil
}

// NewKafkaPublisherWithProducer использует готовый producer
func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string, log Logger, obs Observer) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		topic:    topic,
		log:      log,
		obs:      obs,
	}
}

// Publish отправляет событие. Ключ сообщения - ID товара, чтобы события одного товара шли по порядку.
func (p *KafkaPublisher) Publish(ctx context.Context, event domain.BookingEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		p.observe(event.Type, "error")
		return fmt.Errorf("%w: %v", ErrMarshal, err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(fmt.Sprintf("%d", event.ItemID)),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte(headerEventType), Value: []byte(event.Type)},
			{Key: []byte(headerEventID), Value: []byte(event.ID)},
		},
	}

	if err := ctx.Err(); err != nil {
		p.observe(event.Type, "error")
		return fmt.Errorf("%w: %v", ErrPublish, err)
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.observe(event.Type, "error")
		return fmt.Errorf("%w: booking_id=%d, type=%s: %v", ErrPublish, event.BookingID, event.Type, err)
	}

	p.observe(event.Type, "ok")
	p.log.Info("Event published: type=%s, booking_id=%d, partition=%d, offset=%d",
		event.Type, event.BookingID, partition, offset)
	return nil
}

// Close закрывает producer
func (p *KafkaPublisher) Close() error {
	if p.producer == nil {
		return nil
	}
	return p.producer.Close()
}

func (p *KafkaPublisher) observe(eventType, status string) {
	if p.obs != nil {
		p.obs.ObserveEvent(eventType, status)
	}
}

// NoopPublisher используется, когда брокеры не настроены
type NoopPublisher struct {
	log Logger
}

// NewNoopPublisher создает издателя, который только логирует события
func NewNoopPublisher(log Logger) *NoopPublisher {
	return &NoopPublisher{log: log}
}

func (p *NoopPublisher) Publish(_ context.Context, event domain.BookingEvent) error {
	p.log.Info("Event publishing disabled, dropping: type=%s, booking_id=%d", event.Type, event.BookingID)
	return nil
}

func (p *NoopPublisher) Close() error { return nil }
