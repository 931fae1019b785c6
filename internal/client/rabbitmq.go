package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"somthing-shop/internal/config"
	"somthing-shop/internal/model"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

var ErrPublishNacked = errors.New("broker did not confirm publish")

// amqpSession is one connection and confirm-mode channel to the broker.
type amqpSession interface {
	// Publish returns only once the broker has confirmed msg.
	Publish(ctx context.Context, exchange, key string, msg amqp.Publishing) error
	IsClosed() bool
	Close()
}

type dialFunc func(cfg config.RabbitMQ) (amqpSession, error)

// RabbitMQ publishes admin activity records to a durable topic exchange.
// A closed connection or channel is redialed on the next Publish.
type RabbitMQ struct {
	cfg  config.RabbitMQ
	dial dialFunc

	mu      sync.Mutex
	session amqpSession
}

func NewRabbitMQ(cfg config.RabbitMQ) (*RabbitMQ, error) {
	return newRabbitMQ(cfg, dialSession)
}

func newRabbitMQ(cfg config.RabbitMQ, dial dialFunc) (*RabbitMQ, error) {
	session, err := dial(cfg)
	if err != nil {
		return nil, err
	}
	return &RabbitMQ{cfg: cfg, dial: dial, session: session}, nil
}

func routingKey(entry *model.ActivityLog) string {
	return "activity." + entry.TargetTable + "." + string(entry.Action)
}

func (r *RabbitMQ) Publish(ctx context.Context, entry *model.ActivityLog) error {
	body, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal activity: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.session == nil || r.session.IsClosed() {
		if r.session != nil {
			r.session.Close()
			r.session = nil
		}
		session, err := r.dial(r.cfg)
		if err != nil {
			return fmt.Errorf("amqp reconnect: %w", err)
		}
		r.session = session
	}

	err = r.session.Publish(ctx, r.cfg.ActivityExchange, routingKey(entry), amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    entry.ID,
		Timestamp:    entry.CreatedAt,
		Body:         body,
	})
	if err != nil && r.session.IsClosed() {
		r.session.Close()
		r.session = nil
	}
	return err
}

func (r *RabbitMQ) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.session != nil {
		r.session.Close()
		r.session = nil
	}
}

type liveSession struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func dialSession(cfg config.RabbitMQ) (amqpSession, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		cfg.ActivityExchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", cfg.ActivityExchange, err)
	}

	if err := ch.Confirm(false); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("amqp confirm mode: %w", err)
	}

	return &liveSession{conn: conn, channel: ch}, nil
}

func (s *liveSession) Publish(ctx context.Context, exchange, key string, msg amqp.Publishing) error {
	confirm, err := s.channel.PublishWithDeferredConfirmWithContext(ctx,
		exchange,
		key,
		false, // mandatory
		false, // immediate
		msg,
	)
	if err != nil {
		return fmt.Errorf("amqp publish: %w", err)
	}

	acked, err := confirm.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("amqp confirm: %w", err)
	}
	if !acked {
		return ErrPublishNacked
	}
	return nil
}

func (s *liveSession) IsClosed() bool {
	return s.channel.IsClosed() || s.conn.IsClosed()
}

func (s *liveSession) Close() {
	s.channel.Close()
	s.conn.Close()
}
