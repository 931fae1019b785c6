package client

import (
	"context"
	"errors"
	"somthing-shop/internal/config"
	"somthing-shop/internal/model"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	closed    bool
	nack      bool
	published []string
}

func (s *fakeSession) Publish(_ context.Context, _, key string, _ amqp.Publishing) error {
	if s.closed {
		return amqp.ErrClosed
	}
	if s.nack {
		return ErrPublishNacked
	}
	s.published = append(s.published, key)
	return nil
}

func (s *fakeSession) IsClosed() bool { return s.closed }
func (s *fakeSession) Close()         { s.closed = true }

type fakeBroker struct {
	sessions []*fakeSession
	down     bool
}

func (b *fakeBroker) dial(config.RabbitMQ) (amqpSession, error) {
	if b.down {
		return nil, errors.New("connection refused")
	}
	s := &fakeSession{}
	b.sessions = append(b.sessions, s)
	return s, nil
}

func activityEntry() *model.ActivityLog {
	return &model.ActivityLog{ID: "a1", TargetTable: model.TableProducts, Action: model.ActionCreated}
}

func TestPublishRedialsAfterBrokerRestart(t *testing.T) {
	broker := &fakeBroker{}
	r, err := newRabbitMQ(config.RabbitMQ{ActivityExchange: "admin_activity"}, broker.dial)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, r.Publish(ctx, activityEntry()))
	require.Len(t, broker.sessions, 1)

	// broker restarts while it cannot yet accept connections
	broker.sessions[0].closed = true
	broker.down = true
	assert.Error(t, r.Publish(ctx, activityEntry()))

	broker.down = false
	require.NoError(t, r.Publish(ctx, activityEntry()))
	require.Len(t, broker.sessions, 2)
	assert.Equal(t, []string{"activity.products.created"}, broker.sessions[1].published)
}

func TestPublishReportsNack(t *testing.T) {
	broker := &fakeBroker{}
	r, err := newRabbitMQ(config.RabbitMQ{}, broker.dial)
	require.NoError(t, err)

	broker.sessions[0].nack = true
	err = r.Publish(context.Background(), activityEntry())
	assert.ErrorIs(t, err, ErrPublishNacked)
	// an open channel is kept after a nack
	assert.Len(t, broker.sessions, 1)
}
