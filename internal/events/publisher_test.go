package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	sent   []published
	err    error
	closed bool
}

func (c *fakeChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func TestPublishEncodesJSON(t *testing.T) {
	ch := &fakeChannel{}
	p := &AMQPPublisher{exchange: "campaigns", ch: ch, logger: zerolog.Nop()}

	err := p.Publish(context.Background(), "campaign.dispatched", map[string]any{"id": "c1", "total": 2})
	require.NoError(t, err)
	require.Len(t, ch.sent, 1)

	got := ch.sent[0]
	assert.Equal(t, "campaigns", got.exchange)
	assert.Equal(t, "campaign.dispatched", got.key)
	assert.Equal(t, "application/json", got.msg.ContentType)
	assert.Equal(t, amqp.Persistent, got.msg.DeliveryMode)

	var body map[string]any
	require.NoError(t, json.Unmarshal(got.msg.Body, &body))
	assert.Equal(t, "c1", body["id"])
}

func TestPublishWrapsChannelError(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	p := &AMQPPublisher{exchange: "campaigns", ch: ch, logger: zerolog.Nop()}

	err := p.Publish(context.Background(), "campaign.dispatched", struct{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "campaign.dispatched")
}

func TestPublishHonoursCancelledContext(t *testing.T) {
	ch := &fakeChannel{}
	p := &AMQPPublisher{exchange: "campaigns", ch: ch, logger: zerolog.Nop()}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Publish(ctx, "k", 1), context.Canceled)
	assert.Empty(t, ch.sent)
}

func TestCloseClosesChannel(t *testing.T) {
	ch := &fakeChannel{}
	p := &AMQPPublisher{ch: ch, logger: zerolog.Nop()}
	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestNoopPublisher(t *testing.T) {
	assert.NoError(t, NoopPublisher{}.Publish(context.Background(), "k", nil))
}
