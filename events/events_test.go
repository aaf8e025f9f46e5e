package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderdesk/entity"
	"orderdesk/pkg/logger"
)

func TestFanoutDeliversToEveryPublisher(t *testing.T) {
	var got []string
	f := Fanout{
		PublisherFunc(func(_ context.Context, ev OrderEvent) { got = append(got, "a:"+string(ev.Type)) }),
		nil,
		PublisherFunc(func(_ context.Context, ev OrderEvent) { got = append(got, "b:"+string(ev.Type)) }),
	}
	f.Publish(context.Background(), New(OrderDeleted, 4, nil))
	assert.Equal(t, []string{"a:deleted", "b:deleted"}, got)
}

type fakeChannel struct {
	exchange, key string
	msg           amqp.Publishing
	err           error
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func TestAMQPPublisherRoutesByType(t *testing.T) {
	ch := &fakeChannel{}
	p := &AMQPPublisher{ch: ch, log: logger.Nop()}

	p.Publish(context.Background(), New(OrderCreated, 9, &entity.Order{ID: 9, TableNumber: 5}))

	assert.Equal(t, ExchangeOrders, ch.exchange)
	assert.Equal(t, "order.created", ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)

	var ev OrderEvent
	require.NoError(t, json.Unmarshal(ch.msg.Body, &ev))
	assert.Equal(t, uint(9), ev.OrderID)
	assert.Equal(t, 5, ev.Order.TableNumber)
}

func TestAMQPPublisherSwallowsBrokerErrors(t *testing.T) {
	p := &AMQPPublisher{ch: &fakeChannel{err: errors.New("channel closed")}, log: logger.Nop()}
	assert.NotPanics(t, func() {
		p.Publish(context.Background(), New(OrderUpdated, 1, nil))
	})
}
