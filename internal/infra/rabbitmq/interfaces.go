package rabbitmq

import "context"

type PublisherInterface interface {
	Publish(ctx context.Context, routingKey string, data any) error
}

var _ PublisherInterface = (*Publisher)(nil)

// FeedSubscriber delivers order-insertion events for one store to a callback
// until the context ends.
type FeedSubscriber interface {
	Subscribe(ctx context.Context, storeID string, onNewOrder func(orderID uint64)) error
}

var _ FeedSubscriber = (*Listener)(nil)
