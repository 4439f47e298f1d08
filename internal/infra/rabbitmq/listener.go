package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"order-sync/internal/domain"

	"github.com/streadway/amqp"
)

const (
	reconnectBaseDelay = 1 * time.Second
	reconnectMaxDelay  = 30 * time.Second
)

var ErrAlreadySubscribed = errors.New("store already has an active subscription")

// Listener consumes order-insertion events from the orders topic exchange.
// At most one subscription exists per store id; the subscription ends when
// the caller's context ends. A dropped connection is re-established with
// exponential backoff so devices do not silently stay on stale data.
type Listener struct {
	url      string
	exchange string

	mu     sync.Mutex
	active map[string]struct{}
}

func NewListener(amqpURL, exchange string) *Listener {
	return &Listener{
		url:      amqpURL,
		exchange: exchange,
		active:   make(map[string]struct{}),
	}
}

// Subscribe starts delivering the store's insert events to onNewOrder until
// ctx ends. It returns ErrAlreadySubscribed if a subscription for the store
// is already running. Connection failures are logged and retried; they never
// propagate to the caller.
func (l *Listener) Subscribe(ctx context.Context, storeID string, onNewOrder func(orderID uint64)) error {
	l.mu.Lock()
	if _, ok := l.active[storeID]; ok {
		l.mu.Unlock()
		return ErrAlreadySubscribed
	}
	l.active[storeID] = struct{}{}
	l.mu.Unlock()

	go l.run(ctx, storeID, onNewOrder)
	return nil
}

func (l *Listener) run(ctx context.Context, storeID string, onNewOrder func(orderID uint64)) {
	defer func() {
		l.mu.Lock()
		delete(l.active, storeID)
		l.mu.Unlock()
		log.Printf("Feed subscription for store %s closed", storeID)
	}()

	var delay time.Duration
	for {
		established, err := l.consume(ctx, storeID, onNewOrder)
		if ctx.Err() != nil {
			return
		}
		delay = nextDelay(delay, established)
		if err != nil {
			log.Printf("Feed subscription for store %s failed: %v (retrying in %s)", storeID, err, delay)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}
}

// nextDelay picks the wait before the next connection attempt: consecutive
// failed attempts back off exponentially, and a session that did get
// established starts the backoff over.
func nextDelay(current time.Duration, established bool) time.Duration {
	if established || current == 0 {
		return reconnectBaseDelay
	}
	next := current * 2
	if next > reconnectMaxDelay {
		next = reconnectMaxDelay
	}
	return next
}

// consume holds one connection open and dispatches deliveries until the
// context ends or the connection drops. It reports whether a subscription was
// established at all, so the caller can reset its backoff.
func (l *Listener) consume(ctx context.Context, storeID string, onNewOrder func(orderID uint64)) (bool, error) {
	conn, err := amqp.Dial(l.url)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	channel, err := conn.Channel()
	if err != nil {
		return false, err
	}
	defer channel.Close()

	err = channel.ExchangeDeclare(l.exchange, "topic", true, false, false, false, nil)
	if err != nil {
		return false, err
	}

	queue, err := channel.QueueDeclare(
		"", // server-named
		false,
		true, // auto-delete
		true, // exclusive
		false,
		nil,
	)
	if err != nil {
		return false, err
	}

	if err := channel.QueueBind(queue.Name, OrderCreatedKey(storeID), l.exchange, false, nil); err != nil {
		return false, err
	}

	deliveries, err := channel.Consume(queue.Name, "", true, true, false, false, nil)
	if err != nil {
		return false, err
	}

	log.Printf("Feed subscription for store %s established (queue %s)", storeID, queue.Name)

	for {
		select {
		case <-ctx.Done():
			return true, nil
		case d, ok := <-deliveries:
			if !ok {
				return true, errors.New("delivery channel closed")
			}
			var evt domain.OrderCreatedEvent
			if err := json.Unmarshal(d.Body, &evt); err != nil {
				log.Printf("Dropping malformed feed event: %v", err)
				continue
			}
			onNewOrder(evt.OrderID)
		}
	}
}
