// Package events is the in-process notification bus for inventory changes.
// Services publish after a mutation commits; subscribers (the low-stock
// watcher, the optional Redis mirror) receive a copy each. Publishing never
// blocks a request: a subscriber with a full channel drops the event.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Eckho-Systems/Inventory-System/internal/model"
)

// EventType classifies a bus event.
type EventType string

const (
	EventStockAdjusted EventType = "stock_adjusted"
	EventItemCreated   EventType = "item_created"
	EventItemDeleted   EventType = "item_deleted"
	EventLowStock      EventType = "low_stock"
	EventLedgerPurged  EventType = "ledger_purged"
)

// Event describes one committed inventory change.
type Event struct {
	Type           EventType  `json:"type"`
	ItemID         uuid.UUID  `json:"itemId"`
	ItemName       string     `json:"itemName"`
	QuantityChange int        `json:"quantityChange,omitempty"`
	Quantity       int        `json:"quantity"`
	EntriesPurged  int64      `json:"entriesPurged,omitempty"`
	ActorID        uuid.UUID  `json:"actorId"`
	ActorName      string     `json:"actorName"`
	ActorRole      model.Role `json:"actorRole"`
	At             time.Time  `json:"at"`
}

const subscriberBuffer = 64

// Bus fans events out to subscribers. Safe for concurrent use.
type Bus struct {
	mu   sync.RWMutex
	subs map[int]chan Event
	next int
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe registers a receiver. The returned cancel func removes it and
// closes the channel.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	ch := make(chan Event, subscriberBuffer)
	b.subs[id] = ch
	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if ch, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(ch)
		}
	}
}

// Publish delivers ev to every subscriber without blocking. Slow subscribers
// lose events rather than stalling the publisher.
func (b *Bus) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			log.Warn().Str("event", string(ev.Type)).Msg("event subscriber full, dropping")
		}
	}
}

// StartRedisMirror forwards every bus event to a Redis pub/sub channel so
// other processes (dashboards, notifiers) can observe inventory changes.
// Runs until ctx is cancelled. Publish failures are logged, never surfaced.
func StartRedisMirror(ctx context.Context, bus *Bus, rdb *redis.Client, channel string) {
	ch, cancel := bus.Subscribe()
	go func() {
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-ch:
				if !ok {
					return
				}
				payload, err := json.Marshal(ev)
				if err != nil {
					log.Error().Err(err).Msg("event mirror: marshal")
					continue
				}
				if err := rdb.Publish(ctx, channel, payload).Err(); err != nil {
					log.Warn().Err(err).Str("channel", channel).Msg("event mirror: publish failed")
				}
			}
		}
	}()
}

// StartLowStockWatcher logs a warning whenever a committed change leaves an
// item at or below its threshold. Runs until ctx is cancelled.
func StartLowStockWatcher(ctx context.Context, bus *Bus) {
	ch, cancel := bus.Subscribe()
	go func() {
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-ch:
				if !ok {
					return
				}
				if ev.Type != EventLowStock {
					continue
				}
				log.Warn().
					Str("item", ev.ItemName).
					Int("quantity", ev.Quantity).
					Msg("item at or below low-stock threshold")
			}
		}
	}()
}
