// Package alerts fans high-risk assessments out to stream subscribers.
package alerts

import (
	"sync"
	"sync/atomic"

	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/models"
)

// ShouldAlert reports whether an assessment is severe enough to push
// to subscribers.
func ShouldAlert(a *models.RiskAssessment) bool {
	return a.RiskLevel == models.RiskLevelHigh || a.RiskLevel == models.RiskLevelCritical
}

// subscriberBuffer bounds each subscriber's backlog. A subscriber that
// falls further behind loses alerts and has the loss counted.
const subscriberBuffer = 16

type subscriber struct {
	ch      chan *models.RiskAssessment
	dropped atomic.Uint64
}

type Broadcaster struct {
	subscribers map[uint64]*subscriber
	nextID      atomic.Uint64
	mu          sync.RWMutex
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[uint64]*subscriber),
	}
}

func (b *Broadcaster) Subscribe() (uint64, chan *models.RiskAssessment) {
	id := b.nextID.Add(1)
	sub := &subscriber{ch: make(chan *models.RiskAssessment, subscriberBuffer)}

	b.mu.Lock()
	b.subscribers[id] = sub
	b.mu.Unlock()

	return id, sub.ch
}

func (b *Broadcaster) Unsubscribe(id uint64) {
	b.mu.Lock()
	if sub, ok := b.subscribers[id]; ok {
		close(sub.ch)
		delete(b.subscribers, id)
	}
	b.mu.Unlock()
}

func (b *Broadcaster) Broadcast(a *models.RiskAssessment) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subscribers {
		select {
		case sub.ch <- a:
		default:
			sub.dropped.Add(1)
		}
	}
}

// Dropped reports how many alerts a subscriber has lost to a full
// buffer since subscribing.
func (b *Broadcaster) Dropped(id uint64) uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if sub, ok := b.subscribers[id]; ok {
		return sub.dropped.Load()
	}
	return 0
}

func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close closes all subscriber channels, causing streams to exit gracefully
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, sub := range b.subscribers {
		close(sub.ch)
		delete(b.subscribers, id)
	}
}
