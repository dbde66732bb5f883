package service

import (
	"sync"

	"github.com/google/uuid"
	"github.com/messhub/messhub.go/db/models"
)

// Pubsub fans out committed settlement events to in-process subscribers
// (webhook poster, rabbitmq publisher). Topics are payment types.
type Pubsub struct {
	mu   sync.RWMutex
	subs map[string]map[string]chan models.RentHistory
}

func NewPubsub() *Pubsub {
	ps := &Pubsub{}
	ps.subs = make(map[string]map[string]chan models.RentHistory)
	return ps
}

func (ps *Pubsub) Subscribe(topic string, ch chan models.RentHistory) (subId string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.subs[topic] == nil {
		ps.subs[topic] = make(map[string]chan models.RentHistory)
	}
	subId = uuid.NewString()
	ps.subs[topic][subId] = ch
	return subId
}

func (ps *Pubsub) Unsubscribe(id string, topic string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.subs[topic] == nil {
		return
	}
	if ps.subs[topic][id] == nil {
		return
	}
	close(ps.subs[topic][id])
	delete(ps.subs[topic], id)
}

func (ps *Pubsub) Publish(topic string, msg models.RentHistory) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	if ps.subs[topic] == nil {
		return
	}

	for _, ch := range ps.subs[topic] {
		ch <- msg
	}
}
