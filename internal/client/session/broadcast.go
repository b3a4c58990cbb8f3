package session

import (
	"context"
	"sync"
)

// Subscribe returns a channel that always holds the newest State, starting
// with the current one. A slow reader skips intermediate states but never
// misses the latest. The returned func unsubscribes and closes the channel.
func (m *Manager) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)

	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = ch
	if m.expireLocked(context.Background()) {
		m.publishLocked(context.Background())
	}
	select {
	case <-ch:
	default:
	}
	ch <- m.state
	m.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, id)
			close(ch)
			m.mu.Unlock()
		})
	}
}

// publishLocked settles the current state and hands it to every subscriber,
// replacing any value they have not read yet. An expired session is ended
// in the same step.
func (m *Manager) publishLocked(ctx context.Context) State {
	m.expireLocked(ctx)
	st := m.snapshotLocked()
	m.state = st

	for _, ch := range m.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- st:
		default:
		}
	}
	return st
}
