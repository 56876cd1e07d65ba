package services

import "sync"

// Dispatcher — per-user serialization for the webhook transport, where the
// HTTP server may deliver updates concurrently. Updates for the same user run
// one at a time; distinct users never block each other.
type Dispatcher struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{locks: make(map[int64]*sync.Mutex)}
}

func (d *Dispatcher) userLock(userID int64) *sync.Mutex {
	d.mu.Lock()
	defer d.mu.Unlock()
	l, ok := d.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		d.locks[userID] = l
	}
	return l
}

// Do runs fn holding the user's lock.
func (d *Dispatcher) Do(userID int64, fn func()) {
	l := d.userLock(userID)
	l.Lock()
	defer l.Unlock()
	fn()
}
