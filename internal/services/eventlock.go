package services

import "sync"

// eventLocks hands out one mutex per event id so that a capacity check and the
// write that depends on it form a single critical section per event. Two
// concurrent admissions against the last open slot serialize here; operations
// on different events never contend.
type eventLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newEventLocks() *eventLocks {
	return &eventLocks{locks: make(map[int64]*sync.Mutex)}
}

// lock acquires the mutex for eventID and returns the matching unlock func.
// Mutexes live for the lifetime of the process; the map is never reaped.
func (l *eventLocks) lock(eventID int64) func() {
	l.mu.Lock()
	m, ok := l.locks[eventID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[eventID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
