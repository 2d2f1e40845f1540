package service

import "sync"

// tournamentLocks serializes bracket mutations per tournament.
type tournamentLocks struct {
	mu    sync.Mutex
	locks map[string]*tournamentLock
}

type tournamentLock struct {
	mu   sync.Mutex
	refs int
}

var locks = &tournamentLocks{locks: make(map[string]*tournamentLock)}

func (l *tournamentLocks) lock(tournamentID string) func() {
	l.mu.Lock()
	tl, ok := l.locks[tournamentID]
	if !ok {
		tl = &tournamentLock{}
		l.locks[tournamentID] = tl
	}
	tl.refs++
	l.mu.Unlock()

	tl.mu.Lock()
	return func() {
		tl.mu.Unlock()

		l.mu.Lock()
		tl.refs--
		if tl.refs == 0 {
			delete(l.locks, tournamentID)
		}
		l.mu.Unlock()
	}
}
