package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTournamentLocksSerializeSameTournament(t *testing.T) {
	l := &tournamentLocks{locks: make(map[string]*tournamentLock)}

	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.lock("TMT000000000001")
			defer unlock()
			v := counter
			v++
			counter = v
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Empty(t, l.locks)
}

func TestTournamentLocksIndependentTournaments(t *testing.T) {
	l := &tournamentLocks{locks: make(map[string]*tournamentLock)}

	unlockA := l.lock("TMT000000000001")
	done := make(chan struct{})
	go func() {
		unlockB := l.lock("TMT000000000002")
		unlockB()
		close(done)
	}()
	<-done
	unlockA()
	assert.Empty(t, l.locks)
}
