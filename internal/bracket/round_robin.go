package bracket

import (
	"fmt"

	"github.com/google/uuid"
)

// Circle method. An odd field gets a resting dummy each round.
func (b *builder) buildRoundRobin(ids []uuid.UUID) {
	players := make([]uuid.UUID, len(ids))
	copy(players, ids)
	if len(players)%2 != 0 {
		players = append(players, uuid.Nil)
	}

	n := len(players)
	half := n / 2
	for r := 1; r < n; r++ {
		round := b.addRound(WinnersSide, r, fmt.Sprintf("Round %d", r))
		order := 0
		for i := 0; i < half; i++ {
			p1, p2 := players[i], players[n-1-i]
			if p1 == uuid.Nil || p2 == uuid.Nil {
				continue
			}
			order++
			m := b.addMatch(round, order)
			m.setEntry(1, p1)
			m.setEntry(2, p2)
		}
		players = append([]uuid.UUID{players[0], players[n-1]}, players[1:n-1]...)
	}
}
