package bracket

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
)

type feed struct {
	match *Match
	loser bool
}

func (b *builder) buildDoubleElimination(slots []*uuid.UUID) error {
	winners, err := b.buildWinners(slots, true)
	if err != nil {
		return err
	}

	// Byes produce no loser.
	drops := func(round int) []feed {
		var feeds []feed
		for _, m := range winners[round-1] {
			if !m.IsBye {
				feeds = append(feeds, feed{match: m, loser: true})
			}
		}
		return feeds
	}

	lr := &losersRounds{builder: b}
	survivors := lr.play(drops(1), nil)
	for k := 2; k <= len(winners); k++ {
		dropped := drops(k)
		if k%2 == 0 {
			slices.Reverse(dropped)
		}
		for len(survivors) > len(dropped) {
			survivors = lr.play(survivors, nil)
		}
		survivors = lr.play(survivors, dropped)
	}
	for len(survivors) > 1 {
		survivors = lr.play(survivors, nil)
	}
	if len(survivors) != 1 {
		return fmt.Errorf("losers bracket of tournament %s produced %d champions", b.topo.TournamentID, len(survivors))
	}

	finals := winners[len(winners)-1]
	round := b.addRound(FinalsSide, 1, "Grand Final")
	grandFinal := b.addMatch(round, 1)
	link(finals[0], false, grandFinal, 1)
	link(survivors[0].match, survivors[0].loser, grandFinal, 2)
	return nil
}

type losersRounds struct {
	*builder
	count int
}

// play creates one losers round. An odd competitor out waits for the next
// round; the losers bracket has no byes.
func (lr *losersRounds) play(survivors, drops []feed) []feed {
	var pairs [][2]feed
	rest := survivors
	if drops != nil {
		n := min(len(survivors), len(drops))
		for i := 0; i < n; i++ {
			pairs = append(pairs, [2]feed{survivors[i], drops[i]})
		}
		if len(survivors) > n {
			rest = survivors[n:]
		} else {
			rest = drops[n:]
		}
	}
	for i := 0; i+1 < len(rest); i += 2 {
		pairs = append(pairs, [2]feed{rest[i], rest[i+1]})
	}

	var waiting []feed
	if len(rest)%2 != 0 {
		waiting = append(waiting, rest[len(rest)-1])
	}
	if len(pairs) == 0 {
		return waiting
	}

	lr.count++
	round := lr.addRound(LosersSide, lr.count, fmt.Sprintf("Losers Round %d", lr.count))
	next := make([]feed, 0, len(pairs)+len(waiting))
	for j, pair := range pairs {
		m := lr.addMatch(round, j+1)
		link(pair[0].match, pair[0].loser, m, 1)
		link(pair[1].match, pair[1].loser, m, 2)
		next = append(next, feed{match: m})
	}
	return append(next, waiting...)
}
