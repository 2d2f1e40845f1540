package bracket

import (
	"math/bits"
	"math/rand/v2"
	"sort"

	"github.com/google/uuid"
)

type Shuffler func(n int, swap func(i, j int))

// Seeding is the round one arrangement of a bracket. A nil slot is a bye.
type Seeding struct {
	Slots []*Participant
	Byes  int
}

// RoundCount returns ceil(log2(n)).
func RoundCount(n int) int {
	if n <= 1 {
		return 0
	}
	return bits.Len(uint(n - 1))
}

// Seed expects participants in registration order. manualOrder is only read
// for FixManual.
func Seed(participants []Participant, policy FixingPolicy, manualOrder []uuid.UUID, shuffle Shuffler) (*Seeding, error) {
	if len(participants) == 0 {
		return nil, Validation("participants", "at least one participant is required")
	}

	ordered := make([]*Participant, len(participants))
	for i := range participants {
		ordered[i] = &participants[i]
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Seed < ordered[j].Seed
	})

	var slots []*Participant
	switch policy {
	case FixSequential:
		slots = pairConsecutive(ordered)
	case FixRandom:
		if shuffle == nil {
			shuffle = rand.Shuffle
		}
		shuffle(len(ordered), func(i, j int) {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		})
		slots = pairConsecutive(ordered)
	case FixManual:
		manual, err := applyManualOrder(ordered, manualOrder)
		if err != nil {
			return nil, err
		}
		slots = pairConsecutive(manual)
	case FixTopVsBottom:
		slots = pairTopVsBottom(ordered)
	default:
		return nil, Validation("fixing_policy", "unsupported policy %q", policy)
	}

	return &Seeding{
		Slots: slots,
		Byes:  len(slots) - len(participants),
	}, nil
}

func pairConsecutive(ordered []*Participant) []*Participant {
	slots := make([]*Participant, 0, len(ordered)+1)
	slots = append(slots, ordered...)
	if len(slots)%2 != 0 {
		slots = append(slots, nil)
	}
	return slots
}

func applyManualOrder(ordered []*Participant, order []uuid.UUID) ([]*Participant, error) {
	if len(order) != len(ordered) {
		return nil, Validation("manual_order", "expected %d participants, got %d", len(ordered), len(order))
	}

	byID := make(map[uuid.UUID]*Participant, len(ordered))
	for _, p := range ordered {
		byID[p.ID] = p
	}

	seen := make(map[uuid.UUID]bool, len(order))
	result := make([]*Participant, 0, len(order))
	for _, id := range order {
		p, ok := byID[id]
		if !ok {
			return nil, Validation("manual_order", "participant %s is not registered", id)
		}
		if seen[id] {
			return nil, Validation("manual_order", "participant %s appears more than once", id)
		}
		seen[id] = true
		result = append(result, p)
	}
	return result, nil
}

// The odd middle seed gets the trailing bye.
func pairTopVsBottom(ordered []*Participant) []*Participant {
	ranked := make([]*Participant, len(ordered))
	copy(ranked, ordered)
	sort.SliceStable(ranked, func(i, j int) bool {
		ri, rj := ranked[i].Rank, ranked[j].Rank
		switch {
		case ri != nil && rj != nil:
			return *ri < *rj
		case ri != nil:
			return true
		default:
			return false
		}
	})

	n := len(ranked)
	pairs := n / 2
	slots := make([]*Participant, 0, n+1)
	for _, i := range pairOrder(pairs) {
		slots = append(slots, ranked[i], ranked[n-1-i])
	}
	if n%2 != 0 {
		slots = append(slots, ranked[pairs], nil)
	}
	return slots
}

// seedPositions keeps seed 0 and seed 1 in opposite halves.
func seedPositions(size int) []int {
	positions := []int{0}
	for len(positions) < size {
		next := make([]int, 0, len(positions)*2)
		count := len(positions) * 2
		for _, seed := range positions {
			next = append(next, seed, (count-1)-seed)
		}
		positions = next
	}
	return positions
}

func pairOrder(pairs int) []int {
	if pairs == 0 {
		return nil
	}
	size := 2
	for size < pairs*2 {
		size <<= 1
	}

	positions := seedPositions(size)
	order := make([]int, 0, pairs)
	for i := 0; i < len(positions); i += 2 {
		if positions[i] < pairs {
			order = append(order, positions[i])
		}
	}
	return order
}
