package bracket

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundCount(t *testing.T) {
	testCases := []struct {
		n        int
		expected int
	}{
		{n: 1, expected: 0},
		{n: 2, expected: 1},
		{n: 4, expected: 2},
		{n: 5, expected: 3},
		{n: 8, expected: 3},
		{n: 9, expected: 4},
		{n: 32, expected: 5},
		{n: 50, expected: 6},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, RoundCount(tc.n), "n=%d", tc.n)
	}
}

func TestSeedPositions(t *testing.T) {
	assert.Equal(t, []int{0, 1}, seedPositions(2))
	assert.Equal(t, []int{0, 3, 1, 2}, seedPositions(4))
	assert.Equal(t, []int{0, 7, 3, 4, 1, 6, 2, 5}, seedPositions(8))
}

func TestPairOrder(t *testing.T) {
	assert.Equal(t, []int{0}, pairOrder(1))
	assert.Equal(t, []int{0, 1}, pairOrder(2))
	assert.Equal(t, []int{0, 1, 2}, pairOrder(3))
	assert.Equal(t, []int{0, 3, 1, 2}, pairOrder(4))
	assert.Empty(t, pairOrder(0))
}

func TestSeedSequential(t *testing.T) {
	participants := makeParticipants(5)

	seeding, err := Seed(participants, FixSequential, nil, nil)
	require.NoError(t, err)

	require.Len(t, seeding.Slots, 6)
	for i := 0; i < 5; i++ {
		assert.Equal(t, participants[i].ID, seeding.Slots[i].ID)
	}
	assert.Nil(t, seeding.Slots[5])
	assert.Equal(t, 1, seeding.Byes)
}

func TestSeedSequentialUsesRegistrationOrder(t *testing.T) {
	participants := makeParticipants(4)
	participants[0].Seed, participants[3].Seed = 4, 1

	seeding, err := Seed(participants, FixSequential, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, participants[3].ID, seeding.Slots[0].ID)
	assert.Equal(t, participants[0].ID, seeding.Slots[3].ID)
	assert.Equal(t, 0, seeding.Byes)
}

func TestSeedRandom(t *testing.T) {
	participants := makeParticipants(6)

	reverse := func(n int, swap func(i, j int)) {
		for i := 0; i < n/2; i++ {
			swap(i, n-1-i)
		}
	}
	seeding, err := Seed(participants, FixRandom, nil, reverse)
	require.NoError(t, err)

	require.Len(t, seeding.Slots, 6)
	for i := 0; i < 6; i++ {
		assert.Equal(t, participants[5-i].ID, seeding.Slots[i].ID)
	}
}

func TestSeedRandomIsPermutation(t *testing.T) {
	for n := 4; n <= 50; n++ {
		participants := makeParticipants(n)

		seeding, err := Seed(participants, FixRandom, nil, nil)
		require.NoError(t, err)

		seen := make(map[uuid.UUID]int)
		for _, p := range seeding.Slots {
			if p != nil {
				seen[p.ID]++
			}
		}
		require.Len(t, seen, n)
		for _, count := range seen {
			assert.Equal(t, 1, count)
		}
	}
}

func TestSeedManual(t *testing.T) {
	participants := makeParticipants(4)
	order := []uuid.UUID{participants[2].ID, participants[0].ID, participants[3].ID, participants[1].ID}

	seeding, err := Seed(participants, FixManual, order, nil)
	require.NoError(t, err)

	for i, id := range order {
		assert.Equal(t, id, seeding.Slots[i].ID)
	}
}

func TestSeedManualRejectsBadOrders(t *testing.T) {
	participants := makeParticipants(4)
	ids := []uuid.UUID{participants[0].ID, participants[1].ID, participants[2].ID, participants[3].ID}

	testCases := []struct {
		name  string
		order []uuid.UUID
	}{
		{name: "omission", order: ids[:3]},
		{name: "duplicate", order: []uuid.UUID{ids[0], ids[1], ids[2], ids[2]}},
		{name: "unknown participant", order: []uuid.UUID{ids[0], ids[1], ids[2], uuid.New()}},
		{name: "empty", order: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Seed(participants, FixManual, tc.order, nil)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, "manual_order", verr.Field)
		})
	}
}

func TestSeedTopVsBottom(t *testing.T) {
	participants := makeParticipants(8)

	seeding, err := Seed(participants, FixTopVsBottom, nil, nil)
	require.NoError(t, err)

	var seeds []int
	for _, p := range seeding.Slots {
		seeds = append(seeds, p.Seed)
	}
	assert.Equal(t, []int{1, 8, 4, 5, 2, 7, 3, 6}, seeds)
}

func TestSeedTopVsBottomOddCount(t *testing.T) {
	participants := makeParticipants(5)

	seeding, err := Seed(participants, FixTopVsBottom, nil, nil)
	require.NoError(t, err)

	require.Len(t, seeding.Slots, 6)
	assert.Equal(t, 1, seeding.Slots[0].Seed)
	assert.Equal(t, 5, seeding.Slots[1].Seed)
	assert.Equal(t, 2, seeding.Slots[2].Seed)
	assert.Equal(t, 4, seeding.Slots[3].Seed)
	assert.Equal(t, 3, seeding.Slots[4].Seed)
	assert.Nil(t, seeding.Slots[5])
}

func TestSeedTopVsBottomUsesRanks(t *testing.T) {
	participants := makeParticipants(4)
	first, second := 1, 2
	participants[3].Rank = &first
	participants[2].Rank = &second

	seeding, err := Seed(participants, FixTopVsBottom, nil, nil)
	require.NoError(t, err)

	// Ranked: 4, 3, then unranked 1, 2 in registration order.
	assert.Equal(t, participants[3].ID, seeding.Slots[0].ID)
	assert.Equal(t, participants[1].ID, seeding.Slots[1].ID)
	assert.Equal(t, participants[2].ID, seeding.Slots[2].ID)
	assert.Equal(t, participants[0].ID, seeding.Slots[3].ID)
}

func TestSeedRejectsUnknownPolicy(t *testing.T) {
	_, err := Seed(makeParticipants(4), FixingPolicy("coin_flip"), nil, nil)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "fixing_policy", verr.Field)
}
