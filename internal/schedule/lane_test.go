package schedule

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func laneInputs(pairs ...[2]int) []LaneInput {
	inputs := make([]LaneInput, len(pairs))
	for i, p := range pairs {
		inputs[i] = LaneInput{ID: uuid.New(), StartOffset: p[0], EndOffset: p[1]}
	}
	return inputs
}

func TestPackLanesEmpty(t *testing.T) {
	assert.Empty(t, PackLanes(nil))
	assert.Empty(t, PackLanes([]LaneInput{}))
}

func TestPackLanesDisjoint(t *testing.T) {
	placements := PackLanes(laneInputs([2]int{0, 60}, [2]int{60, 120}, [2]int{150, 200}))

	for _, p := range placements {
		assert.Equal(t, 0, p.Lane)
		assert.Equal(t, 1, p.LaneCount)
	}
}

func TestPackLanesOverlapThenFree(t *testing.T) {
	inputs := laneInputs([2]int{0, 60}, [2]int{30, 90}, [2]int{100, 120})
	placements := PackLanes(inputs)
	require.Len(t, placements, 3)

	assert.Equal(t, 0, placements[0].Lane)
	assert.Equal(t, 1, placements[1].Lane)
	assert.Equal(t, 0, placements[2].Lane)
	for _, p := range placements {
		assert.Equal(t, 2, p.LaneCount)
	}
}

func TestPackLanesNested(t *testing.T) {
	inputs := laneInputs([2]int{0, 120}, [2]int{30, 60})
	placements := PackLanes(inputs)

	assert.Equal(t, 0, placements[0].Lane)
	assert.Equal(t, 1, placements[1].Lane)
	assert.Equal(t, 2, placements[0].LaneCount)
}

func TestPackLanesUnsortedInput(t *testing.T) {
	inputs := laneInputs([2]int{100, 120}, [2]int{0, 60}, [2]int{30, 90})
	placements := PackLanes(inputs)

	// Placements stay aligned with input order.
	assert.Equal(t, inputs[0].ID, placements[0].ID)
	assert.Equal(t, 0, placements[0].Lane)
	assert.Equal(t, 0, placements[1].Lane)
	assert.Equal(t, 1, placements[2].Lane)
}

func TestPackLanesNoSharedLaneOverlaps(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	inputs := make([]LaneInput, 60)
	for i := range inputs {
		start := rng.Intn(900)
		inputs[i] = LaneInput{ID: uuid.New(), StartOffset: start, EndOffset: start + 10 + rng.Intn(180)}
	}

	placements := PackLanes(inputs)
	require.Len(t, placements, len(inputs))

	for i := range placements {
		for j := i + 1; j < len(placements); j++ {
			if placements[i].Lane != placements[j].Lane {
				continue
			}
			a, b := inputs[i], inputs[j]
			overlap := a.StartOffset < b.EndOffset && b.StartOffset < a.EndOffset
			assert.False(t, overlap, "intervals %d and %d share lane %d but overlap", i, j, placements[i].Lane)
		}
	}

	// Optimality: the lane count equals the maximum number of intervals
	// simultaneously active at any instant.
	maxActive := 0
	for _, at := range inputs {
		active := 0
		for _, other := range inputs {
			if other.StartOffset <= at.StartOffset && at.StartOffset < other.EndOffset {
				active++
			}
		}
		if active > maxActive {
			maxActive = active
		}
	}
	assert.Equal(t, maxActive, placements[0].LaneCount)
}

func TestPackLanesDeterministic(t *testing.T) {
	inputs := laneInputs([2]int{0, 60}, [2]int{0, 60}, [2]int{0, 60}, [2]int{30, 90})

	first := PackLanes(inputs)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, PackLanes(inputs))
	}
}
