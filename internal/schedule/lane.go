package schedule

import (
	"sort"

	"github.com/google/uuid"
)

// LaneInput is one time-bounded event to place, expressed in minute offsets
// within a single resource's day column.
type LaneInput struct {
	ID          uuid.UUID
	StartOffset int
	EndOffset   int
}

// LanePlacement assigns an event a display lane. LaneCount is the total
// number of lanes the whole batch needed, shared by every placement so the
// column width divides evenly.
type LanePlacement struct {
	ID        uuid.UUID
	Lane      int
	LaneCount int
}

// PackLanes assigns each interval a lane such that no two intervals sharing
// a lane overlap in [start, end), using greedy interval partitioning: sort by
// start ascending (stable, ties keep input order), then take the lowest lane
// whose occupant has ended by the interval's start. The number of lanes used
// equals the maximum number of simultaneously active intervals, which is the
// minimum possible.
func PackLanes(intervals []LaneInput) []LanePlacement {
	if len(intervals) == 0 {
		return []LanePlacement{}
	}

	order := make([]int, len(intervals))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return intervals[order[a]].StartOffset < intervals[order[b]].StartOffset
	})

	laneEnd := make([]int, 0, 4)
	laneByIndex := make([]int, len(intervals))

	for _, idx := range order {
		iv := intervals[idx]
		assigned := -1
		for lane, end := range laneEnd {
			if end <= iv.StartOffset {
				assigned = lane
				break
			}
		}
		if assigned == -1 {
			assigned = len(laneEnd)
			laneEnd = append(laneEnd, 0)
		}
		laneEnd[assigned] = iv.EndOffset
		laneByIndex[idx] = assigned
	}

	// Lane count is the final total for the batch, not the count at the
	// moment each interval was placed.
	placements := make([]LanePlacement, len(intervals))
	for i, iv := range intervals {
		placements[i] = LanePlacement{
			ID:        iv.ID,
			Lane:      laneByIndex[i],
			LaneCount: len(laneEnd),
		}
	}
	return placements
}
