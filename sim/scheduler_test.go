package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// orderedIDs applies order to every index of table, starting from the given
// queue order, and returns the resulting IDs.
func orderedIDs(table *ProcessTable, queue []int, order func([]int)) []string {
	idx := append([]int(nil), queue...)
	order(idx)
	ids := make([]string, len(idx))
	for i, j := range idx {
		ids[i] = table.At(j).ID
	}
	return ids
}

func TestOrderByBurst_SortsAscending(t *testing.T) {
	table := NewProcessTable([]Process{
		proc("long", 0, 9, 0),
		proc("short", 2, 1, 0),
		proc("medium", 1, 4, 0),
	})
	got := orderedIDs(table, []int{0, 1, 2}, func(idx []int) { orderByBurst(idx, table) })
	assert.Equal(t, []string{"short", "medium", "long"}, got)
}

func TestOrderByBurst_TieBreakByStartTime(t *testing.T) {
	// GIVEN equal bursts queued latest-arrival first
	table := NewProcessTable([]Process{
		proc("early", 0, 3, 0),
		proc("late", 5, 3, 0),
	})

	// WHEN ordered
	got := orderedIDs(table, []int{1, 0}, func(idx []int) { orderByBurst(idx, table) })

	// THEN the earlier arrival wins regardless of queue position
	assert.Equal(t, []string{"early", "late"}, got)
}

func TestOrderByBurst_FullTie_KeepsQueueOrder(t *testing.T) {
	table := NewProcessTable([]Process{
		proc("a", 0, 3, 0),
		proc("b", 0, 3, 0),
	})
	got := orderedIDs(table, []int{1, 0}, func(idx []int) { orderByBurst(idx, table) })
	assert.Equal(t, []string{"b", "a"}, got)
}

func TestOrderByRemaining_UsesLiveProgress(t *testing.T) {
	// GIVEN a long process that has nearly finished
	table := NewProcessTable([]Process{
		proc("long", 0, 10, 0),
		proc("short", 1, 3, 0),
	})
	for now := int64(0); now < 8; now++ {
		_, _ = table.RecordTick(0, now)
	}

	// WHEN ordered by remaining time
	got := orderedIDs(table, []int{1, 0}, func(idx []int) { orderByRemaining(idx, table) })

	// THEN 2 remaining beats 3 remaining
	assert.Equal(t, []string{"long", "short"}, got)
}

func TestOrderByRemaining_TieBreakByStartTime(t *testing.T) {
	table := NewProcessTable([]Process{
		proc("early", 0, 4, 0),
		proc("late", 2, 2, 0),
	})
	_, _ = table.RecordTick(0, 0)
	_, _ = table.RecordTick(0, 1)
	// both have 2 ticks remaining
	got := orderedIDs(table, []int{1, 0}, func(idx []int) { orderByRemaining(idx, table) })
	assert.Equal(t, []string{"early", "late"}, got)
}

func TestResponseRatio(t *testing.T) {
	p := proc("a", 2, 4, 0)
	assert.InDelta(t, 1.0, ResponseRatio(p, 2), 1e-9)
	assert.InDelta(t, 2.0, ResponseRatio(p, 6), 1e-9)
}

func TestWeightedResponseRatio_ForegroundBonus(t *testing.T) {
	fg := proc("fg", 0, 2, 0)
	bg := proc("bg", 0, 2, 3)
	// ratio at now=2 is (2+2)/2 = 2
	assert.InDelta(t, 1.5, WeightedResponseRatio(fg, 2), 1e-9)
	assert.InDelta(t, 1.0, WeightedResponseRatio(bg, 2), 1e-9)
}

func TestOrderByScore_DescendingWithStartTieBreak(t *testing.T) {
	// GIVEN at now=4: a (start 0, burst 4) ratio 2.0; b (start 2, burst 2) ratio 2.0; c (start 3, burst 4) ratio 1.25
	table := NewProcessTable([]Process{
		proc("a", 0, 4, 0),
		proc("b", 2, 2, 0),
		proc("c", 3, 4, 0),
	})

	// WHEN ordered by response ratio from a reversed queue
	got := orderedIDs(table, []int{2, 1, 0}, func(idx []int) { orderByScore(idx, table, 4, ResponseRatio) })

	// THEN the tie between a and b goes to the earlier start, c is last
	assert.Equal(t, []string{"a", "b", "c"}, got)
}
