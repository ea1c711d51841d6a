package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func cards(positions ...int) []*KanbanCard {
	out := make([]*KanbanCard, len(positions))
	for i, p := range positions {
		out[i] = &KanbanCard{ID: uint(i + 1), OrderPosition: p}
	}
	return out
}

func positionsOf(cs []*KanbanCard) []int {
	out := make([]int, len(cs))
	for i, c := range cs {
		out[i] = c.OrderPosition
	}
	return out
}

func TestRenumber_LeavesGapAtTarget(t *testing.T) {
	tests := []struct {
		name     string
		current  []int
		position int
		want     []int
	}{
		{"front", []int{1, 2, 3}, 1, []int{2, 3, 4}},
		{"middle", []int{1, 2, 3}, 2, []int{1, 3, 4}},
		{"end", []int{1, 2, 3}, 4, []int{1, 2, 3}},
		{"repairs gaps before the slot", []int{2, 5, 9}, 3, []int{1, 2, 4}},
		{"empty column", nil, 1, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			siblings := cards(tt.current...)
			Renumber(siblings, tt.position)
			if diff := cmp.Diff(tt.want, positionsOf(siblings)); diff != "" {
				t.Errorf("positions mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenumber_ReportsOnlyChanged(t *testing.T) {
	siblings := cards(1, 2, 3)
	changed := Renumber(siblings, 3)
	assert.Len(t, changed, 1)
	assert.Equal(t, uint(3), changed[0].ID)
	assert.Equal(t, 4, changed[0].OrderPosition)
}

// Every placement of a new card at rank p among n siblings yields the dense
// sequence 1..n+1 with the siblings' relative order preserved.
func TestRenumber_DenseForEveryRank(t *testing.T) {
	for n := 0; n <= 6; n++ {
		for p := 1; p <= n+1; p++ {
			siblings := cards(make([]int, n)...)
			Renumber(siblings, p)

			seen := map[int]bool{p: true}
			prev := 0
			for _, c := range siblings {
				assert.False(t, seen[c.OrderPosition], "n=%d p=%d duplicate %d", n, p, c.OrderPosition)
				assert.Greater(t, c.OrderPosition, prev, "n=%d p=%d order broken", n, p)
				seen[c.OrderPosition] = true
				prev = c.OrderPosition
			}
			for want := 1; want <= n+1; want++ {
				assert.True(t, seen[want], "n=%d p=%d missing %d", n, p, want)
			}
		}
	}
}

func TestClampPosition(t *testing.T) {
	assert.Equal(t, 1, ClampPosition(0, 3))
	assert.Equal(t, 2, ClampPosition(2, 3))
	assert.Equal(t, 4, ClampPosition(10, 3))
	assert.Equal(t, 1, ClampPosition(5, 0))
}

func TestCompact(t *testing.T) {
	cs := cards(2, 4, 7)
	changed := Compact(cs)
	assert.Equal(t, []int{1, 2, 3}, positionsOf(cs))
	assert.Len(t, changed, 3)

	assert.Empty(t, Compact(cards(1, 2)))
}

func TestParsePriority(t *testing.T) {
	assert.Equal(t, PriorityHigh, ParsePriority("high"))
	assert.Equal(t, PriorityLow, ParsePriority("low"))
	assert.Equal(t, PriorityNormal, ParsePriority(""))
	assert.Equal(t, PriorityNormal, ParsePriority("urgent"))
}
