package domain

// ClampPosition bounds a requested 1-based rank to [1, n+1], where n is the
// number of other cards in the target column.
func ClampPosition(position, n int) int {
	if position < 1 {
		return 1
	}
	if position > n+1 {
		return n + 1
	}
	return position
}

// Renumber assigns positions to siblings (the other cards of the target
// column, already sorted by current position) so that rank position is left
// free for the moving card: the i-th sibling (0-based) gets i+1 before the
// gap and i+2 from the gap on. It returns the siblings whose position
// changed.
func Renumber(siblings []*KanbanCard, position int) []*KanbanCard {
	var changed []*KanbanCard
	for i, card := range siblings {
		want := i + 1
		if i >= position-1 {
			want = i + 2
		}
		if card.OrderPosition != want {
			card.OrderPosition = want
			changed = append(changed, card)
		}
	}
	return changed
}

// Compact renumbers cards (sorted by current position) to 1..n and returns
// the ones whose position changed.
func Compact(cards []*KanbanCard) []*KanbanCard {
	return Renumber(cards, len(cards)+1)
}
