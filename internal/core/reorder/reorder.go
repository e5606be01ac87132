// Package reorder plans position changes for a sibling set: all lists of a
// user, or all todos of a list. Repositories load the current positions,
// ask for a plan, and apply every change inside a single transaction.
package reorder

import (
	"errors"
	"fmt"
)

var ErrPositionOutOfRange = errors.New("position out of range")

// Entry is one sibling with its current position.
type Entry struct {
	ID       int64
	Position int
}

// Change assigns a new position to one sibling.
type Change struct {
	ID       int64
	Position int
}

// PlanMove moves the entry with the given id to newPos and shifts the
// siblings between the old and new positions by one, so the resulting
// positions are the same set of values as before with the moved entry at
// newPos. An empty plan means nothing has to change.
func PlanMove(siblings []Entry, id int64, newPos int) ([]Change, error) {
	if newPos < 0 || newPos >= len(siblings) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrPositionOutOfRange, newPos, len(siblings))
	}

	oldPos := -1
	for _, s := range siblings {
		if s.ID == id {
			oldPos = s.Position
			break
		}
	}

	if oldPos == -1 {
		return nil, fmt.Errorf("entry %d is not part of the sibling set", id)
	}

	if oldPos == newPos {
		return nil, nil
	}

	var changes []Change

	for _, s := range siblings {
		if s.ID == id {
			continue
		}

		switch {
		case oldPos < newPos && s.Position > oldPos && s.Position <= newPos:
			changes = append(changes, Change{ID: s.ID, Position: s.Position - 1})
		case oldPos > newPos && s.Position >= newPos && s.Position < oldPos:
			changes = append(changes, Change{ID: s.ID, Position: s.Position + 1})
		}
	}

	changes = append(changes, Change{ID: id, Position: newPos})

	return changes, nil
}

// PlanSequence is the bulk form: the caller supplies the full new ordering
// and every id is assigned its index. Ids the caller has no business
// reordering must be filtered out before calling.
func PlanSequence(ids []int64) []Change {
	changes := make([]Change, 0, len(ids))

	for i, id := range ids {
		changes = append(changes, Change{ID: id, Position: i})
	}

	return changes
}
