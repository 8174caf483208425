package store

import (
	"strconv"

	"todo-planner/internal/model"
)

// DropPoint describes one end of a drag: the index inside the rendered
// (possibly filtered) list and the list's identifier, a date string or
// OverdueKey.
type DropPoint struct {
	Index       int
	DroppableID string
}

// CalculatePredecessor maps a drop position reported against a filtered
// view back to the id of the task the moved item should follow, or ""
// for the top of the list.
//
// The default anchor sits one slot above the destination index. When
// the item moved downward inside the same list, removing it from above
// shifts everything up by one before the insertion point is evaluated,
// so the anchor is the item currently at the destination index itself.
// Cross-list moves never shift.
func CalculatePredecessor(destination, source DropPoint, filtered []model.Task) string {
	predecessorIndex := destination.Index - 1

	if source.DroppableID == destination.DroppableID && source.Index < destination.Index {
		predecessorIndex = destination.Index
	}

	if predecessorIndex >= 0 && predecessorIndex < len(filtered) {
		return strconv.FormatInt(filtered[predecessorIndex].ID, 10)
	}
	return ""
}
