package store

import (
	"context"
	"log"
	"sort"
	"strconv"

	"todo-planner/internal/model"
)

// MoveTask moves a task to destDate, inserted immediately after the
// task named by predecessorID (empty means the top of the list). The
// destination bucket is renumbered to a dense 1..N and the source
// bucket loses the task in the same state transition. Moving onto the
// overdue bucket is unsupported and ignored.
func (s *Store) MoveTask(ctx context.Context, taskID int64, destDate, predecessorID string) {
	if destDate == OverdueKey {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Locate the source task: overdue first, then the day buckets.
	var (
		moved      model.Task
		found      bool
		sourceDate string
		isOverdue  bool
	)

	for _, task := range s.overdue {
		if task.ID == taskID {
			moved = task
			found = true
			isOverdue = true
			break
		}
	}
	if !found {
		for date, bucket := range s.days {
			for _, task := range bucket {
				if task.ID == taskID {
					moved = task
					sourceDate = date
					found = true
					break
				}
			}
			if found {
				break
			}
		}
	}
	if !found {
		log.Printf("[error] source task %d not found", taskID)
		return
	}

	// Build the destination list in current display order, without the
	// moved task if this is a same-bucket reorder.
	dest := copyTasks(s.days[destDate])
	sort.SliceStable(dest, func(i, j int) bool {
		return dest[i].DayOrder < dest[j].DayOrder
	})
	if !isOverdue && sourceDate == destDate {
		dest = removeByID(dest, taskID)
	}

	insertIndex := 0
	if predecessorID != "" {
		for i, task := range dest {
			if strconv.FormatInt(task.ID, 10) == predecessorID {
				insertIndex = i + 1
				break
			}
		}
	}

	moved.TaskDate = destDate
	dest = append(dest, model.Task{})
	copy(dest[insertIndex+1:], dest[insertIndex:])
	dest[insertIndex] = moved

	for i := range dest {
		dest[i].DayOrder = i + 1
	}

	// Install both bucket updates together so no transient duplicate or
	// missing state is observable.
	if isOverdue {
		s.overdue = removeByID(s.overdue, taskID)
	} else if sourceDate != destDate {
		s.days[sourceDate] = removeByID(s.days[sourceDate], taskID)
	}
	s.days[destDate] = dest

	// Persist the date change, then every dayOrder in the final list.
	s.persistField(ctx, taskID, "taskDate", destDate)
	for _, task := range dest {
		s.persistField(ctx, task.ID, "dayOrder", strconv.Itoa(task.DayOrder))
	}
}
