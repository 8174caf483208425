package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"todo-planner/internal/client"
	"todo-planner/internal/model"
)

// NextOccurrence computes the next date a repeating task falls on. For
// the EVERY_X kinds the duration counts days, weeks or months. For
// SPECIFIC_WEEKDAYS the duration is a 7-bit mask (Monday bit 6, Sunday
// bit 0) and the search advances one day at a time, landing within 7
// steps for any valid mask; an empty or out-of-range mask is rejected.
func NextOccurrence(taskDate, repeatType string, repeatDuration int) (string, error) {
	date, err := time.Parse(model.DateLayout, taskDate)
	if err != nil {
		return "", fmt.Errorf("parse task date: %w", err)
	}

	switch repeatType {
	case model.RepeatEveryXDays:
		date = date.AddDate(0, 0, repeatDuration)
	case model.RepeatEveryXWeeks:
		date = date.AddDate(0, 0, 7*repeatDuration)
	case model.RepeatEveryXMonths:
		date = date.AddDate(0, repeatDuration, 0)
	case model.RepeatSpecificWeekdays:
		if repeatDuration <= 0 || repeatDuration > 127 {
			return "", fmt.Errorf("weekday mask %d out of range [1,127]", repeatDuration)
		}
		for i := 0; i < 7; i++ {
			date = date.AddDate(0, 0, 1)
			if weekdayBitSet(repeatDuration, date.Weekday()) {
				return date.Format(model.DateLayout), nil
			}
		}
		return "", fmt.Errorf("no weekday set in mask %d", repeatDuration)
	default:
		return "", fmt.Errorf("repeat type %q does not recur", repeatType)
	}

	return date.Format(model.DateLayout), nil
}

// weekdayBitSet checks a Monday-first mask bit for the given weekday.
func weekdayBitSet(mask int, weekday time.Weekday) bool {
	idx := (int(weekday) + 6) % 7
	return mask&(1<<(6-idx)) != 0
}

// scheduleNext materializes the successor occurrence of a completed
// recurring task, unless a task with the same name and category already
// sits on the computed date. The duplicate check is content-based; two
// unrelated tasks sharing name and category on that date suppress the
// successor. Callers hold the store lock.
func (s *Store) scheduleNext(ctx context.Context, task model.Task) {
	next, err := NextOccurrence(task.TaskDate, task.RepeatType, task.RepeatDuration)
	if err != nil {
		log.Printf("[error] next occurrence for task %d: %v", task.ID, err)
		return
	}

	for _, existing := range s.days[next] {
		if existing.Name == task.Name && existing.Category == task.Category {
			log.Printf("[info] recurring task already exists on %s", next)
			return
		}
	}

	created, err := s.backend.Add(ctx, client.AddParams{
		Name:           task.Name,
		Category:       task.Category,
		TaskDate:       next,
		Priority:       task.Priority,
		RepeatType:     task.RepeatType,
		RepeatDuration: task.RepeatDuration,
		LongTerm:       task.LongTerm,
	})
	if err != nil {
		log.Printf("[error] add recurring task: %v", err)
		return
	}

	s.addLocked(*created)
}
