package store

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"sync"
	"time"

	"todo-planner/internal/client"
	"todo-planner/internal/model"
)

// OverdueKey names the overdue bucket in drag destinations. Dropping
// onto it is unsupported and ignored.
const OverdueKey = "overdue"

// Backend is the remote side of the store. *client.Client satisfies it.
type Backend interface {
	GetGrouped(ctx context.Context) (map[string][]model.Task, error)
	Add(ctx context.Context, params client.AddParams) (*model.Task, error)
	UpdateField(ctx context.Context, id int64, field, value string) (*model.Task, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// Store keeps the client-side view of all tasks, partitioned into three
// buckets: days (today or later, completed items included), completed
// (per-date mirror of complete tasks) and overdue (past-date incomplete
// tasks). Mutations apply locally after the corresponding remote call;
// remote failures are logged and the operation abandoned, so local and
// server state may diverge until the next Load.
type Store struct {
	mu      sync.Mutex
	backend Backend

	days      map[string][]model.Task
	completed map[string][]model.Task
	overdue   []model.Task

	now func() time.Time
}

func New(backend Backend) *Store {
	return &Store{
		backend:   backend,
		days:      make(map[string][]model.Task),
		completed: make(map[string][]model.Task),
		now:       time.Now,
	}
}

func (s *Store) today() string {
	return s.now().Format(model.DateLayout)
}

// Load fetches the full task set and rebuilds all buckets. Past-date
// tasks split into overdue and completed; today-or-later tasks always
// land in their day bucket, with complete ones mirrored into completed
// so both the day view and the completed view can show them.
func (s *Store) Load(ctx context.Context) error {
	grouped, err := s.backend.GetGrouped(ctx)
	if err != nil {
		return fmt.Errorf("fetch tasks: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.today()
	days := make(map[string][]model.Task)
	completed := make(map[string][]model.Task)
	var overdue []model.Task

	for date, tasks := range grouped {
		if date < today {
			for _, task := range tasks {
				if task.Complete {
					completed[date] = append(completed[date], task)
				} else {
					overdue = append(overdue, task)
				}
			}
			continue
		}
		for _, task := range tasks {
			if task.Complete {
				completed[date] = append(completed[date], task)
			}
			days[date] = append(days[date], task)
		}
	}

	sort.SliceStable(overdue, func(i, j int) bool {
		if overdue[i].TaskDate != overdue[j].TaskDate {
			return overdue[i].TaskDate < overdue[j].TaskDate
		}
		return overdue[i].DayOrder < overdue[j].DayOrder
	})

	s.days = days
	s.completed = completed
	s.overdue = overdue
	return nil
}

// AddToFrontend inserts a server-confirmed task into its bucket. No
// ordering is applied; callers reorder afterwards if they care.
func (s *Store) AddToFrontend(task model.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addLocked(task)
}

func (s *Store) addLocked(task model.Task) {
	if task.TaskDate == "" {
		log.Printf("[warn] task %d has no date, ignoring", task.ID)
		return
	}
	if task.TaskDate < s.today() {
		s.overdue = append(s.overdue, task)
		return
	}
	s.days[task.TaskDate] = append(s.days[task.TaskDate], task)
}

// UpdateTask persists a field change and reconciles the buckets with
// the server-returned task. Completing a recurring task schedules its
// successor occurrence as a side effect.
func (s *Store) UpdateTask(ctx context.Context, id int64, field string, value any, date string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	str := fmt.Sprint(value)
	saved, err := s.backend.UpdateField(ctx, id, field, str)
	if err != nil {
		log.Printf("[error] update task %d: %v", id, err)
		return
	}

	if field != "complete" {
		s.replaceLocked(*saved, date)
		return
	}

	if str == "true" {
		s.replaceLocked(*saved, date)

		done := *saved
		done.Complete = true
		s.completed[date] = append(s.completed[date], done)

		if saved.Repeats() {
			// Use the canonical server object, not the optimistic value.
			s.scheduleNext(ctx, *saved)
		}
		return
	}

	s.replaceLocked(*saved, date)
	s.completed[date] = removeByID(s.completed[date], id)
}

// replaceLocked swaps the stored task for the saved copy in whichever
// bucket(s) currently hold it.
func (s *Store) replaceLocked(saved model.Task, date string) {
	for i := range s.overdue {
		if s.overdue[i].ID == saved.ID {
			s.overdue[i] = saved
			break
		}
	}
	bucket := s.days[date]
	for i := range bucket {
		if bucket[i].ID == saved.ID {
			bucket[i] = saved
			break
		}
	}
}

// RemoveTask deletes a task remotely, removes it locally and renumbers
// the surviving bucket so dayOrder stays dense. suppressRenumber is
// used by move flows that renumber on their own.
func (s *Store) RemoveTask(ctx context.Context, id int64, date string, suppressRenumber bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wasComplete, err := s.backend.Delete(ctx, id)
	if err != nil {
		log.Printf("[error] delete task %d: %v", id, err)
		return
	}

	if wasComplete {
		s.completed[date] = removeByID(s.completed[date], id)
		if !suppressRenumber {
			s.renumberLocked(ctx, s.completed[date])
		}
		return
	}

	if date < s.today() {
		s.overdue = removeByID(s.overdue, id)
		return
	}

	s.days[date] = removeByID(s.days[date], id)
	if !suppressRenumber {
		s.renumberLocked(ctx, s.days[date])
	}
}

// renumberLocked rewrites dayOrder to 1..N in list order, persisting
// each change best-effort.
func (s *Store) renumberLocked(ctx context.Context, list []model.Task) {
	for i := range list {
		list[i].DayOrder = i + 1
		s.persistField(ctx, list[i].ID, "dayOrder", strconv.Itoa(i+1))
	}
}

// persistField fires a field update without touching local state.
func (s *Store) persistField(ctx context.Context, id int64, field, value string) {
	if _, err := s.backend.UpdateField(ctx, id, field, value); err != nil {
		log.Printf("[error] update task %d: %v", id, err)
	}
}

// Day returns a copy of the bucket for the given date.
func (s *Store) Day(date string) []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyTasks(s.days[date])
}

// Completed returns a copy of the completed mirror for the given date.
func (s *Store) Completed(date string) []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyTasks(s.completed[date])
}

// Dates returns the day-bucket keys in ascending order.
func (s *Store) Dates() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	dates := make([]string, 0, len(s.days))
	for date := range s.days {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

// Overdue returns a copy of the overdue bucket.
func (s *Store) Overdue() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyTasks(s.overdue)
}

func copyTasks(tasks []model.Task) []model.Task {
	out := make([]model.Task, len(tasks))
	copy(out, tasks)
	return out
}

func removeByID(tasks []model.Task, id int64) []model.Task {
	out := tasks[:0]
	for _, task := range tasks {
		if task.ID != id {
			out = append(out, task)
		}
	}
	return out
}
