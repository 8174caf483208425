package stopwatch

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"todo-planner/internal/model"
)

// Persister receives the timer's field updates. *store.Store satisfies it.
type Persister interface {
	UpdateTask(ctx context.Context, id int64, field string, value any, date string)
}

type timer struct {
	task    model.Task
	startAt time.Time
	elapsed time.Duration
	running bool
	display time.Duration
}

// Tracker accumulates time-on-task per task id with start, pause,
// resume and stop semantics. A one-second cron tick refreshes the
// displayed elapsed time of running timers.
type Tracker struct {
	mu     sync.Mutex
	store  Persister
	timers map[int64]*timer
	cron   *cron.Cron
	now    func() time.Time
}

func NewTracker(store Persister) *Tracker {
	t := &Tracker{
		store:  store,
		timers: make(map[int64]*timer),
		cron:   cron.New(cron.WithSeconds()),
		now:    time.Now,
	}
	if _, err := t.cron.AddFunc("@every 1s", t.tick); err != nil {
		log.Printf("[error] schedule stopwatch tick: %v", err)
	}
	return t
}

// Start begins the display tick. Stop it with Close.
func (t *Tracker) Start() {
	t.cron.Start()
}

func (t *Tracker) Close() {
	ctx := t.cron.Stop()
	<-ctx.Done()
}

func (t *Tracker) tick() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, tm := range t.timers {
		if tm.running {
			tm.display = tm.elapsed + t.now().Sub(tm.startAt)
		}
	}
}

// Toggle is the single start/pause control. A running timer freezes,
// folding the current run into its accumulated time and persisting
// timeTaken and inProgress=false. A paused timer resumes from now. An
// absent timer starts fresh, carrying over the task's persisted
// timeTaken, and marks the task in progress.
func (t *Tracker) Toggle(ctx context.Context, task model.Task) {
	t.mu.Lock()
	tm, ok := t.timers[task.ID]

	switch {
	case ok && tm.running:
		run := t.now().Sub(tm.startAt)
		tm.elapsed += run
		tm.display = tm.elapsed
		tm.running = false
		t.mu.Unlock()

		total := time.Duration(task.TimeTaken)*time.Millisecond + run
		t.store.UpdateTask(ctx, task.ID, "timeTaken", total.Milliseconds(), task.TaskDate)
		t.store.UpdateTask(ctx, task.ID, "inProgress", false, task.TaskDate)

	case ok:
		tm.startAt = t.now()
		tm.running = true
		t.mu.Unlock()

		t.store.UpdateTask(ctx, task.ID, "inProgress", true, task.TaskDate)

	default:
		t.timers[task.ID] = &timer{
			task:    task,
			startAt: t.now(),
			elapsed: time.Duration(task.TimeTaken) * time.Millisecond,
			running: true,
		}
		t.mu.Unlock()

		t.store.UpdateTask(ctx, task.ID, "inProgress", true, task.TaskDate)
	}
}

// Stop finalizes a task's timer: any in-flight run is folded in, the
// total is persisted together with inProgress=false and the entry is
// removed. It runs synchronously so callers can sequence a completion
// update after it. Returns the total tracked time.
func (t *Tracker) Stop(ctx context.Context, task model.Task) time.Duration {
	t.mu.Lock()
	var total time.Duration
	if tm, ok := t.timers[task.ID]; ok {
		total = tm.elapsed
		if tm.running {
			total += t.now().Sub(tm.startAt)
		}
		delete(t.timers, task.ID)
	}
	t.mu.Unlock()

	if total > 0 {
		t.store.UpdateTask(ctx, task.ID, "timeTaken", total.Milliseconds(), task.TaskDate)
	}
	t.store.UpdateTask(ctx, task.ID, "inProgress", false, task.TaskDate)

	return total
}

// Remove drops a timer without persisting anything.
func (t *Tracker) Remove(taskID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.timers, taskID)
}

// Elapsed reports the last displayed elapsed time for a task's timer.
func (t *Tracker) Elapsed(taskID int64) (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	tm, ok := t.timers[taskID]
	if !ok {
		return 0, false
	}
	if tm.running {
		return tm.elapsed + t.now().Sub(tm.startAt), true
	}
	return tm.elapsed, true
}

// Running reports whether a task's timer exists and is running.
func (t *Tracker) Running(taskID int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	tm, ok := t.timers[taskID]
	return ok && tm.running
}
