package store

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-planner/internal/client"
	"todo-planner/internal/model"
)

const (
	testYesterday = "2025-03-09"
	testToday     = "2025-03-10"
	testTomorrow  = "2025-03-11"
)

// fakeBackend is an in-memory stand-in for the REST backend.
type fakeBackend struct {
	nextID  int64
	tasks   map[int64]*model.Task
	calls   []string
	failing bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{tasks: make(map[int64]*model.Task)}
}

func (f *fakeBackend) seed(task model.Task) model.Task {
	f.nextID++
	task.ID = f.nextID
	f.tasks[task.ID] = &task
	return task
}

func (f *fakeBackend) GetGrouped(ctx context.Context) (map[string][]model.Task, error) {
	if f.failing {
		return nil, fmt.Errorf("backend down")
	}
	grouped := make(map[string][]model.Task)
	for _, task := range f.tasks {
		grouped[task.TaskDate] = append(grouped[task.TaskDate], *task)
	}
	for date := range grouped {
		bucket := grouped[date]
		sort.Slice(bucket, func(i, j int) bool { return bucket[i].DayOrder < bucket[j].DayOrder })
	}
	return grouped, nil
}

func (f *fakeBackend) Add(ctx context.Context, params client.AddParams) (*model.Task, error) {
	if f.failing {
		return nil, fmt.Errorf("backend down")
	}
	count := 0
	for _, task := range f.tasks {
		if task.TaskDate == params.TaskDate {
			count++
		}
	}
	f.nextID++
	task := &model.Task{
		ID:             f.nextID,
		Name:           params.Name,
		Category:       params.Category,
		TaskDate:       params.TaskDate,
		DayOrder:       count + 1,
		Priority:       params.Priority,
		RepeatType:     params.RepeatType,
		RepeatDuration: params.RepeatDuration,
		LongTerm:       params.LongTerm,
	}
	f.tasks[task.ID] = task
	out := *task
	return &out, nil
}

func (f *fakeBackend) UpdateField(ctx context.Context, id int64, field, value string) (*model.Task, error) {
	if f.failing {
		return nil, fmt.Errorf("backend down")
	}
	f.calls = append(f.calls, fmt.Sprintf("%d:%s=%s", id, field, value))

	task, ok := f.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %d not found", id)
	}
	switch field {
	case "complete":
		task.Complete = value == "true"
		if task.Complete {
			at := "12:00:00"
			task.AssignedTime = &at
		}
	case "taskDate":
		task.TaskDate = value
	case "dayOrder":
		order, err := strconv.Atoi(value)
		if err != nil {
			return nil, err
		}
		task.DayOrder = order
	case "category":
		task.Category = value
	case "taskName":
		task.Name = value
	case "inProgress":
		task.InProgress = value == "true"
	case "timeTaken":
		taken, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, err
		}
		task.TimeTaken = taken
	default:
		return nil, fmt.Errorf("unsupported field %s", field)
	}
	out := *task
	return &out, nil
}

func (f *fakeBackend) Delete(ctx context.Context, id int64) (bool, error) {
	if f.failing {
		return false, fmt.Errorf("backend down")
	}
	task, ok := f.tasks[id]
	if !ok {
		return false, nil
	}
	delete(f.tasks, id)
	return task.Complete, nil
}

func newTestStore(backend Backend) *Store {
	s := New(backend)
	s.now = func() time.Time {
		return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	}
	return s
}

func assertDense(t *testing.T, tasks []model.Task) {
	t.Helper()
	for i, task := range tasks {
		assert.Equal(t, i+1, task.DayOrder, "task %d at position %d", task.ID, i)
	}
}

func TestLoadPartitionsBuckets(t *testing.T) {
	backend := newFakeBackend()
	pastOpen := backend.seed(model.Task{Name: "past open", TaskDate: testYesterday, DayOrder: 1})
	pastDone := backend.seed(model.Task{Name: "past done", TaskDate: testYesterday, DayOrder: 2, Complete: true})
	todayOpen := backend.seed(model.Task{Name: "today open", TaskDate: testToday, DayOrder: 1})
	todayDone := backend.seed(model.Task{Name: "today done", TaskDate: testToday, DayOrder: 2, Complete: true})
	future := backend.seed(model.Task{Name: "future", TaskDate: testTomorrow, DayOrder: 1})

	s := newTestStore(backend)
	require.NoError(t, s.Load(context.Background()))

	overdue := s.Overdue()
	require.Len(t, overdue, 1)
	assert.Equal(t, pastOpen.ID, overdue[0].ID)

	pastCompleted := s.Completed(testYesterday)
	require.Len(t, pastCompleted, 1)
	assert.Equal(t, pastDone.ID, pastCompleted[0].ID)

	// Completed today stays in the day bucket and mirrors into completed.
	today := s.Day(testToday)
	require.Len(t, today, 2)
	assert.Equal(t, todayOpen.ID, today[0].ID)
	assert.Equal(t, todayDone.ID, today[1].ID)

	todayCompleted := s.Completed(testToday)
	require.Len(t, todayCompleted, 1)
	assert.Equal(t, todayDone.ID, todayCompleted[0].ID)

	tomorrow := s.Day(testTomorrow)
	require.Len(t, tomorrow, 1)
	assert.Equal(t, future.ID, tomorrow[0].ID)
}

func TestLoadFailure(t *testing.T) {
	backend := newFakeBackend()
	backend.failing = true

	s := newTestStore(backend)
	assert.Error(t, s.Load(context.Background()))
}

func TestAddToFrontend(t *testing.T) {
	s := newTestStore(newFakeBackend())

	s.AddToFrontend(model.Task{ID: 1, TaskDate: testYesterday})
	s.AddToFrontend(model.Task{ID: 2, TaskDate: testToday})

	assert.Len(t, s.Overdue(), 1)
	assert.Len(t, s.Day(testToday), 1)
}

func TestCompleteRoundTrip(t *testing.T) {
	backend := newFakeBackend()
	task := backend.seed(model.Task{Name: "write report", TaskDate: testToday, DayOrder: 1})

	s := newTestStore(backend)
	require.NoError(t, s.Load(context.Background()))

	s.UpdateTask(context.Background(), task.ID, "complete", true, testToday)

	today := s.Day(testToday)
	require.Len(t, today, 1)
	assert.True(t, today[0].Complete)
	assert.NotNil(t, today[0].AssignedTime)
	require.Len(t, s.Completed(testToday), 1)

	s.UpdateTask(context.Background(), task.ID, "complete", false, testToday)

	today = s.Day(testToday)
	require.Len(t, today, 1)
	assert.False(t, today[0].Complete)
	assert.Empty(t, s.Completed(testToday))
}

func TestCompleteOverdueTask(t *testing.T) {
	backend := newFakeBackend()
	task := backend.seed(model.Task{Name: "late", TaskDate: testYesterday, DayOrder: 1})

	s := newTestStore(backend)
	require.NoError(t, s.Load(context.Background()))

	s.UpdateTask(context.Background(), task.ID, "complete", true, testYesterday)

	overdue := s.Overdue()
	require.Len(t, overdue, 1)
	assert.True(t, overdue[0].Complete)
	assert.Len(t, s.Completed(testYesterday), 1)
}

func TestUpdateOtherFieldPatchesInPlace(t *testing.T) {
	backend := newFakeBackend()
	task := backend.seed(model.Task{Name: "groceries", Category: "None", TaskDate: testToday, DayOrder: 1})

	s := newTestStore(backend)
	require.NoError(t, s.Load(context.Background()))

	s.UpdateTask(context.Background(), task.ID, "category", "Errands", testToday)

	today := s.Day(testToday)
	require.Len(t, today, 1)
	assert.Equal(t, "Errands", today[0].Category)
}

func TestUpdateRemoteFailureLeavesStateAlone(t *testing.T) {
	backend := newFakeBackend()
	task := backend.seed(model.Task{Name: "groceries", TaskDate: testToday, DayOrder: 1})

	s := newTestStore(backend)
	require.NoError(t, s.Load(context.Background()))

	backend.failing = true
	s.UpdateTask(context.Background(), task.ID, "complete", true, testToday)

	today := s.Day(testToday)
	require.Len(t, today, 1)
	assert.False(t, today[0].Complete)
	assert.Empty(t, s.Completed(testToday))
}

func TestRemoveTaskRenumbers(t *testing.T) {
	backend := newFakeBackend()
	first := backend.seed(model.Task{Name: "a", TaskDate: testToday, DayOrder: 1})
	second := backend.seed(model.Task{Name: "b", TaskDate: testToday, DayOrder: 2})
	third := backend.seed(model.Task{Name: "c", TaskDate: testToday, DayOrder: 3})

	s := newTestStore(backend)
	require.NoError(t, s.Load(context.Background()))

	s.RemoveTask(context.Background(), second.ID, testToday, false)

	today := s.Day(testToday)
	require.Len(t, today, 2)
	assert.Equal(t, first.ID, today[0].ID)
	assert.Equal(t, third.ID, today[1].ID)
	assertDense(t, today)

	// Renumbering persisted for the survivors.
	assert.Contains(t, backend.calls, fmt.Sprintf("%d:dayOrder=1", first.ID))
	assert.Contains(t, backend.calls, fmt.Sprintf("%d:dayOrder=2", third.ID))
}

func TestRemoveTaskSuppressedRenumber(t *testing.T) {
	backend := newFakeBackend()
	backend.seed(model.Task{Name: "a", TaskDate: testToday, DayOrder: 1})
	second := backend.seed(model.Task{Name: "b", TaskDate: testToday, DayOrder: 2})

	s := newTestStore(backend)
	require.NoError(t, s.Load(context.Background()))

	s.RemoveTask(context.Background(), second.ID, testToday, true)

	assert.Len(t, s.Day(testToday), 1)
	assert.Empty(t, backend.calls, "no dayOrder writes when suppressed")
}

func TestRemoveCompletedTask(t *testing.T) {
	backend := newFakeBackend()
	done := backend.seed(model.Task{Name: "done", TaskDate: testToday, DayOrder: 1, Complete: true})

	s := newTestStore(backend)
	require.NoError(t, s.Load(context.Background()))

	s.RemoveTask(context.Background(), done.ID, testToday, false)

	assert.Empty(t, s.Completed(testToday))
}

func TestMoveTaskSameDay(t *testing.T) {
	backend := newFakeBackend()
	first := backend.seed(model.Task{Name: "a", TaskDate: testToday, DayOrder: 1})
	second := backend.seed(model.Task{Name: "b", TaskDate: testToday, DayOrder: 2})
	third := backend.seed(model.Task{Name: "c", TaskDate: testToday, DayOrder: 3})

	s := newTestStore(backend)
	require.NoError(t, s.Load(context.Background()))

	// Drag a below b: predecessor is b.
	s.MoveTask(context.Background(), first.ID, testToday, strconv.FormatInt(second.ID, 10))

	today := s.Day(testToday)
	require.Len(t, today, 3)
	assert.Equal(t, []int64{second.ID, first.ID, third.ID}, ids(today))
	assertDense(t, today)
}

func TestMoveTaskCrossDay(t *testing.T) {
	backend := newFakeBackend()
	moved := backend.seed(model.Task{Name: "a", TaskDate: testToday, DayOrder: 1})
	stay := backend.seed(model.Task{Name: "b", TaskDate: testToday, DayOrder: 2})
	target := backend.seed(model.Task{Name: "c", TaskDate: testTomorrow, DayOrder: 1})

	s := newTestStore(backend)
	require.NoError(t, s.Load(context.Background()))

	s.MoveTask(context.Background(), moved.ID, testTomorrow, strconv.FormatInt(target.ID, 10))

	today := s.Day(testToday)
	require.Len(t, today, 1)
	assert.Equal(t, stay.ID, today[0].ID)

	tomorrow := s.Day(testTomorrow)
	require.Len(t, tomorrow, 2)
	assert.Equal(t, []int64{target.ID, moved.ID}, ids(tomorrow))
	assert.Equal(t, testTomorrow, tomorrow[1].TaskDate)
	assertDense(t, tomorrow)

	assert.Contains(t, backend.calls, fmt.Sprintf("%d:taskDate=%s", moved.ID, testTomorrow))
}

func TestMoveTaskFromOverdue(t *testing.T) {
	backend := newFakeBackend()
	late := backend.seed(model.Task{Name: "late", TaskDate: testYesterday, DayOrder: 1})
	existing := backend.seed(model.Task{Name: "here", TaskDate: testToday, DayOrder: 1})

	s := newTestStore(backend)
	require.NoError(t, s.Load(context.Background()))

	// Empty predecessor inserts at the top.
	s.MoveTask(context.Background(), late.ID, testToday, "")

	assert.Empty(t, s.Overdue())

	today := s.Day(testToday)
	require.Len(t, today, 2)
	assert.Equal(t, []int64{late.ID, existing.ID}, ids(today))
	assert.Equal(t, testToday, today[0].TaskDate)
	assertDense(t, today)
}

func TestMoveTaskToOverdueIsNoop(t *testing.T) {
	backend := newFakeBackend()
	task := backend.seed(model.Task{Name: "a", TaskDate: testToday, DayOrder: 1})

	s := newTestStore(backend)
	require.NoError(t, s.Load(context.Background()))

	s.MoveTask(context.Background(), task.ID, OverdueKey, "")

	assert.Len(t, s.Day(testToday), 1)
	assert.Empty(t, backend.calls)
}

func TestMoveTaskMissingSource(t *testing.T) {
	backend := newFakeBackend()
	s := newTestStore(backend)
	require.NoError(t, s.Load(context.Background()))

	s.MoveTask(context.Background(), 42, testToday, "")

	assert.Empty(t, backend.calls)
}

func TestCompleteRecurringCreatesSuccessorOnce(t *testing.T) {
	backend := newFakeBackend()
	milk := backend.seed(model.Task{
		Name:           "Buy milk",
		Category:       "None",
		TaskDate:       testToday,
		DayOrder:       1,
		RepeatType:     model.RepeatEveryXDays,
		RepeatDuration: 1,
	})

	s := newTestStore(backend)
	require.NoError(t, s.Load(context.Background()))

	s.UpdateTask(context.Background(), milk.ID, "complete", true, testToday)

	tomorrow := s.Day(testTomorrow)
	require.Len(t, tomorrow, 1)
	assert.Equal(t, "Buy milk", tomorrow[0].Name)
	assert.Equal(t, model.RepeatEveryXDays, tomorrow[0].RepeatType)
	assert.False(t, tomorrow[0].Complete)

	// Invoking the completion handler again must not create a second copy.
	s.UpdateTask(context.Background(), milk.ID, "complete", true, testToday)

	assert.Len(t, s.Day(testTomorrow), 1)
	assert.Len(t, backend.tasks, 2)
}

func TestCompleteRecurringZeroMaskAborts(t *testing.T) {
	backend := newFakeBackend()
	task := backend.seed(model.Task{
		Name:           "stretch",
		TaskDate:       testToday,
		DayOrder:       1,
		RepeatType:     model.RepeatSpecificWeekdays,
		RepeatDuration: 0,
	})

	s := newTestStore(backend)
	require.NoError(t, s.Load(context.Background()))

	s.UpdateTask(context.Background(), task.ID, "complete", true, testToday)

	// The task completes but no successor appears anywhere.
	assert.Len(t, backend.tasks, 1)
	assert.Len(t, s.Completed(testToday), 1)
}

func TestFilterByCategory(t *testing.T) {
	tasks := []model.Task{
		{ID: 1, Category: "Work"},
		{ID: 2, Category: "Home"},
		{ID: 3, Category: "Work"},
	}

	assert.Len(t, FilterByCategory(tasks, ""), 3)
	assert.Equal(t, []int64{1, 3}, ids(FilterByCategory(tasks, "Work")))
	assert.Empty(t, FilterByCategory(tasks, "Garden"))
}

func ids(tasks []model.Task) []int64 {
	out := make([]int64, len(tasks))
	for i, task := range tasks {
		out[i] = task.ID
	}
	return out
}
