package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"gorm.io/gorm"

	"todo-planner/internal/model"
	"todo-planner/internal/repository"
)

// OperationResult is the wire shape returned by add and update calls.
// Status is "Added" or "Updated" on success, an "Error: ..." string
// otherwise; Item carries the saved task when the call succeeded.
type OperationResult struct {
	Status string      `json:"status"`
	Item   *model.Task `json:"item"`
}

// GroupedTasks is the bulk-fetch response: every task keyed by its date.
type GroupedTasks struct {
	ItemsByDate map[string][]model.Task `json:"itemsByDate"`
}

// AddInput represents data required to create a task.
type AddInput struct {
	Name           string
	Category       string
	TaskDate       string
	Priority       int
	RepeatType     string
	RepeatDuration int
	LongTerm       bool
}

// TaskService wraps task-related business logic.
type TaskService struct {
	repo *repository.TaskRepository
	now  func() time.Time
}

func NewTaskService(repo *repository.TaskRepository) *TaskService {
	return &TaskService{repo: repo, now: time.Now}
}

// GroupedByDate returns all tasks grouped by task date. Clients rely on
// the JSON object keys being sorted ascending, which encoding/json
// guarantees for string-keyed maps.
func (s *TaskService) GroupedByDate(ctx context.Context) (*GroupedTasks, error) {
	tasks, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]model.Task)
	for _, task := range tasks {
		grouped[task.TaskDate] = append(grouped[task.TaskDate], task)
	}

	return &GroupedTasks{ItemsByDate: grouped}, nil
}

// ListAll returns the flat task list.
func (s *TaskService) ListAll(ctx context.Context) ([]model.Task, error) {
	return s.repo.ListAll(ctx)
}

// AddTask creates a task at the end of its date bucket.
func (s *TaskService) AddTask(ctx context.Context, input AddInput) (OperationResult, error) {
	if input.Name == "" {
		return OperationResult{}, fmt.Errorf("name is required")
	}
	if _, err := time.Parse(model.DateLayout, input.TaskDate); err != nil {
		return OperationResult{}, fmt.Errorf("parse task date: %w", err)
	}

	count, err := s.repo.CountByDate(ctx, input.TaskDate)
	if err != nil {
		return OperationResult{}, err
	}

	repeatType := input.RepeatType
	if repeatType == "" {
		repeatType = model.RepeatNone
	}

	task := model.Task{
		Name:           input.Name,
		Category:       input.Category,
		TaskDate:       input.TaskDate,
		DayOrder:       int(count) + 1,
		Priority:       input.Priority,
		RepeatType:     repeatType,
		RepeatDuration: input.RepeatDuration,
		LongTerm:       input.LongTerm,
	}

	if err := s.repo.Create(ctx, &task); err != nil {
		return OperationResult{}, err
	}

	log.Printf("[info] created task %d on %s", task.ID, task.TaskDate)
	return OperationResult{Status: "Added", Item: &task}, nil
}

// UpdateTaskField patches a single field given its string value, the
// same generic contract the web client uses. Unknown ids and bad values
// are reported through the result status rather than an error.
func (s *TaskService) UpdateTaskField(ctx context.Context, id int64, field, value string) (OperationResult, error) {
	task, err := s.repo.FindByID(ctx, id)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		log.Printf("[warn] update of unknown task %d", id)
		return OperationResult{Status: "Error: Item not found"}, nil
	case err != nil:
		return OperationResult{}, fmt.Errorf("find task: %w", err)
	}

	if err := s.applyField(task, field, value); err != nil {
		if errors.Is(err, errInvalidField) {
			log.Printf("[warn] invalid field update attempted: %s", field)
			return OperationResult{Status: "Error: Invalid field"}, nil
		}
		return OperationResult{Status: "Error: " + err.Error()}, nil
	}

	if err := s.repo.Save(ctx, task); err != nil {
		return OperationResult{}, err
	}

	log.Printf("[info] updated task %d field %s", id, field)
	return OperationResult{Status: "Updated", Item: task}, nil
}

// DeleteTask removes a task and reports whether it had been complete.
// Unknown ids delete nothing and report false.
func (s *TaskService) DeleteTask(ctx context.Context, id int64) (bool, error) {
	task, err := s.repo.FindByID(ctx, id)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		log.Printf("[warn] delete of unknown task %d", id)
		return false, nil
	case err != nil:
		return false, fmt.Errorf("find task: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return false, err
	}

	log.Printf("[info] deleted task %d", id)
	return task.Complete, nil
}

var errInvalidField = errors.New("invalid field")

func (s *TaskService) applyField(task *model.Task, field, value string) error {
	switch field {
	case "taskName":
		task.Name = value
	case "category":
		task.Category = value
	case "taskDate":
		if _, err := time.Parse(model.DateLayout, value); err != nil {
			return fmt.Errorf("parse task date: %w", err)
		}
		task.TaskDate = value
	case "dayOrder":
		order, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("parse day order: %w", err)
		}
		task.DayOrder = order
	case "complete":
		complete, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("parse complete: %w", err)
		}
		task.Complete = complete
		if complete {
			// Stamp the completion wall-clock time for display.
			at := s.now().Format(model.TimeLayout)
			task.AssignedTime = &at
		}
	case "priority":
		priority, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("parse priority: %w", err)
		}
		task.Priority = priority
	case "repeatType":
		switch value {
		case model.RepeatNone, model.RepeatEveryXDays, model.RepeatEveryXWeeks,
			model.RepeatEveryXMonths, model.RepeatSpecificWeekdays:
			task.RepeatType = value
		default:
			return fmt.Errorf("unknown repeat type %q", value)
		}
	case "repeatDuration":
		duration, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("parse repeat duration: %w", err)
		}
		task.RepeatDuration = duration
	case "assignedTime":
		if value == "null" {
			task.AssignedTime = nil
			break
		}
		if _, err := time.Parse(model.TimeLayout, value); err != nil {
			return fmt.Errorf("parse assigned time: %w", err)
		}
		task.AssignedTime = &value
	case "inProgress":
		inProgress, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("parse in progress: %w", err)
		}
		task.InProgress = inProgress
	case "longTerm":
		longTerm, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("parse long term: %w", err)
		}
		task.LongTerm = longTerm
	case "timeTaken":
		taken, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("parse time taken: %w", err)
		}
		task.TimeTaken = taken
	default:
		return errInvalidField
	}
	return nil
}
