package service

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"todo-planner/internal/model"
	"todo-planner/internal/repository"
)

// ReminderService builds human-readable summaries for daily notifications.
type ReminderService struct {
	taskRepo *repository.TaskRepository
}

func NewReminderService(taskRepo *repository.TaskRepository) *ReminderService {
	return &ReminderService{taskRepo: taskRepo}
}

// DailySummary renders an HTML digest of overdue and today's tasks.
func (s *ReminderService) DailySummary(ctx context.Context, now time.Time) (string, error) {
	tasks, err := s.taskRepo.ListAll(ctx)
	if err != nil {
		return "", err
	}

	today := now.Format(model.DateLayout)

	var overdue []model.Task
	var todays []model.Task
	doneToday := 0

	for _, task := range tasks {
		switch {
		case task.TaskDate < today && !task.Complete:
			overdue = append(overdue, task)
		case task.TaskDate == today && task.Complete:
			doneToday++
		case task.TaskDate == today:
			todays = append(todays, task)
		}
	}

	sort.SliceStable(overdue, func(i, j int) bool {
		if overdue[i].TaskDate != overdue[j].TaskDate {
			return overdue[i].TaskDate < overdue[j].TaskDate
		}
		return overdue[i].DayOrder < overdue[j].DayOrder
	})
	sort.SliceStable(todays, func(i, j int) bool {
		return todays[i].DayOrder < todays[j].DayOrder
	})

	var builder strings.Builder
	builder.WriteString("📋 <b>Daily plan</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n\n", now.Format("02.01.2006")))

	builder.WriteString("⚠️ <b>Overdue</b>\n")
	if len(overdue) == 0 {
		builder.WriteString("— nothing overdue\n")
	} else {
		for _, task := range overdue {
			builder.WriteString(formatOverdue(task))
		}
	}

	builder.WriteString("\n🔥 <b>Today</b>\n")
	if len(todays) == 0 {
		builder.WriteString("— nothing scheduled\n")
	} else {
		for _, task := range todays {
			builder.WriteString(formatToday(task))
		}
	}

	if doneToday > 0 {
		builder.WriteString(fmt.Sprintf("\n✅ Done today: %d\n", doneToday))
	}

	return strings.TrimSpace(builder.String()), nil
}

func formatOverdue(task model.Task) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("⚠️ %s", taskLabel(task)))
	sb.WriteString(fmt.Sprintf("\n   ⏰ since %s", task.TaskDate))
	sb.WriteByte('\n')
	return sb.String()
}

func formatToday(task model.Task) string {
	var sb strings.Builder

	icon := "🟢"
	if task.InProgress {
		icon = "⏳"
	}
	sb.WriteString(fmt.Sprintf("%s %s", icon, taskLabel(task)))

	if task.AssignedTime != nil && *task.AssignedTime != "" {
		sb.WriteString(fmt.Sprintf(" · ⏱ %s", *task.AssignedTime))
	}
	if task.Repeats() {
		sb.WriteString(" ♻️")
	}

	sb.WriteByte('\n')
	return sb.String()
}

func taskLabel(task model.Task) string {
	label := html.EscapeString(strings.TrimSpace(task.Name))

	if cat := strings.TrimSpace(task.Category); cat != "" && cat != "None" {
		label += fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(cat))
	}
	if task.Priority > 0 {
		label += fmt.Sprintf(" · P%d", task.Priority)
	}
	return label
}
