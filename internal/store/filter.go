package store

import "todo-planner/internal/model"

// FilterByCategory returns the tasks visible under a project filter.
// An empty filter shows everything; otherwise only tasks whose category
// matches survive. Drag indices are reported against lists filtered
// this way, which is what CalculatePredecessor corrects for.
func FilterByCategory(tasks []model.Task, category string) []model.Task {
	if category == "" {
		return copyTasks(tasks)
	}
	var out []model.Task
	for _, task := range tasks {
		if task.Category == category {
			out = append(out, task)
		}
	}
	return out
}
