package cli

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"todo-planner/internal/client"
	"todo-planner/internal/model"
	"todo-planner/internal/store"
)

var listCategory string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks grouped by date",
	RunE:  runList,
}

var (
	addDate     string
	addCategory string
	addPriority int
	addRepeat   string
	addEvery    int
	addLongTerm bool
)

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdd,
}

var completeCmd = &cobra.Command{
	Use:   "complete <id>",
	Short: "Mark a task complete",
	Args:  cobra.ExactArgs(1),
	RunE:  runComplete,
}

var updateCmd = &cobra.Command{
	Use:   "update <id> <field> <value>",
	Short: "Patch a single task field",
	Args:  cobra.ExactArgs(3),
	RunE:  runUpdate,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var moveAfter string

var moveCmd = &cobra.Command{
	Use:   "move <id> <date>",
	Short: "Move a task to another day",
	Long:  `Move a task to the given date. With --after, the task lands immediately below the named task; otherwise it goes to the top of the day.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runMove,
}

func init() {
	listCmd.Flags().StringVar(&listCategory, "category", "", "only show tasks in this project")

	addCmd.Flags().StringVar(&addDate, "date", time.Now().Format(model.DateLayout), "task date (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&addCategory, "category", "None", "project name")
	addCmd.Flags().IntVar(&addPriority, "priority", 0, "priority 0-4")
	addCmd.Flags().StringVar(&addRepeat, "repeat", model.RepeatNone, "repeat type")
	addCmd.Flags().IntVar(&addEvery, "every", 0, "repeat interval or weekday mask")
	addCmd.Flags().BoolVar(&addLongTerm, "long-term", false, "mark as long term")

	moveCmd.Flags().StringVar(&moveAfter, "after", "", "id of the task to insert after")
}

func runList(cmd *cobra.Command, args []string) error {
	st := store.New(client.New(baseURL))
	if err := st.Load(cmd.Context()); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\t#\tNAME\tCATEGORY\tSTATUS")

	printTasks(w, "overdue", store.FilterByCategory(st.Overdue(), listCategory))
	for _, date := range st.Dates() {
		printTasks(w, date, store.FilterByCategory(st.Day(date), listCategory))
	}

	return w.Flush()
}

func printTasks(w *tabwriter.Writer, label string, tasks []model.Task) {
	for _, task := range tasks {
		status := "open"
		switch {
		case task.Complete:
			status = "done"
		case task.InProgress:
			status = "in progress"
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%s\n",
			task.ID, label, task.DayOrder, task.Name, task.Category, status)
	}
}

func runAdd(cmd *cobra.Command, args []string) error {
	c := client.New(baseURL)
	task, err := c.Add(cmd.Context(), client.AddParams{
		Name:           args[0],
		Category:       addCategory,
		TaskDate:       addDate,
		Priority:       addPriority,
		RepeatType:     addRepeat,
		RepeatDuration: addEvery,
		LongTerm:       addLongTerm,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Created task %d on %s\n", task.ID, task.TaskDate)
	return nil
}

func runComplete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	c := client.New(baseURL)
	task, err := c.UpdateField(cmd.Context(), id, "complete", "true")
	if err != nil {
		return err
	}
	fmt.Printf("Completed task %d: %s\n", task.ID, task.Name)
	return nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	c := client.New(baseURL)
	task, err := c.UpdateField(cmd.Context(), id, args[1], args[2])
	if err != nil {
		return err
	}
	fmt.Printf("Updated task %d\n", task.ID)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	c := client.New(baseURL)
	wasComplete, err := c.Delete(cmd.Context(), id)
	if err != nil {
		return err
	}
	if wasComplete {
		fmt.Printf("Deleted completed task %d\n", id)
	} else {
		fmt.Printf("Deleted task %d\n", id)
	}
	return nil
}

func runMove(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	st := store.New(client.New(baseURL))
	if err := st.Load(cmd.Context()); err != nil {
		return err
	}
	st.MoveTask(cmd.Context(), id, args[1], moveAfter)

	fmt.Printf("Moved task %d to %s\n", id, args[1])
	return nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", raw)
	}
	return id, nil
}
