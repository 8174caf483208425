package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var baseURL string

var rootCmd = &cobra.Command{
	Use:   "todoctl",
	Short: "Command-line client for the todo planner backend",
	Long:  `todoctl talks to a running todoserver instance: list, add, complete, reorder and delete tasks, or read and write the scratchpad.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", defaultBaseURL(), "backend base URL")
	rootCmd.AddCommand(listCmd, addCmd, completeCmd, updateCmd, deleteCmd, moveCmd, scratchpadCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func defaultBaseURL() string {
	if v := os.Getenv("TODO_BASE_URL"); v != "" {
		return v
	}
	return "http://localhost:8080"
}
