package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"todo-planner/internal/client"
)

var scratchpadCmd = &cobra.Command{
	Use:   "scratchpad",
	Short: "Read or write the scratchpad",
}

var scratchpadShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the scratchpad content",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(baseURL)
		pad, err := c.GetScratchpad(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(pad.Content)
		return nil
	},
}

var scratchpadSaveCmd = &cobra.Command{
	Use:   "save <content>",
	Short: "Replace the scratchpad content",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(baseURL)
		pad, err := c.SaveScratchpad(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Printf("Saved scratchpad (%d bytes)\n", len(pad.Content))
		return nil
	},
}

func init() {
	scratchpadCmd.AddCommand(scratchpadShowCmd, scratchpadSaveCmd)
}
