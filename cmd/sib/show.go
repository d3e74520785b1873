package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Dworak0/Smart-Issue-Board/internal/store"
	"github.com/Dworak0/Smart-Issue-Board/internal/ui"
)

var showCmd = &cobra.Command{
	Use:     "show <id>",
	Short:   "Show one issue in full",
	GroupID: "board",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		issue, err := s.GetIssue(cmd.Context(), args[0])
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("issue %s not found", args[0])
			}
			return err
		}
		if jsonOutput {
			return printJSON(issue)
		}

		fmt.Println(ui.RenderHeader(fmt.Sprintf("%s: %s", issue.ID, issue.Title)))
		fmt.Printf("%s · %s\n", ui.RenderStatus(issue.Status), ui.RenderPriority(issue.Priority))
		if issue.AssignedTo != "" {
			fmt.Printf("Assignee: %s\n", issue.AssignedTo)
		}
		fmt.Printf("Created:  %s by %s\n", issue.CreatedAt.Local().Format("2006-01-02 15:04"), issue.CreatedBy)
		fmt.Println()
		fmt.Println(ui.RenderMarkdown(issue.Description))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
