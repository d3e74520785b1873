package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Dworak0/Smart-Issue-Board/internal/store"
	"github.com/Dworak0/Smart-Issue-Board/internal/types"
	"github.com/Dworak0/Smart-Issue-Board/internal/ui"
	"github.com/Dworak0/Smart-Issue-Board/internal/workflow"
)

var statusCmd = &cobra.Command{
	Use:     "status <id> <status>",
	Short:   "Change an issue's status",
	Long:    "Change an issue's status. Open issues must pass through In Progress before they can be marked Done.",
	GroupID: "board",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		requested, err := types.ParseStatus(args[1])
		if err != nil {
			return err
		}
		issue, err := s.GetIssue(cmd.Context(), args[0])
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("issue %s not found", args[0])
			}
			return err
		}
		if issue.Status == requested {
			fmt.Printf("%s is already %s\n", issue.ID, requested.Display())
			return nil
		}
		if err := workflow.Transition(cmd.Context(), s, issue.ID, issue.Status, requested); err != nil {
			if errors.Is(err, workflow.ErrTransitionRejected) {
				fmt.Println(ui.RenderWarn(fmt.Sprintf("%s %v", ui.IconWarn, err)))
				fmt.Println(ui.RenderMuted(fmt.Sprintf("Move it to In Progress first: sib status %s in_progress", issue.ID)))
			}
			return err
		}
		if jsonOutput {
			return printJSON(map[string]string{"id": issue.ID, "status": string(requested)})
		}
		fmt.Printf("%s %s: %s → %s\n", ui.IconOk, issue.ID, ui.RenderStatus(issue.Status), ui.RenderStatus(requested))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
