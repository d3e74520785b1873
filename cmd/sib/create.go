package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Dworak0/Smart-Issue-Board/internal/identity"
	"github.com/Dworak0/Smart-Issue-Board/internal/livesync"
	"github.com/Dworak0/Smart-Issue-Board/internal/match"
	"github.com/Dworak0/Smart-Issue-Board/internal/store"
	"github.com/Dworak0/Smart-Issue-Board/internal/telemetry"
	"github.com/Dworak0/Smart-Issue-Board/internal/types"
	"github.com/Dworak0/Smart-Issue-Board/internal/ui"
)

// maxDuplicatesShown bounds the warning list so a noisy title does not
// flood the terminal.
const maxDuplicatesShown = 3

var createFlags struct {
	description string
	priority    string
	assign      string
	form        bool
	yes         bool
}

var createCmd = &cobra.Command{
	Use:     "create [title]",
	Short:   "Create an issue",
	GroupID: "board",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, dir, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		user, err := identity.NewService(dir).Current(cmd.Context())
		if err != nil {
			if errors.Is(err, identity.ErrUnauthenticated) {
				return errors.New("creating issues requires signing in first (sib login)")
			}
			return err
		}

		issue := &types.Issue{
			Description: createFlags.description,
			AssignedTo:  createFlags.assign,
			CreatedBy:   user.Email,
		}
		if len(args) == 1 {
			issue.Title = args[0]
		}
		if createFlags.priority != "" {
			p, err := types.ParsePriority(createFlags.priority)
			if err != nil {
				return err
			}
			issue.Priority = p
		} else {
			v, err := loadConfig(dir)
			if err != nil {
				return err
			}
			if p, err := types.ParsePriority(v.GetString("default_priority")); err == nil {
				issue.Priority = p
			}
		}

		if createFlags.form {
			if err := runCreateForm(issue); err != nil {
				return err
			}
		}
		if issue.Title == "" {
			return errors.New("a title is required (pass one or use --form)")
		}

		ok, err := confirmDespiteDuplicates(cmd.Context(), s, issue.Title)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Aborted.")
			return nil
		}

		id, err := s.CreateIssue(cmd.Context(), issue)
		if err != nil {
			return err
		}
		telemetry.CountIssueCreated(cmd.Context())
		if jsonOutput {
			return printJSON(issue)
		}
		printCreatedIssue(id, issue)
		return nil
	},
}

// confirmDespiteDuplicates checks the recent feed for similar titles and, when
// any are found, asks the user to confirm. --yes skips the prompt but still
// prints the warning.
func confirmDespiteDuplicates(ctx context.Context, s store.Store, title string) (bool, error) {
	recent, err := s.QueryIssues(ctx, store.QueryOptions{Limit: livesync.RecentFeedLimit})
	if err != nil {
		return false, err
	}
	similar := match.FindSimilar(title, recent)
	if len(similar) == 0 {
		return true, nil
	}
	if len(similar) > maxDuplicatesShown {
		similar = similar[:maxDuplicatesShown]
	}
	fmt.Println(ui.RenderWarn(fmt.Sprintf("%s Possible duplicates:", ui.IconWarn)))
	for _, dup := range similar {
		fmt.Printf("  %s  %s  %s\n", dup.ID, ui.RenderStatus(dup.Status), truncate(dup.Title, 60))
	}
	if createFlags.yes {
		return true, nil
	}
	fmt.Print("Create anyway? [y/N] ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func printCreatedIssue(id string, issue *types.Issue) {
	green := color.New(color.FgGreen, color.Bold)
	green.Printf("%s Created %s", ui.IconOk, id)
	fmt.Printf(": %s\n", issue.Title)
	fmt.Printf("  %s · %s\n", ui.RenderStatus(issue.Status), ui.RenderPriority(issue.Priority))
}

func init() {
	createCmd.Flags().StringVarP(&createFlags.description, "description", "d", "", "Issue description")
	createCmd.Flags().StringVarP(&createFlags.priority, "priority", "p", "", "Priority (low, medium, high)")
	createCmd.Flags().StringVarP(&createFlags.assign, "assign", "a", "", "Assignee email")
	createCmd.Flags().BoolVar(&createFlags.form, "form", false, "Fill in the issue interactively")
	createCmd.Flags().BoolVarP(&createFlags.yes, "yes", "y", false, "Skip the duplicate confirmation prompt")
	rootCmd.AddCommand(createCmd)
}
