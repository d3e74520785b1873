package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Dworak0/Smart-Issue-Board/internal/filter"
	"github.com/Dworak0/Smart-Issue-Board/internal/identity"
	"github.com/Dworak0/Smart-Issue-Board/internal/livesync"
	"github.com/Dworak0/Smart-Issue-Board/internal/store"
	"github.com/Dworak0/Smart-Issue-Board/internal/timeparsing"
	"github.com/Dworak0/Smart-Issue-Board/internal/types"
	"github.com/Dworak0/Smart-Issue-Board/internal/ui"
)

var boardFlags struct {
	status       string
	priority     string
	mine         bool
	search       string
	createdAfter string
	limit        int
	watch        bool
}

var boardCmd = &cobra.Command{
	Use:     "board",
	Aliases: []string{"list", "ls"},
	Short:   "Show the issue board",
	GroupID: "board",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, dir, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		state, err := buildFilterState(cmd.Context(), dir)
		if err != nil {
			return err
		}
		var after time.Time
		if boardFlags.createdAfter != "" {
			after, err = timeparsing.Parse(boardFlags.createdAfter, time.Now())
			if err != nil {
				return fmt.Errorf("parsing --created-after: %w", err)
			}
		}
		limit := boardFlags.limit
		if !cmd.Flags().Changed("limit") {
			v, err := loadConfig(dir)
			if err != nil {
				return err
			}
			limit = v.GetInt("board_limit")
		}

		render := func(issues []*types.Issue) {
			// A neutral state filters nothing; skip the pass.
			if !state.Neutral() {
				issues = filter.Apply(issues, state)
			}
			issues = dropCreatedBefore(issues, after)
			if limit > 0 && len(issues) > limit {
				issues = issues[:limit]
			}
			if jsonOutput {
				if err := printJSON(issues); err != nil {
					warnf("encoding output: %v", err)
				}
				return
			}
			renderBoard(issues)
		}

		if boardFlags.watch {
			sub, err := livesync.Subscribe(cmd.Context(), s, livesync.Options{}, func(snap livesync.Snapshot) {
				fmt.Print("\033[2J\033[H") // clear screen between snapshots
				render(snap)
				fmt.Println(ui.RenderMuted("Watching for changes (Ctrl-C to stop)"))
			})
			if err != nil {
				return err
			}
			defer sub.Cancel()
			<-cmd.Context().Done()
			return nil
		}

		issues, err := s.QueryIssues(cmd.Context(), store.QueryOptions{})
		if err != nil {
			return err
		}
		render(issues)
		return nil
	},
}

// buildFilterState translates the board flags into a filter state, resolving
// the signed-in user when --mine is set.
func buildFilterState(ctx context.Context, dir string) (filter.State, error) {
	var state filter.State
	if boardFlags.status != "" {
		st, err := types.ParseStatus(boardFlags.status)
		if err != nil {
			return state, err
		}
		state.Status = string(st)
	}
	if boardFlags.priority != "" {
		p, err := types.ParsePriority(boardFlags.priority)
		if err != nil {
			return state, err
		}
		state.Priority = string(p)
	}
	state.SearchText = boardFlags.search
	if boardFlags.mine {
		user, err := identity.NewService(dir).Current(ctx)
		if err != nil {
			if errors.Is(err, identity.ErrUnauthenticated) {
				return state, errors.New("--mine requires signing in first (sib login)")
			}
			return state, err
		}
		state.OnlyMine = true
		state.CurrentUserEmail = user.Email
	}
	return state, nil
}

func dropCreatedBefore(issues []*types.Issue, after time.Time) []*types.Issue {
	if after.IsZero() {
		return issues
	}
	kept := issues[:0:0]
	for _, issue := range issues {
		if issue.CreatedAt.After(after) {
			kept = append(kept, issue)
		}
	}
	return kept
}

var boardHeaderStyle = lipgloss.NewStyle().Bold(true)

func renderBoard(issues []*types.Issue) {
	if len(issues) == 0 {
		fmt.Println(ui.RenderMuted("No issues match."))
		return
	}
	fmt.Println(boardHeaderStyle.Render(fmt.Sprintf("%-12s %-12s %-8s %-20s %s", "ID", "STATUS", "PRI", "ASSIGNEE", "TITLE")))
	for _, issue := range issues {
		assignee := issue.AssignedTo
		if assignee == "" {
			assignee = "-"
		}
		fmt.Printf("%-12s %-12s %-8s %-20s %s\n",
			issue.ID,
			ui.RenderStatus(issue.Status),
			ui.RenderPriority(issue.Priority),
			truncate(assignee, 20),
			truncate(issue.Title, 60))
	}
	fmt.Println(ui.RenderMuted(fmt.Sprintf("%d issue(s)", len(issues))))
}

// truncate shortens s to max runes, never splitting a multi-byte rune.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return strings.TrimSpace(string(runes[:max-1])) + "…"
}

func init() {
	boardCmd.Flags().StringVar(&boardFlags.status, "status", "", "Filter by status (open, in_progress, done)")
	boardCmd.Flags().StringVar(&boardFlags.priority, "priority", "", "Filter by priority (low, medium, high)")
	boardCmd.Flags().BoolVar(&boardFlags.mine, "mine", false, "Only issues assigned to me")
	boardCmd.Flags().StringVar(&boardFlags.search, "search", "", "Full-text search over title and description")
	boardCmd.Flags().StringVar(&boardFlags.createdAfter, "created-after", "", "Only issues created after a time (2d, 1w, 2026-01-02, \"last monday\")")
	boardCmd.Flags().IntVar(&boardFlags.limit, "limit", 0, "Maximum issues to show (0 = config default)")
	boardCmd.Flags().BoolVarP(&boardFlags.watch, "watch", "w", false, "Keep running and re-render on changes")
	rootCmd.AddCommand(boardCmd)
}
