package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/Dworak0/Smart-Issue-Board/internal/types"
)

// runCreateForm fills the issue in place from an interactive form. Fields
// already set by flags are used as the form's starting values.
func runCreateForm(issue *types.Issue) error {
	priorityStr := string(issue.Priority)
	if priorityStr == "" {
		priorityStr = string(types.PriorityMedium)
	}

	priorityOptions := []huh.Option[string]{
		huh.NewOption("High", string(types.PriorityHigh)),
		huh.NewOption("Medium (default)", string(types.PriorityMedium)),
		huh.NewOption("Low", string(types.PriorityLow)),
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Description("Brief summary of the issue (required)").
				Placeholder("e.g., Login page hangs on submit").
				Value(&issue.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title is required")
					}
					if len(s) > 500 {
						return fmt.Errorf("title must be 500 characters or less")
					}
					return nil
				}),

			huh.NewText().
				Title("Description").
				Description("What is wrong and what should happen instead (required)").
				Placeholder("Steps to reproduce, expected behavior...").
				CharLimit(5000).
				Value(&issue.Description).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("description is required")
					}
					return nil
				}),

			huh.NewSelect[string]().
				Title("Priority").
				Options(priorityOptions...).
				Value(&priorityStr),
		),

		huh.NewGroup(
			huh.NewInput().
				Title("Assignee").
				Description("Who should work on this? (optional)").
				Placeholder("email").
				Value(&issue.AssignedTo),

			huh.NewConfirm().
				Title("Create this issue?").
				Affirmative("Create").
				Negative("Cancel"),
		),
	).WithTheme(huh.ThemeDracula())

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return errors.New("issue creation cancelled")
		}
		return fmt.Errorf("form error: %w", err)
	}

	issue.Priority = types.Priority(priorityStr)
	return nil
}
