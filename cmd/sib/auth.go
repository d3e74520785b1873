package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Dworak0/Smart-Issue-Board/internal/identity"
	"github.com/Dworak0/Smart-Issue-Board/internal/ui"
)

var passwordFlag string

var signupCmd = &cobra.Command{
	Use:     "signup <email>",
	Short:   "Create an account and sign in",
	GroupID: "auth",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := identityService()
		if err != nil {
			return err
		}
		password, err := resolvePassword("Password: ")
		if err != nil {
			return err
		}
		if err := svc.SignUp(cmd.Context(), args[0], password); err != nil {
			if errors.Is(err, identity.ErrUserExists) {
				return fmt.Errorf("%s is already registered (try 'sib login')", args[0])
			}
			return err
		}
		fmt.Printf("%s Signed up as %s\n", ui.IconOk, strings.ToLower(strings.TrimSpace(args[0])))
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:     "login <email>",
	Short:   "Sign in to an existing account",
	GroupID: "auth",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := identityService()
		if err != nil {
			return err
		}
		password, err := resolvePassword("Password: ")
		if err != nil {
			return err
		}
		if err := svc.SignIn(cmd.Context(), args[0], password); err != nil {
			return err
		}
		fmt.Printf("%s Signed in as %s\n", ui.IconOk, strings.ToLower(strings.TrimSpace(args[0])))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:     "logout",
	Short:   "Sign out",
	GroupID: "auth",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := identityService()
		if err != nil {
			return err
		}
		if err := svc.SignOut(); err != nil {
			return err
		}
		fmt.Println("Signed out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Short:   "Show the signed-in user",
	GroupID: "auth",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := identityService()
		if err != nil {
			return err
		}
		user, err := svc.Current(cmd.Context())
		if err != nil {
			if errors.Is(err, identity.ErrUnauthenticated) {
				fmt.Println("Not signed in")
				return nil
			}
			return err
		}
		if jsonOutput {
			return printJSON(user)
		}
		fmt.Println(user.Email)
		return nil
	},
}

// resolvePassword returns --password when given, otherwise prompts on the
// terminal without echo.
func resolvePassword(prompt string) (string, error) {
	if passwordFlag != "" {
		return passwordFlag, nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", errors.New("no terminal for password prompt (use --password)")
	}
	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(raw), nil
}

func init() {
	for _, cmd := range []*cobra.Command{signupCmd, loginCmd} {
		cmd.Flags().StringVar(&passwordFlag, "password", "", "Password (prompted when omitted)")
	}
	rootCmd.AddCommand(signupCmd, loginCmd, logoutCmd, whoamiCmd)
}
