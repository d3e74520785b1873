// Command sib is a shared issue board for small teams: sign in, create
// issues, and watch the board update live as issues change.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Dworak0/Smart-Issue-Board/internal/identity"
	"github.com/Dworak0/Smart-Issue-Board/internal/store"
	"github.com/Dworak0/Smart-Issue-Board/internal/store/jsonl"
	"github.com/Dworak0/Smart-Issue-Board/internal/telemetry"
	"github.com/Dworak0/Smart-Issue-Board/internal/workspace"
)

// Version is stamped by the release build.
var Version = "dev"

var (
	jsonOutput bool
	dirFlag    string // workspace override (--dir)

	// Signal-aware context for graceful cancellation.
	rootCtx    context.Context
	rootCancel context.CancelFunc
)

var rootCmd = &cobra.Command{
	Use:           "sib",
	Short:         "Smart issue board",
	Long:          "sib is a shared issue board: create issues, track their status, and watch the board update in real time.",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := telemetry.Init(cmd.Context(), "sib", Version); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: telemetry init failed: %v\n", err)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		telemetry.Shutdown(ctx)
	},
}

func main() {
	rootCtx, rootCancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer rootCancel()

	if err := rootCmd.ExecuteContext(rootCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON")
	rootCmd.PersistentFlags().StringVar(&dirFlag, "dir", "", "Workspace directory (default: nearest .sib)")

	rootCmd.AddGroup(
		&cobra.Group{ID: "board", Title: "Board Commands:"},
		&cobra.Group{ID: "auth", Title: "Account Commands:"},
	)
}

// workspaceDir resolves the workspace directory from --dir or by walking up
// from the current directory.
func workspaceDir() (string, error) {
	if dirFlag != "" {
		return dirFlag, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return workspace.Find(cwd)
}

// openStore opens the issue store for the current workspace, wrapped with
// telemetry when enabled.
func openStore() (store.Store, string, error) {
	dir, err := workspaceDir()
	if err != nil {
		return nil, "", err
	}
	s, err := jsonl.Open(dir)
	if err != nil {
		return nil, "", err
	}
	return telemetry.WrapStore(s), dir, nil
}

// identityService returns the identity provider for the current workspace.
func identityService() (*identity.Service, error) {
	dir, err := workspaceDir()
	if err != nil {
		return nil, err
	}
	return identity.NewService(dir), nil
}

// loadConfig reads the workspace config into viper. Env vars with the SIB_
// prefix override file values (SIB_DEFAULT_PRIORITY, SIB_BOARD_LIMIT).
func loadConfig(dir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.SetEnvPrefix("SIB")
	v.AutomaticEnv()
	v.SetDefault("default_priority", "medium")
	v.SetDefault("board_limit", 0)
	if err := v.ReadInConfig(); err != nil {
		// A missing config file falls back to defaults.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return v, nil
}
