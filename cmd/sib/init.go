package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Dworak0/Smart-Issue-Board/internal/ui"
	"github.com/Dworak0/Smart-Issue-Board/internal/workspace"
)

var initCmd = &cobra.Command{
	Use:     "init",
	Short:   "Initialize a workspace in the current directory",
	GroupID: "board",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		dir, err := workspace.Init(cwd)
		if err != nil {
			if errors.Is(err, workspace.ErrExists) {
				fmt.Printf("Workspace already initialized at %s\n", filepath.Join(cwd, workspace.DirName))
				return nil
			}
			return err
		}
		if jsonOutput {
			return printJSON(map[string]string{"workspace": dir})
		}
		fmt.Printf("%s Initialized workspace at %s\n", ui.IconOk, dir)
		fmt.Println(ui.RenderMuted("Next: sib signup, then sib create"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
