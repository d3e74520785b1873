package main

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/Dworak0/Smart-Issue-Board/internal/workspace"
)

// configKeys are the settings the workspace config file understands.
var configKeys = []string{"default_priority", "board_limit"}

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Get or set workspace settings",
	GroupID: "board",
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Show one setting, or all when no key is given",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := workspaceDir()
		if err != nil {
			return err
		}
		v, err := loadConfig(dir)
		if err != nil {
			return err
		}
		if len(args) == 1 {
			if !slices.Contains(configKeys, args[0]) {
				return fmt.Errorf("unknown config key %q (known: %v)", args[0], configKeys)
			}
			fmt.Println(v.Get(args[0]))
			return nil
		}
		if jsonOutput {
			out := make(map[string]any, len(configKeys))
			for _, key := range configKeys {
				out[key] = v.Get(key)
			}
			return printJSON(out)
		}
		for _, key := range configKeys {
			fmt.Printf("%s = %v\n", key, v.Get(key))
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if !slices.Contains(configKeys, key) {
			return fmt.Errorf("unknown config key %q (known: %v)", key, configKeys)
		}
		dir, err := workspaceDir()
		if err != nil {
			return err
		}
		v, err := loadConfig(dir)
		if err != nil {
			return err
		}
		v.Set(key, value)
		path := filepath.Join(dir, workspace.ConfigFileName)
		if err := v.WriteConfigAs(path); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}
		fmt.Printf("%s = %s\n", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configGetCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}
