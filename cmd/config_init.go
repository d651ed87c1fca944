package cmd

import (
	"errors"
	"fmt"
	"os"

	"biliblock/internal/config"

	"github.com/spf13/cobra"
)

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the Default profile and make it active",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.InitDefaultProfile()
		if errors.Is(err, os.ErrExist) {
			fmt.Println("Profile already exists at:")
			fmt.Println("  ", path)
			fmt.Println("Use `biliblock config reset` to recreate it.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to create Default profile: %w", err)
		}

		fmt.Println("Profile created at:", path)
		fmt.Println("This profile is now active (label: Default).")
		fmt.Println()
		config.DefaultConfig().Print()

		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
}
