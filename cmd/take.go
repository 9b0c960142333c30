package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/bandprep/internal/content"
	"github.com/abhisek/bandprep/internal/screen"
	sessionscreen "github.com/abhisek/bandprep/internal/screens/session"
)

var takeCmd = &cobra.Command{
	Use:   "take <skill>",
	Short: "Start a test straight away (listening, reading, writing, speaking)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		skill, err := content.ParseSkill(args[0])
		if err != nil {
			return err
		}
		number, _ := cmd.Flags().GetInt("test")
		test, err := content.Load(skill, number)
		if err != nil {
			return fmt.Errorf("load test: %w", err)
		}

		return runApp(cmd, func(deps sessionscreen.Deps) screen.Screen {
			return sessionscreen.New(test, deps)
		})
	},
}

func init() {
	takeCmd.Flags().IntP("test", "t", 1, "Test number within the skill")
}
