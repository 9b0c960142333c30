package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/bandprep/internal/content"
	"github.com/abhisek/bandprep/internal/review"
)

var reviewCmd = &cobra.Command{
	Use:   "review <essay-file>",
	Short: "Ask the configured LLM to review an essay against a writing task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		number, _ := cmd.Flags().GetInt("test")
		printOnly, _ := cmd.Flags().GetBool("print")

		test, err := content.Load(content.Writing, number)
		if err != nil {
			return fmt.Errorf("load test: %w", err)
		}
		essay, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read essay: %w", err)
		}
		req := review.BuildRequest(test.Reference.Task, string(essay))
		if printOnly {
			fmt.Println(req.Text)
			return nil
		}

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		reviewer, err := rt.reviewer(cmd.Context())
		if err != nil {
			return fmt.Errorf("LLM provider not configured: %w", err)
		}
		text, err := reviewer.Review(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Println(text)
		return nil
	},
}

func init() {
	reviewCmd.Flags().IntP("test", "t", 1, "Writing test number the essay answers")
	reviewCmd.Flags().Bool("print", false, "Print the review request instead of sending it")
}
