package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/bandprep/internal/screens/history"
	"github.com/abhisek/bandprep/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past attempts",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		skill, _ := cmd.Flags().GetString("skill")

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		attempts, err := rt.store.JournalRepo().RecentAttempts(cmd.Context(), store.QueryOpts{Limit: limit, Skill: skill})
		if err != nil {
			return fmt.Errorf("query attempts: %w", err)
		}
		if len(attempts) == 0 {
			fmt.Println("No attempts yet.")
			return nil
		}

		fmt.Printf("%-16s  %-10s  %-4s  %-9s  %-22s  %s\n",
			"Completed", "Skill", "Test", "Status", "Outcome", "Submitted")
		fmt.Println(strings.Repeat("─", 80))
		for _, a := range attempts {
			fmt.Printf("%-16s  %-10s  %-4d  %-9s  %-22s  %s\n",
				a.CompletedAt.Local().Format("2006-01-02 15:04"),
				a.Skill,
				a.TestNumber,
				a.Status,
				history.Outcome(a.AttemptData),
				mark(a.Submitted),
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of attempts to show")
	historyCmd.Flags().StringP("skill", "s", "", "Filter by skill")
}
