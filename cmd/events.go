package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/proctor/internal/store"
	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List assessment session events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		quizID, _ := cmd.Flags().GetString("quiz")
		all, _ := cmd.Flags().GetBool("all")

		opts := store.QueryOpts{Limit: limit, QuizID: quizID}
		if !all {
			studentID, err := resolveStudent(cmd)
			if err != nil {
				return err
			}
			opts.StudentID = studentID
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QuerySessionEvents(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if len(events) == 0 {
			fmt.Println("No session events found.")
			return nil
		}

		fmt.Printf("%-7s  %-19s  %-14s  %-20s  %-16s  %3s  %5s  %s\n",
			"Seq", "Timestamp", "Student", "Quiz", "Action", "#", "Score", "Detail")
		fmt.Println(strings.Repeat("─", 110))
		for _, e := range events {
			fmt.Printf("%-7d  %-19s  %-14s  %-20s  %-16s  %3d  %4d%%  %s\n",
				e.Sequence,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				truncate(e.StudentID, 14),
				truncate(e.QuizID, 20),
				e.Action,
				e.AttemptNumber,
				e.Score,
				e.Detail,
			)
		}
		return nil
	},
}

func init() {
	eventsCmd.Flags().IntP("limit", "n", 30, "Number of events to show")
	eventsCmd.Flags().String("quiz", "", "Only show events for this quiz")
	eventsCmd.Flags().Bool("all", false, "Show events for every student")
}
