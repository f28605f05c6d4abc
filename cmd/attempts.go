package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/proctor/internal/quiz"
	"github.com/spf13/cobra"
)

var attemptsCmd = &cobra.Command{
	Use:   "attempts",
	Short: "List a student's graded attempts",
	RunE: func(cmd *cobra.Command, args []string) error {
		studentID, err := resolveStudent(cmd)
		if err != nil {
			return err
		}
		quizID, _ := cmd.Flags().GetString("quiz")
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		var attempts []quiz.Attempt
		if quizID != "" {
			attempts, err = s.AttemptRepo().ListForQuiz(ctx, studentID, quizID)
		} else {
			attempts, err = s.AttemptRepo().ListForStudent(ctx, studentID, limit)
		}
		if err != nil {
			return fmt.Errorf("list attempts: %w", err)
		}
		if len(attempts) == 0 {
			fmt.Println("No attempts found.")
			return nil
		}

		// Pass/fail is recomputed from the current quiz definitions when available.
		quizzes, qerr := loadQuizzes(cmd)
		if qerr != nil {
			quizzes = nil
		}

		fmt.Printf("%-36s  %-19s  %-20s  %3s  %5s  %4s  %s\n",
			"ID", "Completed", "Quiz", "#", "Score", "Mins", "Pass")
		fmt.Println(strings.Repeat("─", 104))
		for _, a := range attempts {
			fmt.Printf("%-36s  %-19s  %-20s  %3d  %4d%%  %4d  %s\n",
				a.ID,
				a.CompletedAt.Local().Format("2006-01-02 15:04:05"),
				truncate(a.QuizID, 20),
				a.AttemptNumber,
				a.Score,
				a.TimeTakenMinutes,
				passMark(quizzes, a),
			)
		}
		return nil
	},
}

func passMark(quizzes []*quiz.Quiz, a quiz.Attempt) string {
	qz, err := quiz.Find(quizzes, a.QuizID)
	if err != nil {
		return "?"
	}
	if a.Score >= qz.EffectivePassingScore() {
		return "✓"
	}
	return "✗"
}

func init() {
	attemptsCmd.Flags().String("quiz", "", "Only show attempts at this quiz")
	attemptsCmd.Flags().IntP("limit", "n", 20, "Number of attempts to show (ignored with --quiz)")
}
