package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/abhisek/proctor/internal/answer"
	"github.com/abhisek/proctor/internal/explain"
	"github.com/abhisek/proctor/internal/grading"
	"github.com/abhisek/proctor/internal/llm"
	"github.com/abhisek/proctor/internal/quiz"
	"github.com/abhisek/proctor/internal/store"
	"github.com/spf13/cobra"
)

var reviewCmd = &cobra.Command{
	Use:   "review <attempt-id>",
	Short: "Print a stored attempt graded against the current quiz definition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		withExplain, _ := cmd.Flags().GetBool("explain")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		a, err := s.AttemptRepo().Get(ctx, args[0])
		if store.IsNotFound(err) {
			return fmt.Errorf("attempt %s not found", args[0])
		}
		if err != nil {
			return fmt.Errorf("get attempt: %w", err)
		}

		dir := quizDir(cmd)
		quizzes, err := quiz.LoadDir(dir)
		if err != nil {
			return fmt.Errorf("load quizzes from %s: %w", dir, err)
		}
		qz, err := quiz.Find(quizzes, a.QuizID)
		if err != nil {
			return fmt.Errorf("quiz of attempt %s: %w", a.ID, err)
		}
		if len(a.Answers) != len(qz.Questions) {
			return fmt.Errorf("attempt %s stores %d answers but quiz %s has %d questions",
				a.ID, len(a.Answers), qz.ID, len(qz.Questions))
		}

		var svc *explain.Service
		if withExplain {
			provider, err := llm.NewProviderFromEnv(ctx, s.EventRepo())
			if err != nil && !errors.Is(err, llm.ErrNotConfigured) {
				fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
			}
			if err != nil {
				provider = nil
			}
			svc = explain.NewService(provider, explain.DefaultConfig())
		}

		values := answer.DecodeAll(qz, a.Answers)
		res := grading.Grade(qz, values)

		sep := strings.Repeat("─", 60)
		verdict := "NOT PASSED"
		if res.Passed {
			verdict = "PASSED"
		}
		fmt.Printf("Quiz:      %s (%s)\n", qz.Title, qz.ID)
		fmt.Printf("Student:   %s\n", a.StudentID)
		fmt.Printf("Attempt:   %d\n", a.AttemptNumber)
		fmt.Printf("Completed: %s\n", a.CompletedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("Time:      %d min\n", a.TimeTakenMinutes)
		fmt.Printf("Score:     %d%% (stored %d%%), %s at %d%%\n",
			res.ScorePercentage, a.Score, verdict, res.PassingScore)
		fmt.Printf("Correct:   %d of %d, %d/%d points\n",
			res.CorrectCount(), len(qz.Questions), res.EarnedPoints, res.TotalPoints)

		for i, q := range qz.Questions {
			mark := "✗"
			if res.Correct[i] {
				mark = "✓"
			}
			fmt.Println(sep)
			fmt.Printf("%s %d. %s\n", mark, i+1, q.Text)
			fmt.Printf("   Your answer:    %s\n", answer.Describe(q, values[i]))
			if !res.Correct[i] {
				fmt.Printf("   Correct answer: %s\n", answer.Describe(q, answer.Correct(q)))
			}
			if svc == nil {
				continue
			}
			exp, err := svc.Explain(ctx, qz, i, values[i], res.Correct[i])
			switch {
			case errors.Is(err, explain.ErrUnavailable):
			case err != nil:
				fmt.Printf("   (explanation failed: %v)\n", err)
			default:
				fmt.Printf("   %s\n", exp.Text)
				if exp.Tip != "" {
					fmt.Printf("   Tip: %s\n", exp.Tip)
				}
			}
		}
		fmt.Println(sep)
		if qz.RationaleVideoURL != "" {
			fmt.Printf("Rationale video: %s\n", qz.RationaleVideoURL)
		}
		return nil
	},
}

func init() {
	reviewCmd.Flags().Bool("explain", false, "Include an explanation per question (generated when not authored)")
}
