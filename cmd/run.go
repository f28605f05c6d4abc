package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/abhisek/proctor/internal/app"
	"github.com/abhisek/proctor/internal/explain"
	"github.com/abhisek/proctor/internal/llm"
	"github.com/spf13/cobra"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	studentID, err := resolveStudent(cmd)
	if err != nil {
		return err
	}
	quizzes, err := loadQuizzes(cmd)
	if err != nil {
		return err
	}
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	skipIntro, _ := cmd.Flags().GetBool("skip-intro")
	opts := app.Options{
		Quizzes:   quizzes,
		Store:     st,
		StudentID: studentID,
		SkipIntro: skipIntro,
	}

	// Authored explanations work without a provider.
	provider, err := llm.NewProviderFromEnv(ctx, st.EventRepo())
	if err != nil && !errors.Is(err, llm.ErrNotConfigured) {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Generated explanations will be unavailable.")
	}
	if err != nil {
		provider = nil
	}
	opts.Explainer = explain.NewService(provider, explain.DefaultConfig())

	return app.Run(opts)
}
