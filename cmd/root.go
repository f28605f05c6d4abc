package cmd

import (
	"fmt"
	"os"

	"github.com/abhisek/proctor/internal/quiz"
	"github.com/abhisek/proctor/internal/store"
	"github.com/spf13/cobra"
)

// defaultQuizDir is used when neither --quizzes nor PROCTOR_QUIZ_DIR is set.
const defaultQuizDir = "quizzes"

var rootCmd = &cobra.Command{
	Use:   "proctor",
	Short: "Timed quizzes in the terminal",
	Long:  "Proctor runs timed, attempt-limited course quizzes and keeps a history of every graded attempt.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides PROCTOR_DB env var)")
	rootCmd.PersistentFlags().String("quizzes", "", "Directory of quiz definition files (overrides PROCTOR_QUIZ_DIR env var)")
	rootCmd.PersistentFlags().String("student", "", "Student ID (overrides PROCTOR_STUDENT env var)")
	rootCmd.PersistentFlags().String("course", "", "Only show quizzes of this course (overrides PROCTOR_COURSE env var)")
	rootCmd.Flags().Bool("skip-intro", false, "Skip the welcome screen")

	rootCmd.AddCommand(quizzesCmd)
	rootCmd.AddCommand(attemptsCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(videosCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// flagOrEnv returns the named flag if set, then the env var, then fallback.
func flagOrEnv(cmd *cobra.Command, flag, env, fallback string) string {
	if v, _ := cmd.Flags().GetString(flag); v != "" {
		return v
	}
	if v := os.Getenv(env); v != "" {
		return v
	}
	return fallback
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then PROCTOR_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

func resolveStudent(cmd *cobra.Command) (string, error) {
	id := flagOrEnv(cmd, "student", "PROCTOR_STUDENT", os.Getenv("USER"))
	if id == "" {
		return "", fmt.Errorf("no student ID: pass --student or set PROCTOR_STUDENT")
	}
	return id, nil
}

func quizDir(cmd *cobra.Command) string {
	return flagOrEnv(cmd, "quizzes", "PROCTOR_QUIZ_DIR", defaultQuizDir)
}

// loadQuizzes loads the quiz directory, filtered to --course when given.
func loadQuizzes(cmd *cobra.Command) ([]*quiz.Quiz, error) {
	dir := quizDir(cmd)
	quizzes, err := quiz.LoadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("load quizzes from %s: %w", dir, err)
	}
	return quiz.ForCourse(quizzes, flagOrEnv(cmd, "course", "PROCTOR_COURSE", "")), nil
}
