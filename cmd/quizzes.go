package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/abhisek/proctor/internal/quiz"
	"github.com/spf13/cobra"
)

var quizzesCmd = &cobra.Command{
	Use:   "quizzes",
	Short: "List and validate quiz definition files",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := quizDir(cmd)
		paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
		if err != nil {
			return fmt.Errorf("list quiz files: %w", err)
		}
		if len(paths) == 0 {
			fmt.Printf("No quiz files in %s.\n", dir)
			return nil
		}

		course := flagOrEnv(cmd, "course", "PROCTOR_COURSE", "")
		fmt.Printf("%-24s  %-16s  %-32s  %4s  %5s  %5s  %s\n",
			"ID", "Course", "Title", "Qs", "Mins", "Tries", "Pass")
		fmt.Println(strings.Repeat("─", 100))

		var invalid int
		for _, p := range paths {
			qz, err := quiz.Load(p)
			if err != nil {
				invalid++
				fmt.Printf("✗ %s\n    %v\n", filepath.Base(p), err)
				continue
			}
			if course != "" && !strings.EqualFold(qz.CourseID, course) {
				continue
			}
			mins, tries := "-", "∞"
			if qz.Timed() {
				mins = fmt.Sprintf("%d", qz.TimeLimitMinutes)
			}
			if qz.MaxAttempts > 0 {
				tries = fmt.Sprintf("%d", qz.MaxAttempts)
			}
			fmt.Printf("%-24s  %-16s  %-32s  %4d  %5s  %5s  %d%%\n",
				truncate(qz.ID, 24), truncate(qz.CourseID, 16), truncate(qz.Title, 32),
				len(qz.Questions), mins, tries, qz.EffectivePassingScore())
		}

		if invalid > 0 {
			return fmt.Errorf("%d of %d quiz files are invalid", invalid, len(paths))
		}
		return nil
	},
}
