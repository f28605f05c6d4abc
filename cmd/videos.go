package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var videosCmd = &cobra.Command{
	Use:   "videos",
	Short: "Record and list watched course videos",
}

var videosCompleteCmd = &cobra.Command{
	Use:   "complete <video-id>...",
	Short: "Mark videos as watched for a student and course",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		studentID, course, err := videoScope(cmd)
		if err != nil {
			return err
		}
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		for _, id := range args {
			if err := s.VideoRepo().MarkComplete(cmd.Context(), studentID, course, id); err != nil {
				return fmt.Errorf("mark %s complete: %w", id, err)
			}
		}
		fmt.Printf("Marked %d video(s) watched for %s in %s.\n", len(args), studentID, course)
		return nil
	},
}

var videosListCmd = &cobra.Command{
	Use:   "list",
	Short: "List watched videos for a student and course",
	RunE: func(cmd *cobra.Command, args []string) error {
		studentID, course, err := videoScope(cmd)
		if err != nil {
			return err
		}
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ids, err := s.VideoRepo().Completed(cmd.Context(), studentID, course)
		if err != nil {
			return fmt.Errorf("list videos: %w", err)
		}
		if len(ids) == 0 {
			fmt.Println("No watched videos recorded.")
			return nil
		}
		for _, id := range ids {
			fmt.Println(id)
		}
		return nil
	},
}

// videoScope resolves the student and course; video completion is per course.
func videoScope(cmd *cobra.Command) (string, string, error) {
	studentID, err := resolveStudent(cmd)
	if err != nil {
		return "", "", err
	}
	course := flagOrEnv(cmd, "course", "PROCTOR_COURSE", "")
	if course == "" {
		return "", "", fmt.Errorf("no course: pass --course or set PROCTOR_COURSE")
	}
	return studentID, course, nil
}

func init() {
	videosCmd.AddCommand(videosCompleteCmd)
	videosCmd.AddCommand(videosListCmd)
}
