package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List ingested courses",
	RunE:  runCourses,
}

func init() {
	rootCmd.AddCommand(coursesCmd)
}

func runCourses(cmd *cobra.Command, _ []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	catalog := store.CatalogStore()
	titles, err := catalog.ListTitles(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing courses: %w", err)
	}

	if len(titles) == 0 {
		cmd.Println("No courses ingested yet. Run 'coursechat ingest <path>' first.")
		return nil
	}

	chunkCount, err := store.ChunkStore().Count(cmd.Context())
	if err != nil {
		return fmt.Errorf("counting chunks: %w", err)
	}

	cmd.Printf("Courses (%d total, %d chunks):\n", len(titles), chunkCount)
	for _, title := range titles {
		course, err := catalog.GetCourse(cmd.Context(), title)
		if err != nil {
			cmd.Printf("  - %s\n", title)
			continue
		}
		cmd.Printf("  - %s (%d lessons)\n", title, len(course.Lessons))
	}
	return nil
}
