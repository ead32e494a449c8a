package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/classroom-labs/coursechat-cli/internal/core/ports/driving"
	"github.com/classroom-labs/coursechat-cli/internal/logger"
)

var (
	ingestForce bool
	ingestWatch bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Ingest course transcripts",
	Long: `Ingests a transcript file or a folder of .txt transcripts.

A course that is already ingested (matched by title) is skipped unless
--force is given, which deletes and rebuilds it. With --watch the folder
is monitored and changed transcripts are re-ingested until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVarP(&ingestForce, "force", "f", false, "rebuild courses that are already ingested")
	ingestCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false, "watch the folder and re-ingest on changes")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := args[0]

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	svc, err := newIngestService(store)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		if ingestWatch {
			return fmt.Errorf("--watch requires a folder, got file %s", path)
		}
		res, err := svc.IngestFile(cmd.Context(), path, ingestForce)
		if err != nil {
			return fmt.Errorf("ingest failed: %w", err)
		}
		printIngestResult(cmd, *res)
		return nil
	}

	results, err := svc.IngestFolder(cmd.Context(), path, ingestForce)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	for _, res := range results {
		printIngestResult(cmd, res)
	}

	if ingestWatch {
		return watchFolder(cmd, svc, path)
	}
	return nil
}

func printIngestResult(cmd *cobra.Command, res driving.IngestResult) {
	if res.Skipped {
		cmd.Printf("Skipped %q (already ingested)\n", res.CourseTitle)
		return
	}
	cmd.Printf("Ingested %q (%d chunks)\n", res.CourseTitle, res.ChunkCount)
}

// watchFolder re-ingests transcripts as they change. Events are debounced
// because editors emit several writes per save.
func watchFolder(cmd *cobra.Command, svc driving.IngestService, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	cmd.Printf("Watching %s for changes (Ctrl-C to stop)\n", dir)

	pending := make(map[string]struct{})
	var timer *time.Timer
	timerC := make(chan struct{}, 1)

	for {
		select {
		case <-cmd.Context().Done():
			return cmd.Context().Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !strings.EqualFold(filepath.Ext(event.Name), ".txt") {
				continue
			}
			pending[event.Name] = struct{}{}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(500*time.Millisecond, func() {
				select {
				case timerC <- struct{}{}:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)

		case <-timerC:
			for path := range pending {
				res, err := svc.IngestFile(context.Background(), path, true)
				if err != nil {
					logger.Warn("Re-ingest %s failed: %v", path, err)
					continue
				}
				printIngestResult(cmd, *res)
			}
			pending = make(map[string]struct{})
		}
	}
}
