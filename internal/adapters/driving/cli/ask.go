package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var askSession string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question about ingested courses",
	Long: `Asks one question and prints the answer with its sources.

The language model decides whether to search the ingested course content,
fetch a course outline, or answer from general knowledge. Pass --session
to continue a previous conversation.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askSession, "session", "", "session ID to continue a conversation")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	svc, err := newQueryService(store)
	if err != nil {
		return err
	}

	answer, err := svc.Query(cmd.Context(), args[0], askSession)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	cmd.Println(answer.Text)

	if len(answer.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for _, src := range answer.Sources {
			if src.Link != "" {
				cmd.Printf("  - %s (%s)\n", src.Text, src.Link)
			} else {
				cmd.Printf("  - %s\n", src.Text)
			}
		}
	}

	cmd.Println()
	cmd.Printf("Session: %s\n", answer.SessionID)
	return nil
}
