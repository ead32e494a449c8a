package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure providers, models and retrieval options.

Settings live in ~/.coursechat/config.toml. Keys use dot notation, e.g.:

  llm.provider        anthropic | ollama
  llm.model           model name for the provider
  embedding.provider  openai | ollama
  embedding.model     embedding model name
  search.top_k        number of chunks to retrieve
  session.max_history conversation exchanges to remember`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

var settingsUnsetCmd = &cobra.Command{
	Use:   "unset [key]",
	Short: "Remove a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsUnset,
}

var settingsSetKeyCmd = &cobra.Command{
	Use:   "set-key [llm|embedding]",
	Short: "Set a provider API key (prompted without echo)",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsSetKey,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsUnsetCmd)
	settingsCmd.AddCommand(settingsSetKeyCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	keys := configStore.Keys()
	if len(keys) == 0 {
		cmd.Println("No settings configured. Defaults are in effect:")
		cmd.Println("  llm.provider       = anthropic")
		cmd.Println("  embedding.provider = openai")
		cmd.Printf("\nConfig file: %s\n", configStore.Path())
		return nil
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	for _, key := range keys {
		val, _ := configStore.Get(key)
		if strings.HasSuffix(key, "api_key") {
			if s, ok := val.(string); ok {
				val = maskAPIKey(s)
			}
		}
		cmd.Printf("  %s = %v\n", key, val)
	}
	cmd.Printf("\nConfig file: %s\n", configStore.Path())
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	key, raw := args[0], args[1]

	// Store integers and booleans with their natural types so GetInt and
	// GetBool work on re-load.
	var value any = raw
	if n, err := strconv.Atoi(raw); err == nil {
		value = int64(n)
	} else if b, err := strconv.ParseBool(raw); err == nil {
		value = b
	}

	if err := configStore.Set(key, value); err != nil {
		return fmt.Errorf("saving setting: %w", err)
	}
	cmd.Printf("Set %s\n", key)
	return nil
}

func runSettingsUnset(cmd *cobra.Command, args []string) error {
	if err := configStore.Delete(args[0]); err != nil {
		return fmt.Errorf("removing setting: %w", err)
	}
	cmd.Printf("Removed %s\n", args[0])
	return nil
}

func runSettingsSetKey(cmd *cobra.Command, args []string) error {
	var key string
	switch args[0] {
	case "llm":
		key = keyLLMAPIKey
	case "embedding":
		key = keyEmbeddingAPIKey
	default:
		return fmt.Errorf("unknown provider %q: use llm or embedding", args[0])
	}

	cmd.Printf("Enter API key for %s: ", args[0])
	secret := readPassword()
	cmd.Println()
	if secret == "" {
		return fmt.Errorf("empty API key")
	}

	if err := configStore.Set(key, secret); err != nil {
		return fmt.Errorf("saving API key: %w", err)
	}
	cmd.Printf("Saved %s\n", key)
	return nil
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
