package cli

import (
	"fmt"
	"os"

	"github.com/classroom-labs/coursechat-cli/internal/adapters/driven/embedding/ollama"
	"github.com/classroom-labs/coursechat-cli/internal/adapters/driven/embedding/openai"
	llmollama "github.com/classroom-labs/coursechat-cli/internal/adapters/driven/llm/ollama"

	"github.com/classroom-labs/coursechat-cli/internal/adapters/driven/llm/anthropic"
	"github.com/classroom-labs/coursechat-cli/internal/adapters/driven/storage/memory"
	"github.com/classroom-labs/coursechat-cli/internal/adapters/driven/storage/sqlite"
	"github.com/classroom-labs/coursechat-cli/internal/chunker"
	"github.com/classroom-labs/coursechat-cli/internal/core/ports/driven"
	"github.com/classroom-labs/coursechat-cli/internal/core/services"
	"github.com/classroom-labs/coursechat-cli/internal/normalisers/transcript"
)

// Configuration keys.
const (
	keyLLMProvider       = "llm.provider"
	keyLLMModel          = "llm.model"
	keyLLMBaseURL        = "llm.base_url"
	keyLLMAPIKey         = "llm.api_key"
	keyEmbeddingProvider = "embedding.provider"
	keyEmbeddingModel    = "embedding.model"
	keyEmbeddingBaseURL  = "embedding.base_url"
	keyEmbeddingAPIKey   = "embedding.api_key"
	keySearchTopK        = "search.top_k"
	keySessionHistory    = "session.max_history"
)

// openStore opens the SQLite-backed chunk store and catalog.
func openStore() (*sqlite.Store, error) {
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}
	return store, nil
}

// newEmbedder builds the configured embedding service.
// Provider defaults to OpenAI; the API key may come from the config store
// or the OPENAI_API_KEY environment variable.
func newEmbedder() (driven.EmbeddingService, error) {
	provider := configStore.GetString(keyEmbeddingProvider)
	switch provider {
	case "", "openai":
		apiKey := configStore.GetString(keyEmbeddingAPIKey)
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("no OpenAI API key: set %s or OPENAI_API_KEY", keyEmbeddingAPIKey)
		}
		return openai.NewEmbeddingService(openai.Config{
			APIKey:  apiKey,
			BaseURL: configStore.GetString(keyEmbeddingBaseURL),
			Model:   configStore.GetString(keyEmbeddingModel),
		})
	case "ollama":
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL: configStore.GetString(keyEmbeddingBaseURL),
			Model:   configStore.GetString(keyEmbeddingModel),
		}), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", provider)
	}
}

// newLLM builds the configured LLM client.
// Provider defaults to Anthropic; the API key may come from the config
// store or the ANTHROPIC_API_KEY environment variable.
func newLLM() (driven.LLMClient, error) {
	provider := configStore.GetString(keyLLMProvider)
	switch provider {
	case "", "anthropic":
		apiKey := configStore.GetString(keyLLMAPIKey)
		if apiKey == "" {
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("no Anthropic API key: set %s or ANTHROPIC_API_KEY", keyLLMAPIKey)
		}
		return anthropic.NewLLMClient(anthropic.Config{
			APIKey:  apiKey,
			BaseURL: configStore.GetString(keyLLMBaseURL),
			Model:   configStore.GetString(keyLLMModel),
		})
	case "ollama":
		return llmollama.NewLLMClient(llmollama.LLMConfig{
			BaseURL: configStore.GetString(keyLLMBaseURL),
			Model:   configStore.GetString(keyLLMModel),
		}), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", provider)
	}
}

// newEngine builds the retrieval engine over the given store.
func newEngine(store *sqlite.Store, embedder driven.EmbeddingService) *services.RetrievalEngine {
	return services.NewRetrievalEngine(
		store.CatalogStore(),
		store.ChunkStore(),
		embedder,
		configStore.GetInt(keySearchTopK),
	)
}

// newQueryService assembles the full question-answering pipeline: tool
// registry, orchestrator, in-process session store and RAG service.
func newQueryService(store *sqlite.Store) (*services.RAGService, error) {
	embedder, err := newEmbedder()
	if err != nil {
		return nil, err
	}
	llm, err := newLLM()
	if err != nil {
		return nil, err
	}

	engine := newEngine(store, embedder)

	registry := services.NewToolRegistry()
	if err := registry.Register(services.NewSearchTool(engine)); err != nil {
		return nil, fmt.Errorf("registering search tool: %w", err)
	}
	if err := registry.Register(services.NewOutlineTool(engine, store.CatalogStore())); err != nil {
		return nil, fmt.Errorf("registering outline tool: %w", err)
	}

	orchestrator := services.NewOrchestrator(llm, registry)
	sessions := memory.NewSessionStore(configStore.GetInt(keySessionHistory))

	return services.NewRAGService(orchestrator, sessions, store.CatalogStore()), nil
}

// newIngestService assembles the transcript ingestion pipeline.
func newIngestService(store *sqlite.Store) (*services.IngestService, error) {
	embedder, err := newEmbedder()
	if err != nil {
		return nil, err
	}

	return services.NewIngestService(
		transcript.New(),
		chunker.New(),
		embedder,
		store.ChunkStore(),
		store.CatalogStore(),
	), nil
}
