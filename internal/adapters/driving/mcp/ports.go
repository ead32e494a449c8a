package mcp

import (
	"github.com/classroom-labs/coursechat-cli/internal/core/ports/driven"
	"github.com/classroom-labs/coursechat-cli/internal/core/services"
)

// Ports aggregates the core dependencies required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Engine performs filtered vector search over course content.
	Engine *services.RetrievalEngine

	// Catalog serves course metadata for outlines and listings.
	Catalog driven.CatalogStore
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Engine == nil {
		return ErrMissingEngine
	}
	if p.Catalog == nil {
		return ErrMissingCatalog
	}
	return nil
}
