// Package mcp provides an MCP (Model Context Protocol) server adapter for
// coursechat. It lets AI assistants search ingested course material and
// fetch course outlines.
package mcp

import "errors"

// ErrMissingEngine is returned when the retrieval engine is not provided.
var ErrMissingEngine = errors.New("mcp: retrieval engine is required")

// ErrMissingCatalog is returned when the catalog store is not provided.
var ErrMissingCatalog = errors.New("mcp: catalog store is required")
