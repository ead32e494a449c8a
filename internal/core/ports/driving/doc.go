// Package driving provides interfaces for inbound adapters (primary
// ports): the CLI, TUI, and MCP front ends all consume these.
package driving
