// Package domain contains the core business entities of coursechat:
// courses, lessons, content chunks, search results, sources, and session
// exchanges. It has no dependencies on adapters or external services.
package domain
