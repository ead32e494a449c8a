// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): storage, embeddings, language models, and
// transcript reading.
package driven
