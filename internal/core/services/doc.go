// Package services implements the core use cases: retrieval over the
// course corpus, the model-callable tools, the two-phase query
// orchestration, session-aware question answering, and transcript
// ingestion. Services depend only on ports, never on adapters.
package services
