// Package memory provides in-memory implementations of the storage ports:
// chunk store, course catalog, and session store. The chunk and catalog
// stores back tests and ephemeral runs; the session store is the canonical
// session implementation since sessions are process-local by design.
package memory
