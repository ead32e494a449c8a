// Package file implements the configuration store port with a TOML file
// on disk. Values are kept flat under dot-notation keys and every write
// is persisted immediately.
package file
