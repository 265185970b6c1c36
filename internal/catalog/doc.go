// Package catalog defines the video catalog model: entries with stable
// content-derived ids, the directory walker that builds a catalog from a
// root, and the JSON sidecar cache that persists one between runs.
//
// A Catalog is an immutable snapshot. Rebuilds construct a complete new
// value and the library package swaps it in atomically, so concurrent
// readers never observe a half-built catalog.
package catalog
