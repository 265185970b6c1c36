// Package handlers implements the HTTP API: the paginated feed, search
// suggestions, folder listing, reindexing, id-addressed video streaming,
// path-addressed file serving, and the health/version/metrics endpoints.
//
// Handlers read from the library's current catalog snapshot and never hold
// locks across a request.
package handlers
