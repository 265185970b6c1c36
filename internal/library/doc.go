// Package library holds the live catalog behind an atomic pointer and
// coordinates cache-or-build startup and explicit synchronous reindexing.
package library
