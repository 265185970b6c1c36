// Package startup handles configuration loading, build metadata, and the
// structured startup/shutdown logging sequence.
package startup
