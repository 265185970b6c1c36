// Package middleware provides HTTP middleware for request logging (W3C
// Extended Log Format), Prometheus metrics collection, and gzip response
// compression. Streaming routes bypass compression since media bytes are
// already compressed and must not be buffered.
package middleware
