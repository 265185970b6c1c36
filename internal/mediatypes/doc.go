// Package mediatypes holds the registry of video file extensions the server
// indexes and the MIME types it streams them with.
package mediatypes
