// Package logging provides leveled logging configured via the DEBUG and
// LOG_LEVEL environment variables. All packages in this module log through
// it so that a single environment switch controls verbosity.
package logging
