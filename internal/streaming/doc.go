// Package streaming serves file bytes over HTTP with byte-range support so
// players can seek without downloading whole files.
//
// Two properties matter here and are enforced in one place each:
//
//   - Path safety: every served path is canonicalized (symlinks resolved)
//     and must be equal to or a descendant of the canonical root. See
//     ResolveUnderRoot.
//   - Range semantics: a single "bytes=start-end" span, end optional and
//     clamped, start>end is a 416 with no bytes read, and anything outside
//     that grammar falls back to a full-file response instead of an error.
//     See ParseRange and ServeFileRange.
package streaming
