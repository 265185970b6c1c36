package streaming

import (
	"errors"
	"regexp"
	"strconv"
)

// Sentinel errors for streaming operations.
var (
	// ErrNotFound indicates the requested file does not resolve to a
	// regular file under the served root. Path escapes, dangling
	// symlinks and deleted files all surface as this error; clients see
	// a plain not-found either way.
	ErrNotFound = errors.New("file not found under root")

	// ErrRangeNotSatisfiable indicates a syntactically valid range whose
	// start lies beyond its (clamped) end. No bytes are read.
	ErrRangeNotSatisfiable = errors.New("requested range not satisfiable")

	// ErrMalformedRange indicates a Range header that does not match the
	// supported grammar. Callers fall back to serving the full file.
	ErrMalformedRange = errors.New("malformed range header")
)

// rangePattern is the supported Range grammar: a single "bytes=start-end"
// span with an optional end. Suffix ranges ("bytes=-500") and multi-range
// requests are deliberately not supported; they fall back to a full-file
// response rather than an error.
var rangePattern = regexp.MustCompile(`^bytes=(\d+)-(\d*)$`)

// ByteRange is an inclusive byte span within a file.
type ByteRange struct {
	Start int64
	End   int64
}

// Length returns the number of bytes the range covers.
func (b ByteRange) Length() int64 {
	return b.End - b.Start + 1
}

// ParseRange parses a Range header against a file of the given size.
// A missing end defaults to size-1 and any end past the file is clamped to
// size-1. It returns ErrMalformedRange for anything outside the grammar and
// ErrRangeNotSatisfiable when start exceeds the clamped end.
func ParseRange(header string, size int64) (ByteRange, error) {
	m := rangePattern.FindStringSubmatch(header)
	if m == nil {
		return ByteRange{}, ErrMalformedRange
	}

	start, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return ByteRange{}, ErrMalformedRange
	}

	end := size - 1
	if m[2] != "" {
		end, err = strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			return ByteRange{}, ErrMalformedRange
		}
		if end > size-1 {
			end = size - 1
		}
	}

	if start > end {
		return ByteRange{}, ErrRangeNotSatisfiable
	}

	return ByteRange{Start: start, End: end}, nil
}
