package mediatypes

import (
	"path/filepath"
	"strings"
)

// DefaultVideoExtensions is the extension set used when no --extensions
// override is given. Extensions are lowercase and include the leading dot.
var DefaultVideoExtensions = []string{".mp4", ".mov", ".m4v", ".webm"}

// mimeTypes maps video file extensions to their MIME types. Extensions not
// listed here are served as video/mp4, which every player the feed targets
// will probe anyway.
var mimeTypes = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/x-m4v",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
	".mpeg": "video/mpeg",
	".mpg":  "video/mpeg",
	".3gp":  "video/3gpp",
	".ts":   "video/mp2t",
}

// Registry answers "is this a video file?" for the catalog builder and maps
// extensions to Content-Type values for the streamer.
type Registry struct {
	extensions map[string]bool
}

// NewRegistry builds a Registry from a list of extensions. Entries are
// normalized to lowercase with a leading dot; empty entries are ignored.
// A nil or empty list falls back to DefaultVideoExtensions.
func NewRegistry(extensions []string) *Registry {
	if len(extensions) == 0 {
		extensions = DefaultVideoExtensions
	}

	set := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = true
	}

	return &Registry{extensions: set}
}

// ParseExtensionList splits a comma-separated extension list as given on the
// command line (e.g. ".mp4,.mov,webm").
func ParseExtensionList(list string) []string {
	if strings.TrimSpace(list) == "" {
		return nil
	}
	parts := strings.Split(list, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// IsVideo reports whether the file name has a registered video extension.
// Matching is case-insensitive.
func (r *Registry) IsVideo(name string) bool {
	return r.extensions[strings.ToLower(filepath.Ext(name))]
}

// MimeType returns the Content-Type for a file name based on its extension.
func (r *Registry) MimeType(name string) string {
	if mime, ok := mimeTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return mime
	}
	return "video/mp4"
}

// Extensions returns the registered extensions in no particular order.
func (r *Registry) Extensions() []string {
	out := make([]string, 0, len(r.extensions))
	for ext := range r.extensions {
		out = append(out, ext)
	}
	return out
}
