// Package filter decides which tree entries are eligible for export.
// Decisions are pure functions of the entry so they can be tested in
// isolation; rules are evaluated in order and the first match wins.
package filter

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"repo-export/model"
)

// DefaultMaxFileSize is the inclusion threshold for file sizes.
const DefaultMaxFileSize = 1 << 20

// Decision is the outcome of filtering one entry. Reason is set when
// Include is false.
type Decision struct {
	Include bool
	Reason  string
}

var ignoredDirs = []string{
	".git",
	"node_modules",
	"vendor",
	"target",
	"dist",
	"build",
}

var ignoredNames = map[string]bool{
	".DS_Store": true,
}

var binaryExts = map[string]bool{
	".exe": true, ".dll": true, ".so": true, ".dylib": true, ".bin": true,
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".ico": true,
	".pdf": true, ".zip": true, ".tar": true, ".gz": true, ".tgz": true,
	".bz2": true, ".xz": true, ".rar": true, ".7z": true,
	".woff": true, ".woff2": true, ".ttf": true, ".otf": true,
	".class": true, ".pyc": true, ".o": true, ".a": true, ".wasm": true,
}

// Filter holds the exclusion configuration for a run.
type Filter struct {
	maxFileSize int64
	extra       []string
}

// New returns a Filter with the given size threshold and additional
// ignore patterns (matched against path base names with filepath.Match).
// A non-positive maxFileSize falls back to DefaultMaxFileSize.
func New(maxFileSize int64, extraPatterns []string) *Filter {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return &Filter{maxFileSize: maxFileSize, extra: extraPatterns}
}

// Decide applies the exclusion rules to a single entry: ignored
// directory first, then size, then binary extension.
func (f *Filter) Decide(entry model.TreeEntry) Decision {
	if dir, ok := underIgnoredDir(entry.Path); ok {
		return Decision{Reason: fmt.Sprintf("ignored directory %s", dir)}
	}
	if name := path.Base(entry.Path); ignoredNames[name] {
		return Decision{Reason: fmt.Sprintf("ignored file %s", name)}
	}
	if matched, pattern := f.matchesExtra(entry.Path); matched {
		return Decision{Reason: fmt.Sprintf("ignore pattern %s", pattern)}
	}
	if entry.Size > f.maxFileSize {
		return Decision{Reason: fmt.Sprintf("file too large (%d bytes)", entry.Size)}
	}
	if ext := strings.ToLower(path.Ext(entry.Path)); binaryExts[ext] {
		return Decision{Reason: fmt.Sprintf("binary file extension %s", ext)}
	}
	return Decision{Include: true}
}

func underIgnoredDir(p string) (string, bool) {
	for _, segment := range strings.Split(path.Dir(p), "/") {
		for _, dir := range ignoredDirs {
			if segment == dir {
				return dir, true
			}
		}
	}
	return "", false
}

func (f *Filter) matchesExtra(p string) (bool, string) {
	base := path.Base(p)
	for _, pattern := range f.extra {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true, pattern
		}
	}
	return false, ""
}

// IsBinary sniffs content that survived the extension rules. NUL bytes or
// a high ratio of non-printable characters in the first 512 bytes mark
// the content as binary.
func IsBinary(content []byte) bool {
	if len(content) == 0 {
		return false
	}

	nullCount := 0
	nonPrintable := 0
	checkSize := min(len(content), 512)
	for i := 0; i < checkSize; i++ {
		if content[i] == 0 {
			nullCount++
		} else if content[i] < 32 && content[i] != '\n' && content[i] != '\r' && content[i] != '\t' {
			nonPrintable++
		}
	}
	return nullCount > 0 || float64(nonPrintable)/float64(checkSize) > 0.3
}
