package filter_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"repo-export/filter"
	"repo-export/model"
)

func TestDecide(t *testing.T) {
	f := filter.New(filter.DefaultMaxFileSize, nil)

	tests := []struct {
		name    string
		entry   model.TreeEntry
		include bool
		reason  string
	}{
		{
			name:    "plain source file",
			entry:   model.TreeEntry{Path: "src/main.go", Size: 1200},
			include: true,
		},
		{
			name:   "node_modules excluded",
			entry:  model.TreeEntry{Path: "node_modules/x.js", Size: 10},
			reason: "ignored directory node_modules",
		},
		{
			name:   "nested ignored directory",
			entry:  model.TreeEntry{Path: "web/ui/node_modules/pkg/index.js", Size: 10},
			reason: "ignored directory node_modules",
		},
		{
			name:   "git internals excluded",
			entry:  model.TreeEntry{Path: ".git/config", Size: 10},
			reason: "ignored directory .git",
		},
		{
			name:   "oversized file excluded regardless of extension",
			entry:  model.TreeEntry{Path: "README.md", Size: 2 << 20},
			reason: fmt.Sprintf("file too large (%d bytes)", 2<<20),
		},
		{
			name:   "binary extension excluded",
			entry:  model.TreeEntry{Path: "bin/app.exe", Size: 10},
			reason: "binary file extension .exe",
		},
		{
			name:   "binary extension is case-insensitive",
			entry:  model.TreeEntry{Path: "photo.PNG", Size: 10},
			reason: "binary file extension .png",
		},
		{
			name:   "DS_Store excluded anywhere",
			entry:  model.TreeEntry{Path: "docs/.DS_Store", Size: 10},
			reason: "ignored file .DS_Store",
		},
		{
			name:    "file at exact threshold included",
			entry:   model.TreeEntry{Path: "data.csv", Size: filter.DefaultMaxFileSize},
			include: true,
		},
		{
			name:    "directory name in file is not a directory match",
			entry:   model.TreeEntry{Path: "docs/build.md", Size: 10},
			include: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := f.Decide(tt.entry)
			assert.Equal(t, tt.include, decision.Include)
			if !tt.include {
				assert.Equal(t, tt.reason, decision.Reason)
			}
		})
	}
}

// Ignored directories win over size so a 2 MB file under node_modules
// reports the directory reason.
func TestDecideRuleOrder(t *testing.T) {
	f := filter.New(filter.DefaultMaxFileSize, nil)

	decision := f.Decide(model.TreeEntry{Path: "node_modules/blob.bin", Size: 2 << 20})
	assert.False(t, decision.Include)
	assert.Equal(t, "ignored directory node_modules", decision.Reason)
}

func TestDecideExtraPatterns(t *testing.T) {
	f := filter.New(filter.DefaultMaxFileSize, []string{"*.lock", "secret.txt"})

	decision := f.Decide(model.TreeEntry{Path: "Cargo.lock", Size: 10})
	assert.False(t, decision.Include)
	assert.Equal(t, "ignore pattern *.lock", decision.Reason)

	decision = f.Decide(model.TreeEntry{Path: "conf/secret.txt", Size: 10})
	assert.False(t, decision.Include)

	decision = f.Decide(model.TreeEntry{Path: "conf/public.txt", Size: 10})
	assert.True(t, decision.Include)
}

func TestDecideCustomThreshold(t *testing.T) {
	f := filter.New(100, nil)

	assert.False(t, f.Decide(model.TreeEntry{Path: "a.txt", Size: 101}).Include)
	assert.True(t, f.Decide(model.TreeEntry{Path: "a.txt", Size: 100}).Include)
}

// Decide is deterministic: the same entry always yields the same decision.
func TestDecideDeterministic(t *testing.T) {
	f := filter.New(filter.DefaultMaxFileSize, []string{"*.tmp"})
	entry := model.TreeEntry{Path: "cache/session.tmp", Size: 42}

	first := f.Decide(entry)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, f.Decide(entry))
	}
}

func TestIsBinary(t *testing.T) {
	assert.False(t, filter.IsBinary([]byte("package main\n\nfunc main() {}\n")))
	assert.False(t, filter.IsBinary(nil))
	assert.False(t, filter.IsBinary([]byte("tabs\tand\r\nnewlines\n")))

	assert.True(t, filter.IsBinary([]byte{0x7f, 'E', 'L', 'F', 0, 0, 1}))
	assert.True(t, filter.IsBinary(bytes.Repeat([]byte{0x01}, 64)))
}

func BenchmarkDecide(b *testing.B) {
	f := filter.New(filter.DefaultMaxFileSize, []string{"*.lock"})
	entry := model.TreeEntry{Path: "src/components/Button/index.tsx", Size: 4096}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = f.Decide(entry)
	}
}

func BenchmarkIsBinary(b *testing.B) {
	content := bytes.Repeat([]byte("some plausible source text\n"), 40)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = filter.IsBinary(content)
	}
}
