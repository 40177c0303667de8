package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// OutputFilename builds the export filename for a repository.
func OutputFilename(repoName string, at time.Time) string {
	return fmt.Sprintf("%s_repo_export_%s.md", repoName, at.Format("20060102_150405"))
}

// WriteDocument renders the document into dir under its timestamped
// filename and returns the written path.
func WriteDocument(dir string, doc *Document) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating output directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, OutputFilename(doc.Ref.Name, doc.GeneratedAt))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("error creating output file %s: %w", path, err)
	}
	defer f.Close()

	if err := Render(f, doc); err != nil {
		return "", fmt.Errorf("error rendering document: %w", err)
	}

	return path, nil
}
