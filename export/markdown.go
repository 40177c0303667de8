// Package export renders fetch results into a single Markdown document.
// Rendering is deterministic: identical input produces identical bytes,
// with the generation time injected by the caller.
package export

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"repo-export/model"
)

// Document is everything the Markdown renderer needs for one run.
type Document struct {
	Ref         model.RepoRef
	GeneratedAt time.Time
	Results     []model.FetchResult
}

type renderData struct {
	Repo           string
	GenerationDate string
	ExportedCount  int
	SkippedCount   int
	FailedCount    int
	TotalSize      int64
	Files          []fileSection
	Notices        []notice
}

type fileSection struct {
	Path     string
	Language string
	Fence    string
	Content  string
}

type notice struct {
	Path    string
	Message string
}

const markdownTemplate = `# Repository Export: {{.Repo}}

Generated on: {{.GenerationDate}}

## Overview
- Exported Files: {{.ExportedCount}}
- Skipped: {{.SkippedCount}}
- Failed: {{.FailedCount}}
- Total Size: {{.TotalSize}} bytes
{{range .Files}}
## {{.Path}}

{{.Fence}}{{.Language}}
{{.Content}}
{{.Fence}}
{{end}}{{if .Notices}}
## Excluded Files
{{range .Notices}}
- ` + "`{{.Path}}`" + `: {{.Message}}{{end}}
{{end}}`

var tmpl = template.Must(template.New("markdown").Parse(markdownTemplate))

// Render writes the document as Markdown. Ok results become fenced code
// sections in input order; Skipped and Failed results become one-line
// notices. Errors never leak the access token because the gh package
// reports paths and HTTP statuses only.
func Render(w io.Writer, doc *Document) error {
	data := renderData{
		Repo:           doc.Ref.String(),
		GenerationDate: doc.GeneratedAt.Format(time.RFC3339),
	}

	for _, result := range doc.Results {
		switch result.Outcome {
		case model.OutcomeOk:
			content := strings.TrimRight(string(result.Content), "\n")
			data.TotalSize += int64(len(result.Content))
			data.Files = append(data.Files, fileSection{
				Path:     result.Path,
				Language: detectLanguage(result.Path),
				Fence:    fenceFor(content),
				Content:  content,
			})
		case model.OutcomeSkipped:
			data.SkippedCount++
			data.Notices = append(data.Notices, notice{
				Path:    result.Path,
				Message: fmt.Sprintf("skipped (%s)", result.Reason),
			})
		case model.OutcomeFailed:
			data.FailedCount++
			data.Notices = append(data.Notices, notice{
				Path:    result.Path,
				Message: fmt.Sprintf("failed (%v)", result.Err),
			})
		}
	}
	data.ExportedCount = len(data.Files)

	return tmpl.Execute(w, data)
}

// fenceFor widens the code fence past any backtick run in the content so
// embedded Markdown cannot break out of its section.
func fenceFor(content string) string {
	longest := 0
	run := 0
	for _, r := range content {
		if r == '`' {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	if longest < 3 {
		return "```"
	}
	return strings.Repeat("`", longest+1)
}
