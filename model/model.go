package model

import "fmt"

// RepoRef identifies a GitHub repository at an optional reference.
// An empty Ref means the repository's default branch (HEAD).
type RepoRef struct {
	Owner string
	Name  string
	Ref   string
}

func (r RepoRef) String() string {
	return r.Owner + "/" + r.Name
}

// TreeEntry is a single blob from a recursive tree listing.
type TreeEntry struct {
	Path string
	Size int64
	SHA  string
}

// Outcome classifies what happened to a file during an export run.
type Outcome int

const (
	OutcomeOk Outcome = iota
	OutcomeSkipped
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOk:
		return "ok"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// FetchResult is the per-file result of an export run. Content is only
// set when Outcome is OutcomeOk; Reason explains a skip, Err a failure.
type FetchResult struct {
	Path    string
	Content []byte
	Outcome Outcome
	Reason  string
	Err     error
}
