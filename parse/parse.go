package parse

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"repo-export/model"
)

// ErrInvalidInput indicates the repository reference could not be parsed.
var ErrInvalidInput = errors.New("invalid repository reference")

// /owner/repo/tree/ref or /owner/repo/tree/ref/path
var treeRegex = regexp.MustCompile(`^/([^/]+)/([^/]+)/tree/([^/]+)`)

// RepoInput parses a repository reference in any of the accepted forms:
//
//	https://github.com/owner/repo
//	https://github.com/owner/repo/tree/branch
//	github.com/owner/repo
//	owner/repo
//
// A trailing .git suffix is stripped. The ref is empty unless the input
// carried a /tree/<ref> segment.
func RepoInput(input string) (model.RepoRef, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return model.RepoRef{}, fmt.Errorf("%w: empty input", ErrInvalidInput)
	}

	if strings.Contains(input, "://") {
		return parseURL(input)
	}
	if strings.HasPrefix(strings.ToLower(input), "github.com/") {
		return parseURL("https://" + input)
	}
	return parseOwnerRepo(input)
}

func parseURL(rawURL string) (model.RepoRef, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return model.RepoRef{}, fmt.Errorf("%w: %s", ErrInvalidInput, rawURL)
	}

	switch strings.ToLower(parsed.Host) {
	case "github.com", "www.github.com":
	default:
		return model.RepoRef{}, fmt.Errorf(
			"%w: unsupported host %q (only github.com is supported)",
			ErrInvalidInput, parsed.Host,
		)
	}

	if match := treeRegex.FindStringSubmatch(parsed.Path); len(match) == 4 {
		ref, err := url.QueryUnescape(match[3])
		if err != nil {
			ref = match[3]
		}
		return model.RepoRef{Owner: match[1], Name: match[2], Ref: ref}, nil
	}

	path := strings.TrimSuffix(strings.TrimSuffix(parsed.Path, "/"), ".git")
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return model.RepoRef{}, fmt.Errorf(
			"%w: %s\nExpected formats:\n"+
				"  https://github.com/owner/repo\n"+
				"  https://github.com/owner/repo/tree/branch",
			ErrInvalidInput, rawURL,
		)
	}

	return model.RepoRef{Owner: parts[0], Name: parts[1]}, nil
}

func parseOwnerRepo(input string) (model.RepoRef, error) {
	input = strings.TrimSuffix(input, ".git")
	parts := strings.Split(input, "/")
	if len(parts) != 2 {
		return model.RepoRef{}, fmt.Errorf(
			"%w: %q (expected 'owner/repo' or a GitHub URL)", ErrInvalidInput, input,
		)
	}

	owner := strings.TrimSpace(parts[0])
	name := strings.TrimSpace(parts[1])
	if owner == "" || name == "" {
		return model.RepoRef{}, fmt.Errorf(
			"%w: owner and repository name cannot be empty", ErrInvalidInput,
		)
	}

	return model.RepoRef{Owner: owner, Name: name}, nil
}

// OwnerRepo parses strict 'owner/repo' input, rejecting URLs.
func OwnerRepo(input string) (model.RepoRef, error) {
	input = strings.TrimSpace(input)
	if !strings.Contains(input, "/") || strings.Contains(input, "://") {
		return model.RepoRef{}, fmt.Errorf(
			"%w: %q (expected 'owner/repo')", ErrInvalidInput, input,
		)
	}
	return parseOwnerRepo(input)
}
