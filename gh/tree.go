package gh

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/rs/zerolog/log"

	"repo-export/model"
)

type treeItem struct {
	Type string `json:"type"`
	Path string `json:"path"`
	SHA  string `json:"sha,omitempty"`
	Size int64  `json:"size,omitempty"`
}

type treeResponse struct {
	SHA       string     `json:"sha,omitempty"`
	Tree      []treeItem `json:"tree"`
	Truncated bool       `json:"truncated"`
}

// Walk lists every blob reachable from ref using the recursive Git Trees
// API, preserving the listing order. An empty ref resolves to HEAD.
// Should the listing repeat a path, the last entry wins and occupies the
// first occurrence's position.
func (c *Client) Walk(ctx context.Context, ref model.RepoRef) ([]model.TreeEntry, bool, error) {
	r := ref.Ref
	if r == "" {
		r = "HEAD"
	}

	body, err := c.get(ctx, fmt.Sprintf(
		"/repos/%s/%s/git/trees/%s?recursive=1",
		ref.Owner, ref.Name, url.PathEscape(r),
	))
	if err != nil {
		return nil, false, err
	}

	var tree treeResponse
	if err := json.Unmarshal(body, &tree); err != nil {
		return nil, false, fmt.Errorf("decoding tree listing for %s: %w", ref, err)
	}

	entries := make([]model.TreeEntry, 0, len(tree.Tree))
	seen := make(map[string]int)
	for _, item := range tree.Tree {
		if item.Type != "blob" {
			continue
		}
		entry := model.TreeEntry{Path: item.Path, Size: item.Size, SHA: item.SHA}
		if i, ok := seen[item.Path]; ok {
			entries[i] = entry
			continue
		}
		seen[item.Path] = len(entries)
		entries = append(entries, entry)
	}

	if tree.Truncated {
		log.Warn().
			Str("repo", ref.String()).
			Int("entries", len(entries)).
			Msg("tree listing truncated by the API")
	}

	return entries, tree.Truncated, nil
}
