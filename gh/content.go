package gh

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"repo-export/model"
)

type contentResponse struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// FetchBlob downloads one file's raw bytes via the Contents API and
// decodes the base64 payload.
func (c *Client) FetchBlob(ctx context.Context, ref model.RepoRef, path string) ([]byte, error) {
	r := ref.Ref
	if r == "" {
		r = "HEAD"
	}

	body, err := c.get(ctx, fmt.Sprintf(
		"/repos/%s/%s/contents/%s?ref=%s",
		ref.Owner, ref.Name, escapePath(path), url.QueryEscape(r),
	))
	if err != nil {
		return nil, err
	}

	var content contentResponse
	if err := json.Unmarshal(body, &content); err != nil {
		return nil, fmt.Errorf("decoding content response for %s: %w", path, err)
	}

	if content.Encoding != "base64" {
		return nil, fmt.Errorf("unexpected encoding %q for %s", content.Encoding, path)
	}

	// The API wraps base64 payloads with newlines.
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(content.Content, "\n", ""))
	if err != nil {
		return nil, fmt.Errorf("decoding base64 content for %s: %w", path, err)
	}

	return decoded, nil
}

// escapePath escapes each path segment while keeping the separators.
func escapePath(path string) string {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}
