package gh

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repo-export/model"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("", WithBaseURL(srv.URL))
}

func TestWalk(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/owner/repo/git/trees/HEAD", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("recursive"))
		fmt.Fprint(w, `{
			"sha": "abc",
			"tree": [
				{"type": "tree", "path": "src"},
				{"type": "blob", "path": "README.md", "sha": "r1", "size": 10},
				{"type": "blob", "path": "src/main.go", "sha": "m1", "size": 120},
				{"type": "commit", "path": "sub"}
			],
			"truncated": false
		}`)
	}))

	entries, truncated, err := client.Walk(context.Background(), model.RepoRef{Owner: "owner", Name: "repo"})
	require.NoError(t, err)
	assert.False(t, truncated)
	assert.Equal(t, []model.TreeEntry{
		{Path: "README.md", Size: 10, SHA: "r1"},
		{Path: "src/main.go", Size: 120, SHA: "m1"},
	}, entries)
}

// A repeated path keeps the last listing entry in the first occurrence's
// position, so exactly one result per path reaches the fetcher.
func TestWalkDuplicatePathLastWins(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"tree": [
				{"type": "blob", "path": "a.txt", "sha": "old", "size": 1},
				{"type": "blob", "path": "b.txt", "sha": "b", "size": 2},
				{"type": "blob", "path": "a.txt", "sha": "new", "size": 3}
			]
		}`)
	}))

	entries, _, err := client.Walk(context.Background(), model.RepoRef{Owner: "o", Name: "r"})
	require.NoError(t, err)
	assert.Equal(t, []model.TreeEntry{
		{Path: "a.txt", Size: 3, SHA: "new"},
		{Path: "b.txt", Size: 2, SHA: "b"},
	}, entries)
}

func TestWalkExplicitRef(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/o/r/git/trees/v1.2.0", r.URL.Path)
		fmt.Fprint(w, `{"tree": [], "truncated": true}`)
	}))

	entries, truncated, err := client.Walk(context.Background(), model.RepoRef{Owner: "o", Name: "r", Ref: "v1.2.0"})
	require.NoError(t, err)
	assert.True(t, truncated)
	assert.Empty(t, entries)
}

func TestWalkNotFound(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "Not Found"}`, http.StatusNotFound)
	}))

	_, _, err := client.Walk(context.Background(), model.RepoRef{Owner: "o", Name: "missing"})
	assert.ErrorIs(t, err, ErrRepositoryNotFound)
}

func TestWalkRateLimitExhausted(t *testing.T) {
	requests := 0
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusForbidden)
	}))

	_, _, err := client.Walk(context.Background(), model.RepoRef{Owner: "o", Name: "r"})
	assert.ErrorIs(t, err, ErrRateLimitExceeded)
	assert.Equal(t, DefaultMaxRetries+1, requests)
}

func TestWalkRateLimitRecovers(t *testing.T) {
	requests := 0
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"tree": [{"type": "blob", "path": "a.txt", "size": 1}]}`)
	}))

	entries, _, err := client.Walk(context.Background(), model.RepoRef{Owner: "o", Name: "r"})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, 2, requests)
}

func TestFetchBlob(t *testing.T) {
	content := "package main\n\nfunc main() {}\n"
	// The API chunks base64 payloads with embedded newlines.
	encoded := base64.StdEncoding.EncodeToString([]byte(content))
	wrapped := encoded[:20] + "\n" + encoded[20:] + "\n"

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/o/r/contents/src/main.go", r.URL.Path)
		assert.Equal(t, "main", r.URL.Query().Get("ref"))
		fmt.Fprintf(w, `{"content": %q, "encoding": "base64"}`, wrapped)
	}))

	got, err := client.FetchBlob(context.Background(), model.RepoRef{Owner: "o", Name: "r", Ref: "main"}, "src/main.go")
	require.NoError(t, err)
	assert.Equal(t, content, string(got))
}

func TestFetchBlobUnexpectedEncoding(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"content": "", "encoding": "none"}`)
	}))

	_, err := client.FetchBlob(context.Background(), model.RepoRef{Owner: "o", Name: "r"}, "huge.dat")
	assert.ErrorContains(t, err, `unexpected encoding "none"`)
}

func TestFetchRepoInfo(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/o/r", r.URL.Path)
		fmt.Fprint(w, `{"private": true, "default_branch": "main"}`)
	}))

	info, err := client.FetchRepoInfo(context.Background(), "o", "r")
	require.NoError(t, err)
	assert.True(t, info.Private)
	assert.Equal(t, "main", info.DefaultBranch)
}

func TestFetchRepoInfoInvalidToken(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := client.FetchRepoInfo(context.Background(), "o", "r")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthorizationHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"private": false}`)
	}))
	defer srv.Close()

	client := NewClient("secret-token", WithBaseURL(srv.URL))
	_, err := client.FetchRepoInfo(context.Background(), "o", "r")
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret-token", gotAuth)
}

func TestEscapePath(t *testing.T) {
	assert.Equal(t, "docs/a%20b.md", escapePath("docs/a b.md"))
	assert.Equal(t, "plain/path.go", escapePath("plain/path.go"))
}
