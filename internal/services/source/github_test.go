package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/begehung/internal/common"
	"github.com/ternarybob/begehung/internal/services/form"
)

func newIssueServer(t *testing.T, wantAuth string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/site/issues/7", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, wantAuth, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"number":7,"title":"Begehung Nord","body":"### Ort / Baustelle\n\nNeubau Nord\n\n### PSA & Zutritt\n\n_No response_\n"}`))
	})
	mux.HandleFunc("/repos/acme/site/issues/8", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	})
	mux.HandleFunc("/repos/acme/site/issues/9", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"boom"}`, http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestGitHubIssueSource_Load(t *testing.T) {
	srv := newIssueServer(t, "Bearer secret")
	src, err := NewGitHubIssueSource(common.GitHubConfig{
		Owner: "acme", Repo: "site", Issue: 7, Token: "secret", BaseURL: srv.URL,
	}, arbor.NewLogger())
	require.NoError(t, err)

	doc, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "acme/site#7", doc.Source)
	assert.Equal(t, "Neubau Nord", form.Field(doc, "Ort / Baustelle"))
	assert.Empty(t, form.Field(doc, "PSA & Zutritt"))
}

func TestGitHubIssueSource_Anonymous(t *testing.T) {
	srv := newIssueServer(t, "")
	src, err := NewGitHubIssueSource(common.GitHubConfig{
		Owner: "acme", Repo: "site", Issue: 7, BaseURL: srv.URL + "/",
	}, arbor.NewLogger())
	require.NoError(t, err)

	_, err = src.Load(context.Background())
	require.NoError(t, err)
}

func TestGitHubIssueSource_NotFound(t *testing.T) {
	srv := newIssueServer(t, "")
	src, err := NewGitHubIssueSource(common.GitHubConfig{
		Owner: "acme", Repo: "site", Issue: 8, BaseURL: srv.URL,
	}, arbor.NewLogger())
	require.NoError(t, err)

	_, err = src.Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInputNotFound))
}

func TestGitHubIssueSource_ServerError(t *testing.T) {
	srv := newIssueServer(t, "")
	src, err := NewGitHubIssueSource(common.GitHubConfig{
		Owner: "acme", Repo: "site", Issue: 9, BaseURL: srv.URL,
	}, arbor.NewLogger())
	require.NoError(t, err)

	_, err = src.Load(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInputNotFound))
}

func TestNewGitHubIssueSource_RequiresIssue(t *testing.T) {
	_, err := NewGitHubIssueSource(common.GitHubConfig{Owner: "acme", Repo: "site"}, arbor.NewLogger())
	assert.Error(t, err)
}
