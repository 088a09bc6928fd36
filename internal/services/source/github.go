package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v57/github"
	"github.com/ternarybob/arbor"
	"golang.org/x/oauth2"

	"github.com/ternarybob/begehung/internal/common"
	"github.com/ternarybob/begehung/internal/interfaces"
	"github.com/ternarybob/begehung/internal/models"
)

// GitHubIssueSource reads the form from the body of a GitHub issue created
// with the inspection issue template.
type GitHubIssueSource struct {
	client *github.Client
	owner  string
	repo   string
	number int
	logger arbor.ILogger
}

// Compile-time assertion
var _ interfaces.FormSource = (*GitHubIssueSource)(nil)

// NewGitHubIssueSource creates an issue source. The token is optional for
// public repositories.
func NewGitHubIssueSource(config common.GitHubConfig, logger arbor.ILogger) (*GitHubIssueSource, error) {
	if !config.Enabled() {
		return nil, fmt.Errorf("github issue source requires owner, repo and issue number")
	}

	var httpClient *http.Client
	if config.Token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: config.Token},
		)
		httpClient = oauth2.NewClient(context.Background(), ts)
	}
	client := github.NewClient(httpClient)

	if config.BaseURL != "" {
		base, err := url.Parse(strings.TrimSuffix(config.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid github base url %q: %w", config.BaseURL, err)
		}
		client.BaseURL = base
	}

	return &GitHubIssueSource{
		client: client,
		owner:  config.Owner,
		repo:   config.Repo,
		number: config.Issue,
		logger: logger,
	}, nil
}

// Describe returns the issue reference as owner/repo#number
func (s *GitHubIssueSource) Describe() string {
	return fmt.Sprintf("%s/%s#%d", s.owner, s.repo, s.number)
}

// Load fetches the issue body
func (s *GitHubIssueSource) Load(ctx context.Context) (models.FormDocument, error) {
	issue, resp, err := s.client.Issues.Get(ctx, s.owner, s.repo, s.number)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return models.FormDocument{}, fmt.Errorf("%w: issue %s", ErrInputNotFound, s.Describe())
		}
		return models.FormDocument{}, fmt.Errorf("failed to fetch issue %s: %w", s.Describe(), err)
	}

	s.logger.Debug().
		Str("issue", s.Describe()).
		Str("title", issue.GetTitle()).
		Int("bytes", len(issue.GetBody())).
		Msg("Form loaded from issue")

	return models.NewFormDocument(s.Describe(), issue.GetBody()), nil
}
