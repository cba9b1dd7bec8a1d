// Package github reads a user's public profile, event feed and repositories
// from the GitHub REST API and remaps them into dashboard shapes.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/deppfellow/personal-dashboard/internal/lib/upstream"
	"github.com/deppfellow/personal-dashboard/internal/model"
)

const acceptHeader = "application/vnd.github.v3+json"

// Event types with a dedicated message.
const (
	EventPush        = "PushEvent"
	EventPullRequest = "PullRequestEvent"
	EventCreate      = "CreateEvent"
	EventFork        = "ForkEvent"
)

// DefaultMessage is the message of events without a dedicated rule.
const DefaultMessage = "No message available"

type Client struct {
	api     *upstream.Client
	baseURL string
}

func NewClient(httpClient upstream.Doer, baseURL string) *Client {
	return &Client{
		api:     upstream.New(httpClient, baseURL),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func headers(token string) http.Header {
	return http.Header{
		"Authorization": {"Bearer " + token},
		"Accept":        {acceptHeader},
	}
}

func userPath(username string, rest string) string {
	return "/users/" + url.PathEscape(username) + rest
}

// Profile fetches GET /users/{username}.
func (c *Client) Profile(ctx context.Context, username, token string) (*model.GitHubProfile, error) {
	var profile model.GitHubProfile
	if err := c.api.GetJSON(ctx, userPath(username, ""), nil, headers(token), &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Repositories fetches GET /users/{username}/repos.
func (c *Client) Repositories(ctx context.Context, username, token string) ([]model.GitHubRepository, error) {
	var repos []model.GitHubRepository
	if err := c.api.GetJSON(ctx, userPath(username, "/repos"), nil, headers(token), &repos); err != nil {
		return nil, err
	}
	if repos == nil {
		repos = []model.GitHubRepository{}
	}
	return repos, nil
}

// Event is one entry of the public event feed.
type Event struct {
	ID   *string `json:"id"`
	Type *string `json:"type"`
	Repo *struct {
		Name *string `json:"name"`
	} `json:"repo"`
	CreatedAt *string         `json:"created_at"`
	Payload   json.RawMessage `json:"payload"`
}

func (e Event) repoName() *string {
	if e.Repo == nil {
		return nil
	}
	return e.Repo.Name
}

// PublicEvents fetches GET /users/{username}/events/public and remaps every event.
// A known event type whose payload lacks a required field fails the whole feed.
func (c *Client) PublicEvents(ctx context.Context, username, token string) ([]model.GitHubActivity, error) {
	path := userPath(username, "/events/public")

	var events []Event
	if err := c.api.GetJSON(ctx, path, nil, headers(token), &events); err != nil {
		return nil, err
	}

	activity := make([]model.GitHubActivity, 0, len(events))
	for _, e := range events {
		a, err := RemapEvent(e)
		if err != nil {
			return nil, upstream.ShapeError(c.baseURL+path, err)
		}
		activity = append(activity, a)
	}

	return activity, nil
}

type pushPayload struct {
	Ref     *string           `json:"ref"`
	Commits []json.RawMessage `json:"commits"`
}

type pullRequestPayload struct {
	Action      *string `json:"action"`
	PullRequest *struct {
		Title *string `json:"title"`
	} `json:"pull_request"`
}

type createPayload struct {
	RefType *string `json:"ref_type"`
}

// RemapEvent turns an event into its activity entry.
//
//	PushEvent        "Pushed to <branch>" plus the commit count
//	PullRequestEvent "Pull Request <action>: <title>"
//	CreateEvent      "Created a new <ref_type>"
//	ForkEvent        "Forked <repo>"
//	anything else    DefaultMessage
func RemapEvent(e Event) (model.GitHubActivity, error) {
	a := model.GitHubActivity{
		ID:        e.ID,
		Type:      e.Type,
		Repo:      e.repoName(),
		Timestamp: e.CreatedAt,
		Message:   DefaultMessage,
	}

	if e.Type == nil {
		return a, nil
	}

	switch *e.Type {
	case EventPush:
		var p pushPayload
		if err := decodePayload(e.Payload, &p); err != nil {
			return a, err
		}
		if p.Ref == nil {
			return a, fmt.Errorf("%s %s: payload.ref missing", EventPush, deref(e.ID))
		}
		commits := len(p.Commits)
		a.Message = "Pushed to " + strings.TrimPrefix(*p.Ref, "refs/heads/")
		a.Commits = &commits

	case EventPullRequest:
		var p pullRequestPayload
		if err := decodePayload(e.Payload, &p); err != nil {
			return a, err
		}
		if p.Action == nil || p.PullRequest == nil || p.PullRequest.Title == nil {
			return a, fmt.Errorf("%s %s: payload.action or payload.pull_request.title missing", EventPullRequest, deref(e.ID))
		}
		a.Message = fmt.Sprintf("Pull Request %s: %s", *p.Action, *p.PullRequest.Title)

	case EventCreate:
		var p createPayload
		if err := decodePayload(e.Payload, &p); err != nil {
			return a, err
		}
		if p.RefType == nil {
			return a, fmt.Errorf("%s %s: payload.ref_type missing", EventCreate, deref(e.ID))
		}
		a.Message = "Created a new " + *p.RefType

	case EventFork:
		name := e.repoName()
		if name == nil {
			return a, fmt.Errorf("%s %s: repo.name missing", EventFork, deref(e.ID))
		}
		a.Message = "Forked " + *name
	}

	return a, nil
}

func decodePayload(raw json.RawMessage, out any) error {
	if len(raw) == 0 {
		return fmt.Errorf("payload missing")
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
