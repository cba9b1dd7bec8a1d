package model

// GitHubProfile is the subset of the user profile shown on the dashboard.
// Every field passes through as-is, null included.
type GitHubProfile struct {
	Name        *string `json:"name"`
	AvatarURL   *string `json:"avatar_url"`
	Followers   *int64  `json:"followers"`
	PublicRepos *int64  `json:"public_repos"`
}

// GitHubActivity is one remapped public event.
type GitHubActivity struct {
	ID        *string `json:"id"`
	Type      *string `json:"type"`
	Repo      *string `json:"repo"`
	Timestamp *string `json:"timestamp"`
	Message   string  `json:"message"`

	// Commits is only set for push events.
	Commits *int `json:"commits,omitempty"`
}

// GitHubRepository is the subset of a repository shown on the dashboard.
type GitHubRepository struct {
	ID              *int64  `json:"id"`
	Name            *string `json:"name"`
	FullName        *string `json:"full_name"`
	Description     *string `json:"description"`
	HTMLURL         *string `json:"html_url"`
	Language        *string `json:"language"`
	StargazersCount *int64  `json:"stargazers_count"`
	ForksCount      *int64  `json:"forks_count"`
	UpdatedAt       *string `json:"updated_at"`
}

// GitHubDashboard is the aggregated activity response. A failed section is
// null (profile) or empty (lists); it never fails the whole response.
type GitHubDashboard struct {
	Profile        *GitHubProfile     `json:"profile"`
	RecentActivity []GitHubActivity   `json:"recent_activity"`
	Repositories   []GitHubRepository `json:"repositories"`
}
