package config

import (
	"fmt"
	"os"
)

// Names of the per-request credentials.
const (
	SecretGitHubPAT      = "GITHUB_PAT"
	SecretGitHubUsername = "GITHUB_USERNAME"
	SecretNewsAPIKey     = "NEWS_API_KEY"
	SecretWeatherAPIKey  = "WEATHER_API_KEY"
)

// SecretSource resolves a credential by name. An empty result means absent.
//
// Handlers look secrets up on every request and never cache them, so rotating
// a credential does not require a restart.
type SecretSource interface {
	Lookup(name string) string
}

// EnvSecrets reads credentials straight from the process environment.
type EnvSecrets struct{}

func (EnvSecrets) Lookup(name string) string {
	return os.Getenv(name)
}

// StaticSecrets is a fixed set of credentials, used by tests and tooling.
type StaticSecrets map[string]string

func (s StaticSecrets) Lookup(name string) string {
	return s[name]
}

// MissingSecretError reports a credential that is not configured.
type MissingSecretError struct {
	Name string
}

func (e *MissingSecretError) Error() string {
	return fmt.Sprintf("%s is not set", e.Name)
}

// RequireSecret returns the named credential or a *MissingSecretError.
func RequireSecret(src SecretSource, name string) (string, error) {
	v := src.Lookup(name)
	if v == "" {
		return "", &MissingSecretError{Name: name}
	}

	return v, nil
}
