package types

import "errors"

// Sentinel errors are compared with errors.Is; wrap them with goerr to add context.
var (
	// ErrGitHubNotConfigured is returned when an operation needs GitHub API access but no credential is set
	ErrGitHubNotConfigured = errors.New("GitHub token not configured")

	// ErrInvalidSource is returned for an unknown content source
	ErrInvalidSource = errors.New("invalid source")

	// ErrSourceNotConfigured is returned when a content source has no endpoint or credential
	ErrSourceNotConfigured = errors.New("source not configured")
)
