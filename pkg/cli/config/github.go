package config

import (
	"os"
	"strings"

	"github.com/m-mizutani/docsflow/pkg/domain/interfaces"
	"github.com/m-mizutani/docsflow/pkg/infra/github"
	"github.com/m-mizutani/docsflow/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// GitHub holds GitHub configuration
type GitHub struct {
	Token          string `masq:"secret"`
	AppID          int64
	InstallationID int64
	PrivateKey     string `masq:"secret"`
	PrivateKeyFile string
	WebhookSecret  string `masq:"secret"`
	Repository     string
	Branches       []string
	ScanBranch     string
	BaseURL        string
}

// Flags returns CLI flags for GitHub API access and the target repository
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub API token",
			Destination: &c.Token,
			Sources:     cli.EnvVars("DOCSFLOW_GITHUB_TOKEN", "GITHUB_TOKEN"),
		},
		&cli.Int64Flag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID, used instead of a token",
			Destination: &c.AppID,
			Sources:     cli.EnvVars("DOCSFLOW_GITHUB_APP_ID"),
		},
		&cli.Int64Flag{
			Name:        "github-app-installation-id",
			Usage:       "GitHub App installation ID",
			Destination: &c.InstallationID,
			Sources:     cli.EnvVars("DOCSFLOW_GITHUB_APP_INSTALLATION_ID"),
		},
		&cli.StringFlag{
			Name:        "github-app-private-key",
			Usage:       "GitHub App private key (PEM)",
			Destination: &c.PrivateKey,
			Sources:     cli.EnvVars("DOCSFLOW_GITHUB_APP_PRIVATE_KEY"),
		},
		&cli.StringFlag{
			Name:        "github-app-private-key-file",
			Usage:       "Path to GitHub App private key (PEM)",
			Destination: &c.PrivateKeyFile,
			Sources:     cli.EnvVars("DOCSFLOW_GITHUB_APP_PRIVATE_KEY_FILE"),
		},
		&cli.StringFlag{
			Name:        "github-repository",
			Usage:       "Target repository (owner/name)",
			Value:       usecase.DefaultRepository,
			Destination: &c.Repository,
			Sources:     cli.EnvVars("DOCSFLOW_GITHUB_REPOSITORY"),
		},
		&cli.StringSliceFlag{
			Name:        "github-branch",
			Usage:       "Branch accepted by the webhook (repeatable)",
			Value:       []string{"main", "master"},
			Destination: &c.Branches,
			Sources:     cli.EnvVars("DOCSFLOW_GITHUB_BRANCH"),
		},
		&cli.StringFlag{
			Name:        "github-scan-branch",
			Usage:       "Branch scanned by trigger, poll and seed",
			Value:       usecase.DefaultBranch,
			Destination: &c.ScanBranch,
			Sources:     cli.EnvVars("DOCSFLOW_GITHUB_SCAN_BRANCH"),
		},
		&cli.StringFlag{
			Name:        "github-base-url",
			Usage:       "GitHub API base URL (GitHub Enterprise)",
			Destination: &c.BaseURL,
			Sources:     cli.EnvVars("DOCSFLOW_GITHUB_BASE_URL"),
		},
	}
}

// WebhookFlags returns flags needed only by the webhook receiver
func (c *GitHub) WebhookFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-webhook-secret",
			Usage:       "GitHub webhook secret",
			Required:    true,
			Destination: &c.WebhookSecret,
			Sources:     cli.EnvVars("DOCSFLOW_GITHUB_WEBHOOK_SECRET"),
		},
	}
}

// Validate checks the repository and branch settings
func (c *GitHub) Validate() error {
	owner, name, ok := strings.Cut(c.Repository, "/")
	if !ok || owner == "" || name == "" {
		return goerr.New("invalid GitHub repository, expected owner/name", goerr.V("repository", c.Repository))
	}
	if len(c.Branches) == 0 {
		return goerr.New("at least one GitHub branch is required")
	}
	return nil
}

// NewClient builds the GitHub client. App credentials take precedence over
// the token. It returns nil without error when no credential is configured.
func (c *GitHub) NewClient() (interfaces.GitHubClient, error) {
	var opts []github.Option
	if c.BaseURL != "" {
		opts = append(opts, github.WithBaseURL(c.BaseURL))
	}

	if c.AppID != 0 {
		key := []byte(c.PrivateKey)
		if len(key) == 0 && c.PrivateKeyFile != "" {
			data, err := os.ReadFile(c.PrivateKeyFile)
			if err != nil {
				return nil, goerr.Wrap(err, "failed to read GitHub App private key", goerr.V("path", c.PrivateKeyFile))
			}
			key = data
		}
		if len(key) == 0 || c.InstallationID == 0 {
			return nil, goerr.New("GitHub App requires installation ID and private key", goerr.V("app_id", c.AppID))
		}
		return github.NewAppClient(c.AppID, c.InstallationID, key, opts...)
	}

	if c.Token != "" {
		return github.NewClient(c.Token, opts...)
	}

	return nil, nil
}

// ChangelogOptions returns pipeline options for the configured repository,
// branch and client
func (c *GitHub) ChangelogOptions(client interfaces.GitHubClient) []usecase.DocsChangelogOption {
	opts := []usecase.DocsChangelogOption{
		usecase.WithRepository(c.Repository),
	}
	if c.ScanBranch != "" {
		opts = append(opts, usecase.WithBranch(c.ScanBranch))
	}
	if client != nil {
		opts = append(opts, usecase.WithGitHubClient(client))
	}
	return opts
}
