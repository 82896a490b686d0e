package config

import (
	"github.com/m-mizutani/docsflow/pkg/infra/slack"
	"github.com/m-mizutani/docsflow/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// Slack holds notification configuration
type Slack struct {
	WebhookURL string `masq:"secret"`
}

// Flags returns CLI flags for Slack configuration
func (c *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Usage:       "Slack incoming webhook URL notified of new changelog entries",
			Destination: &c.WebhookURL,
			Sources:     cli.EnvVars("DOCSFLOW_SLACK_WEBHOOK_URL"),
		},
	}
}

// ChangelogOptions returns the notifier option when a webhook URL is set
func (c *Slack) ChangelogOptions() ([]usecase.DocsChangelogOption, error) {
	if c.WebhookURL == "" {
		return nil, nil
	}

	notifier, err := slack.New(c.WebhookURL)
	if err != nil {
		return nil, err
	}
	return []usecase.DocsChangelogOption{usecase.WithNotifier(notifier)}, nil
}
