package config

import (
	"github.com/m-mizutani/urlfetch/pkg/domain/interfaces"
	"github.com/m-mizutani/urlfetch/pkg/infra/slack"
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
			Usage:       "Slack incoming webhook URL to post batch reports",
			Destination: &c.WebhookURL,
			Sources:     cli.EnvVars("URLFETCH_SLACK_WEBHOOK_URL"),
		},
	}
}

// Configure returns a notifier, or nil when no webhook is configured
func (c *Slack) Configure() interfaces.Notifier {
	if c.WebhookURL == "" {
		return nil
	}
	return slack.New(c.WebhookURL)
}
