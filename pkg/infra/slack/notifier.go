package slack

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/urlfetch/pkg/domain/model"
	"github.com/slack-go/slack"
)

// maxListedFailures caps the failed URLs quoted in one message
const maxListedFailures = 10

// Notifier posts batch reports to a Slack incoming webhook
type Notifier struct {
	webhookURL string
}

// New creates a Notifier for webhookURL
func New(webhookURL string) *Notifier {
	return &Notifier{webhookURL: webhookURL}
}

// Notify sends a summary of report
func (x *Notifier) Notify(ctx context.Context, report *model.BatchReport) error {
	if err := slack.PostWebhookContext(ctx, x.webhookURL, buildMessage(report)); err != nil {
		return goerr.Wrap(err, "failed to post slack webhook", goerr.V("id", report.ID))
	}
	return nil
}

func buildMessage(report *model.BatchReport) *slack.WebhookMessage {
	color := "good"
	if report.Failed > 0 {
		color = "warning"
	}
	if report.Total > 0 && report.Saved == 0 {
		color = "danger"
	}

	fields := []slack.AttachmentField{
		{Title: "Total", Value: strconv.Itoa(report.Total), Short: true},
		{Title: "Saved", Value: strconv.Itoa(report.Saved), Short: true},
		{Title: "Failed", Value: strconv.Itoa(report.Failed), Short: true},
		{Title: "Duration", Value: report.Duration().String(), Short: true},
	}
	if len(report.FailedURLs) > 0 {
		fields = append(fields, slack.AttachmentField{
			Title: "Failed URLs",
			Value: formatFailures(report.FailedURLs),
		})
	}

	return &slack.WebhookMessage{
		Text: fmt.Sprintf("urlfetch batch `%s` completed", report.ID),
		Attachments: []slack.Attachment{
			{
				Color:  color,
				Fields: fields,
			},
		},
	}
}

func formatFailures(urls []string) string {
	lines := make([]string, 0, maxListedFailures+1)
	for i, u := range urls {
		if i == maxListedFailures {
			lines = append(lines, fmt.Sprintf("... and %d more", len(urls)-maxListedFailures))
			break
		}
		if u == "" {
			u = "(empty line)"
		}
		lines = append(lines, "• "+u)
	}
	return strings.Join(lines, "\n")
}
