package slack

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/m-mizutani/docsflow/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

const postTimeout = 10 * time.Second

// Notifier posts new changelog entries to a Slack incoming webhook
type Notifier struct {
	webhookURL string
}

// New creates a Slack notifier
func New(webhookURL string) (*Notifier, error) {
	if webhookURL == "" {
		return nil, goerr.New("Slack webhook URL is empty")
	}
	return &Notifier{webhookURL: webhookURL}, nil
}

// NotifyChangelogEntry posts entry as a message attachment
func (x *Notifier) NotifyChangelogEntry(ctx context.Context, entry *model.ChangelogEntry) error {
	ctx, cancel := context.WithTimeout(ctx, postTimeout)
	defer cancel()

	files := entry.FilesChanged
	fields := []slack.AttachmentField{
		{Title: "Author", Value: entry.Author, Short: true},
		{Title: "Files", Value: fmt.Sprintf("+%d ~%d -%d", len(files.Added), len(files.Modified), len(files.Removed)), Short: true},
	}
	if len(entry.Categories) > 0 {
		names := make([]string, 0, len(entry.Categories))
		for _, id := range entry.Categories {
			names = append(names, model.CategoryName(id))
		}
		fields = append(fields, slack.AttachmentField{Title: "Categories", Value: strings.Join(names, ", "), Short: true})
	}

	msg := &slack.WebhookMessage{
		Text: "New documentation update",
		Attachments: []slack.Attachment{
			{
				Color:     "#362d59",
				Title:     entry.Title,
				TitleLink: entry.URL,
				Text:      entry.Description,
				Fields:    fields,
				Footer:    entry.CommitID,
			},
		},
	}

	if err := slack.PostWebhookContext(ctx, x.webhookURL, msg); err != nil {
		return goerr.Wrap(err, "failed to post Slack message", goerr.V("entry_id", entry.ID))
	}
	return nil
}
