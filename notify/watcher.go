// Package notify polls for newly uploaded guild logs and announces them to
// a Discord webhook, deduplicating through the store.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"luminisbot/store"
	"luminisbot/wcl"

	"github.com/dustin/go-humanize"
	"github.com/getsentry/sentry-go"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

type Watcher struct {
	Client     *wcl.Client
	Store      *store.Store
	WebhookURL string
	GuildID    int
	Interval   time.Duration
}

func (w *Watcher) Run(ctx context.Context) {
	interval := w.Interval
	if interval <= 0 {
		interval = 10 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		w.check(ctx)

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}

func (w *Watcher) check(ctx context.Context) {
	latest, err := w.Client.LatestReport(ctx, w.GuildID)
	if err != nil {
		log.Printf("notify: latest report: %+v", err)
		return
	}
	if latest == nil {
		return
	}

	channels, err := w.Store.Channels(ctx)
	if err != nil {
		log.Printf("notify: channels: %+v", err)
		return
	}

	for _, ch := range channels {
		if ch.LastLogID == latest.Code {
			continue
		}

		err = w.post(ctx, latest)
		if err != nil {
			log.Printf("notify: webhook for guild %d: %+v", ch.GuildID, err)
			continue
		}

		err = w.Store.SetLastLog(ctx, ch.GuildID, latest.Code)
		if err != nil {
			log.Printf("notify: mark posted for guild %d: %+v", ch.GuildID, err)
		}
	}
}

func (w *Watcher) post(ctx context.Context, report *wcl.Report) error {
	owner := report.Owner.Name
	if owner == "" {
		owner = "Unknown"
	}

	payload := struct {
		Content string `json:"content"`
	}{
		Content: fmt.Sprintf(
			"**%s** by %s (started %s)\nhttps://www.warcraftlogs.com/reports/%s",
			report.Title,
			owner,
			humanize.Time(time.UnixMilli(report.StartTime)),
			report.Code,
		),
	}

	var buf bytes.Buffer
	err := jsoniter.NewEncoder(&buf).Encode(&payload)
	if err != nil {
		return errors.WithStack(err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", w.WebhookURL, &buf)
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		sentry.CaptureException(err)
		return errors.WithStack(err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return errors.Errorf("notify: webhook status %d", resp.StatusCode)
	}
	return nil
}
