package google

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/ratholink/internal/gateway/domain"

	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	// PageSize is how many items each listing asks for. Only the first page
	// is ever read.
	PageSize = 10

	// DefaultDetailConcurrency bounds parallel Gmail message lookups.
	DefaultDetailConcurrency = 4
)

type WorkspaceConfig struct {
	HTTPClient *http.Client // Optional: base client, bearer auth is layered on top

	// Endpoint overrides, mostly for tests. Empty uses the library default.
	DriveEndpoint    string
	GmailEndpoint    string
	CalendarEndpoint string

	DetailConcurrency int // Optional: default 4
}

// WorkspaceClient reads Drive, Gmail and Calendar on behalf of one access
// credential per call. It holds no per-user state and is safe to share.
type WorkspaceClient struct {
	cfg WorkspaceConfig
}

func NewWorkspaceClient(cfg WorkspaceConfig) *WorkspaceClient {
	if cfg.DetailConcurrency <= 0 {
		cfg.DetailConcurrency = DefaultDetailConcurrency
	}
	return &WorkspaceClient{cfg: cfg}
}

// options builds client options that authenticate every request with
// accessToken and nothing else.
func (c *WorkspaceClient) options(accessToken, endpoint string) []option.ClientOption {
	base := http.DefaultTransport
	if c.cfg.HTTPClient != nil && c.cfg.HTTPClient.Transport != nil {
		base = c.cfg.HTTPClient.Transport
	}

	hc := &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{
				AccessToken: accessToken,
				TokenType:   "Bearer",
			}),
			Base: base,
		},
	}
	if c.cfg.HTTPClient != nil {
		hc.Timeout = c.cfg.HTTPClient.Timeout
	}

	opts := []option.ClientOption{option.WithHTTPClient(hc)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	return opts
}

// ListFiles returns the first page of the user's Drive files.
func (c *WorkspaceClient) ListFiles(ctx context.Context, accessToken string) ([]domain.DriveFile, error) {
	svc, err := drive.NewService(ctx, c.options(accessToken, c.cfg.DriveEndpoint)...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	res, err := svc.Files.List().
		PageSize(PageSize).
		Fields(googleapi.Field("files(id,name,mimeType)")).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}

	files := make([]domain.DriveFile, 0, len(res.Files))
	for _, f := range res.Files {
		files = append(files, domain.DriveFile{
			ID:       f.Id,
			Name:     f.Name,
			MimeType: f.MimeType,
		})
	}
	return files, nil
}

// ListMessages returns the newest inbox messages with their Subject and From
// headers. Headers are fetched concurrently; any failure fails the listing.
func (c *WorkspaceClient) ListMessages(ctx context.Context, accessToken string) ([]domain.MailMessage, error) {
	svc, err := gmail.NewService(ctx, c.options(accessToken, c.cfg.GmailEndpoint)...)
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}

	list, err := svc.Users.Messages.List("me").
		MaxResults(PageSize).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	out := make([]domain.MailMessage, len(list.Messages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.DetailConcurrency)

	for i, ref := range list.Messages {
		g.Go(func() error {
			msg, err := svc.Users.Messages.Get("me", ref.Id).
				Format("metadata").
				MetadataHeaders("Subject", "From").
				Context(gctx).
				Do()
			if err != nil {
				return fmt.Errorf("get message %s: %w", ref.Id, err)
			}

			out[i] = domain.MailMessage{
				ID:      ref.Id,
				Subject: header(msg, "Subject", domain.NoSubject),
				From:    header(msg, "From", domain.NoSender),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func header(msg *gmail.Message, name, fallback string) string {
	if msg == nil || msg.Payload == nil {
		return fallback
	}
	for _, h := range msg.Payload.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return fallback
}

// ListEvents returns upcoming events on the primary calendar starting at
// timeMin, expanded into single instances and ordered by start.
func (c *WorkspaceClient) ListEvents(
	ctx context.Context,
	accessToken string,
	timeMin time.Time,
) ([]domain.CalendarEvent, error) {
	svc, err := calendar.NewService(ctx, c.options(accessToken, c.cfg.CalendarEndpoint)...)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}

	res, err := svc.Events.List("primary").
		MaxResults(PageSize).
		OrderBy("startTime").
		SingleEvents(true).
		TimeMin(timeMin.UTC().Format(time.RFC3339)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	events := make([]domain.CalendarEvent, 0, len(res.Items))
	for _, ev := range res.Items {
		title := ev.Summary
		if title == "" {
			title = domain.NoTitle
		}
		events = append(events, domain.CalendarEvent{
			ID:    ev.Id,
			Title: title,
			Start: eventStart(ev),
		})
	}
	return events, nil
}

// eventStart prefers the timed start and falls back to the all-day date.
func eventStart(ev *calendar.Event) string {
	if ev.Start == nil {
		return ""
	}
	if ev.Start.DateTime != "" {
		return ev.Start.DateTime
	}
	return ev.Start.Date
}
