package service

import (
	"context"
	"time"

	"github.com/aussiebroadwan/ratholink/internal/gateway/domain"
)

// WorkspaceAPI is the set of downstream listings the gateway shows.
type WorkspaceAPI interface {
	ListFiles(ctx context.Context, accessToken string) ([]domain.DriveFile, error)
	ListMessages(ctx context.Context, accessToken string) ([]domain.MailMessage, error)
	ListEvents(ctx context.Context, accessToken string, timeMin time.Time) ([]domain.CalendarEvent, error)
}

// WorkspaceService runs each listing through the fetch policy. A Gmail
// listing, headers included, is retried as one unit.
type WorkspaceService struct {
	Fetcher *Fetcher
	API     WorkspaceAPI
	Now     func() time.Time // Optional: defaults to time.Now
}

func (s *WorkspaceService) Files(ctx context.Context, sess *domain.Session) ([]domain.DriveFile, error) {
	return Fetch(ctx, s.Fetcher, sess, s.API.ListFiles)
}

func (s *WorkspaceService) Messages(ctx context.Context, sess *domain.Session) ([]domain.MailMessage, error) {
	return Fetch(ctx, s.Fetcher, sess, s.API.ListMessages)
}

// Events lists upcoming events from now on.
func (s *WorkspaceService) Events(ctx context.Context, sess *domain.Session) ([]domain.CalendarEvent, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	timeMin := now()

	return Fetch(ctx, s.Fetcher, sess, func(ctx context.Context, accessToken string) ([]domain.CalendarEvent, error) {
		return s.API.ListEvents(ctx, accessToken, timeMin)
	})
}
