package google_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/ratholink/internal/gateway/domain"
	"github.com/aussiebroadwan/ratholink/internal/gateway/google"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validToken = "ya29.valid"

// fakeWorkspace mimics the three Workspace APIs closely enough for the
// generated clients. Any bearer other than validToken gets a 401.
func fakeWorkspace(t *testing.T) *google.WorkspaceClient {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("GET /drive/v3/files", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10", r.URL.Query().Get("pageSize"))
		assert.Equal(t, "files(id,name,mimeType)", r.URL.Query().Get("fields"))
		writeJSON(w, `{"files":[
			{"id":"f1","name":"Report.pdf","mimeType":"application/pdf"},
			{"id":"f2","name":"Notes","mimeType":"application/vnd.google-apps.document"}
		]}`)
	})

	mux.HandleFunc("GET /gmail/v1/users/me/messages", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10", r.URL.Query().Get("maxResults"))
		writeJSON(w, `{"messages":[{"id":"m1"},{"id":"m2"},{"id":"m3"}]}`)
	})

	mux.HandleFunc("GET /gmail/v1/users/me/messages/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "metadata", r.URL.Query().Get("format"))
		assert.ElementsMatch(t, []string{"Subject", "From"}, r.URL.Query()["metadataHeaders"])

		switch id := r.PathValue("id"); id {
		case "m1":
			writeJSON(w, `{"id":"m1","payload":{"headers":[
				{"name":"Subject","value":"Hello"},{"name":"From","value":"ada@example.com"}
			]}}`)
		case "m2":
			writeJSON(w, `{"id":"m2","payload":{"headers":[{"name":"From","value":"bob@example.com"}]}}`)
		default:
			writeJSON(w, fmt.Sprintf(`{"id":%q}`, id))
		}
	})

	mux.HandleFunc("GET /calendar/v3/calendars/primary/events", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "10", q.Get("maxResults"))
		assert.Equal(t, "startTime", q.Get("orderBy"))
		assert.Equal(t, "true", q.Get("singleEvents"))
		assert.Equal(t, "2024-05-01T09:00:00Z", q.Get("timeMin"))
		writeJSON(w, `{"items":[
			{"id":"e1","summary":"Standup","start":{"dateTime":"2024-05-01T10:00:00Z"}},
			{"id":"e2","start":{"date":"2024-05-02"}}
		]}`)
	})

	srv := httptest.NewServer(requireBearer(mux))
	t.Cleanup(srv.Close)

	return google.NewWorkspaceClient(google.WorkspaceConfig{
		HTTPClient:       srv.Client(),
		DriveEndpoint:    srv.URL + "/drive/v3/",
		GmailEndpoint:    srv.URL + "/",
		CalendarEndpoint: srv.URL + "/calendar/v3/",
	})
}

func requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+validToken {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"code":401,"message":"Invalid Credentials"}}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(strings.TrimSpace(body)))
}

func TestListFiles(t *testing.T) {
	c := fakeWorkspace(t)

	files, err := c.ListFiles(context.Background(), validToken)
	require.NoError(t, err)
	require.Equal(t, []domain.DriveFile{
		{ID: "f1", Name: "Report.pdf", MimeType: "application/pdf"},
		{ID: "f2", Name: "Notes", MimeType: "application/vnd.google-apps.document"},
	}, files)
}

func TestListMessages(t *testing.T) {
	c := fakeWorkspace(t)

	msgs, err := c.ListMessages(context.Background(), validToken)
	require.NoError(t, err)
	require.Equal(t, []domain.MailMessage{
		{ID: "m1", Subject: "Hello", From: "ada@example.com"},
		{ID: "m2", Subject: domain.NoSubject, From: "bob@example.com"},
		{ID: "m3", Subject: domain.NoSubject, From: domain.NoSender},
	}, msgs)
}

func TestListEvents(t *testing.T) {
	c := fakeWorkspace(t)

	now := time.Date(2024, 5, 1, 19, 0, 0, 0, time.FixedZone("AEST", 10*3600))
	events, err := c.ListEvents(context.Background(), validToken, now)
	require.NoError(t, err)
	require.Equal(t, []domain.CalendarEvent{
		{ID: "e1", Title: "Standup", Start: "2024-05-01T10:00:00Z"},
		{ID: "e2", Title: domain.NoTitle, Start: "2024-05-02"},
	}, events)
}

func TestWorkspaceUnauthorized(t *testing.T) {
	c := fakeWorkspace(t)
	ctx := context.Background()

	_, err := c.ListFiles(ctx, "ya29.expired")
	require.True(t, google.IsUnauthorized(err))

	_, err = c.ListMessages(ctx, "ya29.expired")
	require.True(t, google.IsUnauthorized(err))

	_, err = c.ListEvents(ctx, "ya29.expired", time.Now())
	require.True(t, google.IsUnauthorized(err))
}

func TestListMessagesDetailUnauthorized(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /gmail/v1/users/me/messages", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"messages":[{"id":"m1"},{"id":"m2"},{"id":"m3"},{"id":"m4"},{"id":"m5"}]}`)
	})
	mux.HandleFunc("GET /gmail/v1/users/me/messages/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id == "m3" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"code":401,"message":"Invalid Credentials"}}`))
			return
		}
		writeJSON(w, fmt.Sprintf(`{"id":%q}`, id))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := google.NewWorkspaceClient(google.WorkspaceConfig{
		HTTPClient:    srv.Client(),
		GmailEndpoint: srv.URL + "/",
	})

	// Detail calls run concurrently; whichever finishes first, the 401 must
	// be the error that surfaces.
	for range 10 {
		_, err := c.ListMessages(context.Background(), validToken)
		require.Error(t, err)
		require.True(t, google.IsUnauthorized(err), "got %v", err)
	}
}
