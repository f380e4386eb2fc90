package http

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/aussiebroadwan/ratholink/pkg/httpx"
	"github.com/aussiebroadwan/ratholink/pkg/slogx"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page names, one per file under templates/ besides the layout.
const (
	pageHome      = "home.html"
	pageDashboard = "dashboard.html"
	pageDrive     = "drive.html"
	pageGmail     = "gmail.html"
	pageCalendar  = "calendar.html"
	pageError     = "error.html"
)

// Views holds one parsed template set per page, each sharing the layout.
type Views struct {
	pages map[string]*template.Template
}

// NewViews parses every page template. Parse errors are programming errors.
func NewViews() *Views {
	v := &Views{pages: map[string]*template.Template{}}
	for _, page := range []string{pageHome, pageDashboard, pageDrive, pageGmail, pageCalendar, pageError} {
		v.pages[page] = template.Must(template.New("layout.html").ParseFS(templateFS,
			"templates/layout.html",
			"templates/"+page,
		))
	}
	return v
}

// Render executes page into a buffer first so a template failure still
// produces a clean 500.
func (v *Views) Render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	var buf bytes.Buffer
	if err := v.pages[page].ExecuteTemplate(&buf, "layout.html", data); err != nil {
		slogx.FromContext(r.Context()).Error("failed to render page", "page", page, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	httpx.NoCache(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// ErrorPage is the data for error.html.
type ErrorPage struct {
	Title   string
	Message string
}

func (v *Views) RenderError(w http.ResponseWriter, r *http.Request, status int, title, message string) {
	v.Render(w, r, status, pageError, ErrorPage{Title: title, Message: message})
}

// StaticHandler serves the embedded stylesheet and assets under /static/.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
