package domain

// DriveFile is one entry of the Drive listing.
type DriveFile struct {
	ID       string
	Name     string
	MimeType string
}

// MailMessage is one Gmail inbox entry, reduced to its headers.
type MailMessage struct {
	ID      string
	Subject string
	From    string
}

// CalendarEvent is one upcoming event from the primary calendar.
type CalendarEvent struct {
	ID    string
	Title string
	Start string // RFC 3339 dateTime, or date for all-day events
}

// Defaults shown when the provider omits a field.
const (
	NoSubject = "No Subject"
	NoSender  = "Unknown"
	NoTitle   = "No Title"
)
