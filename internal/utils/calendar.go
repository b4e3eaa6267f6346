package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jleignadier/nueva-generacion-sub000/internal/models"
)

const icsTimeLayout = "20060102T150405Z"

// BuildEventICS renders a registered event as an iCalendar file with a
// one-hour-before reminder. The UID is derived from the title and start date
// so re-downloading the file updates the same calendar entry instead of
// duplicating it.
func BuildEventICS(event *models.Event) string {
	uid := EventCalendarUID(event)
	start := event.StartsAt.UTC()
	end := event.EndsAt.UTC()

	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString("PRODID:-//Nueva Generacion//Volunteer Events//ES\r\n")
	b.WriteString("CALSCALE:GREGORIAN\r\n")
	b.WriteString("METHOD:PUBLISH\r\n")
	b.WriteString("BEGIN:VEVENT\r\n")
	fmt.Fprintf(&b, "UID:%s\r\n", uid)
	fmt.Fprintf(&b, "DTSTAMP:%s\r\n", time.Now().UTC().Format(icsTimeLayout))
	fmt.Fprintf(&b, "DTSTART:%s\r\n", start.Format(icsTimeLayout))
	fmt.Fprintf(&b, "DTEND:%s\r\n", end.Format(icsTimeLayout))
	fmt.Fprintf(&b, "SUMMARY:%s\r\n", escapeICSText(event.Title))
	if event.Description != "" {
		fmt.Fprintf(&b, "DESCRIPTION:%s\r\n", escapeICSText(event.Description))
	}
	if event.Location != "" {
		fmt.Fprintf(&b, "LOCATION:%s\r\n", escapeICSText(event.Location))
	}
	b.WriteString("BEGIN:VALARM\r\n")
	b.WriteString("ACTION:DISPLAY\r\n")
	fmt.Fprintf(&b, "DESCRIPTION:%s\r\n", escapeICSText(event.Title))
	b.WriteString("TRIGGER:-PT1H\r\n")
	b.WriteString("END:VALARM\r\n")
	b.WriteString("END:VEVENT\r\n")
	b.WriteString("END:VCALENDAR\r\n")
	return b.String()
}

// EventCalendarUID returns the stable calendar identifier for an event.
func EventCalendarUID(event *models.Event) string {
	name := fmt.Sprintf("%s|%s", event.Title, event.StartsAt.UTC().Format("2006-01-02"))
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String() + "@nuevageneracion"
}

// escapeICSText escapes the characters RFC 5545 reserves in text values.
func escapeICSText(s string) string {
	r := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\r\n", "\\n",
		"\n", "\\n",
	)
	return r.Replace(s)
}
