package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/jleignadier/nueva-generacion-sub000/internal/models"
	"github.com/stretchr/testify/assert"
)

func testEvent() *models.Event {
	loc := time.FixedZone("EST", -5*3600)
	return &models.Event{
		ID:          42,
		Title:       "Beach Cleanup; Playa Venao",
		Description: "Bring gloves, sunscreen",
		Location:    "Playa Venao",
		StartsAt:    time.Date(2026, 4, 18, 9, 0, 0, 0, loc),
		EndsAt:      time.Date(2026, 4, 18, 13, 0, 0, 0, loc),
	}
}

func TestBuildEventICS(t *testing.T) {
	ics := BuildEventICS(testEvent())

	assert.True(t, strings.HasPrefix(ics, "BEGIN:VCALENDAR\r\n"))
	assert.True(t, strings.HasSuffix(ics, "END:VCALENDAR\r\n"))
	assert.Contains(t, ics, "BEGIN:VEVENT\r\n")

	// Times are rendered in UTC regardless of the event's zone.
	assert.Contains(t, ics, "DTSTART:20260418T140000Z\r\n")
	assert.Contains(t, ics, "DTEND:20260418T180000Z\r\n")

	// Reminder fires one hour before the event.
	assert.Contains(t, ics, "BEGIN:VALARM\r\n")
	assert.Contains(t, ics, "TRIGGER:-PT1H\r\n")

	// Reserved characters are escaped per RFC 5545.
	assert.Contains(t, ics, "SUMMARY:Beach Cleanup\\; Playa Venao\r\n")
	assert.Contains(t, ics, "DESCRIPTION:Bring gloves\\, sunscreen\r\n")
	assert.Contains(t, ics, "LOCATION:Playa Venao\r\n")
}

func TestEventCalendarUIDIsStable(t *testing.T) {
	event := testEvent()

	uid1 := EventCalendarUID(event)
	uid2 := EventCalendarUID(event)

	// Re-downloading the file must update the same calendar entry.
	assert.Equal(t, uid1, uid2)
	assert.True(t, strings.HasSuffix(uid1, "@nuevageneracion"))

	other := testEvent()
	other.Title = "Food Drive"
	assert.NotEqual(t, uid1, EventCalendarUID(other))
}
