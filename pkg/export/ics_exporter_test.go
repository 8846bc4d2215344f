package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestICSExporterRender(t *testing.T) {
	exporter := NewICSExporter()
	// 2024-01-01 is a Monday
	ref := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	payload, err := exporter.Render("Studio Schedule", []CalendarEvent{
		{UID: "lesson-1", Summary: "Piano: Ada Brown", DayOfWeek: 1, StartMinute: 540, DurationMins: 30},
		{UID: "lesson-2", Summary: "Piano: Ben Cole", DayOfWeek: 3, StartMinute: 600, DurationMins: 60},
	}, ref)
	require.NoError(t, err)

	text := string(payload)
	assert.True(t, strings.HasPrefix(text, "BEGIN:VCALENDAR\r\n"))
	assert.True(t, strings.HasSuffix(text, "END:VCALENDAR\r\n"))
	assert.Contains(t, text, "X-WR-CALNAME:Studio Schedule")
	assert.Contains(t, text, "DTSTART:20240101T090000Z")
	assert.Contains(t, text, "DTEND:20240101T093000Z")
	assert.Contains(t, text, "RRULE:FREQ=WEEKLY;BYDAY=MO")
	assert.Contains(t, text, "DTSTART:20240103T100000Z")
	assert.Contains(t, text, "RRULE:FREQ=WEEKLY;BYDAY=WE")
	assert.Equal(t, 2, strings.Count(text, "BEGIN:VEVENT"))
}

func TestICSExporterEscapesSummary(t *testing.T) {
	exporter := NewICSExporter()

	payload, err := exporter.Render("Cal", []CalendarEvent{
		{UID: "x", Summary: "Voice; solo, duet", DayOfWeek: 0, StartMinute: 0, DurationMins: 30},
	}, time.Now())
	require.NoError(t, err)
	assert.Contains(t, string(payload), `SUMMARY:Voice\; solo\, duet`)
}

func TestICSExporterRejectsInvalidEvent(t *testing.T) {
	exporter := NewICSExporter()

	_, err := exporter.Render("Cal", []CalendarEvent{{UID: "x", DayOfWeek: 7, DurationMins: 30}}, time.Now())
	assert.Error(t, err)

	_, err = exporter.Render("", nil, time.Now())
	assert.Error(t, err)
}
