package export

import (
	"bytes"
	"fmt"
	"time"
)

// CalendarEvent is one weekly-recurring entry in an exported calendar.
type CalendarEvent struct {
	UID           string
	Summary       string
	DayOfWeek     int // 0 = Sunday
	StartMinute   int
	DurationMins  int
}

var icsByDay = [7]string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}

// ICSExporter renders weekly events into a text/calendar payload. No ICS
// writer appears in the wider stack, so the format is emitted by hand; the
// surface is small (VCALENDAR, one VEVENT per entry, weekly RRULE).
type ICSExporter struct{}

// NewICSExporter constructs an ICS exporter.
func NewICSExporter() *ICSExporter {
	return &ICSExporter{}
}

// Render produces the iCalendar document. Each event becomes a VEVENT whose
// DTSTART is the first occurrence of its weekday at or after the reference
// time, recurring weekly. Timestamps are emitted in UTC.
func (e *ICSExporter) Render(calendarName string, events []CalendarEvent, reference time.Time) ([]byte, error) {
	if calendarName == "" {
		return nil, fmt.Errorf("ics requires a calendar name")
	}

	ref := reference.UTC().Truncate(24 * time.Hour)
	buf := &bytes.Buffer{}
	writeICSLine(buf, "BEGIN:VCALENDAR")
	writeICSLine(buf, "VERSION:2.0")
	writeICSLine(buf, "PRODID:-//LessonGrid//Weekly Schedule//EN")
	writeICSLine(buf, "CALSCALE:GREGORIAN")
	writeICSLine(buf, fmt.Sprintf("X-WR-CALNAME:%s", escapeICS(calendarName)))

	for _, event := range events {
		if event.DayOfWeek < 0 || event.DayOfWeek > 6 || event.DurationMins <= 0 {
			return nil, fmt.Errorf("invalid event %q: day %d duration %d", event.UID, event.DayOfWeek, event.DurationMins)
		}
		start := firstOccurrence(ref, event.DayOfWeek, event.StartMinute)
		end := start.Add(time.Duration(event.DurationMins) * time.Minute)

		writeICSLine(buf, "BEGIN:VEVENT")
		writeICSLine(buf, fmt.Sprintf("UID:%s", event.UID))
		writeICSLine(buf, fmt.Sprintf("DTSTAMP:%s", ref.Format(icsTimeLayout)))
		writeICSLine(buf, fmt.Sprintf("DTSTART:%s", start.Format(icsTimeLayout)))
		writeICSLine(buf, fmt.Sprintf("DTEND:%s", end.Format(icsTimeLayout)))
		writeICSLine(buf, fmt.Sprintf("RRULE:FREQ=WEEKLY;BYDAY=%s", icsByDay[event.DayOfWeek]))
		writeICSLine(buf, fmt.Sprintf("SUMMARY:%s", escapeICS(event.Summary)))
		writeICSLine(buf, "END:VEVENT")
	}

	writeICSLine(buf, "END:VCALENDAR")
	return buf.Bytes(), nil
}

const icsTimeLayout = "20060102T150405Z"

func firstOccurrence(ref time.Time, dayOfWeek, startMinute int) time.Time {
	daysAhead := (dayOfWeek - int(ref.Weekday()) + 7) % 7
	day := ref.AddDate(0, 0, daysAhead)
	return day.Add(time.Duration(startMinute) * time.Minute)
}

func writeICSLine(buf *bytes.Buffer, line string) {
	buf.WriteString(line)
	buf.WriteString("\r\n")
}

func escapeICS(value string) string {
	out := make([]byte, 0, len(value))
	for i := 0; i < len(value); i++ {
		switch value[i] {
		case '\\', ';', ',':
			out = append(out, '\\', value[i])
		case '\n':
			out = append(out, '\\', 'n')
		default:
			out = append(out, value[i])
		}
	}
	return string(out)
}
