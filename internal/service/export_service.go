package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/studioplan/lessongrid-api/internal/models"
	appErrors "github.com/studioplan/lessongrid-api/pkg/errors"
	"github.com/studioplan/lessongrid-api/pkg/export"

	"github.com/studioplan/lessongrid-api/internal/schedule"
)

type exportAssignmentRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]models.Assignment, error)
}

type exportParticipantRepository interface {
	FindByID(ctx context.Context, id string) (*models.Participant, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

type icsRenderer interface {
	Render(calendarName string, events []export.CalendarEvent, reference time.Time) ([]byte, error)
}

// ExportSettings tunes rendered output.
type ExportSettings struct {
	CalendarName string
	Timezone     string
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders the committed weekly schedule as ICS, CSV or PDF.
type ExportService struct {
	assignments  exportAssignmentRepository
	participants exportParticipantRepository
	csv          csvRenderer
	pdf          pdfRenderer
	ics          icsRenderer
	settings     ExportSettings
	logger       *zap.Logger
}

// NewExportService constructs the export service.
func NewExportService(assignments exportAssignmentRepository, participants exportParticipantRepository, csv csvRenderer, pdf pdfRenderer, ics icsRenderer, settings ExportSettings, logger *zap.Logger) *ExportService {
	if settings.CalendarName == "" {
		settings.CalendarName = "LessonGrid"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		assignments:  assignments,
		participants: participants,
		csv:          csv,
		pdf:          pdf,
		ics:          ics,
		settings:     settings,
		logger:       logger,
	}
}

// ICS renders the schedule as weekly-recurring calendar events anchored on
// the current week.
func (s *ExportService) ICS(ctx context.Context, ownerID string) (*ExportFile, error) {
	assignments, names, err := s.loadSchedule(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	events := make([]export.CalendarEvent, 0, len(assignments))
	for _, a := range assignments {
		events = append(events, export.CalendarEvent{
			UID:          a.ID,
			Summary:      "Lesson: " + names[a.ParticipantID],
			DayOfWeek:    a.DayOfWeek,
			StartMinute:  a.StartMinute,
			DurationMins: a.DurationMins,
		})
	}
	data, err := s.ics.Render(s.settings.CalendarName, events, time.Now().UTC())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render calendar")
	}
	return &ExportFile{Filename: "schedule.ics", ContentType: "text/calendar", Data: data}, nil
}

// CSV renders the assignment list as a flat table.
func (s *ExportService) CSV(ctx context.Context, ownerID string) (*ExportFile, error) {
	dataset, err := s.buildDataset(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	data, err := s.csv.Render(*dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	return &ExportFile{Filename: "schedule.csv", ContentType: "text/csv", Data: data}, nil
}

// PDF renders the weekly schedule as a printable table.
func (s *ExportService) PDF(ctx context.Context, ownerID string) (*ExportFile, error) {
	dataset, err := s.buildDataset(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	data, err := s.pdf.Render(*dataset, s.settings.CalendarName+" weekly schedule")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
	}
	return &ExportFile{Filename: "schedule.pdf", ContentType: "application/pdf", Data: data}, nil
}

func (s *ExportService) buildDataset(ctx context.Context, ownerID string) (*export.Dataset, error) {
	assignments, names, err := s.loadSchedule(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	rows := make([]map[string]string, 0, len(assignments))
	for _, a := range assignments {
		rows = append(rows, map[string]string{
			"Day":         schedule.DayName(a.DayOfWeek),
			"Start":       formatClock(a.StartMinute),
			"End":         formatClock(a.StartMinute + a.DurationMins),
			"Participant": names[a.ParticipantID],
			"Minutes":     strconv.Itoa(a.DurationMins),
			"Source":      a.Source,
		})
	}
	return &export.Dataset{
		Headers: []string{"Day", "Start", "End", "Participant", "Minutes", "Source"},
		Rows:    rows,
	}, nil
}

// loadSchedule fetches assignments plus a participant id to display name map.
// Missing participants get a synthetic fallback so exports never fail on a
// stale roster.
func (s *ExportService) loadSchedule(ctx context.Context, ownerID string) ([]models.Assignment, map[string]string, error) {
	assignments, err := s.assignments.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
	}
	names := map[string]string{}
	for _, a := range assignments {
		if _, ok := names[a.ParticipantID]; ok {
			continue
		}
		participant, err := s.participants.FindByID(ctx, a.ParticipantID)
		if err != nil || participant == nil {
			short := a.ParticipantID
			if len(short) > 8 {
				short = short[:8]
			}
			names[a.ParticipantID] = fmt.Sprintf("Participant %s", short)
			continue
		}
		names[a.ParticipantID] = participant.FullName
	}
	return assignments, names, nil
}

func formatClock(minute int) string {
	return fmt.Sprintf("%d:%02d", minute/60, minute%60)
}
