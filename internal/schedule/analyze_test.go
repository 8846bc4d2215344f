package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectConflictsAdjacentIsNotConflict(t *testing.T) {
	assignments := []LessonAssignment{
		{ParticipantID: "a", DayOfWeek: 1, StartMinute: 0, DurationMins: 30},
		{ParticipantID: "b", DayOfWeek: 1, StartMinute: 30, DurationMins: 30},
	}
	assert.Empty(t, DetectConflicts(assignments))
}

func TestDetectConflictsOverlappingPair(t *testing.T) {
	assignments := []LessonAssignment{
		{ParticipantID: "a", DayOfWeek: 1, StartMinute: 0, DurationMins: 45},
		{ParticipantID: "b", DayOfWeek: 1, StartMinute: 30, DurationMins: 30},
	}

	groups := DetectConflicts(assignments)
	require.Len(t, groups, 1)
	assert.Equal(t, 1, groups[0].DayOfWeek)
	require.Len(t, groups[0].Assignments, 2)
	assert.Equal(t, "a", groups[0].Assignments[0].ParticipantID)
	assert.Equal(t, "b", groups[0].Assignments[1].ParticipantID)
}

func TestDetectConflictsDifferentDays(t *testing.T) {
	assignments := []LessonAssignment{
		{ParticipantID: "a", DayOfWeek: 1, StartMinute: 0, DurationMins: 60},
		{ParticipantID: "b", DayOfWeek: 2, StartMinute: 0, DurationMins: 60},
	}
	assert.Empty(t, DetectConflicts(assignments))
}

func TestDetectConflictsPairwiseNotTransitive(t *testing.T) {
	// a overlaps both b and c; b and c do not overlap each other
	assignments := []LessonAssignment{
		{ParticipantID: "a", DayOfWeek: 3, StartMinute: 0, DurationMins: 90},
		{ParticipantID: "b", DayOfWeek: 3, StartMinute: 0, DurationMins: 30},
		{ParticipantID: "c", DayOfWeek: 3, StartMinute: 60, DurationMins: 30},
	}

	groups := DetectConflicts(assignments)
	assert.Len(t, groups, 2, "a appears in two pairwise groups")
}

func TestCalculateUtilization(t *testing.T) {
	owner := NewWeekSchedule()
	owner.Days[1].Blocks = []TimeBlock{{Start: 540, Duration: 180}} // 3h
	owner.Days[3].Blocks = []TimeBlock{{Start: 600, Duration: 60}}

	solution := ScheduleSolution{Assignments: []LessonAssignment{
		{ParticipantID: "a", DayOfWeek: 1, StartMinute: 540, DurationMins: 60},
		{ParticipantID: "b", DayOfWeek: 1, StartMinute: 630, DurationMins: 30}, // 30-minute gap after a
		{ParticipantID: "c", DayOfWeek: 3, StartMinute: 600, DurationMins: 60},
	}}

	report := CalculateUtilization(solution, owner)
	assert.Equal(t, 150, report.ScheduledMinutes)
	assert.Equal(t, 240, report.AvailableMinutes)
	assert.InDelta(t, 62.5, report.UtilizationRate, 0.001)
	assert.InDelta(t, 15.0, report.AvgFragmentation, 0.001, "30-minute gap on Monday, none on Wednesday")
}

func TestCalculateUtilizationZeroAvailability(t *testing.T) {
	solution := ScheduleSolution{Assignments: []LessonAssignment{
		{ParticipantID: "a", DayOfWeek: 0, StartMinute: 0, DurationMins: 30},
	}}

	report := CalculateUtilization(solution, NewWeekSchedule())
	assert.Equal(t, 0.0, report.UtilizationRate)
	assert.Equal(t, 30, report.ScheduledMinutes)
}

func TestCalculateUtilizationEmptySolution(t *testing.T) {
	report := CalculateUtilization(ScheduleSolution{}, availabilityOn(1, 540, 60))
	assert.Equal(t, 0, report.ScheduledMinutes)
	assert.Equal(t, 0.0, report.UtilizationRate)
	assert.Equal(t, 0.0, report.AvgFragmentation)
}
