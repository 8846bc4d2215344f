package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapStartGridRoundsToQuarterHour(t *testing.T) {
	assert.Equal(t, 540, SnapStart(SnapGrid, 1, 543, 30, nil, nil))
	assert.Equal(t, 555, SnapStart(SnapGrid, 1, 548, 30, nil, nil))
	assert.Equal(t, 0, SnapStart(SnapGrid, 1, -20, 30, nil, nil))
	assert.Equal(t, 1410, SnapStart(SnapGrid, 1, 1439, 30, nil, nil), "clamped so the block fits the day")
}

func TestSnapStartPreciseKeepsExactMinute(t *testing.T) {
	assert.Equal(t, 543, SnapStart(SnapPrecise, 1, 543, 30, nil, nil))
}

func TestSnapStartSmartPicksNearestValidPosition(t *testing.T) {
	owner := availabilityOn(1, 540, 90)
	participant := availabilityOn(1, 540, 90)

	// valid positions for 30 min are 540,555,570,585,600
	assert.Equal(t, 570, SnapStart(SnapSmart, 1, 566, 30, &owner, &participant))
	assert.Equal(t, 600, SnapStart(SnapSmart, 1, 700, 30, &owner, &participant))
}

func TestSnapStartSmartFallsBackToGrid(t *testing.T) {
	owner := availabilityOn(1, 540, 90)
	empty := NewWeekSchedule()

	assert.Equal(t, 705, SnapStart(SnapSmart, 2, 703, 30, &owner, &empty), "no valid positions on that day")
	assert.Equal(t, 705, SnapStart(SnapSmart, 2, 703, 30, nil, nil))
}

func TestParseSnapMode(t *testing.T) {
	assert.Equal(t, SnapPrecise, ParseSnapMode("PRECISE"))
	assert.Equal(t, SnapSmart, ParseSnapMode("SMART"))
	assert.Equal(t, SnapGrid, ParseSnapMode("GRID"))
	assert.Equal(t, SnapGrid, ParseSnapMode("bogus"))
}

func placedWeek() WeekSchedule {
	ws := NewWeekSchedule()
	ws.Days[1].Blocks = []TimeBlock{
		{Start: 540, Duration: 30, Meta: &BlockMeta{ParticipantID: "a", ParticipantName: "Ada"}},
		{Start: 600, Duration: 30, Meta: &BlockMeta{ParticipantID: "b", ParticipantName: "Ben"}},
	}
	return ws
}

func TestMoveAssignmentAcceptsLegalMove(t *testing.T) {
	week := placedWeek()
	owner := availabilityOn(2, 540, 120)
	participant := availabilityOn(2, 540, 120)

	moved, ok := MoveAssignment(week, MoveRequest{FromDay: 1, FromIndex: 0, ToDay: 2, ToStart: 570}, &owner, &participant)
	require.True(t, ok)
	require.Len(t, moved.Days[1].Blocks, 1)
	require.Len(t, moved.Days[2].Blocks, 1)
	assert.Equal(t, 570, moved.Days[2].Blocks[0].Start)
	require.NotNil(t, moved.Days[2].Blocks[0].Meta)
	assert.Equal(t, "a", moved.Days[2].Blocks[0].Meta.ParticipantID, "metadata preserved")
	assert.Len(t, week.Days[1].Blocks, 2, "input schedule untouched")
}

func TestMoveAssignmentSameDayExcludesSelf(t *testing.T) {
	week := placedWeek()

	// shifting "a" by 15 minutes would overlap its own original interval
	moved, ok := MoveAssignment(week, MoveRequest{FromDay: 1, FromIndex: 0, ToDay: 1, ToStart: 555}, nil, nil)
	require.True(t, ok)
	assert.Equal(t, 555, moved.Days[1].Blocks[0].Start)
}

func TestMoveAssignmentRejectsOverlapWithOtherLesson(t *testing.T) {
	week := placedWeek()

	moved, ok := MoveAssignment(week, MoveRequest{FromDay: 1, FromIndex: 0, ToDay: 1, ToStart: 615}, nil, nil)
	assert.False(t, ok)
	assert.Equal(t, week, moved, "rejection mutates nothing")
}

func TestMoveAssignmentRejectsOutsideDropZones(t *testing.T) {
	week := placedWeek()
	owner := availabilityOn(2, 540, 60)
	participant := availabilityOn(2, 540, 60)

	_, ok := MoveAssignment(week, MoveRequest{FromDay: 1, FromIndex: 0, ToDay: 2, ToStart: 700}, &owner, &participant)
	assert.False(t, ok)
}

func TestMoveAssignmentSkipsZoneCheckWithoutAvailability(t *testing.T) {
	week := placedWeek()

	_, ok := MoveAssignment(week, MoveRequest{FromDay: 1, FromIndex: 0, ToDay: 6, ToStart: 60}, nil, nil)
	assert.True(t, ok, "missing availability data means legacy accept")
}

func TestMoveAssignmentRejectsBadIndices(t *testing.T) {
	week := placedWeek()

	_, ok := MoveAssignment(week, MoveRequest{FromDay: 1, FromIndex: 5, ToDay: 1, ToStart: 700}, nil, nil)
	assert.False(t, ok)

	_, ok = MoveAssignment(week, MoveRequest{FromDay: 9, FromIndex: 0, ToDay: 1, ToStart: 700}, nil, nil)
	assert.False(t, ok)

	_, ok = MoveAssignment(week, MoveRequest{FromDay: 1, FromIndex: 0, ToDay: 1, ToStart: 1430}, nil, nil)
	assert.False(t, ok, "landing interval must fit inside the day")
}

func TestMoveAssignmentKeepsDestinationSorted(t *testing.T) {
	week := placedWeek()

	moved, ok := MoveAssignment(week, MoveRequest{FromDay: 1, FromIndex: 1, ToDay: 1, ToStart: 480}, nil, nil)
	require.True(t, ok)
	require.Len(t, moved.Days[1].Blocks, 2)
	assert.Equal(t, 480, moved.Days[1].Blocks[0].Start)
	assert.Equal(t, "b", moved.Days[1].Blocks[0].Meta.ParticipantID)
	assert.Equal(t, 540, moved.Days[1].Blocks[1].Start)
}
