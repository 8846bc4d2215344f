package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolveFirstFitThirtyMinutes(t *testing.T) {
	owner := availabilityOn(1, 540, 60) // Monday 9:00-10:00

	booking, err := Solve(owner, nil, Person{ID: "p1", RequiredMinutes: 30})
	require.NoError(t, err)
	assert.Equal(t, Booking{ParticipantID: "p1", Day: 1, Start: 540, Duration: 30}, booking)
}

func TestSolveSecondParticipantAfterCommit(t *testing.T) {
	owner := availabilityOn(1, 540, 60)

	first, err := Solve(owner, nil, Person{ID: "p1", RequiredMinutes: 30})
	require.NoError(t, err)

	second, err := Solve(owner, []Booking{first}, Person{ID: "p2", RequiredMinutes: 30})
	require.NoError(t, err)
	assert.Equal(t, 1, second.Day)
	assert.Equal(t, 570, second.Start)
	assert.Equal(t, 30, second.Duration)
}

func TestSolveSixtyMinutesNeedsAdjacentCells(t *testing.T) {
	owner := NewWeekSchedule()
	// isolated half-hour cells, never two adjacent
	owner.Days[1].Blocks = []TimeBlock{{Start: 540, Duration: 30}, {Start: 660, Duration: 30}}
	owner.Days[3].Blocks = []TimeBlock{{Start: 480, Duration: 30}}

	_, err := Solve(owner, nil, Person{ID: "p1", RequiredMinutes: 60})
	assert.ErrorIs(t, err, ErrNoAvailableSlot)
}

func TestSolveSixtyMinutesPicksFirstAdjacentPair(t *testing.T) {
	owner := NewWeekSchedule()
	owner.Days[2].Blocks = []TimeBlock{{Start: 540, Duration: 30}}
	owner.Days[4].Blocks = []TimeBlock{{Start: 600, Duration: 60}}

	booking, err := Solve(owner, nil, Person{ID: "p1", RequiredMinutes: 60})
	require.NoError(t, err)
	assert.Equal(t, 4, booking.Day)
	assert.Equal(t, 600, booking.Start)
}

func TestSolveDayMajorOrder(t *testing.T) {
	owner := NewWeekSchedule()
	owner.Days[5].Blocks = []TimeBlock{{Start: 60, Duration: 30}}
	owner.Days[2].Blocks = []TimeBlock{{Start: 1200, Duration: 30}}

	booking, err := Solve(owner, nil, Person{ID: "p1", RequiredMinutes: 30})
	require.NoError(t, err)
	assert.Equal(t, 2, booking.Day, "earlier day wins over earlier time")
	assert.Equal(t, 1200, booking.Start)
}

func TestSolveFallbackWhenOwnerNeverDeclared(t *testing.T) {
	committed := []Booking{{Day: 0, Start: 0, Duration: 30}}

	booking, err := Solve(NewWeekSchedule(), committed, Person{ID: "p1", RequiredMinutes: 30})
	require.NoError(t, err)
	assert.Equal(t, 0, booking.Day)
	assert.Equal(t, 30, booking.Start, "fully-free fallback still subtracts committed bookings")
}

func TestSolveDeclaredButFullyBookedFails(t *testing.T) {
	owner := availabilityOn(1, 540, 30)
	committed := []Booking{{Day: 1, Start: 540, Duration: 30}}

	_, err := Solve(owner, committed, Person{ID: "p1", RequiredMinutes: 30})
	assert.ErrorIs(t, err, ErrNoAvailableSlot, "declared-but-booked must not fall back to fully free")
}

func TestSolveRejectsUnsupportedDuration(t *testing.T) {
	owner := availabilityOn(1, 540, 120)

	_, err := Solve(owner, nil, Person{ID: "p1", RequiredMinutes: 45})
	assert.ErrorIs(t, err, ErrNoAvailableSlot)
}

func TestSolvePartialCellsAreNotFree(t *testing.T) {
	owner := availabilityOn(1, 555, 45) // covers only half of the 9:00 cell

	booking, err := Solve(owner, nil, Person{ID: "p1", RequiredMinutes: 30})
	require.NoError(t, err)
	assert.Equal(t, 570, booking.Start, "only the fully covered cell is usable")
}

func TestSolveBatchRecordsUnscheduled(t *testing.T) {
	owner := availabilityOn(1, 540, 90)

	solution := SolveBatch(owner, nil, []Person{
		{ID: "p1", RequiredMinutes: 60},
		{ID: "p2", RequiredMinutes: 60}, // only 30 minutes left
		{ID: "p3", RequiredMinutes: 30},
	})

	require.Len(t, solution.Assignments, 2)
	assert.Equal(t, "p1", solution.Assignments[0].ParticipantID)
	assert.Equal(t, 540, solution.Assignments[0].StartMinute)
	assert.Equal(t, "p3", solution.Assignments[1].ParticipantID)
	assert.Equal(t, 600, solution.Assignments[1].StartMinute)
	assert.Equal(t, []string{"p2"}, solution.Unscheduled)
	assert.Equal(t, 3, solution.Meta.TotalParticipants)
	assert.Equal(t, 2, solution.Meta.ScheduledParticipants)
}

func TestSolveBatchDeterministic(t *testing.T) {
	owner := NewWeekSchedule()
	owner.Days[1].Blocks = []TimeBlock{{Start: 540, Duration: 120}}
	owner.Days[3].Blocks = []TimeBlock{{Start: 600, Duration: 60}}
	participants := []Person{
		{ID: "a", RequiredMinutes: 60},
		{ID: "b", RequiredMinutes: 30},
		{ID: "c", RequiredMinutes: 60},
	}

	first := SolveBatch(owner, nil, participants)
	second := SolveBatch(owner, nil, participants)
	assert.Equal(t, first, second)
}
