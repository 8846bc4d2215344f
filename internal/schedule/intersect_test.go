package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func availabilityOn(day, start, duration int) WeekSchedule {
	ws := NewWeekSchedule()
	ws.Days[day].Blocks = []TimeBlock{{Start: start, Duration: duration}}
	return ws
}

func TestValidDropZonesBasicOverlap(t *testing.T) {
	owner := availabilityOn(1, 540, 120)       // 9:00-11:00
	participant := availabilityOn(1, 600, 120) // 10:00-12:00

	zones := ValidDropZones(1, 30, owner, participant)
	require.Len(t, zones, 1)
	// overlap is 600-660; 30-minute windows stepped at 15 start at 600..630
	assert.Equal(t, 600, zones[0].Start)
	assert.Equal(t, 660, zones[0].End())
}

func TestValidDropZonesRespectDuration(t *testing.T) {
	owner := availabilityOn(2, 540, 45)
	participant := availabilityOn(2, 540, 45)

	assert.Empty(t, ValidDropZones(2, 60, owner, participant), "45-minute overlap cannot host 60 minutes")

	zones := ValidDropZones(2, 30, owner, participant)
	require.NotEmpty(t, zones)
	for _, zone := range zones {
		assert.GreaterOrEqual(t, zone.Duration, 30)
		assert.GreaterOrEqual(t, zone.Start, 540)
		assert.LessOrEqual(t, zone.End(), 585, "zones stay inside the true overlap")
	}
}

func TestValidDropZonesEmptyWhenEitherSideAbsent(t *testing.T) {
	owner := availabilityOn(3, 540, 120)

	assert.Empty(t, ValidDropZones(3, 30, owner, NewWeekSchedule()))
	assert.Empty(t, ValidDropZones(3, 30, NewWeekSchedule(), owner))
	assert.Empty(t, ValidDropZones(4, 30, owner, owner), "no blocks on that day")
}

func TestValidDropZonesMultiplePairs(t *testing.T) {
	owner := NewWeekSchedule()
	owner.Days[5].Blocks = []TimeBlock{{Start: 480, Duration: 60}, {Start: 720, Duration: 60}}
	participant := NewWeekSchedule()
	participant.Days[5].Blocks = []TimeBlock{{Start: 480, Duration: 300}}

	zones := ValidDropZones(5, 30, owner, participant)
	require.Len(t, zones, 2)
	assert.Equal(t, 480, zones[0].Start)
	assert.Equal(t, 720, zones[1].Start)
}

func TestValidDropPositionsAscendingDeduplicated(t *testing.T) {
	owner := availabilityOn(1, 540, 90)
	participant := availabilityOn(1, 540, 90)

	positions := ValidDropPositions(1, 30, owner, participant)
	assert.Equal(t, []int{540, 555, 570, 585, 600}, positions)
}

func TestValidDropPositionsEmpty(t *testing.T) {
	assert.Empty(t, ValidDropPositions(0, 30, NewWeekSchedule(), NewWeekSchedule()))
}

func TestIsValidPlacementAgreesWithZones(t *testing.T) {
	owner := availabilityOn(1, 540, 120)
	participant := availabilityOn(1, 540, 120)

	tests := []struct {
		name     string
		start    int
		duration int
		want     bool
	}{
		{"at zone start", 540, 30, true},
		{"mid zone", 570, 60, true},
		{"fills whole overlap", 540, 60, true},
		{"runs past zone end", 645, 30, false},
		{"before zone", 500, 30, false},
		{"unaligned but inside zone", 545, 30, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsValidPlacement(1, tc.start, tc.duration, owner, participant))
		})
	}
}
