package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeTimeBlocksCoalescesTouchingAndOverlapping(t *testing.T) {
	blocks := []TimeBlock{
		{Start: 600, Duration: 60},
		{Start: 540, Duration: 60},  // touches 600
		{Start: 630, Duration: 90},  // overlaps 600-660
		{Start: 900, Duration: 30},  // isolated
	}

	merged := MergeTimeBlocks(blocks)
	require.Len(t, merged, 2)
	assert.Equal(t, TimeBlock{Start: 540, Duration: 180}, merged[0])
	assert.Equal(t, TimeBlock{Start: 900, Duration: 30}, merged[1])
}

func TestMergeTimeBlocksIdempotent(t *testing.T) {
	blocks := []TimeBlock{
		{Start: 120, Duration: 45},
		{Start: 150, Duration: 60},
		{Start: 300, Duration: 15},
	}

	once := MergeTimeBlocks(blocks)
	twice := MergeTimeBlocks(once)
	assert.Equal(t, once, twice)

	for i := 1; i < len(once); i++ {
		assert.LessOrEqual(t, once[i-1].End(), once[i].Start, "output must be sorted and non-overlapping")
	}
}

func TestMergeTimeBlocksOrderIndependent(t *testing.T) {
	forward := []TimeBlock{{Start: 60, Duration: 30}, {Start: 90, Duration: 30}, {Start: 200, Duration: 10}}
	backward := []TimeBlock{{Start: 200, Duration: 10}, {Start: 90, Duration: 30}, {Start: 60, Duration: 30}}

	assert.Equal(t, MergeTimeBlocks(forward), MergeTimeBlocks(backward))
}

func TestMergeTimeBlocksEmpty(t *testing.T) {
	assert.Nil(t, MergeTimeBlocks(nil))
	assert.Nil(t, MergeTimeBlocks([]TimeBlock{}))
}

func TestValidateWeekScheduleValid(t *testing.T) {
	ws := NewWeekSchedule()
	ws.Days[1].Blocks = []TimeBlock{{Start: 540, Duration: 60}, {Start: 600, Duration: 30}}

	assert.Empty(t, ValidateWeekSchedule(ws))
}

func TestValidateWeekScheduleCollectsAllViolations(t *testing.T) {
	ws := NewWeekSchedule()
	ws.Days[0].Blocks = []TimeBlock{{Start: -10, Duration: 30}}
	ws.Days[2].Blocks = []TimeBlock{{Start: 540, Duration: 60}, {Start: 570, Duration: 30}} // overlap
	ws.Days[5].Blocks = []TimeBlock{{Start: 1430, Duration: 30}}                            // past midnight

	issues := ValidateWeekSchedule(ws)
	require.Len(t, issues, 3)

	codes := map[string]ValidationIssue{}
	for _, issue := range issues {
		codes[issue.Code] = issue
	}
	assert.Equal(t, 0, codes[IssueNegativeStart].Day)
	assert.Equal(t, 2, codes[IssueOverlap].Day)
	assert.Equal(t, 1, codes[IssueOverlap].Block)
	assert.Equal(t, 5, codes[IssueOutOfBounds].Day)
}

func TestValidateWeekScheduleUnsorted(t *testing.T) {
	ws := NewWeekSchedule()
	ws.Days[3].Blocks = []TimeBlock{{Start: 600, Duration: 30}, {Start: 540, Duration: 30}}

	issues := ValidateWeekSchedule(ws)
	require.Len(t, issues, 1)
	assert.Equal(t, IssueUnsorted, issues[0].Code)
}

func TestIsEmpty(t *testing.T) {
	ws := NewWeekSchedule()
	assert.True(t, IsEmpty(ws))

	ws.Days[6].Blocks = []TimeBlock{{Start: 0, Duration: 15}}
	assert.False(t, IsEmpty(ws))
}

func TestAddAndRemoveBlockCopySemantics(t *testing.T) {
	original := NewWeekSchedule()
	original.Days[1].Blocks = []TimeBlock{{Start: 600, Duration: 30}}

	added := original.AddBlock(1, TimeBlock{Start: 540, Duration: 30})
	require.Len(t, added.Days[1].Blocks, 2)
	assert.Equal(t, 540, added.Days[1].Blocks[0].Start, "blocks stay sorted after insert")
	assert.Len(t, original.Days[1].Blocks, 1, "original untouched")

	removed := added.RemoveBlock(1, 0)
	require.Len(t, removed.Days[1].Blocks, 1)
	assert.Equal(t, 600, removed.Days[1].Blocks[0].Start)
	assert.Len(t, added.Days[1].Blocks, 2, "source of removal untouched")
}
