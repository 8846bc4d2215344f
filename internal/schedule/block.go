package schedule

import (
	"fmt"
	"sort"
)

// MinutesPerDay bounds every block: [Start, Start+Duration) must fit in a day.
const MinutesPerDay = 1440

// SnapStride is the granularity used for drop-zone discretization and grid snapping.
const SnapStride = 15

// BlockMeta tags an interval with the participant it belongs to.
type BlockMeta struct {
	ParticipantID   string `json:"participantId"`
	ParticipantName string `json:"participantName"`
}

// TimeBlock is a contiguous interval of minutes within a day. Start is a
// minute-of-day (0-1439) and Duration is positive. Blocks are value types;
// every engine operation copies rather than mutating in place.
type TimeBlock struct {
	Start    int        `json:"start"`
	Duration int        `json:"duration"`
	Meta     *BlockMeta `json:"meta,omitempty"`
}

// End returns the exclusive end minute of the block.
func (b TimeBlock) End() int {
	return b.Start + b.Duration
}

// Overlaps reports whether two blocks share at least one minute.
func (b TimeBlock) Overlaps(other TimeBlock) bool {
	return b.Start < other.End() && other.Start < b.End()
}

// DaySchedule holds the ordered blocks for one day of the week (0 = Sunday).
type DaySchedule struct {
	Day    int         `json:"day"`
	Blocks []TimeBlock `json:"blocks"`
}

// WeekSchedule is seven per-day block lists. It represents either declared
// availability or finalized lesson placements; availability blocks may be
// coalesced, lesson blocks never are.
type WeekSchedule struct {
	Days [7]DaySchedule `json:"days"`
}

// NewWeekSchedule returns an empty week with day indices populated.
func NewWeekSchedule() WeekSchedule {
	var ws WeekSchedule
	for i := range ws.Days {
		ws.Days[i] = DaySchedule{Day: i}
	}
	return ws
}

// AddBlock returns a copy of the schedule with the block appended to the given
// day and the day's blocks re-sorted by start. Blocks are not merged.
func (ws WeekSchedule) AddBlock(day int, block TimeBlock) WeekSchedule {
	if day < 0 || day > 6 {
		return ws
	}
	out := ws.clone()
	out.Days[day].Blocks = append(out.Days[day].Blocks, block)
	sortBlocks(out.Days[day].Blocks)
	return out
}

// RemoveBlock returns a copy with the block at the given index removed.
func (ws WeekSchedule) RemoveBlock(day, index int) WeekSchedule {
	if day < 0 || day > 6 || index < 0 || index >= len(ws.Days[day].Blocks) {
		return ws
	}
	out := ws.clone()
	blocks := out.Days[day].Blocks
	out.Days[day].Blocks = append(blocks[:index:index], blocks[index+1:]...)
	return out
}

func (ws WeekSchedule) clone() WeekSchedule {
	out := ws
	for i := range out.Days {
		if len(ws.Days[i].Blocks) > 0 {
			out.Days[i].Blocks = make([]TimeBlock, len(ws.Days[i].Blocks))
			copy(out.Days[i].Blocks, ws.Days[i].Blocks)
		}
	}
	return out
}

// IsEmpty reports whether every day has zero blocks.
func IsEmpty(ws WeekSchedule) bool {
	for _, day := range ws.Days {
		if len(day.Blocks) > 0 {
			return false
		}
	}
	return true
}

// MergeTimeBlocks sorts the blocks by start and coalesces any two that touch
// or overlap into one spanning block. The result is sorted, non-overlapping,
// and independent of input order; applying it twice changes nothing. Metadata
// is dropped because merged availability no longer belongs to one participant.
// Never apply this to lesson blocks: adjacent lessons for different
// participants must remain distinct.
func MergeTimeBlocks(blocks []TimeBlock) []TimeBlock {
	if len(blocks) == 0 {
		return nil
	}
	sorted := make([]TimeBlock, len(blocks))
	copy(sorted, blocks)
	sortBlocks(sorted)

	merged := []TimeBlock{{Start: sorted[0].Start, Duration: sorted[0].Duration}}
	for _, next := range sorted[1:] {
		last := &merged[len(merged)-1]
		if next.Start <= last.End() {
			if next.End() > last.End() {
				last.Duration = next.End() - last.Start
			}
			continue
		}
		merged = append(merged, TimeBlock{Start: next.Start, Duration: next.Duration})
	}
	return merged
}

func sortBlocks(blocks []TimeBlock) {
	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].Start < blocks[j].Start
	})
}

// ValidationIssue names one invariant violation inside a week schedule.
type ValidationIssue struct {
	Day     int    `json:"day"`
	Block   int    `json:"block"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Validation issue codes.
const (
	IssueNegativeStart   = "NEGATIVE_START"
	IssueOutOfBounds     = "OUT_OF_BOUNDS"
	IssueNonPositiveSpan = "NON_POSITIVE_DURATION"
	IssueUnsorted        = "UNSORTED"
	IssueOverlap         = "OVERLAP"
)

// ValidateWeekSchedule checks every day for sorted, non-overlapping, bounded
// blocks and returns all violations found rather than stopping at the first.
func ValidateWeekSchedule(ws WeekSchedule) []ValidationIssue {
	var issues []ValidationIssue
	for dayIdx, day := range ws.Days {
		for i, block := range day.Blocks {
			if block.Duration <= 0 {
				issues = append(issues, ValidationIssue{
					Day:     dayIdx,
					Block:   i,
					Code:    IssueNonPositiveSpan,
					Message: fmt.Sprintf("block %d on day %d has non-positive duration %d", i, dayIdx, block.Duration),
				})
			}
			if block.Start < 0 {
				issues = append(issues, ValidationIssue{
					Day:     dayIdx,
					Block:   i,
					Code:    IssueNegativeStart,
					Message: fmt.Sprintf("block %d on day %d starts at negative minute %d", i, dayIdx, block.Start),
				})
			}
			if block.End() > MinutesPerDay {
				issues = append(issues, ValidationIssue{
					Day:     dayIdx,
					Block:   i,
					Code:    IssueOutOfBounds,
					Message: fmt.Sprintf("block %d on day %d ends at minute %d, past end of day", i, dayIdx, block.End()),
				})
			}
			if i == 0 {
				continue
			}
			prev := day.Blocks[i-1]
			if block.Start < prev.Start {
				issues = append(issues, ValidationIssue{
					Day:     dayIdx,
					Block:   i,
					Code:    IssueUnsorted,
					Message: fmt.Sprintf("block %d on day %d starts before block %d", i, dayIdx, i-1),
				})
			} else if block.Start < prev.End() {
				issues = append(issues, ValidationIssue{
					Day:     dayIdx,
					Block:   i,
					Code:    IssueOverlap,
					Message: fmt.Sprintf("block %d on day %d overlaps block %d", i, dayIdx, i-1),
				})
			}
		}
	}
	return issues
}
