package schedule

// SnapMode governs how a dragged block's start minute is rounded before a
// drop is evaluated.
type SnapMode string

const (
	// SnapGrid rounds to the nearest 15-minute boundary.
	SnapGrid SnapMode = "GRID"
	// SnapPrecise applies no rounding at all.
	SnapPrecise SnapMode = "PRECISE"
	// SnapSmart snaps to the nearest valid drop position for the dragged
	// participant, falling back to SnapGrid when the day has none.
	SnapSmart SnapMode = "SMART"
)

// ParseSnapMode normalises a raw mode string, defaulting to SnapGrid.
func ParseSnapMode(raw string) SnapMode {
	switch SnapMode(raw) {
	case SnapPrecise:
		return SnapPrecise
	case SnapSmart:
		return SnapSmart
	default:
		return SnapGrid
	}
}

// SnapStart applies the snap policy to a target start minute. Smart snapping
// needs both parties' availability; when either is nil it degrades to Grid.
func SnapStart(mode SnapMode, day, start, duration int, owner, participant *WeekSchedule) int {
	switch mode {
	case SnapPrecise:
		return clampStart(start, duration)
	case SnapSmart:
		if owner == nil || participant == nil {
			return snapToGrid(start, duration)
		}
		positions := ValidDropPositions(day, duration, *owner, *participant)
		if len(positions) == 0 {
			return snapToGrid(start, duration)
		}
		best := positions[0]
		for _, pos := range positions[1:] {
			if absInt(pos-start) < absInt(best-start) {
				best = pos
			}
		}
		return best
	default:
		return snapToGrid(start, duration)
	}
}

func snapToGrid(start, duration int) int {
	rounded := ((start + SnapStride/2) / SnapStride) * SnapStride
	return clampStart(rounded, duration)
}

func clampStart(start, duration int) int {
	if start < 0 {
		return 0
	}
	if start+duration > MinutesPerDay {
		return MinutesPerDay - duration
	}
	return start
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// MoveRequest repositions an existing placement block, possibly across days.
// The moved block is identified by its original index within the origin day.
type MoveRequest struct {
	FromDay   int `json:"fromDay"`
	FromIndex int `json:"fromIndex"`
	ToDay     int `json:"toDay"`
	ToStart   int `json:"toStart"`
}

// MoveAssignment attempts to move one placed block to a new day/time.
// Acceptance requires the landing interval to sit inside a valid drop zone
// (skipped when either party's availability is nil, preserving behaviour for
// incomplete data) and to be clear of every other block on the destination
// day, the moved block excluded by its original index so same-day moves work.
// On acceptance a new schedule is returned with the block re-homed, metadata
// preserved and touched days re-sorted but never merged. On rejection the
// input schedule is returned unchanged with ok=false; no error is raised.
func MoveAssignment(week WeekSchedule, req MoveRequest, owner, participant *WeekSchedule) (WeekSchedule, bool) {
	if req.FromDay < 0 || req.FromDay > 6 || req.ToDay < 0 || req.ToDay > 6 {
		return week, false
	}
	if req.FromIndex < 0 || req.FromIndex >= len(week.Days[req.FromDay].Blocks) {
		return week, false
	}

	block := week.Days[req.FromDay].Blocks[req.FromIndex]
	if req.ToStart < 0 || req.ToStart+block.Duration > MinutesPerDay {
		return week, false
	}

	if owner != nil && participant != nil {
		if !IsValidPlacement(req.ToDay, req.ToStart, block.Duration, *owner, *participant) {
			return week, false
		}
	}

	landing := TimeBlock{Start: req.ToStart, Duration: block.Duration}
	for i, other := range week.Days[req.ToDay].Blocks {
		if req.ToDay == req.FromDay && i == req.FromIndex {
			continue
		}
		if landing.Overlaps(other) {
			return week, false
		}
	}

	moved := TimeBlock{Start: req.ToStart, Duration: block.Duration, Meta: block.Meta}
	out := week.RemoveBlock(req.FromDay, req.FromIndex)
	out = out.AddBlock(req.ToDay, moved)
	return out, true
}
