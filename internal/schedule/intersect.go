package schedule

import "sort"

// ValidDropZones computes, for one day, the canonical zones where both
// parties are free long enough to host a slot of the given duration. Each
// pairwise overlap of an a-block and a b-block that is at least duration
// long is discretized into candidate windows stepped at SnapStride from the
// overlap start, and the windows are merged into non-overlapping zones.
// Zones cover only stride-aligned offsets of the true intersection, which
// keeps UI snapping predictable.
//
// If either party has no blocks for the day the result is empty: absence
// means "no availability", not "unconstrained".
func ValidDropZones(day, duration int, a, b WeekSchedule) []TimeBlock {
	windows := candidateWindows(day, duration, a, b)
	if len(windows) == 0 {
		return nil
	}
	return MergeTimeBlocks(windows)
}

// ValidDropPositions returns the deduplicated, ascending candidate start
// minutes for a slot of the given duration on the given day. Used for
// nearest-position snapping.
func ValidDropPositions(day, duration int, a, b WeekSchedule) []int {
	windows := candidateWindows(day, duration, a, b)
	if len(windows) == 0 {
		return nil
	}
	seen := make(map[int]struct{}, len(windows))
	positions := make([]int, 0, len(windows))
	for _, w := range windows {
		if _, ok := seen[w.Start]; ok {
			continue
		}
		seen[w.Start] = struct{}{}
		positions = append(positions, w.Start)
	}
	sort.Ints(positions)
	return positions
}

// IsValidPlacement reports whether [start, start+duration) fits wholly
// inside some zone returned by ValidDropZones.
func IsValidPlacement(day, start, duration int, a, b WeekSchedule) bool {
	for _, zone := range ValidDropZones(day, duration, a, b) {
		if start >= zone.Start && start+duration <= zone.End() {
			return true
		}
	}
	return false
}

func candidateWindows(day, duration int, a, b WeekSchedule) []TimeBlock {
	if day < 0 || day > 6 || duration <= 0 {
		return nil
	}
	blocksA := a.Days[day].Blocks
	blocksB := b.Days[day].Blocks
	if len(blocksA) == 0 || len(blocksB) == 0 {
		return nil
	}

	var windows []TimeBlock
	for _, ba := range blocksA {
		for _, bb := range blocksB {
			start := maxInt(ba.Start, bb.Start)
			end := minInt(ba.End(), bb.End())
			if end-start < duration {
				continue
			}
			for offset := start; offset <= end-duration; offset += SnapStride {
				windows = append(windows, TimeBlock{Start: offset, Duration: duration})
			}
		}
	}
	return windows
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
