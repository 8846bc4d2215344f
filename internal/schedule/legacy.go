package schedule

// Legacy interchange format: a day-name-keyed map of hour/minute ranges used
// when exchanging availability with the persistence collaborator. Conversion
// is lossless for times aligned to 15-minute boundaries.

// ClockTime is an hour/minute pair in the legacy format.
type ClockTime struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// LegacyRange is one start/end pair in the legacy format.
type LegacyRange struct {
	Start ClockTime `json:"start"`
	End   ClockTime `json:"end"`
}

// DayMap maps day names ("Sunday".."Saturday") to ordered ranges.
type DayMap map[string][]LegacyRange

var dayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

var dayNameIndex = map[string]int{
	"Sunday":    0,
	"Monday":    1,
	"Tuesday":   2,
	"Wednesday": 3,
	"Thursday":  4,
	"Friday":    5,
	"Saturday":  6,
}

// DayName returns the legacy name for a day index, or "" when out of range.
func DayName(day int) string {
	if day < 0 || day > 6 {
		return ""
	}
	return dayNames[day]
}

// DayIndex resolves a legacy day name to its 0-6 index, -1 when unknown.
func DayIndex(name string) int {
	if idx, ok := dayNameIndex[name]; ok {
		return idx
	}
	return -1
}

// ToDayMap converts a week schedule into the legacy day-map format. Days
// without blocks are omitted.
func ToDayMap(ws WeekSchedule) DayMap {
	out := make(DayMap)
	for day, ds := range ws.Days {
		if len(ds.Blocks) == 0 {
			continue
		}
		ranges := make([]LegacyRange, 0, len(ds.Blocks))
		for _, block := range ds.Blocks {
			end := block.End()
			ranges = append(ranges, LegacyRange{
				Start: ClockTime{Hour: block.Start / 60, Minute: block.Start % 60},
				End:   ClockTime{Hour: end / 60, Minute: end % 60},
			})
		}
		out[dayNames[day]] = ranges
	}
	return out
}

// FromDayMap converts a legacy day map back into a week schedule. Unknown
// day names and empty or inverted ranges are dropped.
func FromDayMap(dm DayMap) WeekSchedule {
	ws := NewWeekSchedule()
	for name, ranges := range dm {
		day := DayIndex(name)
		if day < 0 {
			continue
		}
		for _, r := range ranges {
			start := r.Start.Hour*60 + r.Start.Minute
			end := r.End.Hour*60 + r.End.Minute
			if end <= start || start < 0 || end > MinutesPerDay {
				continue
			}
			ws.Days[day].Blocks = append(ws.Days[day].Blocks, TimeBlock{Start: start, Duration: end - start})
		}
		sortBlocks(ws.Days[day].Blocks)
	}
	return ws
}
