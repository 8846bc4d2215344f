package schedule

import "sort"

// ConflictGroup records one pair of assignments whose same-day time ranges
// intersect. Grouping is pairwise: an assignment overlapping several others
// appears in several groups. Transitive clustering is deliberately not
// performed.
type ConflictGroup struct {
	DayOfWeek   int                `json:"dayOfWeek"`
	Assignments []LessonAssignment `json:"assignments"`
}

// DetectConflicts finds every pair of same-day assignments whose
// [start, start+duration) ranges intersect.
func DetectConflicts(assignments []LessonAssignment) []ConflictGroup {
	var groups []ConflictGroup
	for i := 0; i < len(assignments); i++ {
		for j := i + 1; j < len(assignments); j++ {
			a, b := assignments[i], assignments[j]
			if a.DayOfWeek != b.DayOfWeek {
				continue
			}
			if a.StartMinute < b.StartMinute+b.DurationMins && b.StartMinute < a.StartMinute+a.DurationMins {
				groups = append(groups, ConflictGroup{
					DayOfWeek:   a.DayOfWeek,
					Assignments: []LessonAssignment{a, b},
				})
			}
		}
	}
	return groups
}

// UtilizationReport summarises how much of the owner's declared availability
// a solution actually fills.
type UtilizationReport struct {
	ScheduledMinutes int     `json:"scheduledMinutes"`
	AvailableMinutes int     `json:"availableMinutes"`
	UtilizationRate  float64 `json:"utilizationRate"`
	AvgFragmentation float64 `json:"avgFragmentation"`
}

// CalculateUtilization computes load and coverage metrics over a solution.
// AvgFragmentation is the mean, across days with at least one assignment,
// of the unused minutes strictly between consecutive assignments on that day.
func CalculateUtilization(solution ScheduleSolution, ownerAvailability WeekSchedule) UtilizationReport {
	var report UtilizationReport

	for _, a := range solution.Assignments {
		report.ScheduledMinutes += a.DurationMins
	}
	for _, day := range ownerAvailability.Days {
		for _, block := range day.Blocks {
			report.AvailableMinutes += block.Duration
		}
	}
	if report.AvailableMinutes > 0 {
		report.UtilizationRate = 100 * float64(report.ScheduledMinutes) / float64(report.AvailableMinutes)
	}

	byDay := make(map[int][]LessonAssignment)
	for _, a := range solution.Assignments {
		byDay[a.DayOfWeek] = append(byDay[a.DayOfWeek], a)
	}
	var totalGap, daysWithLessons int
	for _, dayAssignments := range byDay {
		daysWithLessons++
		sort.Slice(dayAssignments, func(i, j int) bool {
			return dayAssignments[i].StartMinute < dayAssignments[j].StartMinute
		})
		for i := 1; i < len(dayAssignments); i++ {
			gap := dayAssignments[i].StartMinute - (dayAssignments[i-1].StartMinute + dayAssignments[i-1].DurationMins)
			if gap > 0 {
				totalGap += gap
			}
		}
	}
	if daysWithLessons > 0 {
		report.AvgFragmentation = float64(totalGap) / float64(daysWithLessons)
	}
	return report
}
