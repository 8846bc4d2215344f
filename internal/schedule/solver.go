package schedule

import (
	"errors"
	"fmt"
)

const (
	cellMinutes = 30
	cellsPerDay = MinutesPerDay / cellMinutes
)

// Supported lesson durations in minutes.
const (
	DurationShort = 30
	DurationLong  = 60
)

// ErrNoAvailableSlot is returned when the solver cannot place a participant.
// Callers running a batch must record the participant as unscheduled and
// continue rather than abort.
var ErrNoAvailableSlot = errors.New("no available slot for requested duration")

// Person is one participant to be matched into the schedule.
type Person struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	RequiredMinutes int    `json:"requiredDurationMinutes"`
}

// Booking is the single-slot output of one solver invocation.
type Booking struct {
	ParticipantID string `json:"participantId,omitempty"`
	Day           int    `json:"day"`
	Start         int    `json:"start"`
	Duration      int    `json:"duration"`
}

// LessonAssignment is one committed placement.
type LessonAssignment struct {
	ParticipantID string `json:"participantId"`
	DayOfWeek     int    `json:"dayOfWeek"`
	StartMinute   int    `json:"startMinute"`
	DurationMins  int    `json:"durationMinutes"`
}

// SolutionMeta summarises a batch run.
type SolutionMeta struct {
	TotalParticipants     int `json:"totalParticipants"`
	ScheduledParticipants int `json:"scheduledParticipants"`
}

// ScheduleSolution is the outcome of solving a batch of participants.
type ScheduleSolution struct {
	Assignments []LessonAssignment `json:"assignments"`
	Unscheduled []string           `json:"unscheduled"`
	Meta        SolutionMeta       `json:"metadata"`
}

// weekGrid is a half-hour-resolution boolean projection of a WeekSchedule,
// true meaning free. It is computed on demand and discarded; the interval
// model stays the single source of truth.
type weekGrid [7][cellsPerDay]bool

func gridFromWeek(ws WeekSchedule) weekGrid {
	var grid weekGrid
	for day := 0; day < 7; day++ {
		for _, block := range MergeTimeBlocks(ws.Days[day].Blocks) {
			first := (block.Start + cellMinutes - 1) / cellMinutes
			last := block.End() / cellMinutes
			for cell := first; cell < last && cell < cellsPerDay; cell++ {
				if cell >= 0 {
					grid[day][cell] = true
				}
			}
		}
	}
	return grid
}

func fullyFreeGrid() weekGrid {
	var grid weekGrid
	for day := 0; day < 7; day++ {
		for cell := 0; cell < cellsPerDay; cell++ {
			grid[day][cell] = true
		}
	}
	return grid
}

func (g *weekGrid) subtract(bookings []Booking) {
	for _, booking := range bookings {
		if booking.Day < 0 || booking.Day > 6 {
			continue
		}
		first := booking.Start / cellMinutes
		last := (booking.Start + booking.Duration + cellMinutes - 1) / cellMinutes
		for cell := first; cell < last && cell < cellsPerDay; cell++ {
			if cell >= 0 {
				g[booking.Day][cell] = false
			}
		}
	}
}

// firstFit scans day-major, time-ascending for the first run of free cells
// long enough for the duration, returning the start minute. The fixed scan
// order makes results reproducible for identical inputs; this is a greedy
// first-fit policy, not an optimal assignment.
func (g *weekGrid) firstFit(duration int) (day, start int, ok bool) {
	needed := duration / cellMinutes
	for day := 0; day < 7; day++ {
		for cell := 0; cell+needed <= cellsPerDay; cell++ {
			fits := true
			for i := 0; i < needed; i++ {
				if !g[day][cell+i] {
					fits = false
					break
				}
			}
			if fits {
				return day, cell * cellMinutes, true
			}
		}
	}
	return 0, 0, false
}

// Solve picks one slot for the participant inside the owner's residual
// availability, after subtracting every already-committed booking. An owner
// who never declared a calendar is treated as fully free so new owners still
// get assignments; an owner who is declared but fully booked fails instead.
func Solve(owner WeekSchedule, committed []Booking, p Person) (Booking, error) {
	if p.RequiredMinutes != DurationShort && p.RequiredMinutes != DurationLong {
		return Booking{}, fmt.Errorf("unsupported duration %d: %w", p.RequiredMinutes, ErrNoAvailableSlot)
	}

	var grid weekGrid
	if IsEmpty(owner) {
		grid = fullyFreeGrid()
	} else {
		grid = gridFromWeek(owner)
	}
	grid.subtract(committed)

	day, start, ok := grid.firstFit(p.RequiredMinutes)
	if !ok {
		return Booking{}, ErrNoAvailableSlot
	}
	return Booking{ParticipantID: p.ID, Day: day, Start: start, Duration: p.RequiredMinutes}, nil
}

// SolveBatch applies Solve to each participant in order, folding every
// successful booking into the committed set before solving the next. An
// unplaceable participant is recorded, never fatal.
func SolveBatch(owner WeekSchedule, committed []Booking, participants []Person) ScheduleSolution {
	solution := ScheduleSolution{
		Assignments: make([]LessonAssignment, 0, len(participants)),
		Unscheduled: make([]string, 0),
		Meta:        SolutionMeta{TotalParticipants: len(participants)},
	}

	working := make([]Booking, len(committed))
	copy(working, committed)

	for _, p := range participants {
		booking, err := Solve(owner, working, p)
		if err != nil {
			solution.Unscheduled = append(solution.Unscheduled, p.ID)
			continue
		}
		working = append(working, booking)
		solution.Assignments = append(solution.Assignments, LessonAssignment{
			ParticipantID: p.ID,
			DayOfWeek:     booking.Day,
			StartMinute:   booking.Start,
			DurationMins:  booking.Duration,
		})
		solution.Meta.ScheduledParticipants++
	}
	return solution
}
