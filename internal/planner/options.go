package planner

import (
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultMinTasks is the smallest plan any generator will hand back.
const DefaultMinTasks = 8

// Options carries the knobs and injected sources shared by the generators.
type Options struct {
	Now         func() time.Time
	Rand        *rand.Rand
	MinTasks    int
	Multipliers Multipliers
	NewID       func() string
}

func (o Options) withDefaults() Options {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.MinTasks <= 0 {
		o.MinTasks = DefaultMinTasks
	}
	if o.Multipliers == (Multipliers{}) {
		o.Multipliers = ExamMultipliers
	}
	if o.NewID == nil {
		o.NewID = NewPlanID
	}
	return o
}

func (o Options) pick(n int) int {
	if o.Rand != nil {
		return o.Rand.IntN(n)
	}
	return rand.IntN(n)
}

// NewPlanID returns a time-ordered plan identifier.
func NewPlanID() string {
	return "plan_" + uuid.Must(uuid.NewV7()).String()
}

func newPlan(o Options, typ PlanType, tasks []Task) Plan {
	if tasks == nil {
		tasks = []Task{}
	}
	return Plan{
		ID:        o.NewID(),
		Type:      typ,
		CreatedAt: o.Now().Format(CreatedAtLayout),
		Tasks:     tasks,
	}
}

// taskList assigns contiguous IDs as tasks are appended.
type taskList struct {
	tasks []Task
}

func (l *taskList) add(t Task) {
	t.ID = len(l.tasks)
	l.tasks = append(l.tasks, t)
}

func (l *taskList) len() int {
	return len(l.tasks)
}

const (
	maxSlotMinutes = 180
	minSlotMinutes = 30
)

var (
	morningStart   = MustClock("08:00")
	afternoonStart = MustClock("13:00")
	eveningStart   = MustClock("17:00")
	nightStart     = MustClock("20:00")
	reviewStart    = MustClock("21:00")
	fillerStart    = MustClock("19:00")
)

func prefers(preferred []string, want string) bool {
	for _, p := range preferred {
		if strings.EqualFold(strings.TrimSpace(p), want) {
			return true
		}
	}
	return false
}

// slotStart picks the start of a session from the time-of-day preferences
// and the session's index within its day.
func slotStart(preferred []string, session int) Clock {
	switch {
	case prefers(preferred, "Morning") && session == 0:
		return morningStart
	case prefers(preferred, "Afternoon") || session == 1:
		return afternoonStart
	case prefers(preferred, "Evening") || session == 2:
		return eveningStart
	default:
		return nightStart
	}
}

// slotWidth is min(dailyHours / sessionsPerDay, 3h) in minutes.
func slotWidth(dailyHours float64, sessionsPerDay int) int {
	if sessionsPerDay < 1 {
		sessionsPerDay = 1
	}
	w := int(dailyHours * 60 / float64(sessionsPerDay))
	return min(max(w, minSlotMinutes), maxSlotMinutes)
}

// maxSessionsPerDay is the number of distinct rows in the slot table.
const maxSessionsPerDay = 4

// sessionsPerDay packs more sessions into short horizons with few items
// so that the plan still has something to do each sitting.
func sessionsPerDay(items, days int) int {
	if days < 4 && items < 4 && items > 0 {
		return min(maxSessionsPerDay, max(2, 8/(items*max(days, 1))))
	}
	return 1
}
