// Package insights summarises plan completion and when the user actually
// gets work done.
package insights

import (
	"sort"
	"time"

	"github.com/christopherklint97/studyr/internal/planner"
	"github.com/christopherklint97/studyr/internal/store"
)

type SubjectStat struct {
	Subject   string
	Total     int
	Completed int
}

func (s SubjectStat) Rate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Completed) / float64(s.Total) * 100
}

type Summary struct {
	Plans          int
	Tasks          int
	Completed      int
	CompletionRate float64
	Subjects       []SubjectStat
}

// Summarize totals tasks across plans. progress is keyed by plan ID; plans
// without an entry count as untouched. Breaks are left out of the subject
// breakdown but not out of the totals.
func Summarize(plans []planner.Plan, progress map[string]planner.Progress) Summary {
	s := Summary{Plans: len(plans)}
	index := make(map[string]int)

	for _, p := range plans {
		prog := progress[p.ID]
		s.Tasks += len(p.Tasks)
		for i, t := range p.Tasks {
			done := prog.IsDone(i)
			if done {
				s.Completed++
			}
			if t.Type == planner.TaskBreak || t.Subject == "Break" {
				continue
			}
			j, ok := index[t.Subject]
			if !ok {
				j = len(s.Subjects)
				index[t.Subject] = j
				s.Subjects = append(s.Subjects, SubjectStat{Subject: t.Subject})
			}
			s.Subjects[j].Total++
			if done {
				s.Subjects[j].Completed++
			}
		}
	}

	if s.Tasks > 0 {
		s.CompletionRate = float64(s.Completed) / float64(s.Tasks) * 100
	}
	return s
}

type Bucket string

const (
	Morning   Bucket = "Morning"
	Afternoon Bucket = "Afternoon"
	Evening   Bucket = "Evening"
	Night     Bucket = "Night"
)

var buckets = []Bucket{Morning, Afternoon, Evening, Night}

// Hours returns the bucket's span for display.
func (b Bucket) Hours() string {
	switch b {
	case Morning:
		return "06:00-12:00"
	case Afternoon:
		return "12:00-17:00"
	case Evening:
		return "17:00-21:00"
	default:
		return "21:00-06:00"
	}
}

func BucketOf(t time.Time) Bucket {
	switch h := t.Hour(); {
	case h >= 6 && h < 12:
		return Morning
	case h >= 12 && h < 17:
		return Afternoon
	case h >= 17 && h < 21:
		return Evening
	default:
		return Night
	}
}

type TimeSlot struct {
	Bucket      Bucket
	Completions int
}

// TimeOfDay counts completed tasks per bucket, busiest first. A task
// counts once, at the time of its latest change, and only while it is
// still done. activity must be oldest first. All four buckets are always
// present.
func TimeOfDay(activity []store.Activity) []TimeSlot {
	type taskKey struct {
		plan  string
		index int
	}
	latest := make(map[taskKey]store.Activity)
	for _, a := range activity {
		latest[taskKey{a.PlanID, a.TaskIndex}] = a
	}

	counts := make(map[Bucket]int)
	for _, a := range latest {
		if a.Completed {
			counts[BucketOf(a.At)]++
		}
	}
	out := make([]TimeSlot, len(buckets))
	for i, b := range buckets {
		out[i] = TimeSlot{Bucket: b, Completions: counts[b]}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Completions > out[j].Completions })
	return out
}

type Patterns struct {
	ProductiveTimes     []Bucket
	EffectiveTechniques []string
	Recommendations     []string
}

var (
	defaultProductiveTimes = []Bucket{Evening, Morning, Afternoon}
	effectiveTechniques    = []string{"Pomodoro", "Spaced Repetition", "Active Recall"}
	recommendations        = []string{
		"Try the Pomodoro Technique for focused study sessions",
		"Schedule difficult subjects during your peak productivity times",
		"Take regular breaks to maintain focus and prevent burnout",
		"Use active recall to improve retention of key concepts",
	}
)

// Analyze ranks the buckets the user has completed tasks in. With no
// recorded completions it falls back to a general Evening, Morning,
// Afternoon ordering.
func Analyze(activity []store.Activity) Patterns {
	p := Patterns{
		EffectiveTechniques: append([]string(nil), effectiveTechniques...),
		Recommendations:     append([]string(nil), recommendations...),
	}
	for _, slot := range TimeOfDay(activity) {
		if slot.Completions > 0 {
			p.ProductiveTimes = append(p.ProductiveTimes, slot.Bucket)
		}
	}
	if len(p.ProductiveTimes) == 0 {
		p.ProductiveTimes = append([]Bucket(nil), defaultProductiveTimes...)
	}
	return p
}
