package planner

import "fmt"

// QuickStudyRequest is a same-window-every-day cram session over topics.
type QuickStudyRequest struct {
	Subjects []string
	Topics   map[string][]string
	// Priorities is keyed by "Subject" or "Subject/Topic"; the latter wins.
	Priorities     map[string]Priority
	Start          Clock
	End            Clock
	BreakMinutes   int
	SessionMinutes int
	Activities     []string
	Days           int
}

const (
	DefaultQuickDays      = 2
	defaultBreakMinutes   = 15
	defaultSessionMinutes = 50
	defaultBreakLabel     = "Take a break"
)

var (
	defaultWindowStart = MustClock("08:00")
	defaultWindowEnd   = MustClock("20:00")
)

type topicRef struct {
	subject, topic string
}

// QuickStudyPlan walks every topic through read/notes/practice/review
// blocks, each followed by a break, inside the daily study window. When a
// day's window is used up the schedule carries on in the next day's window.
func QuickStudyPlan(req QuickStudyRequest, opts Options) Plan {
	o := opts.withDefaults()
	today := startOfDay(o.Now())

	start, end := req.Start, req.End
	if end <= start {
		start, end = defaultWindowStart, defaultWindowEnd
	}
	session := req.SessionMinutes
	if session <= 0 {
		session = defaultSessionMinutes
	}
	study := max(1, session/2)
	rest := req.BreakMinutes
	if rest <= 0 {
		rest = defaultBreakMinutes
	}
	maxDays := req.Days
	if maxDays <= 0 {
		maxDays = DefaultQuickDays
	}

	var refs []topicRef
	for _, subject := range req.Subjects {
		topics := req.Topics[subject]
		if len(topics) == 0 {
			topics = []string{subject}
		}
		for _, topic := range topics {
			refs = append(refs, topicRef{subject: subject, topic: topic})
		}
	}
	if len(refs) == 0 {
		return newPlan(o, PlanQuickStudy, nil)
	}

	var list taskList
	day, cur := 0, start
	date := func() string { return today.AddDate(0, 0, day).Format(DateLayout) }

	full := false
	for _, ref := range refs {
		priority := quickPriority(req.Priorities, ref)
		for _, desc := range quickSubtasks(ref.topic) {
			if cur >= end {
				day, cur = day+1, start
			}
			if day >= maxDays {
				full = true
				break
			}

			next := min(cur.Add(study), end)
			list.add(Task{
				Subject:     ref.subject,
				Description: desc,
				Date:        date(),
				StartTime:   cur.String(),
				EndTime:     next.String(),
				Type:        TaskStudy,
				Priority:    priority,
			})
			cur = next

			if cur < end {
				next = min(cur.Add(rest), end)
				list.add(Task{
					Subject:     "Break",
					Description: o.breakActivity(req.Activities),
					Date:        date(),
					StartTime:   cur.String(),
					EndTime:     next.String(),
					Type:        TaskBreak,
				})
				cur = next
			}
		}
		if full {
			break
		}
	}

	// Reviews that no longer fit start over in the last allowed day's window.
	if day >= maxDays {
		day, cur = maxDays-1, start
	}
	for i := 0; list.len() < o.MinTasks; i++ {
		if cur >= end {
			day, cur = min(day+1, maxDays-1), start
		}
		ref := refs[i%len(refs)]
		next := min(cur.Add(study), end)
		list.add(Task{
			Subject:     ref.subject,
			Description: fmt.Sprintf("Review %s notes", ref.topic),
			Date:        date(),
			StartTime:   cur.String(),
			EndTime:     next.String(),
			Type:        TaskReview,
			Priority:    quickPriority(req.Priorities, ref),
		})
		cur = next
	}

	return newPlan(o, PlanQuickStudy, list.tasks)
}

func quickSubtasks(topic string) []string {
	return []string{
		fmt.Sprintf("Read about %s", topic),
		fmt.Sprintf("Take notes on %s", topic),
		fmt.Sprintf("Practice problems on %s", topic),
		fmt.Sprintf("Review %s concepts", topic),
	}
}

func quickPriority(priorities map[string]Priority, ref topicRef) Priority {
	if p, ok := priorities[ref.subject+"/"+ref.topic]; ok && p.Valid() {
		return p
	}
	if p, ok := priorities[ref.subject]; ok && p.Valid() {
		return p
	}
	return PriorityMedium
}

func (o Options) breakActivity(activities []string) string {
	if len(activities) == 0 {
		return defaultBreakLabel
	}
	return activities[o.pick(len(activities))]
}
