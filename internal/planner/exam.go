package planner

import (
	"fmt"
	"time"
)

// ExamRequest describes subjects to cover before an exam date.
type ExamRequest struct {
	Subjects       []WorkItem
	ExamDate       time.Time
	DailyHours     float64
	PreferredTimes []string
}

var examFillers = []struct {
	description string
	typ         TaskType
}{
	{"Final review of all subjects", TaskReview},
	{"Practice mock exam questions", TaskStudy},
	{"Summarize key concepts", TaskStudy},
}

// ExamPlan spreads the subjects over the days left before the exam.
// Each subject gets a consecutive run of days sized by Allocate; a review
// sitting closes every second day of a run.
func ExamPlan(req ExamRequest, opts Options) Plan {
	o := opts.withDefaults()
	today := startOfDay(o.Now())

	var list taskList
	if len(req.Subjects) == 0 {
		p := newPlan(o, PlanExamTime, nil)
		p.ExamDate = req.ExamDate.Format(DateLayout)
		return p
	}

	horizon := max(1, DaysUntil(today, req.ExamDate))
	daily := req.DailyHours
	if daily <= 0 {
		daily = 4
	}

	alloc := Allocate(req.Subjects, horizon, o.Multipliers)
	perDay := sessionsPerDay(len(req.Subjects), horizon)
	width := slotWidth(daily, perDay)
	weekends := prefers(req.PreferredTimes, "Weekend")

	offset := 0
	for i, subject := range req.Subjects {
		priority := subject.priority()
		days := min(alloc[i].Days, horizon)

		for day := 0; day < days; day++ {
			date := today.AddDate(0, 0, (offset+day)%horizon)
			if !weekends && isWeekend(date) {
				continue
			}

			for session := 0; session < perDay; session++ {
				start := slotStart(req.PreferredTimes, session)
				list.add(Task{
					Subject:     subject.Name,
					Description: examSessionDescription(subject.Name, day, session, perDay),
					Date:        date.Format(DateLayout),
					StartTime:   start.String(),
					EndTime:     start.Add(width).String(),
					Type:        TaskStudy,
					Priority:    priority,
				})
			}

			if day > 0 && day%2 == 0 {
				list.add(Task{
					Subject:     subject.Name,
					Description: fmt.Sprintf("Review %s - Quick recap", subject.Name),
					Date:        date.Format(DateLayout),
					StartTime:   reviewStart.String(),
					EndTime:     reviewStart.Add(60).String(),
					Type:        TaskReview,
					Priority:    priority,
				})
			}
		}
		offset += alloc[i].Days
	}

	for i := 0; list.len() < o.MinTasks; i++ {
		f := examFillers[i%len(examFillers)]
		list.add(Task{
			Subject:     "All Subjects",
			Description: f.description,
			Date:        today.AddDate(0, 0, i%horizon).Format(DateLayout),
			StartTime:   fillerStart.String(),
			EndTime:     fillerStart.Add(60).String(),
			Type:        f.typ,
			Priority:    PriorityHigh,
		})
	}

	p := newPlan(o, PlanExamTime, list.tasks)
	p.ExamDate = req.ExamDate.Format(DateLayout)
	return p
}

func examSessionDescription(subject string, day, session, perDay int) string {
	if perDay == 1 {
		return fmt.Sprintf("Study %s - Day %d", subject, day+1)
	}
	switch session {
	case 0:
		return fmt.Sprintf("Read and understand %s concepts", subject)
	case 1:
		return fmt.Sprintf("Practice problems on %s", subject)
	case 2:
		return fmt.Sprintf("Review and summarize %s", subject)
	default:
		return fmt.Sprintf("Additional practice on %s", subject)
	}
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
