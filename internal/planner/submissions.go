package planner

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// WorkStyle decides how many days an assignment is spread over.
type WorkStyle string

const (
	WorkFocused        WorkStyle = "Focused Sessions"
	WorkSpreadOut      WorkStyle = "Spread Out"
	WorkDeadlineDriven WorkStyle = "Deadline Driven"
)

// ParseWorkStyle defaults to Deadline Driven.
func ParseWorkStyle(s string) WorkStyle {
	switch strings.ToLower(strings.Join(strings.Fields(s), " ")) {
	case "focused sessions", "focused":
		return WorkFocused
	case "spread out", "spread":
		return WorkSpreadOut
	default:
		return WorkDeadlineDriven
	}
}

// LearningStyle is the recommendation table that suits this way of working.
func (w WorkStyle) LearningStyle() LearningStyle {
	switch w {
	case WorkFocused:
		return StyleVisual
	case WorkSpreadOut:
		return StyleMixed
	default:
		return StyleReading
	}
}

func (w WorkStyle) daysNeeded(complexity int) int {
	switch w {
	case WorkFocused:
		return max(1, complexity/2)
	case WorkSpreadOut:
		return complexity
	default:
		return max(1, complexity/3)
	}
}

// defaultDueIn is used for assignments without a due date.
const defaultDueIn = 7

type SubmissionsRequest struct {
	Assignments    []WorkItem
	DailyHours     float64
	PreferredTimes []string
	WorkStyle      WorkStyle
}

var submissionFillers = []string{
	"Review all assignments for consistency",
	"Check formatting and citations",
	"Prepare submission documents",
	"Create backup copies of all work",
	"Verify submission requirements",
	"Proofread all assignments",
	"Organize supporting materials",
	"Final review before submission",
}

// SubmissionsPlan schedules assignment work ahead of each due date,
// earliest deadline first.
func SubmissionsPlan(req SubmissionsRequest, opts Options) Plan {
	o := opts.withDefaults()
	today := startOfDay(o.Now())

	if len(req.Assignments) == 0 {
		return newPlan(o, PlanSubmissions, nil)
	}

	daily := req.DailyHours
	if daily <= 0 {
		daily = 3
	}

	type dated struct {
		item WorkItem
		due  time.Time
	}
	ordered := make([]dated, len(req.Assignments))
	for i, a := range req.Assignments {
		due := today.AddDate(0, 0, defaultDueIn)
		if a.Due != nil {
			due = startOfDay(*a.Due)
		}
		ordered[i] = dated{item: a, due: due}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].due.Before(ordered[j].due)
	})

	var list taskList
	horizon := 1
	for _, d := range ordered {
		name := d.item.Name
		priority := d.item.priority()
		available := max(1, DaysUntil(today, d.due))
		horizon = max(horizon, available)

		needed := min(req.WorkStyle.daysNeeded(d.item.difficulty()), available)
		perDay := sessionsPerDay(len(req.Assignments), available)
		width := slotWidth(daily, perDay)

		stages := submissionStages(name, needed, perDay)
		for idx, desc := range stages {
			session, day := 0, idx
			if perDay > 1 {
				session, day = idx%perDay, idx/perDay
			}
			if day >= needed {
				break
			}
			start := slotStart(req.PreferredTimes, session)
			list.add(Task{
				Subject:     name,
				Description: desc,
				Date:        today.AddDate(0, 0, day).Format(DateLayout),
				StartTime:   start.String(),
				EndTime:     start.Add(width).String(),
				Type:        TaskStudy,
				Priority:    priority,
			})
		}
	}

	for i := 0; list.len() < o.MinTasks; i++ {
		list.add(Task{
			Subject:     "All Assignments",
			Description: submissionFillers[i%len(submissionFillers)],
			Date:        today.AddDate(0, 0, i%horizon).Format(DateLayout),
			StartTime:   fillerStart.String(),
			EndTime:     fillerStart.Add(60).String(),
			Type:        TaskStudy,
			Priority:    PriorityMedium,
		})
	}

	return newPlan(o, PlanSubmissions, list.tasks)
}

// submissionStages sizes the stage vocabulary to the days (or sessions)
// available for one assignment.
func submissionStages(name string, days, perDay int) []string {
	if perDay > 1 {
		return []string{
			fmt.Sprintf("Research for %s", name),
			fmt.Sprintf("Create outline for %s", name),
			fmt.Sprintf("Draft introduction for %s", name),
			fmt.Sprintf("Develop main content for %s", name),
			fmt.Sprintf("Create supporting materials for %s", name),
			fmt.Sprintf("Review and edit %s", name),
			fmt.Sprintf("Finalize and format %s", name),
			fmt.Sprintf("Submit %s", name),
		}
	}
	if days == 1 {
		return []string{fmt.Sprintf("Complete %s", name)}
	}

	stages := []string{
		fmt.Sprintf("Start %s - Research and planning", name),
		fmt.Sprintf("Continue %s - Draft initial content", name),
		fmt.Sprintf("Continue %s - Develop main sections", name),
		fmt.Sprintf("Finalize %s - Review and polish", name),
		fmt.Sprintf("Submit %s", name),
	}
	if len(stages) > days {
		stages = stages[:days]
	}
	for len(stages) < days {
		stages = append(stages, fmt.Sprintf("Continue working on %s", name))
	}
	return stages
}
