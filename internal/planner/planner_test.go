package planner

import (
	"math/rand/v2"
	"strings"
	"testing"
	"time"
)

// Monday, so the first few days of a plan are weekdays.
var testNow = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

func testOptions() Options {
	return Options{
		Now:   func() time.Time { return testNow },
		Rand:  rand.New(rand.NewPCG(1, 2)),
		NewID: func() string { return "plan_test" },
	}
}

// checkTasks asserts the invariants every generated plan must hold.
func checkTasks(t *testing.T, tasks []Task, minTasks int) {
	t.Helper()
	if len(tasks) < minTasks {
		t.Errorf("got %d tasks, want at least %d", len(tasks), minTasks)
	}
	for i, task := range tasks {
		if task.ID != i {
			t.Errorf("task %d has ID %d, want contiguous IDs", i, task.ID)
		}
		start, err := ParseClock(task.StartTime)
		if err != nil {
			t.Errorf("task %d: bad start time: %v", i, err)
			continue
		}
		end, err := ParseClock(task.EndTime)
		if err != nil {
			t.Errorf("task %d: bad end time: %v", i, err)
			continue
		}
		if end < start {
			t.Errorf("task %d ends (%s) before it starts (%s)", i, task.EndTime, task.StartTime)
		}
	}
}

func countBySubject(tasks []Task, subject string, typ TaskType) int {
	n := 0
	for _, task := range tasks {
		if task.Subject == subject && task.Type == typ {
			n++
		}
	}
	return n
}

func TestExamPlan(t *testing.T) {
	req := ExamRequest{
		Subjects: []WorkItem{
			{Name: "Math", Difficulty: 4, Priority: PriorityHigh},
			{Name: "History", Difficulty: 2, Priority: PriorityMedium},
		},
		ExamDate:   testNow.AddDate(0, 0, 10),
		DailyHours: 4,
	}

	p := ExamPlan(req, testOptions())

	checkTasks(t, p.Tasks, DefaultMinTasks)
	if p.Type != PlanExamTime {
		t.Errorf("type = %q, want %q", p.Type, PlanExamTime)
	}
	if p.ExamDate != "2026-10-29" {
		t.Errorf("exam date = %q, want 2026-10-29", p.ExamDate)
	}

	math := countBySubject(p.Tasks, "Math", TaskStudy)
	history := countBySubject(p.Tasks, "History", TaskStudy)
	if math <= history {
		t.Errorf("Math has %d study tasks, History %d; want Math > History", math, history)
	}

	for _, task := range p.Tasks {
		d, err := time.Parse(DateLayout, task.Date)
		if err != nil {
			t.Fatalf("task %d: bad date %q", task.ID, task.Date)
		}
		if isWeekend(d) {
			t.Errorf("task %d scheduled on a weekend (%s)", task.ID, task.Date)
		}
		if !d.Before(req.ExamDate) {
			t.Errorf("task %d on %s is not before the exam", task.ID, task.Date)
		}
	}

	// History follows Math's run of days.
	first := p.Tasks[0]
	if first.Subject != "Math" || first.Date != "2026-10-19" || first.Description != "Study Math - Day 1" {
		t.Errorf("first task = %+v", first)
	}
	for _, task := range p.Tasks {
		if task.Subject == "History" && task.Date < "2026-10-27" {
			t.Errorf("History task on %s overlaps Math's days", task.Date)
		}
	}
}

func TestExamPlan_TimeSlots(t *testing.T) {
	req := ExamRequest{
		Subjects:       []WorkItem{{Name: "Biology"}},
		ExamDate:       testNow.AddDate(0, 0, 14),
		DailyHours:     5,
		PreferredTimes: []string{"Morning"},
	}

	p := ExamPlan(req, testOptions())

	first := p.Tasks[0]
	if first.StartTime != "08:00" || first.EndTime != "11:00" {
		t.Errorf("slot = %s-%s, want 08:00-11:00 (width capped at 3h)", first.StartTime, first.EndTime)
	}

	req.PreferredTimes = []string{"Evening"}
	req.DailyHours = 2
	p = ExamPlan(req, testOptions())
	first = p.Tasks[0]
	if first.StartTime != "17:00" || first.EndTime != "19:00" {
		t.Errorf("slot = %s-%s, want 17:00-19:00", first.StartTime, first.EndTime)
	}
}

func TestExamPlan_ShortHorizonBackfills(t *testing.T) {
	req := ExamRequest{
		Subjects:   []WorkItem{{Name: "Chemistry"}},
		ExamDate:   testNow.AddDate(0, 0, 1),
		DailyHours: 4,
	}

	p := ExamPlan(req, testOptions())

	checkTasks(t, p.Tasks, DefaultMinTasks)
	if len(p.Tasks) != DefaultMinTasks {
		t.Fatalf("got %d tasks, want %d", len(p.Tasks), DefaultMinTasks)
	}

	wantSessions := []string{
		"Read and understand Chemistry concepts",
		"Practice problems on Chemistry",
		"Review and summarize Chemistry",
		"Additional practice on Chemistry",
	}
	for i, want := range wantSessions {
		if p.Tasks[i].Description != want {
			t.Errorf("session %d = %q, want %q", i, p.Tasks[i].Description, want)
		}
	}

	wantTypes := []TaskType{TaskReview, TaskStudy, TaskStudy, TaskReview}
	for i, task := range p.Tasks[4:] {
		if task.Subject != "All Subjects" || task.Priority != PriorityHigh {
			t.Errorf("filler %d = %+v", i, task)
		}
		if task.Type != wantTypes[i] {
			t.Errorf("filler %d type = %q, want %q", i, task.Type, wantTypes[i])
		}
		if task.StartTime != "19:00" || task.EndTime != "20:00" {
			t.Errorf("filler %d slot = %s-%s", i, task.StartTime, task.EndTime)
		}
	}
}

func TestExamPlan_Empty(t *testing.T) {
	p := ExamPlan(ExamRequest{ExamDate: testNow.AddDate(0, 0, 3)}, testOptions())
	if len(p.Tasks) != 0 {
		t.Errorf("got %d tasks for no subjects, want 0", len(p.Tasks))
	}
}

func TestSubmissionsPlan_MultiSession(t *testing.T) {
	essayDue := testNow.AddDate(0, 0, 3)
	quizDue := testNow.AddDate(0, 0, 1)
	req := SubmissionsRequest{
		Assignments: []WorkItem{
			{Name: "Essay", Difficulty: 5, Priority: PriorityHigh, Due: &essayDue},
			{Name: "Quiz", Difficulty: 2, Priority: PriorityLow, Due: &quizDue},
		},
		DailyHours: 3,
		WorkStyle:  WorkSpreadOut,
	}

	p := SubmissionsPlan(req, testOptions())

	checkTasks(t, p.Tasks, DefaultMinTasks)
	if p.Tasks[0].Subject != "Quiz" {
		t.Errorf("first task is for %q, want the earliest deadline (Quiz)", p.Tasks[0].Subject)
	}
	if got := countBySubject(p.Tasks, "Quiz", TaskStudy); got != 4 {
		t.Errorf("Quiz has %d tasks, want 4 sessions on its only day", got)
	}
	if got := countBySubject(p.Tasks, "Essay", TaskStudy); got != 6 {
		t.Errorf("Essay has %d tasks, want 6 (2 sessions x 3 days)", got)
	}
	last := p.Tasks[len(p.Tasks)-1]
	if last.Description != "Review and edit Essay" || last.Date != "2026-10-21" {
		t.Errorf("last task = %+v", last)
	}
	if last.StartTime != "13:00" {
		t.Errorf("second session starts at %s, want 13:00", last.StartTime)
	}
}

func TestSubmissionsPlan_SingleSession(t *testing.T) {
	due := testNow.AddDate(0, 0, 10)
	req := SubmissionsRequest{
		Assignments: []WorkItem{{Name: "Report", Difficulty: 4, Due: &due}},
		DailyHours:  2,
		WorkStyle:   WorkSpreadOut,
	}

	p := SubmissionsPlan(req, testOptions())

	want := []string{
		"Start Report - Research and planning",
		"Continue Report - Draft initial content",
		"Continue Report - Develop main sections",
		"Finalize Report - Review and polish",
		"Review all assignments for consistency",
		"Check formatting and citations",
		"Prepare submission documents",
		"Create backup copies of all work",
	}
	if len(p.Tasks) != len(want) {
		t.Fatalf("got %d tasks, want %d", len(p.Tasks), len(want))
	}
	for i, w := range want {
		if p.Tasks[i].Description != w {
			t.Errorf("task %d = %q, want %q", i, p.Tasks[i].Description, w)
		}
	}
	if p.Tasks[3].Date != "2026-10-22" {
		t.Errorf("fourth stage on %s, want one day per stage", p.Tasks[3].Date)
	}
	if p.Tasks[4].Subject != "All Assignments" {
		t.Errorf("filler subject = %q", p.Tasks[4].Subject)
	}
}

func TestSubmissionsPlan_WorkStyles(t *testing.T) {
	due := testNow.AddDate(0, 0, 20)
	tests := []struct {
		style WorkStyle
		want  int
	}{
		{WorkFocused, 2},
		{WorkSpreadOut, 5},
		{WorkDeadlineDriven, 1},
	}
	for _, tt := range tests {
		t.Run(string(tt.style), func(t *testing.T) {
			req := SubmissionsRequest{
				Assignments: []WorkItem{{Name: "Thesis", Difficulty: 5, Due: &due}},
				WorkStyle:   tt.style,
			}
			p := SubmissionsPlan(req, testOptions())
			if got := countBySubject(p.Tasks, "Thesis", TaskStudy); got != tt.want {
				t.Errorf("got %d Thesis tasks, want %d", got, tt.want)
			}
		})
	}

	p := SubmissionsPlan(SubmissionsRequest{
		Assignments: []WorkItem{{Name: "Lab", Difficulty: 1, Due: &due}},
		WorkStyle:   WorkDeadlineDriven,
	}, testOptions())
	if p.Tasks[0].Description != "Complete Lab" {
		t.Errorf("single-day assignment = %q, want %q", p.Tasks[0].Description, "Complete Lab")
	}
}

func TestSubmissionStages_Padding(t *testing.T) {
	stages := submissionStages("Paper", 7, 1)
	if len(stages) != 7 {
		t.Fatalf("got %d stages, want 7", len(stages))
	}
	if stages[4] != "Submit Paper" {
		t.Errorf("stage 4 = %q", stages[4])
	}
	for _, s := range stages[5:] {
		if s != "Continue working on Paper" {
			t.Errorf("padding stage = %q", s)
		}
	}

	if got := submissionStages("Paper", 2, 1); len(got) != 2 {
		t.Errorf("got %d stages for 2 days, want 2", len(got))
	}
}

func TestParseWorkStyle(t *testing.T) {
	tests := map[string]WorkStyle{
		"Focused Sessions": WorkFocused,
		"spread  out":      WorkSpreadOut,
		"":                 WorkDeadlineDriven,
		"cramming":         WorkDeadlineDriven,
	}
	for in, want := range tests {
		if got := ParseWorkStyle(in); got != want {
			t.Errorf("ParseWorkStyle(%q) = %q, want %q", in, got, want)
		}
	}
	if WorkFocused.LearningStyle() != StyleVisual || WorkDeadlineDriven.LearningStyle() != StyleReading {
		t.Error("work style to learning style mapping changed")
	}
}

func TestQuickStudyPlan_AlternatesWithinWindow(t *testing.T) {
	req := QuickStudyRequest{
		Subjects:       []string{"Math"},
		Topics:         map[string][]string{"Math": {"Algebra"}},
		Start:          MustClock("08:00"),
		End:            MustClock("10:00"),
		BreakMinutes:   15,
		SessionMinutes: 50,
	}

	p := QuickStudyPlan(req, testOptions())

	checkTasks(t, p.Tasks, DefaultMinTasks)
	for i, task := range p.Tasks {
		wantType := TaskStudy
		if i%2 == 1 {
			wantType = TaskBreak
		}
		if task.Type != wantType {
			t.Errorf("task %d type = %q, want %q", i, task.Type, wantType)
		}
		if task.StartTime < "08:00" || task.EndTime > "10:00" {
			t.Errorf("task %d (%s-%s) leaves the study window", i, task.StartTime, task.EndTime)
		}
		if task.Type == TaskBreak && task.Description != defaultBreakLabel {
			t.Errorf("break %d = %q, want %q", i, task.Description, defaultBreakLabel)
		}
	}

	if p.Tasks[0].StartTime != "08:00" || p.Tasks[0].EndTime != "08:25" {
		t.Errorf("first block = %s-%s, want 08:00-08:25", p.Tasks[0].StartTime, p.Tasks[0].EndTime)
	}
	if p.Tasks[5].EndTime != "10:00" || p.Tasks[5].Date != "2026-10-19" {
		t.Errorf("day one ends with %+v", p.Tasks[5])
	}
	if p.Tasks[6].Description != "Review Algebra concepts" || p.Tasks[6].Date != "2026-10-20" {
		t.Errorf("carry-over block = %+v", p.Tasks[6])
	}
}

func TestQuickStudyPlan_Priorities(t *testing.T) {
	req := QuickStudyRequest{
		Subjects: []string{"Math", "Art"},
		Topics:   map[string][]string{"Math": {"Algebra", "Geometry"}},
		Priorities: map[string]Priority{
			"Math":         PriorityLow,
			"Math/Algebra": PriorityHigh,
		},
		Start: MustClock("08:00"),
		End:   MustClock("20:00"),
	}

	p := QuickStudyPlan(req, testOptions())

	got := map[string]Priority{}
	for _, task := range p.Tasks {
		if task.Type != TaskStudy {
			continue
		}
		key := task.Subject
		if strings.Contains(task.Description, "Algebra") {
			key = "Algebra"
		} else if strings.Contains(task.Description, "Geometry") {
			key = "Geometry"
		}
		got[key] = task.Priority
	}

	want := map[string]Priority{"Algebra": PriorityHigh, "Geometry": PriorityLow, "Art": PriorityMedium}
	for k, w := range want {
		if got[k] != w {
			t.Errorf("%s priority = %q, want %q", k, got[k], w)
		}
	}
}

func TestQuickStudyPlan_BackfillStaysInWindow(t *testing.T) {
	req := QuickStudyRequest{
		Subjects:       []string{"Physics"},
		Topics:         map[string][]string{"Physics": {"Optics"}},
		Start:          MustClock("08:00"),
		End:            MustClock("08:30"),
		BreakMinutes:   15,
		SessionMinutes: 50,
		Activities:     []string{"Walking"},
	}

	p := QuickStudyPlan(req, testOptions())

	checkTasks(t, p.Tasks, DefaultMinTasks)
	for i, task := range p.Tasks {
		if task.StartTime < "08:00" || task.EndTime > "08:30" {
			t.Errorf("task %d (%s-%s) leaves the study window", i, task.StartTime, task.EndTime)
		}
		if task.Type == TaskBreak && task.Description != "Walking" {
			t.Errorf("break %d = %q, want Walking", i, task.Description)
		}
	}
	last := p.Tasks[len(p.Tasks)-1]
	if last.Type != TaskReview || last.Description != "Review Optics notes" {
		t.Errorf("last task = %+v, want a review filler", last)
	}
}

func TestQuickStudyPlan_StaysWithinDays(t *testing.T) {
	for _, days := range []int{1, 2, 3} {
		req := QuickStudyRequest{
			Subjects:       []string{"Math", "Art"},
			Start:          MustClock("08:00"),
			End:            MustClock("08:10"),
			BreakMinutes:   15,
			SessionMinutes: 50,
			Days:           days,
		}

		p := QuickStudyPlan(req, testOptions())

		checkTasks(t, p.Tasks, DefaultMinTasks)
		last := testNow.AddDate(0, 0, days-1).Format(DateLayout)
		dates := map[string]bool{}
		for i, task := range p.Tasks {
			if task.Date < "2026-10-19" || task.Date > last {
				t.Errorf("days=%d: task %d dated %s, want 2026-10-19..%s", days, i, task.Date, last)
			}
			if task.StartTime < "08:00" || task.EndTime > "08:10" {
				t.Errorf("days=%d: task %d (%s-%s) leaves the study window", days, i, task.StartTime, task.EndTime)
			}
			dates[task.Date] = true
		}
		if len(dates) != days {
			t.Errorf("days=%d: tasks span %d dates", days, len(dates))
		}
	}
}

func TestQuickStudyPlan_Defaults(t *testing.T) {
	p := QuickStudyPlan(QuickStudyRequest{Subjects: []string{"Latin"}}, testOptions())

	checkTasks(t, p.Tasks, DefaultMinTasks)
	if p.Tasks[0].Description != "Read about Latin" {
		t.Errorf("subject without topics: first task = %q", p.Tasks[0].Description)
	}
	if p.Tasks[0].StartTime != "08:00" || p.Tasks[0].EndTime != "08:25" {
		t.Errorf("default window/session: %s-%s", p.Tasks[0].StartTime, p.Tasks[0].EndTime)
	}

	if empty := QuickStudyPlan(QuickStudyRequest{}, testOptions()); len(empty.Tasks) != 0 {
		t.Errorf("got %d tasks for no subjects", len(empty.Tasks))
	}
}

func TestPlanSubjects(t *testing.T) {
	p := Plan{Tasks: []Task{
		{Subject: "Math", Type: TaskStudy},
		{Subject: "Break", Type: TaskBreak},
		{Subject: "Art", Type: TaskStudy},
		{Subject: "Math", Type: TaskReview},
	}}
	got := p.Subjects()
	if len(got) != 2 || got[0] != "Math" || got[1] != "Art" {
		t.Errorf("Subjects() = %v, want [Math Art]", got)
	}
}

func TestParseClock(t *testing.T) {
	valid := map[string]Clock{"08:00": 480, "8:05": 485, "23:59": 1439}
	for in, want := range valid {
		got, err := ParseClock(in)
		if err != nil || got != want {
			t.Errorf("ParseClock(%q) = %d, %v; want %d", in, got, err, want)
		}
	}
	for _, in := range []string{"", "8", "24:00", "10:7", "ab:cd"} {
		if _, err := ParseClock(in); err == nil {
			t.Errorf("ParseClock(%q) succeeded, want error", in)
		}
	}
	if MustClock("13:45").String() != "13:45" {
		t.Error("Clock.String round trip failed")
	}
}

func TestParsePriority(t *testing.T) {
	tests := map[string]Priority{"High": PriorityHigh, " low ": PriorityLow, "medium": PriorityMedium, "": PriorityMedium, "asap": PriorityMedium}
	for in, want := range tests {
		if got := ParsePriority(in); got != want {
			t.Errorf("ParsePriority(%q) = %q, want %q", in, got, want)
		}
	}
}
