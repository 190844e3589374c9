package intake

import (
	"reflect"
	"testing"
	"time"

	"github.com/christopherklint97/studyr/internal/planner"
)

var now = time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

func TestLines(t *testing.T) {
	got := Lines("Math\n\n  History  \r\n\tArt\n")
	want := []string{"Math", "History", "Art"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTopics(t *testing.T) {
	got, warn := Topics("Math: Algebra, Calculus\nHistory:\nno colon here\nMath: Geometry")

	want := map[string][]string{"Math": {"Algebra", "Calculus", "Geometry"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if len(warn) != 2 {
		t.Errorf("got %d warnings, want 2: %q", len(warn), warn)
	}
}

func TestPriorities(t *testing.T) {
	got, warn := Priorities("Math/Calculus: High\nHistory: low\nArt: someday")

	want := map[string]planner.Priority{
		"Math/Calculus": planner.PriorityHigh,
		"History":       planner.PriorityLow,
		"Art":           planner.PriorityMedium,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if len(warn) != 1 {
		t.Errorf("got %d warnings, want 1: %q", len(warn), warn)
	}
}

func TestRatings(t *testing.T) {
	got, warn := Ratings("Math: 4\nHistory: two\nPhysics: 9")

	want := map[string]int{"Math": 4, "Physics": 5}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if len(warn) != 2 {
		t.Errorf("got %d warnings, want 2: %q", len(warn), warn)
	}
}

func TestDueDates(t *testing.T) {
	got, warn := DueDates("Essay: 2026-11-02\nQuiz: whenever\nLab: tomorrow", now)

	essay, ok := got["Essay"]
	if !ok || essay.Format(planner.DateLayout) != "2026-11-02" {
		t.Errorf("Essay due = %v", essay)
	}
	if _, ok := got["Quiz"]; ok {
		t.Error("Quiz with an unparseable date should be dropped")
	}
	if lab, ok := got["Lab"]; !ok || lab.Format(planner.DateLayout) != "2026-10-20" {
		t.Errorf("Lab due = %v, want 2026-10-20", lab)
	}
	if len(warn) != 1 {
		t.Errorf("got %d warnings, want 1: %q", len(warn), warn)
	}
}

func TestParseDate(t *testing.T) {
	if _, err := ParseDate("", now); err == nil {
		t.Error("empty date parsed")
	}
	d, err := ParseDate("2026-12-24", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Location() != now.Location() {
		t.Errorf("location = %v, want %v", d.Location(), now.Location())
	}
}

func TestClock(t *testing.T) {
	var warn Warnings
	fallback := planner.MustClock("08:00")

	if got := Clock("09:15", fallback, "start time", &warn); got != planner.MustClock("09:15") {
		t.Errorf("got %s, want 09:15", got)
	}
	if got := Clock("", fallback, "start time", &warn); got != fallback {
		t.Errorf("empty: got %s, want fallback", got)
	}
	if got := Clock("9am", fallback, "start time", &warn); got != fallback {
		t.Errorf("malformed: got %s, want fallback", got)
	}
	if len(warn) != 1 {
		t.Errorf("got %d warnings, want 1: %q", len(warn), warn)
	}
}

func TestWorkItems(t *testing.T) {
	due := map[string]time.Time{"Essay": now.AddDate(0, 0, 3)}
	items := WorkItems(
		[]string{"Essay", "Quiz", "Essay"},
		map[string]int{"Essay": 5},
		map[string]planner.Priority{"Quiz": planner.PriorityLow},
		due,
	)

	if len(items) != 2 {
		t.Fatalf("got %d items, want 2 (duplicates dropped)", len(items))
	}
	essay, quiz := items[0], items[1]
	if essay.Difficulty != 5 || essay.Priority != planner.PriorityMedium || essay.Due == nil {
		t.Errorf("essay = %+v", essay)
	}
	if quiz.Difficulty != planner.DefaultDifficulty || quiz.Priority != planner.PriorityLow || quiz.Due != nil {
		t.Errorf("quiz = %+v", quiz)
	}
}
