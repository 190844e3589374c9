package planner

import (
	"reflect"
	"testing"
)

func TestProgress_Toggle(t *testing.T) {
	p := NewProgress(8)

	if !p.Toggle(3, true) {
		t.Fatal("first toggle reported no change")
	}
	if p.Toggle(3, true) {
		t.Error("repeating the same toggle reported a change")
	}
	p.Toggle(1, true)

	if !reflect.DeepEqual(p.CompletedTasks, []int{1, 3}) {
		t.Errorf("completed = %v, want [1 3]", p.CompletedTasks)
	}
	if p.CompletionPercentage != 25 {
		t.Errorf("percentage = %v, want 25", p.CompletionPercentage)
	}
	if !p.IsDone(1) || p.IsDone(2) {
		t.Error("IsDone disagrees with the completed set")
	}

	p.Toggle(3, false)
	p.Toggle(3, false)
	if !reflect.DeepEqual(p.CompletedTasks, []int{1}) {
		t.Errorf("completed = %v, want [1]", p.CompletedTasks)
	}
	if p.CompletionPercentage != 12.5 {
		t.Errorf("percentage = %v, want 12.5", p.CompletionPercentage)
	}
}

func TestProgress_IgnoresOutOfRange(t *testing.T) {
	p := NewProgress(2)
	if p.Toggle(-1, true) || p.Toggle(2, true) {
		t.Error("out-of-range toggle reported a change")
	}
	if len(p.CompletedTasks) != 0 {
		t.Errorf("completed = %v, want empty", p.CompletedTasks)
	}
}

func TestProgress_OrderIndependent(t *testing.T) {
	a := NewProgress(5)
	for _, i := range []int{4, 0, 2, 0, 4} {
		a.Toggle(i, true)
	}
	b := NewProgress(5)
	for _, i := range []int{2, 4, 0} {
		b.Toggle(i, true)
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("toggle order changed the result: %+v vs %+v", a, b)
	}
	if a.CompletionPercentage != 60 {
		t.Errorf("percentage = %v, want 60", a.CompletionPercentage)
	}

	for i := 0; i < 5; i++ {
		a.Toggle(i, true)
	}
	if a.CompletionPercentage != 100 {
		t.Errorf("percentage = %v, want 100", a.CompletionPercentage)
	}
}

func TestProgress_Normalize(t *testing.T) {
	p := Progress{CompletedTasks: []int{5, 1, 1, 9, -2}, TotalTasks: 6, CompletionPercentage: 250}
	p.Normalize()

	if !reflect.DeepEqual(p.CompletedTasks, []int{1, 5}) {
		t.Errorf("completed = %v, want [1 5]", p.CompletedTasks)
	}
	want := float64(2) / float64(6) * 100
	if p.CompletionPercentage != want {
		t.Errorf("percentage = %v, want %v", p.CompletionPercentage, want)
	}

	empty := Progress{CompletedTasks: []int{0}, TotalTasks: 0, CompletionPercentage: 50}
	empty.Normalize()
	if empty.CompletionPercentage != 0 || len(empty.CompletedTasks) != 0 {
		t.Errorf("zero-task progress = %+v", empty)
	}
}
