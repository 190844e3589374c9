package planner

import "sort"

// Progress tracks which task indices of a plan have been completed.
type Progress struct {
	CompletedTasks       []int   `json:"completed_tasks"`
	TotalTasks           int     `json:"total_tasks"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

// NewProgress starts tracking a plan with nothing completed.
func NewProgress(total int) Progress {
	return Progress{CompletedTasks: []int{}, TotalTasks: max(total, 0)}
}

func (p *Progress) IsDone(index int) bool {
	i := sort.SearchInts(p.CompletedTasks, index)
	return i < len(p.CompletedTasks) && p.CompletedTasks[i] == index
}

// Toggle marks index done or not done and reports whether anything changed.
// Indices outside the plan are ignored.
func (p *Progress) Toggle(index int, done bool) bool {
	if index < 0 || index >= p.TotalTasks {
		return false
	}

	i := sort.SearchInts(p.CompletedTasks, index)
	present := i < len(p.CompletedTasks) && p.CompletedTasks[i] == index

	switch {
	case done && !present:
		p.CompletedTasks = append(p.CompletedTasks, 0)
		copy(p.CompletedTasks[i+1:], p.CompletedTasks[i:])
		p.CompletedTasks[i] = index
	case !done && present:
		p.CompletedTasks = append(p.CompletedTasks[:i], p.CompletedTasks[i+1:]...)
	default:
		return false
	}

	p.recompute()
	return true
}

func (p *Progress) MarkDone(index int) bool   { return p.Toggle(index, true) }
func (p *Progress) MarkUndone(index int) bool { return p.Toggle(index, false) }

// Normalize sorts and dedups the completed set, drops out-of-range
// indices and recomputes the percentage. Used on values read from disk.
func (p *Progress) Normalize() {
	seen := make(map[int]bool, len(p.CompletedTasks))
	kept := make([]int, 0, len(p.CompletedTasks))
	for _, i := range p.CompletedTasks {
		if i < 0 || i >= p.TotalTasks || seen[i] {
			continue
		}
		seen[i] = true
		kept = append(kept, i)
	}
	sort.Ints(kept)
	p.CompletedTasks = kept
	p.recompute()
}

func (p *Progress) recompute() {
	if p.TotalTasks <= 0 {
		p.CompletionPercentage = 0
		return
	}
	pct := float64(len(p.CompletedTasks)) / float64(p.TotalTasks) * 100
	p.CompletionPercentage = min(max(pct, 0), 100)
}
