package planner

import (
	"math"
	"sort"
	"strings"
)

// Multipliers scales an item's difficulty by its priority.
type Multipliers struct {
	High   float64 `toml:"high"`
	Medium float64 `toml:"medium"`
	Low    float64 `toml:"low"`
}

var (
	// ExamMultipliers is the table used when spreading subjects before an exam.
	ExamMultipliers = Multipliers{High: 1.5, Medium: 1.0, Low: 0.7}
	// DistributionMultipliers is the flatter table of the general
	// distribution helper; Low items get noticeably less time.
	DistributionMultipliers = Multipliers{High: 1.5, Medium: 1.0, Low: 0.5}
)

// MultipliersByName resolves the "priority_weights" config value.
func MultipliersByName(name string) (Multipliers, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "exam":
		return ExamMultipliers, true
	case "distribution":
		return DistributionMultipliers, true
	}
	return Multipliers{}, false
}

func (m Multipliers) For(p Priority) float64 {
	switch p {
	case PriorityHigh:
		return m.High
	case PriorityLow:
		return m.Low
	default:
		return m.Medium
	}
}

// Share is the number of days given to one work item.
type Share struct {
	Name string
	Days int
}

// Allocation lists shares in the same order as the items they came from.
type Allocation []Share

func (a Allocation) Days(name string) int {
	for _, s := range a {
		if s.Name == name {
			return s.Days
		}
	}
	return 0
}

func (a Allocation) Total() int {
	total := 0
	for _, s := range a {
		total += s.Days
	}
	return total
}

// Allocate splits daysAvailable across items in proportion to
// difficulty × priority multiplier. Every item gets at least one day, so
// when there are more items than days the total exceeds the budget;
// otherwise the total equals daysAvailable exactly.
func Allocate(items []WorkItem, daysAvailable int, m Multipliers) Allocation {
	if len(items) == 0 {
		return nil
	}
	if daysAvailable < 1 {
		daysAvailable = 1
	}

	weights := make([]float64, len(items))
	var totalWeight float64
	for i, it := range items {
		weights[i] = float64(it.difficulty()) * m.For(it.priority())
		totalWeight += weights[i]
	}

	alloc := make(Allocation, len(items))
	remaining := daysAvailable
	for i, it := range items {
		days := 1
		if totalWeight > 0 {
			days = max(1, int(math.RoundToEven(weights[i]/totalWeight*float64(daysAvailable))))
		}
		// Keep one day in reserve for each item still waiting.
		if limit := remaining - (len(items) - i - 1); days > limit {
			days = max(1, limit)
		}
		alloc[i] = Share{Name: it.Name, Days: days}
		remaining -= days
	}

	if remaining <= 0 {
		return alloc
	}

	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ma := m.For(items[order[a]].priority())
		mb := m.For(items[order[b]].priority())
		if ma != mb {
			return ma > mb
		}
		return weights[order[a]] > weights[order[b]]
	})

	for k := 0; remaining > 0; k = (k + 1) % len(order) {
		alloc[order[k]].Days++
		remaining--
	}

	return alloc
}
