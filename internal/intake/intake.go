// Package intake turns the free-text conventions of the plan forms
// ("Subject: Topic1, Topic2", "Essay: High", "Quiz: 2025-05-01") into
// structured planner input. Malformed lines are dropped with a warning;
// nothing here fails a generation.
package intake

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/christopherklint97/studyr/internal/planner"
	"github.com/tj/go-naturaldate"
)

// Warnings collects soft problems found while reading input.
type Warnings []string

func (w *Warnings) addf(format string, args ...any) {
	*w = append(*w, fmt.Sprintf(format, args...))
}

// Lines splits text into trimmed, non-empty lines.
func Lines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// keyValues yields "key: value" pairs; lines without a colon are reported.
func keyValues(text, what string, warn *Warnings) [][2]string {
	var pairs [][2]string
	for _, line := range Lines(text) {
		key, value, ok := strings.Cut(line, ":")
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if !ok || key == "" {
			warn.addf("ignoring %s line %q: want \"name: value\"", what, line)
			continue
		}
		pairs = append(pairs, [2]string{key, value})
	}
	return pairs
}

// Topics parses "Subject: Topic1, Topic2" lines.
func Topics(text string) (map[string][]string, Warnings) {
	var warn Warnings
	out := make(map[string][]string)
	for _, kv := range keyValues(text, "topic", &warn) {
		var topics []string
		for _, t := range strings.Split(kv[1], ",") {
			if t = strings.TrimSpace(t); t != "" {
				topics = append(topics, t)
			}
		}
		if len(topics) == 0 {
			warn.addf("no topics listed for %s", kv[0])
			continue
		}
		out[kv[0]] = append(out[kv[0]], topics...)
	}
	return out, warn
}

// Priorities parses "Name: High|Medium|Low" lines. Unknown labels become
// Medium with a warning.
func Priorities(text string) (map[string]planner.Priority, Warnings) {
	var warn Warnings
	out := make(map[string]planner.Priority)
	for _, kv := range keyValues(text, "priority", &warn) {
		p, ok := planner.LookupPriority(kv[1])
		if !ok {
			warn.addf("unknown priority %q for %s, using Medium", kv[1], kv[0])
		}
		out[kv[0]] = p
	}
	return out, warn
}

// Ratings parses "Name: 1-5" difficulty or complexity lines.
func Ratings(text string) (map[string]int, Warnings) {
	var warn Warnings
	out := make(map[string]int)
	for _, kv := range keyValues(text, "rating", &warn) {
		n, err := strconv.Atoi(kv[1])
		if err != nil {
			warn.addf("invalid rating %q for %s", kv[1], kv[0])
			continue
		}
		if n < 1 || n > 5 {
			clamped := min(max(n, 1), 5)
			warn.addf("rating %d for %s is outside 1-5, using %d", n, kv[0], clamped)
			n = clamped
		}
		out[kv[0]] = n
	}
	return out, warn
}

// DueDates parses "Name: date" lines using ParseDate.
func DueDates(text string, now time.Time) (map[string]time.Time, Warnings) {
	var warn Warnings
	out := make(map[string]time.Time)
	for _, kv := range keyValues(text, "due date", &warn) {
		d, err := ParseDate(kv[1], now)
		if err != nil {
			warn.addf("invalid date format for %s", kv[0])
			continue
		}
		out[kv[0]] = d
	}
	return out, warn
}

// ParseDate accepts YYYY-MM-DD or a natural expression such as
// "next friday" or "in 3 days", resolved forward from now.
func ParseDate(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if d, err := time.ParseInLocation(planner.DateLayout, s, now.Location()); err == nil {
		return d, nil
	}
	d, err := naturaldate.Parse(s, now, naturaldate.WithDirection(naturaldate.Future))
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	if d.Equal(now) {
		return time.Time{}, fmt.Errorf("unrecognised date %q", s)
	}
	return d, nil
}

// Clock parses HH:MM, falling back (with a warning) when it is malformed.
func Clock(s string, fallback planner.Clock, what string, warn *Warnings) planner.Clock {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	c, err := planner.ParseClock(s)
	if err != nil {
		warn.addf("invalid %s %q, using %s", what, s, fallback)
		return fallback
	}
	return c
}

// WorkItems combines item names with the optional per-item ratings,
// priorities and due dates. Duplicate names keep their first occurrence.
func WorkItems(names []string, ratings map[string]int, priorities map[string]planner.Priority, due map[string]time.Time) []planner.WorkItem {
	seen := make(map[string]bool, len(names))
	items := make([]planner.WorkItem, 0, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		item := planner.WorkItem{
			Name:       name,
			Difficulty: planner.DefaultDifficulty,
			Priority:   planner.PriorityMedium,
		}
		if r, ok := ratings[name]; ok {
			item.Difficulty = r
		}
		if p, ok := priorities[name]; ok {
			item.Priority = p
		}
		if d, ok := due[name]; ok {
			item.Due = &d
		}
		items = append(items, item)
	}
	return items
}
