package planner

import (
	"strings"
	"time"
)

// Priority is the importance label attached to a work item or task.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// ParsePriority maps free text to a Priority. Anything unrecognised is Medium.
func ParsePriority(s string) Priority {
	p, _ := LookupPriority(s)
	return p
}

// LookupPriority is ParsePriority that also reports whether s was a known label.
func LookupPriority(s string) (Priority, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high", "h":
		return PriorityHigh, true
	case "medium", "m":
		return PriorityMedium, true
	case "low", "l":
		return PriorityLow, true
	default:
		return PriorityMedium, false
	}
}

// Valid reports whether p is one of the three known priorities.
func (p Priority) Valid() bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

type TaskType string

const (
	TaskStudy  TaskType = "study"
	TaskBreak  TaskType = "break"
	TaskReview TaskType = "review"
)

type PlanType string

const (
	PlanQuickStudy  PlanType = "Quick Study"
	PlanExamTime    PlanType = "Exam Time"
	PlanSubmissions PlanType = "Submissions"
)

// LearningStyle selects the recommendation tables.
type LearningStyle string

const (
	StyleVisual  LearningStyle = "Visual"
	StyleReading LearningStyle = "Reading"
	StyleMixed   LearningStyle = "Mixed"
)

// ParseLearningStyle returns Mixed for anything it does not recognise.
func ParseLearningStyle(s string) LearningStyle {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "visual":
		return StyleVisual
	case "reading":
		return StyleReading
	default:
		return StyleMixed
	}
}

const (
	DefaultDifficulty = 3
	minDifficulty     = 1
	maxDifficulty     = 5
)

// WorkItem is a subject or assignment competing for study days.
type WorkItem struct {
	Name       string
	Difficulty int
	Priority   Priority
	Due        *time.Time
}

func (w WorkItem) difficulty() int {
	switch {
	case w.Difficulty == 0:
		return DefaultDifficulty
	case w.Difficulty < minDifficulty:
		return minDifficulty
	case w.Difficulty > maxDifficulty:
		return maxDifficulty
	}
	return w.Difficulty
}

func (w WorkItem) priority() Priority {
	if w.Priority.Valid() {
		return w.Priority
	}
	return PriorityMedium
}

// Task is one time-boxed unit of work or rest inside a plan.
type Task struct {
	ID          int      `json:"id"`
	Subject     string   `json:"subject"`
	Description string   `json:"description"`
	Date        string   `json:"date,omitempty"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
	Type        TaskType `json:"type"`
	Priority    Priority `json:"priority,omitempty"`
}

type Technique struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Resource struct {
	Subject    string `json:"subject"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	Type       string `json:"type"`
	Difficulty string `json:"difficulty"`
}

// Plan is a generated schedule. Its task list is fixed once created.
type Plan struct {
	ID              string      `json:"id"`
	Type            PlanType    `json:"type"`
	CreatedAt       string      `json:"created_at"`
	ExamDate        string      `json:"exam_date,omitempty"`
	Tasks           []Task      `json:"tasks"`
	StudyTechniques []Technique `json:"study_techniques"`
	Resources       []Resource  `json:"resources"`
}

// Subjects returns the distinct task subjects in first-seen order,
// skipping breaks.
func (p *Plan) Subjects() []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range p.Tasks {
		if t.Type == TaskBreak || seen[t.Subject] {
			continue
		}
		seen[t.Subject] = true
		out = append(out, t.Subject)
	}
	return out
}

const (
	DateLayout      = "2006-01-02"
	ClockLayout     = "15:04"
	CreatedAtLayout = "2006-01-02 15:04"
)
