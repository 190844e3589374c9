package advisor

import (
	"context"
	"fmt"

	"github.com/christopherklint97/studyr/internal/planner"
)

// Static answers from fixed per-style tables. It never fails and is the
// fallback for every other provider.
type Static struct{}

var techniqueTable = map[planner.LearningStyle][]planner.Technique{
	planner.StyleVisual: {
		{Name: "Mind Mapping", Description: "Create visual diagrams to connect ideas and concepts. Use colors and images to enhance memory retention."},
		{Name: "Visual Chunking", Description: "Group information into visual blocks or patterns to make it easier to remember."},
		{Name: "Sketch Notes", Description: "Take notes using a combination of words, drawings, and visual elements."},
	},
	planner.StyleReading: {
		{Name: "SQ3R Method", Description: "Survey, Question, Read, Recite, Review - A comprehensive reading technique for better comprehension."},
		{Name: "Cornell Note-Taking", Description: "Divide your notes into sections for questions, main notes, and summary for better organization."},
		{Name: "Active Reading", Description: "Highlight, underline, and annotate text as you read to engage more deeply with the material."},
	},
	planner.StyleMixed: {
		{Name: "Pomodoro Technique", Description: "Work for 25 minutes, then take a 5-minute break. After 4 cycles, take a longer break of 15-30 minutes."},
		{Name: "Spaced Repetition", Description: "Review information at increasing intervals to improve long-term retention."},
		{Name: "Feynman Technique", Description: "Explain concepts in simple terms as if teaching someone else to identify gaps in your understanding."},
	},
}

type resourceTemplate struct {
	format     string
	url        string
	kind       string
	difficulty string
}

var resourceTable = map[planner.LearningStyle]resourceTemplate{
	planner.StyleVisual:  {"%s Visual Guide", "https://example.com/visual-guide", "Video", "Intermediate"},
	planner.StyleReading: {"Complete %s Handbook", "https://example.com/handbook", "Book", "Comprehensive"},
	planner.StyleMixed:   {"%s Interactive Course", "https://example.com/course", "Interactive", "Adaptive"},
}

func styleOrMixed(style planner.LearningStyle) planner.LearningStyle {
	if _, ok := techniqueTable[style]; ok {
		return style
	}
	return planner.StyleMixed
}

func (Static) Techniques(_ context.Context, style planner.LearningStyle) ([]planner.Technique, error) {
	src := techniqueTable[styleOrMixed(style)]
	out := make([]planner.Technique, len(src))
	copy(out, src)
	return out, nil
}

func (Static) Resources(_ context.Context, subjects []string, style planner.LearningStyle) ([]planner.Resource, error) {
	tmpl := resourceTable[styleOrMixed(style)]
	out := make([]planner.Resource, 0, len(subjects))
	for _, s := range subjects {
		out = append(out, planner.Resource{
			Subject:    s,
			Title:      fmt.Sprintf(tmpl.format, s),
			URL:        tmpl.url,
			Type:       tmpl.kind,
			Difficulty: tmpl.difficulty,
		})
	}
	return out, nil
}
