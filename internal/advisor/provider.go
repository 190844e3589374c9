package advisor

import (
	"context"

	"github.com/christopherklint97/studyr/internal/planner"
)

// Provider recommends study techniques and resources for a plan.
type Provider interface {
	Techniques(ctx context.Context, style planner.LearningStyle) ([]planner.Technique, error)
	Resources(ctx context.Context, subjects []string, style planner.LearningStyle) ([]planner.Resource, error)
}

// Recommend fills in a plan's techniques and resources.
func Recommend(ctx context.Context, p Provider, plan *planner.Plan, subjects []string, style planner.LearningStyle) error {
	techniques, err := p.Techniques(ctx, style)
	if err != nil {
		return err
	}
	resources, err := p.Resources(ctx, subjects, style)
	if err != nil {
		return err
	}
	plan.StudyTechniques = techniques
	plan.Resources = resources
	return nil
}
