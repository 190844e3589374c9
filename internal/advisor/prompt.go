package advisor

import (
	"fmt"
	"strings"

	"github.com/christopherklint97/studyr/internal/planner"
	"github.com/invopop/jsonschema"
)

func generateSchema[T any]() any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

var (
	techniqueSchema = generateSchema[techniqueResponse]()
	resourceSchema  = generateSchema[resourceResponse]()
)

const systemPrompt = `You are a study coach helping a student organise a personal study plan.

Rules:
- Keep names short and descriptions to one or two sentences
- Prefer well-known, evidence-based techniques
- Only recommend resources that match the student's learning style
- Return valid JSON matching the required schema`

func buildTechniquePrompt(style planner.LearningStyle) string {
	return fmt.Sprintf("Recommend exactly three study techniques for a %s learner.", strings.ToLower(string(style)))
}

func buildResourcePrompt(subjects []string, style planner.LearningStyle) string {
	return fmt.Sprintf(`Recommend one learning resource for each of these subjects, in the same order:
%s

The learner prefers %s material. Set "subject" to the subject name exactly as given.`,
		"- "+strings.Join(subjects, "\n- "), strings.ToLower(string(style)))
}
