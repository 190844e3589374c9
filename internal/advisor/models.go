package advisor

import "github.com/christopherklint97/studyr/internal/planner"

type techniqueResponse struct {
	Techniques []planner.Technique `json:"techniques" jsonschema:"description=Three study techniques suited to the learner"`
}

type resourceResponse struct {
	Resources []planner.Resource `json:"resources" jsonschema:"description=One learning resource per subject"`
}
