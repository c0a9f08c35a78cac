package wizard

import (
	"time"

	"bemestar/internal/catalog"
	"bemestar/internal/model"
	"bemestar/internal/planner"
)

// TimestampLayout is the createdAt format: ISO-8601 in UTC with milliseconds.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// AssemblePayload projects state into the submission shape. Only answers for
// steps in the current plan are included: values retained for deselected
// entities or for questions whose condition no longer holds are left out,
// and unanswered keys are omitted rather than nulled.
func AssemblePayload(cat *catalog.Catalog, state *model.ResponseState, createdAt time.Time, schemaVersion string) model.Payload {
	if schemaVersion == "" {
		schemaVersion = DefaultSchemaVersion
	}
	p := model.Payload{
		Profile: model.PayloadProfile{
			Gender: state.Profile.Gender,
			Role:   state.Profile.Role,
		},
		SelectedEntities: model.Dedupe(state.SelectedEntities),
		Answers:          make(map[string]any),
		Metadata: model.PayloadMetadata{
			CreatedAt:     createdAt.UTC().Format(TimestampLayout),
			SchemaVersion: schemaVersion,
		},
	}
	if state.Profile.Age != nil {
		age := *state.Profile.Age
		p.Profile.Age = &age
	}

	for _, step := range planner.Build(cat, state).Steps {
		q := step.Question
		if q.Target.Normalized() != model.TargetAnswers {
			continue
		}
		if step.Entity != "" {
			v, ok := state.EntityValue(q.Key, step.Entity)
			if !ok {
				continue
			}
			per, _ := p.Answers[q.Key].(map[string]any)
			if per == nil {
				per = make(map[string]any)
				p.Answers[q.Key] = per
			}
			per[step.Entity] = v
			continue
		}
		if v, ok := state.Scalar(q.Key); ok {
			p.Answers[q.Key] = v.Value()
		}
	}
	return p
}
