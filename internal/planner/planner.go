// Package planner expands a catalog into the ordered steps that apply to a
// response state.
package planner

import (
	"bemestar/internal/catalog"
	"bemestar/internal/model"
)

// Inconsistency records a repeating question whose axis could not be
// resolved. The question is left out of the plan.
type Inconsistency struct {
	QuestionKey string
	Axis        model.Axis
	Detail      string
}

// Plan is the result of one planning pass.
type Plan struct {
	Steps           []model.Step
	Inconsistencies []Inconsistency
}

// Len returns the number of steps.
func (p Plan) Len() int { return len(p.Steps) }

// At returns the step at i, clamped into range. ok is false for an empty plan.
func (p Plan) At(i int) (model.Step, bool) {
	if len(p.Steps) == 0 {
		return model.Step{}, false
	}
	return p.Steps[Clamp(i, len(p.Steps))], true
}

// IndexOf returns the position of the step with the given id, or -1.
func (p Plan) IndexOf(stepID string) int {
	for i, s := range p.Steps {
		if s.ID() == stepID {
			return i
		}
	}
	return -1
}

// Clamp keeps a position inside a plan of length n.
func Clamp(pos, n int) int {
	if pos >= n {
		pos = n - 1
	}
	if pos < 0 {
		pos = 0
	}
	return pos
}

// Build derives the plan for state. It reads state and never modifies it;
// equal states always produce equal plans.
func Build(cat *catalog.Catalog, state *model.ResponseState) Plan {
	if state == nil {
		state = model.NewResponseState()
	}
	var p Plan
	for _, entry := range cat.Describe(state) {
		if !entry.Applicable {
			continue
		}
		q := entry.Question
		if !q.Repeats() {
			p.Steps = append(p.Steps, model.Step{Question: q})
			continue
		}
		elems, issue := axisElements(q, state)
		if issue != "" {
			p.Inconsistencies = append(p.Inconsistencies, Inconsistency{
				QuestionKey: q.Key,
				Axis:        q.Repeat,
				Detail:      issue,
			})
			continue
		}
		for _, e := range elems {
			p.Steps = append(p.Steps, model.Step{
				Question:    q,
				Entity:      e,
				EntityLabel: cat.EntityLabel(e),
			})
		}
	}
	return p
}

// axisElements lists the values a repeating question expands over, in the
// order they were selected. An empty selection is not an inconsistency.
func axisElements(q *model.Descriptor, state *model.ResponseState) ([]string, string) {
	if q.Repeat == model.AxisEntities {
		return model.Dedupe(state.SelectedEntities), ""
	}
	key, ok := q.Repeat.AnswerKey()
	if !ok {
		return nil, "unknown axis"
	}
	v, ok := state.Scalar(key)
	if !ok {
		return nil, "axis answer " + key + " absent"
	}
	if v.List == nil {
		return nil, "axis answer " + key + " is not a selection"
	}
	return model.Dedupe(v.List), ""
}
