package wizard

import (
	"bemestar/internal/model"
)

const missing = "-"

func (c *Controller) view() model.View {
	step, _ := c.plan.At(c.position)
	q := step.Question
	v := model.View{
		StepID:      step.ID(),
		QuestionKey: q.Key,
		Entity:      step.Entity,
		Kind:        q.Kind,
		Title:       step.Title(),
		Required:    q.Required,
		Options:     append([]model.Option(nil), q.Options...),
		Min:         q.Min,
		Max:         q.Max,
		Placeholder: q.Placeholder,
		Body:        q.Body,
		Position:    c.position,
		Total:       c.plan.Len(),
		CanRetreat:  c.position > 0 && c.status == model.SessionActive,
		Current:     storedInput(c.state, step),
		Status:      c.status,
		Reason:      c.reason,
	}
	if q.Kind == model.KindReview {
		v.Review = c.summary()
	}
	switch c.reason {
	case model.ReasonDeclinedConsent:
		v.Message = MsgDeclined
	case model.ReasonSubmitted:
		v.Message = MsgSubmitted
	}
	return v
}

// storedInput renders what is already recorded for step, so a revisited or
// reselected step comes back filled in.
func storedInput(s *model.ResponseState, step model.Step) *model.Input {
	q := step.Question
	if step.Entity != "" {
		if v, ok := s.EntityValue(q.Key, step.Entity); ok {
			return &model.Input{Value: v}
		}
		return nil
	}
	switch q.Target.Normalized() {
	case model.TargetConsent:
		switch s.Consent {
		case model.ConsentAccepted:
			return &model.Input{Value: model.ConsentOptionAccept}
		case model.ConsentDeclined:
			return &model.Input{Value: model.ConsentOptionDecline}
		}
		return nil
	case model.TargetGender:
		return textInput(s.Profile.Gender)
	case model.TargetRole:
		return textInput(s.Profile.Role)
	case model.TargetAge:
		if s.Profile.Age == nil {
			return nil
		}
		return &model.Input{Value: model.FormatNumber(*s.Profile.Age)}
	case model.TargetEntities:
		if len(s.SelectedEntities) == 0 {
			return nil
		}
		return &model.Input{Values: append([]string{}, s.SelectedEntities...)}
	}
	v, ok := s.Scalar(q.Key)
	if !ok {
		return nil
	}
	switch {
	case v.List != nil:
		return &model.Input{Values: v.Strings()}
	default:
		return &model.Input{Value: v.Strings()[0]}
	}
}

func textInput(v string) *model.Input {
	if v == "" {
		return nil
	}
	return &model.Input{Value: v}
}

func (c *Controller) summary() *model.ReviewSummary {
	p := c.state.Profile
	sum := &model.ReviewSummary{
		Gender:   orMissing(c.cat.ProfileLabel(model.TargetGender, p.Gender)),
		Age:      missing,
		Role:     orMissing(c.cat.ProfileLabel(model.TargetRole, p.Role)),
		Entities: make([]string, 0, len(c.state.SelectedEntities)),
	}
	if p.Age != nil {
		sum.Age = model.FormatNumber(*p.Age)
	}
	for _, id := range c.state.SelectedEntities {
		sum.Entities = append(sum.Entities, c.cat.EntityLabel(id))
	}
	return sum
}

func orMissing(v string) string {
	if v == "" {
		return missing
	}
	return v
}
