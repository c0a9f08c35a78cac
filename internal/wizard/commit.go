package wizard

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"bemestar/internal/model"
)

// commitFunc writes an already validated value into the state.
type commitFunc func(s *model.ResponseState)

// prepare validates input for step and returns the mutation to apply. It
// never touches state itself, so a rejected input leaves no trace.
func prepare(step model.Step, in model.Input) (commitFunc, error) {
	switch step.Kind() {
	case model.KindSingleChoice:
		return prepareSingle(step, in)
	case model.KindMatrix:
		return prepareMatrix(step, in)
	case model.KindNumeric:
		return prepareNumeric(step, in)
	case model.KindMultiChoice:
		return prepareMulti(step, in)
	case model.KindText:
		return prepareText(step, in)
	case model.KindInfo:
		return func(*model.ResponseState) {}, nil
	case model.KindReview:
		return nil, ErrReviewRequiresSubmit
	default:
		return nil, fmt.Errorf("wizard: step %s: unsupported kind %q", step.ID(), step.Kind())
	}
}

func reject(step model.Step, msg string) error {
	return &ValidationError{
		StepID:      step.ID(),
		QuestionKey: step.Question.Key,
		Entity:      step.Entity,
		Message:     msg,
	}
}

func prepareSingle(step model.Step, in model.Input) (commitFunc, error) {
	q := step.Question
	v := strings.TrimSpace(in.Value)
	if v == "" {
		if q.Required {
			return nil, reject(step, MsgSelectOption)
		}
		return func(s *model.ResponseState) { clearTarget(s, q) }, nil
	}
	if !q.HasOption(v) {
		return nil, reject(step, MsgInvalidOption)
	}
	return func(s *model.ResponseState) {
		switch q.Target.Normalized() {
		case model.TargetConsent:
			if v == model.ConsentOptionDecline {
				s.Consent = model.ConsentDeclined
			} else {
				s.Consent = model.ConsentAccepted
			}
		case model.TargetGender:
			s.Profile.Gender = v
		case model.TargetRole:
			s.Profile.Role = v
		default:
			s.SetScalar(q.Key, model.TextValue(v))
		}
	}, nil
}

func prepareMatrix(step model.Step, in model.Input) (commitFunc, error) {
	q := step.Question
	v := strings.TrimSpace(in.Value)
	if v == "" {
		if q.Required {
			return nil, reject(step, MsgSelectOption)
		}
		return func(s *model.ResponseState) { s.ClearEntityValue(q.Key, step.Entity) }, nil
	}
	if !q.HasOption(v) {
		return nil, reject(step, MsgInvalidOption)
	}
	return func(s *model.ResponseState) { s.SetEntityValue(q.Key, step.Entity, v) }, nil
}

// decimalPattern is what a respondent may type into a number field: an
// optional sign, digits, and an optional fraction after "." or ",".
var decimalPattern = regexp.MustCompile(`^[+-]?[0-9]+(?:[.,][0-9]+)?$`)

func prepareNumeric(step model.Step, in model.Input) (commitFunc, error) {
	q := step.Question
	raw := strings.TrimSpace(in.Value)
	if raw == "" {
		if q.Required {
			return nil, reject(step, MsgFillField)
		}
		return func(s *model.ResponseState) { clearTarget(s, q) }, nil
	}
	if !decimalPattern.MatchString(raw) {
		return nil, reject(step, MsgInvalidNumber)
	}
	n, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil {
		return nil, reject(step, MsgInvalidNumber)
	}
	if msg := checkBounds(q, n); msg != "" {
		return nil, reject(step, msg)
	}
	return func(s *model.ResponseState) {
		if q.Target.Normalized() == model.TargetAge {
			s.Profile.Age = &n
			return
		}
		s.SetScalar(q.Key, model.NumberValue(n))
	}, nil
}

func checkBounds(q *model.Descriptor, n float64) string {
	lo, hi := q.BoundsText()
	switch {
	case q.Min != nil && q.Max != nil && (n < *q.Min || n > *q.Max):
		return fmt.Sprintf(msgRangeTemplate, lo, hi)
	case q.Min != nil && q.Max == nil && n < *q.Min:
		return fmt.Sprintf(msgMinTemplate, lo)
	case q.Max != nil && q.Min == nil && n > *q.Max:
		return fmt.Sprintf(msgMaxTemplate, hi)
	}
	return ""
}

func prepareMulti(step model.Step, in model.Input) (commitFunc, error) {
	q := step.Question
	chosen := make([]string, 0, len(in.Values))
	for _, v := range in.Values {
		if v = strings.TrimSpace(v); v != "" {
			chosen = append(chosen, v)
		}
	}
	chosen = model.Dedupe(chosen)
	if len(chosen) == 0 && q.Required {
		return nil, reject(step, MsgSelectAtLeast)
	}
	for _, v := range chosen {
		if !q.HasOption(v) {
			return nil, reject(step, MsgInvalidOption)
		}
	}
	return func(s *model.ResponseState) {
		switch {
		case q.Target.Normalized() == model.TargetEntities:
			s.SetEntities(chosen)
		case len(chosen) == 0:
			s.Clear(q.Key)
		default:
			s.SetScalar(q.Key, model.ListValue(chosen))
		}
	}, nil
}

func prepareText(step model.Step, in model.Input) (commitFunc, error) {
	q := step.Question
	v := strings.TrimSpace(in.Value)
	if v == "" {
		if q.Required {
			return nil, reject(step, MsgFillField)
		}
		return func(s *model.ResponseState) { s.Clear(q.Key) }, nil
	}
	return func(s *model.ResponseState) { s.SetScalar(q.Key, model.TextValue(v)) }, nil
}

func clearTarget(s *model.ResponseState, q *model.Descriptor) {
	switch q.Target.Normalized() {
	case model.TargetConsent:
		s.Consent = model.ConsentUnanswered
	case model.TargetGender:
		s.Profile.Gender = ""
	case model.TargetRole:
		s.Profile.Role = ""
	case model.TargetAge:
		s.Profile.Age = nil
	case model.TargetEntities:
		s.SetEntities(nil)
	default:
		s.Clear(q.Key)
	}
}
