package model

// Consent is the tri-state answer to the consent question.
type Consent string

const (
	ConsentUnanswered Consent = ""
	ConsentAccepted   Consent = "accepted"
	ConsentDeclined   Consent = "declined"
)

// Option values the consent question must offer.
const (
	ConsentOptionAccept  = "accept"
	ConsentOptionDecline = "decline"
)

// Profile holds the fixed demographic keys.
type Profile struct {
	Gender string   `json:"gender,omitempty" bson:"gender,omitempty"`
	Age    *float64 `json:"age,omitempty" bson:"age,omitempty"`
	Role   string   `json:"role,omitempty" bson:"role,omitempty"`
}

// ResponseState is everything answered so far in one session. Keys not yet
// answered are absent from Answers.
type ResponseState struct {
	Consent          Consent           `json:"consent" bson:"consent"`
	Profile          Profile           `json:"profile" bson:"profile"`
	SelectedEntities []string          `json:"selectedEntities" bson:"selectedEntities"`
	Answers          map[string]Answer `json:"answers" bson:"answers"`
}

// NewResponseState returns an empty state.
func NewResponseState() *ResponseState {
	return &ResponseState{
		SelectedEntities: []string{},
		Answers:          make(map[string]Answer),
	}
}

// Clone deep-copies the state.
func (s *ResponseState) Clone() *ResponseState {
	if s == nil {
		return NewResponseState()
	}
	out := &ResponseState{
		Consent:          s.Consent,
		Profile:          s.Profile,
		SelectedEntities: append([]string{}, s.SelectedEntities...),
		Answers:          make(map[string]Answer, len(s.Answers)),
	}
	if s.Profile.Age != nil {
		age := *s.Profile.Age
		out.Profile.Age = &age
	}
	for k, v := range s.Answers {
		out.Answers[k] = v.clone()
	}
	return out
}

// SetEntities replaces the selection, dropping duplicates but keeping the
// order in which values first appear.
func (s *ResponseState) SetEntities(ids []string) {
	s.SelectedEntities = Dedupe(ids)
}

// Scalar returns the scalar stored under key.
func (s *ResponseState) Scalar(key string) (Scalar, bool) {
	a, ok := s.Answers[key]
	if !ok || a.Scalar == nil {
		return Scalar{}, false
	}
	return *a.Scalar, true
}

// SetScalar stores a scalar under key.
func (s *ResponseState) SetScalar(key string, v Scalar) {
	s.ensureAnswers()
	v = v.clone()
	s.Answers[key] = Answer{Scalar: &v}
}

// EntityValue returns the value recorded for entity under a repeated question.
func (s *ResponseState) EntityValue(key, entity string) (string, bool) {
	a, ok := s.Answers[key]
	if !ok || a.PerEntity == nil {
		return "", false
	}
	v, ok := a.PerEntity[entity]
	return v, ok
}

// SetEntityValue records value for entity under a repeated question. Values
// recorded for other entities are kept, including deselected ones.
func (s *ResponseState) SetEntityValue(key, entity, value string) {
	s.ensureAnswers()
	a := s.Answers[key]
	if a.PerEntity == nil {
		a.PerEntity = make(map[string]string)
	}
	a.PerEntity[entity] = value
	a.Scalar = nil
	s.Answers[key] = a
}

// ClearEntityValue removes the value recorded for entity under key.
func (s *ResponseState) ClearEntityValue(key, entity string) {
	a, ok := s.Answers[key]
	if !ok || a.PerEntity == nil {
		return
	}
	delete(a.PerEntity, entity)
	if len(a.PerEntity) == 0 {
		delete(s.Answers, key)
		return
	}
	s.Answers[key] = a
}

// Clear removes key entirely.
func (s *ResponseState) Clear(key string) {
	delete(s.Answers, key)
}

func (s *ResponseState) ensureAnswers() {
	if s.Answers == nil {
		s.Answers = make(map[string]Answer)
	}
}

// Dedupe drops repeated values, keeping first occurrences in order.
func Dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
