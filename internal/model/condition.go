package model

import "strings"

// Condition gates a question on a value already present in the response
// state. Field is one of "consent", "profile.gender", "profile.age",
// "profile.role", "entities" or "answers.<key>". A field with no value yet
// never satisfies the condition.
type Condition struct {
	Field  string   `json:"field" yaml:"field" bson:"field"`
	Equals string   `json:"equals,omitempty" yaml:"equals,omitempty" bson:"equals,omitempty"`
	In     []string `json:"in,omitempty" yaml:"in,omitempty" bson:"in,omitempty"`
}

// Eval reports whether the condition holds. A nil condition always holds.
func (c *Condition) Eval(s *ResponseState) bool {
	if c == nil {
		return true
	}
	if s == nil {
		return false
	}
	values, ok := lookupField(s, c.Field)
	if !ok {
		return false
	}
	switch {
	case c.Equals != "":
		return containsAny(values, []string{c.Equals})
	case len(c.In) > 0:
		return containsAny(values, c.In)
	default:
		return true
	}
}

// KnownField reports whether field can be resolved against a response state.
func KnownField(field string) bool {
	switch field {
	case "consent", "profile.gender", "profile.age", "profile.role", "entities":
		return true
	}
	return strings.HasPrefix(field, "answers.") && len(field) > len("answers.")
}

func lookupField(s *ResponseState, field string) ([]string, bool) {
	switch field {
	case "consent":
		if s.Consent == ConsentUnanswered {
			return nil, false
		}
		return []string{string(s.Consent)}, true
	case "profile.gender":
		return nonEmpty(s.Profile.Gender)
	case "profile.role":
		return nonEmpty(s.Profile.Role)
	case "profile.age":
		if s.Profile.Age == nil {
			return nil, false
		}
		return []string{FormatNumber(*s.Profile.Age)}, true
	case "entities":
		if len(s.SelectedEntities) == 0 {
			return nil, false
		}
		return s.SelectedEntities, true
	}
	if key, ok := strings.CutPrefix(field, "answers."); ok && key != "" {
		v, ok := s.Scalar(key)
		if !ok {
			return nil, false
		}
		return v.Strings(), true
	}
	return nil, false
}

func nonEmpty(v string) ([]string, bool) {
	if v == "" {
		return nil, false
	}
	return []string{v}, true
}

func containsAny(values, wanted []string) bool {
	for _, v := range values {
		for _, w := range wanted {
			if v == w {
				return true
			}
		}
	}
	return false
}
