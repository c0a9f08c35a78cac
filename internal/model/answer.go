package model

// Scalar is a single committed value: text, a number, or an ordered set of
// strings (multi-choice). Exactly one of the fields is meaningful.
type Scalar struct {
	Text   string   `json:"text,omitempty" bson:"text,omitempty"`
	Number *float64 `json:"number,omitempty" bson:"number,omitempty"`
	List   []string `json:"list,omitempty" bson:"list,omitempty"`
}

// TextValue wraps a string.
func TextValue(s string) Scalar {
	return Scalar{Text: s}
}

// NumberValue wraps a number.
func NumberValue(n float64) Scalar {
	return Scalar{Number: &n}
}

// ListValue wraps an ordered set of strings.
func ListValue(values []string) Scalar {
	return Scalar{List: append([]string{}, values...)}
}

// Value returns the scalar in its wire shape (string, float64 or []string).
func (s Scalar) Value() any {
	switch {
	case s.Number != nil:
		return *s.Number
	case s.List != nil:
		return append([]string{}, s.List...)
	default:
		return s.Text
	}
}

// Strings flattens the scalar for comparisons.
func (s Scalar) Strings() []string {
	switch {
	case s.Number != nil:
		return []string{FormatNumber(*s.Number)}
	case s.List != nil:
		return append([]string{}, s.List...)
	default:
		return []string{s.Text}
	}
}

func (s Scalar) clone() Scalar {
	out := Scalar{Text: s.Text}
	if s.Number != nil {
		n := *s.Number
		out.Number = &n
	}
	if s.List != nil {
		out.List = append([]string{}, s.List...)
	}
	return out
}

// Answer is what is stored under one question key: a scalar, or a value per
// entity for repeated questions.
type Answer struct {
	Scalar    *Scalar           `json:"scalar,omitempty" bson:"scalar,omitempty"`
	PerEntity map[string]string `json:"perEntity,omitempty" bson:"perEntity,omitempty"`
}

func (a Answer) clone() Answer {
	var out Answer
	if a.Scalar != nil {
		s := a.Scalar.clone()
		out.Scalar = &s
	}
	if a.PerEntity != nil {
		out.PerEntity = make(map[string]string, len(a.PerEntity))
		for k, v := range a.PerEntity {
			out.PerEntity[k] = v
		}
	}
	return out
}
