package model

// Step is one concrete screen: a descriptor, bound to an entity when the
// descriptor repeats. Steps are derived on every planning pass and never stored.
type Step struct {
	Question    *Descriptor
	Entity      string
	EntityLabel string
}

// ID identifies the step inside a plan, e.g. "A1_colegas[apae]".
func (s Step) ID() string {
	if s.Entity == "" {
		return s.Question.Key
	}
	return s.Question.Key + "[" + s.Entity + "]"
}

// Title is the descriptor title, suffixed with the entity label when bound.
func (s Step) Title() string {
	if s.Entity == "" {
		return s.Question.Title
	}
	label := s.EntityLabel
	if label == "" {
		label = s.Entity
	}
	return s.Question.Title + " — " + label
}

// Kind is the kind of the underlying descriptor.
func (s Step) Kind() Kind {
	return s.Question.Kind
}
