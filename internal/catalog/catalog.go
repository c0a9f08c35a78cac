// Package catalog holds the declarative questionnaire: every question that
// can ever be asked, in display order, with the conditions that include it
// and the axis it repeats over.
package catalog

import (
	"fmt"

	"bemestar/internal/model"
)

// Entry pairs a descriptor with whether it applies to a given state.
type Entry struct {
	Question   *model.Descriptor
	Applicable bool
}

// Catalog is an immutable, validated questionnaire.
type Catalog struct {
	id            string
	title         string
	schemaVersion string
	entities      []model.Option
	questions     []model.Descriptor
	index         map[string]int
}

// New validates doc and builds a catalog from a private copy of it.
func New(doc model.Questionnaire) (*Catalog, error) {
	if len(doc.Questions) == 0 {
		return nil, fmt.Errorf("catalog: no questions")
	}
	c := &Catalog{
		id:            doc.ID,
		title:         doc.Title,
		schemaVersion: doc.SchemaVersion,
		entities:      append([]model.Option{}, doc.Entities...),
		questions:     make([]model.Descriptor, len(doc.Questions)),
		index:         make(map[string]int, len(doc.Questions)),
	}
	if err := checkEntities(c.entities); err != nil {
		return nil, err
	}
	for i, q := range doc.Questions {
		q = copyDescriptor(q)
		q.Target = q.Target.Normalized()
		if q.Target == model.TargetEntities && len(q.Options) == 0 {
			q.Options = append([]model.Option{}, c.entities...)
		}
		if err := checkDescriptor(q); err != nil {
			return nil, err
		}
		if _, dup := c.index[q.Key]; dup {
			return nil, fmt.Errorf("catalog: duplicate question key %q", q.Key)
		}
		if q.Kind == model.KindReview && i != len(doc.Questions)-1 {
			return nil, fmt.Errorf("catalog: review question %q must be last", q.Key)
		}
		c.index[q.Key] = i
		c.questions[i] = q
	}
	if last := c.questions[len(c.questions)-1]; last.Kind != model.KindReview {
		return nil, fmt.Errorf("catalog: last question must be a review, got %q", last.Kind)
	}
	return c, nil
}

// Describe returns every question in declared order with its applicability
// for state. Questions whose condition cannot be evaluated yet are reported
// as not applicable. The review question is always applicable.
func (c *Catalog) Describe(state *model.ResponseState) []Entry {
	entries := make([]Entry, len(c.questions))
	for i := range c.questions {
		q := &c.questions[i]
		applicable := q.Kind == model.KindReview || q.When.Eval(state)
		entries[i] = Entry{Question: q, Applicable: applicable}
	}
	return entries
}

// Question looks a descriptor up by key.
func (c *Catalog) Question(key string) (*model.Descriptor, bool) {
	i, ok := c.index[key]
	if !ok {
		return nil, false
	}
	return &c.questions[i], true
}

// Entities returns the entities questions may repeat over.
func (c *Catalog) Entities() []model.Option {
	return append([]model.Option{}, c.entities...)
}

// EntityLabel returns the display label for an entity id, or the id itself.
func (c *Catalog) EntityLabel(id string) string {
	for _, e := range c.entities {
		if e.Value == id {
			return e.Label
		}
	}
	return id
}

// ProfileLabel returns the option label the question writing target shows for
// value, or value itself when no such question or option exists.
func (c *Catalog) ProfileLabel(target model.Target, value string) string {
	for i := range c.questions {
		if c.questions[i].Target == target {
			return c.questions[i].OptionLabel(value)
		}
	}
	return value
}

func (c *Catalog) ID() string            { return c.id }
func (c *Catalog) Title() string         { return c.title }
func (c *Catalog) SchemaVersion() string { return c.schemaVersion }
func (c *Catalog) Len() int              { return len(c.questions) }

// Document returns the catalog as a storable questionnaire.
func (c *Catalog) Document() model.Questionnaire {
	doc := model.Questionnaire{
		ID:            c.id,
		Title:         c.title,
		SchemaVersion: c.schemaVersion,
		Entities:      c.Entities(),
		Questions:     make([]model.Descriptor, len(c.questions)),
	}
	for i, q := range c.questions {
		doc.Questions[i] = copyDescriptor(q)
	}
	return doc
}

func checkEntities(entities []model.Option) error {
	seen := make(map[string]struct{}, len(entities))
	for _, e := range entities {
		if e.Value == "" {
			return fmt.Errorf("catalog: entity with empty id")
		}
		if _, dup := seen[e.Value]; dup {
			return fmt.Errorf("catalog: duplicate entity %q", e.Value)
		}
		seen[e.Value] = struct{}{}
	}
	return nil
}

func checkDescriptor(q model.Descriptor) error {
	if q.Key == "" {
		return fmt.Errorf("catalog: question with empty key")
	}
	fail := func(format string, args ...any) error {
		return fmt.Errorf("catalog: question %q: %s", q.Key, fmt.Sprintf(format, args...))
	}
	if !q.Kind.IsValid() {
		return fail("unknown kind %q", q.Kind)
	}
	if !q.Target.IsValid() {
		return fail("unknown target %q", q.Target)
	}
	if q.Kind.HasOptions() && len(q.Options) == 0 {
		return fail("%s requires options", q.Kind)
	}
	if q.Kind == model.KindMatrix {
		if !q.Repeats() {
			return fail("matrix requires a repeat axis")
		}
		if _, ok := q.Repeat.AnswerKey(); !ok && q.Repeat != model.AxisEntities {
			return fail("unknown repeat axis %q", q.Repeat)
		}
		if q.Target != model.TargetAnswers {
			return fail("matrix answers cannot target %q", q.Target)
		}
	} else if q.Repeats() {
		return fail("only matrix questions repeat")
	}
	if q.Min != nil && q.Max != nil && *q.Min > *q.Max {
		return fail("min %v greater than max %v", *q.Min, *q.Max)
	}
	if q.When != nil && !model.KnownField(q.When.Field) {
		return fail("condition on unknown field %q", q.When.Field)
	}
	switch q.Target {
	case model.TargetConsent:
		if q.Kind != model.KindSingleChoice || !q.HasOption(model.ConsentOptionAccept) || !q.HasOption(model.ConsentOptionDecline) {
			return fail("consent must be a single choice offering %q and %q", model.ConsentOptionAccept, model.ConsentOptionDecline)
		}
	case model.TargetGender, model.TargetRole:
		if q.Kind != model.KindSingleChoice {
			return fail("%s must be a single choice", q.Target)
		}
	case model.TargetAge:
		if q.Kind != model.KindNumeric {
			return fail("%s must be numeric", q.Target)
		}
	case model.TargetEntities:
		if q.Kind != model.KindMultiChoice {
			return fail("%s must be a multi choice", q.Target)
		}
	}
	return nil
}

func copyDescriptor(q model.Descriptor) model.Descriptor {
	q.Options = append([]model.Option(nil), q.Options...)
	if q.Min != nil {
		v := *q.Min
		q.Min = &v
	}
	if q.Max != nil {
		v := *q.Max
		q.Max = &v
	}
	if q.When != nil {
		w := *q.When
		w.In = append([]string(nil), w.In...)
		q.When = &w
	}
	return q
}
