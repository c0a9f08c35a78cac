package catalog

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"bemestar/internal/model"
)

func ptr(v float64) *float64 { return &v }

func minimalDoc() model.Questionnaire {
	return model.Questionnaire{
		ID:            "mini",
		Title:         "Mini",
		SchemaVersion: "v-test",
		Entities: []model.Option{
			{Value: "a", Label: "Escola A"},
			{Value: "b", Label: "Escola B"},
		},
		Questions: []model.Descriptor{
			{Key: "consent", Kind: model.KindSingleChoice, Target: model.TargetConsent, Required: true,
				Options: []model.Option{{Value: "accept", Label: "Sim"}, {Value: "decline", Label: "Não"}}},
			{Key: "schools", Kind: model.KindMultiChoice, Target: model.TargetEntities, Required: true},
			{Key: "climate", Kind: model.KindMatrix, Repeat: model.AxisEntities, Required: true,
				Options: []model.Option{{Value: "1", Label: "Ruim"}, {Value: "2", Label: "Bom"}}},
			{Key: "review", Kind: model.KindReview},
		},
	}
}

func TestDefaultLoads(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if c.ID() != DefaultID {
		t.Errorf("ID = %q, want %q", c.ID(), DefaultID)
	}
	if c.SchemaVersion() != "1q-per-page-v2" {
		t.Errorf("SchemaVersion = %q", c.SchemaVersion())
	}
	if got := len(c.Entities()); got != 3 {
		t.Errorf("entities = %d, want 3", got)
	}

	schools, ok := c.Question("escolas_atuacao")
	if !ok {
		t.Fatal("escolas_atuacao missing")
	}
	if diff := cmp.Diff(c.Entities(), schools.Options); diff != "" {
		t.Errorf("entity question options mismatch (-want +got):\n%s", diff)
	}

	a1, ok := c.Question("A1_colegas")
	if !ok {
		t.Fatal("A1_colegas missing")
	}
	if len(a1.Options) != 5 || a1.Options[4].Value != "NS" {
		t.Errorf("A1 options from anchor = %+v", a1.Options)
	}

	age, _ := c.Question("idade")
	if age.Min == nil || *age.Min != 18 || age.Max == nil || *age.Max != 80 {
		t.Errorf("idade bounds = %v..%v", age.Min, age.Max)
	}
}

func TestDescribeGatesOnRole(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}

	applicable := func(s *model.ResponseState, key string) bool {
		for _, e := range c.Describe(s) {
			if e.Question.Key == key {
				return e.Applicable
			}
		}
		t.Fatalf("no entry for %s", key)
		return false
	}

	s := model.NewResponseState()
	if applicable(s, "E1_materiais") {
		t.Error("E1 applicable before role answered")
	}
	s.Profile.Role = "Docente"
	if !applicable(s, "E1_materiais") {
		t.Error("E1 not applicable for Docente")
	}
	s.Profile.Role = "Auxiliar/Assistente de professor"
	if applicable(s, "E1_materiais") {
		t.Error("E1 applicable for non-teacher")
	}
	if !applicable(s, "review") {
		t.Error("review must always be applicable")
	}
}

func TestNewRejectsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.Questionnaire)
		want   string
	}{
		{"duplicate key", func(d *model.Questionnaire) {
			d.Questions[1].Key = "consent"
		}, "duplicate question key"},
		{"unknown kind", func(d *model.Questionnaire) {
			d.Questions[2].Kind = "slider"
		}, "unknown kind"},
		{"review not last", func(d *model.Questionnaire) {
			d.Questions = append(d.Questions, model.Descriptor{Key: "x", Kind: model.KindInfo})
		}, "must be last"},
		{"missing review", func(d *model.Questionnaire) {
			d.Questions = d.Questions[:3]
		}, "last question must be a review"},
		{"matrix without axis", func(d *model.Questionnaire) {
			d.Questions[2].Repeat = model.AxisNone
		}, "requires a repeat axis"},
		{"bad axis", func(d *model.Questionnaire) {
			d.Questions[2].Repeat = "schools"
		}, "unknown repeat axis"},
		{"choice without options", func(d *model.Questionnaire) {
			d.Questions[2].Options = nil
		}, "requires options"},
		{"consent without decline", func(d *model.Questionnaire) {
			d.Questions[0].Options = d.Questions[0].Options[:1]
		}, "consent must be a single choice"},
		{"inverted bounds", func(d *model.Questionnaire) {
			d.Questions = append([]model.Descriptor{{Key: "age", Kind: model.KindNumeric, Target: model.TargetAge, Min: ptr(80), Max: ptr(18)}}, d.Questions...)
		}, "greater than max"},
		{"unknown condition field", func(d *model.Questionnaire) {
			d.Questions[2].When = &model.Condition{Field: "profile.city", Equals: "x"}
		}, "unknown field"},
		{"duplicate entity", func(d *model.Questionnaire) {
			d.Entities = append(d.Entities, model.Option{Value: "a", Label: "Outra A"})
		}, "duplicate entity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := minimalDoc()
			tt.mutate(&doc)
			_, err := New(doc)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestNewCopiesInput(t *testing.T) {
	doc := minimalDoc()
	c, err := New(doc)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	doc.Questions[2].Options[0].Label = "mutated"
	q, _ := c.Question("climate")
	if q.Options[0].Label != "Ruim" {
		t.Errorf("catalog shares option slice with caller")
	}
	if got := c.EntityLabel("b"); got != "Escola B" {
		t.Errorf("EntityLabel(b) = %q", got)
	}
	if got := c.EntityLabel("zz"); got != "zz" {
		t.Errorf("EntityLabel(zz) = %q", got)
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	c, err := New(minimalDoc())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	again, err := New(c.Document())
	if err != nil {
		t.Fatalf("New(Document()): %v", err)
	}
	if diff := cmp.Diff(c.Document(), again.Document()); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadYAMLRejectsUnknownKeys(t *testing.T) {
	src := `
title: T
questions:
  - key: r
    kind: review
    colour: red
`
	if _, err := LoadYAML(strings.NewReader(src)); err == nil {
		t.Fatal("expected unknown field error")
	}
}
