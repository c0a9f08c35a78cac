package planner

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"bemestar/internal/catalog"
	"bemestar/internal/model"
)

func defaultCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default: %v", err)
	}
	return c
}

func stepIDs(p Plan) []string {
	ids := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		ids[i] = s.ID()
	}
	return ids
}

func countFor(p Plan, key string) []string {
	var entities []string
	for _, s := range p.Steps {
		if s.Question.Key == key {
			entities = append(entities, s.Entity)
		}
	}
	return entities
}

func TestBuildEmptyState(t *testing.T) {
	p := Build(defaultCatalog(t), model.NewResponseState())

	ids := stepIDs(p)
	want := []string{"tcle_txt", "tcle", "genero", "idade", "funcao", "escolas_atuacao"}
	if diff := cmp.Diff(want, ids[:len(want)]); diff != "" {
		t.Errorf("plan prefix (-want +got):\n%s", diff)
	}
	if last := ids[len(ids)-1]; last != "review" {
		t.Errorf("last step = %q, want review", last)
	}
	if got := countFor(p, "A1_colegas"); len(got) != 0 {
		t.Errorf("A1 steps without entities: %v", got)
	}
	if got := countFor(p, "E1_materiais"); len(got) != 0 {
		t.Errorf("E1 steps without role: %v", got)
	}
	if len(p.Inconsistencies) != 0 {
		t.Errorf("unexpected inconsistencies: %+v", p.Inconsistencies)
	}
}

func TestBuildDeterministic(t *testing.T) {
	c := defaultCatalog(t)
	s := model.NewResponseState()
	s.Profile.Role = "Docente"
	s.SetEntities([]string{"apae", "cei_lkm"})

	first := stepIDs(Build(c, s))
	second := stepIDs(Build(c, s))
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("plans differ (-first +second):\n%s", diff)
	}
}

func TestBuildRepeatsInSelectionOrder(t *testing.T) {
	c := defaultCatalog(t)
	for _, sel := range [][]string{
		{"apae"},
		{"em_epc", "cei_lkm"},
		{"apae", "cei_lkm", "em_epc"},
	} {
		s := model.NewResponseState()
		s.SetEntities(sel)
		p := Build(c, s)
		if diff := cmp.Diff(sel, countFor(p, "A1_colegas")); diff != "" {
			t.Errorf("selection %v: A1 entities (-want +got):\n%s", sel, diff)
		}
		if diff := cmp.Diff(sel, countFor(p, "RF_assedio_presenciou")); diff != "" {
			t.Errorf("selection %v: RF entities (-want +got):\n%s", sel, diff)
		}
	}
}

func TestBuildIgnoresDuplicateSelections(t *testing.T) {
	s := model.NewResponseState()
	s.SelectedEntities = []string{"apae", "cei_lkm", "apae"}

	p := Build(defaultCatalog(t), s)
	if diff := cmp.Diff([]string{"apae", "cei_lkm"}, countFor(p, "A1_colegas")); diff != "" {
		t.Errorf("A1_colegas entities (-want +got):\n%s", diff)
	}
	seen := map[string]bool{}
	for _, id := range stepIDs(p) {
		if seen[id] {
			t.Errorf("duplicate step %s", id)
		}
		seen[id] = true
	}
}

func TestBuildDimensionMajor(t *testing.T) {
	c := defaultCatalog(t)
	s := model.NewResponseState()
	s.SetEntities([]string{"em_epc", "apae"})
	ids := stepIDs(Build(c, s))

	i := indexOf(ids, "A1_colegas[em_epc]")
	if i < 0 {
		t.Fatalf("A1_colegas[em_epc] missing from %v", ids)
	}
	want := []string{"A1_colegas[em_epc]", "A1_colegas[apae]", "A2_gestao[em_epc]", "A2_gestao[apae]"}
	if diff := cmp.Diff(want, ids[i:i+4]); diff != "" {
		t.Errorf("order (-want +got):\n%s", diff)
	}
}

func TestBuildRoleGate(t *testing.T) {
	c := defaultCatalog(t)
	s := model.NewResponseState()
	s.SetEntities([]string{"cei_lkm", "apae"})

	s.Profile.Role = "Docente"
	if got := countFor(Build(c, s), "E3_equip"); len(got) != 2 {
		t.Errorf("teacher E3 steps = %v, want 2", got)
	}
	s.Profile.Role = "Função técnica/administrativa escolar"
	if got := countFor(Build(c, s), "E3_equip"); len(got) != 0 {
		t.Errorf("non-teacher E3 steps = %v, want none", got)
	}
}

func TestBuildDeselectRemovesSteps(t *testing.T) {
	c := defaultCatalog(t)
	s := model.NewResponseState()
	s.SetEntities([]string{"cei_lkm", "apae"})
	withTwo := Build(c, s).Len()

	s.SetEntities([]string{"apae"})
	withOne := Build(c, s)
	if got := countFor(withOne, "D3_seguranca"); len(got) != 1 || got[0] != "apae" {
		t.Errorf("D3 after deselect = %v", got)
	}

	s.SetEntities(nil)
	withNone := Build(c, s)
	if withNone.Len() >= withOne.Len() || withOne.Len() >= withTwo {
		t.Errorf("lengths not shrinking: %d, %d, %d", withTwo, withOne.Len(), withNone.Len())
	}
	if last, _ := withNone.At(withNone.Len()); last.Question.Key != "review" {
		t.Errorf("clamped At = %q, want review", last.Question.Key)
	}
}

func TestBuildAnswerAxis(t *testing.T) {
	doc := model.Questionnaire{
		Questions: []model.Descriptor{
			{Key: "topics", Kind: model.KindMultiChoice, Options: []model.Option{{Value: "x"}, {Value: "y"}}},
			{Key: "rate", Kind: model.KindMatrix, Repeat: "answers.topics", Options: []model.Option{{Value: "1"}}},
			{Key: "note", Kind: model.KindMatrix, Repeat: "answers.free", Options: []model.Option{{Value: "1"}}},
			{Key: "review", Kind: model.KindReview},
		},
	}
	c, err := catalog.New(doc)
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}

	s := model.NewResponseState()
	p := Build(c, s)
	if diff := cmp.Diff([]string{"topics", "review"}, stepIDs(p)); diff != "" {
		t.Errorf("plan (-want +got):\n%s", diff)
	}
	if len(p.Inconsistencies) != 2 {
		t.Fatalf("inconsistencies = %+v, want 2", p.Inconsistencies)
	}
	if p.Inconsistencies[0].QuestionKey != "rate" {
		t.Errorf("first inconsistency = %+v", p.Inconsistencies[0])
	}

	s.SetScalar("topics", model.ListValue([]string{"y", "x"}))
	s.SetScalar("free", model.TextValue("hello"))
	p = Build(c, s)
	want := []string{"topics", "rate[y]", "rate[x]", "review"}
	if diff := cmp.Diff(want, stepIDs(p)); diff != "" {
		t.Errorf("plan (-want +got):\n%s", diff)
	}
	if len(p.Inconsistencies) != 1 || p.Inconsistencies[0].QuestionKey != "note" {
		t.Errorf("inconsistencies = %+v", p.Inconsistencies)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct{ pos, n, want int }{
		{0, 5, 0}, {4, 5, 4}, {9, 5, 4}, {-1, 5, 0}, {3, 0, 0},
	}
	for _, tt := range tests {
		if got := Clamp(tt.pos, tt.n); got != tt.want {
			t.Errorf("Clamp(%d, %d) = %d, want %d", tt.pos, tt.n, got, tt.want)
		}
	}
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
