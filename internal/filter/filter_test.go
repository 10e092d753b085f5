package filter

import (
	"errors"
	"testing"
)

type record map[string]string

func (rec record) FieldValue(field string) (string, bool) {
	val, ok := rec[field]
	return val, ok
}

func TestNewCriterionInfersOperator(t *testing.T) {
	cases := []struct {
		pattern  string
		operator Operator
		value    string
	}{
		{"Bruce Wayne", Equals, "Bruce Wayne"},
		{"Bruce*", StartsWith, "Bruce"},
		{"*Wayne", EndsWith, "Wayne"},
		{"*ruce*", Contains, "ruce"},
		{"*", Contains, ""},
	}
	for _, c := range cases {
		criterion := NewCriterion("Name", c.pattern)
		if criterion.Operator != c.operator || criterion.Value != c.value {
			t.Errorf("pattern %q: got (%v, %q), want (%v, %q)", c.pattern, criterion.Operator, criterion.Value, c.operator, c.value)
		}
		if criterion.Pattern != c.pattern {
			t.Errorf("pattern %q: raw pattern not kept", c.pattern)
		}
	}
}

func TestCriterionMatches(t *testing.T) {
	bruce := record{"Name": "Bruce Wayne", "Email": "bruce@wayne-entreprise.com"}
	cases := []struct {
		criterion *Criterion
		want      bool
	}{
		{NewCriterion("Name", "*Wayne"), true},
		{NewCriterion("Name", "Bruce*"), true},
		{NewCriterion("Name", "*ce W*"), true},
		{NewCriterion("Name", "Bruce Wayne"), true},
		{NewCriterion("Name", "Bruce"), false},
		{NewCriterion("Name", "*Kent"), false},
		{NewCriterion("UserName", "*"), false},
	}
	for _, c := range cases {
		if got := c.criterion.Matches(bruce); got != c.want {
			t.Errorf("%s: got %v, want %v", c.criterion, got, c.want)
		}
	}
}

func TestParse(t *testing.T) {
	criterion, err := Parse("Name=*Wayne")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if criterion.Field != "Name" || criterion.Operator != EndsWith || criterion.Value != "Wayne" {
		t.Fatalf("unexpected criterion %+v", criterion)
	}
	for _, expression := range []string{"Name", "=Wayne", " =x"} {
		if _, err := Parse(expression); !errors.Is(err, ErrInvalidExpression) {
			t.Errorf("%q: expected ErrInvalidExpression, got %v", expression, err)
		}
	}
}

func TestComposeRejectsNoCriteria(t *testing.T) {
	if _, err := Compose(); !errors.Is(err, ErrNoCriteria) {
		t.Fatalf("expected ErrNoCriteria, got %v", err)
	}
}

func TestComposeSingleCriterionIsNotWrapped(t *testing.T) {
	name := NewCriterion("Name", "*Wayne")
	composed, err := Compose(name)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if composed != Filter(name) {
		t.Fatalf("expected the bare criterion, got %T", composed)
	}
}

func TestComposeSeveralCriteriaKeepsOrder(t *testing.T) {
	name := NewCriterion("Name", "*Wayne")
	email := NewCriterion("Email", "bruce@*")
	username := NewCriterion("UserName", "batman")

	composed, err := Compose(name, email, username)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	composite, ok := composed.(*Composite)
	if !ok {
		t.Fatalf("expected a composite, got %T", composed)
	}
	if composite.Logic != And {
		t.Fatalf("expected And logic, got %q", composite.Logic)
	}
	want := []Filter{name, email, username}
	if len(composite.Filters) != len(want) {
		t.Fatalf("expected %d children, got %d", len(want), len(composite.Filters))
	}
	for i := range want {
		if composite.Filters[i] != want[i] {
			t.Fatalf("child %d: got %s, want %s", i, composite.Filters[i], want[i])
		}
	}
	if composite.String() != "(Name=*Wayne AND Email=bruce@* AND UserName=batman)" {
		t.Fatalf("unexpected rendering %q", composite.String())
	}
}

func TestCompositeMatches(t *testing.T) {
	bruce := record{"Name": "Bruce Wayne", "Email": "bruce@wayne-entreprise.com"}
	name := NewCriterion("Name", "*Wayne")
	wrongEmail := NewCriterion("Email", "clark@*")

	if NewComposite(And, name, wrongEmail).Matches(bruce) {
		t.Errorf("and composite must require all children")
	}
	if !NewComposite(Or, name, wrongEmail).Matches(bruce) {
		t.Errorf("or composite must accept any child")
	}
	if NewComposite(Or).Matches(bruce) {
		t.Errorf("empty or composite must not match")
	}
	if !NewComposite(And).Matches(bruce) {
		t.Errorf("empty and composite must match")
	}
}
