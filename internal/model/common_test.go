package model

import "testing"

func TestCardinalityValid(t *testing.T) {
	cases := []struct {
		name string
		c    Cardinality
		want bool
	}{
		{"zero-unbounded", Cardinality{Min: 0, Max: MaxUnbounded}, true},
		{"one-one", Cardinality{Min: 1, Max: 1}, true},
		{"negative-min", Cardinality{Min: -1, Max: MaxUnbounded}, false},
		{"max-below-min", Cardinality{Min: 2, Max: 1}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.c.Valid(); got != tc.want {
				t.Errorf("Cardinality(%+v).Valid() = %v, want %v", tc.c, got, tc.want)
			}
		})
	}
}

func TestPrefixMapAbbreviatePrefersLongestNamespace(t *testing.T) {
	m := NewPrefixMap()
	m.Add("schema", "http://schema.org/")
	m.Add("schema1", "http://schema.org/v1/")

	name, local, ok := m.Abbreviate("http://schema.org/v1/Person")
	if !ok || name != "schema1" || local != "Person" {
		t.Fatalf("Abbreviate = (%q, %q, %v), want (schema1, Person, true)", name, local, ok)
	}

	name, local, ok = m.Abbreviate("http://schema.org/Person")
	if !ok || name != "schema" || local != "Person" {
		t.Fatalf("Abbreviate = (%q, %q, %v), want (schema, Person, true)", name, local, ok)
	}
}

func TestPrefixMapInOrderPreservesInsertionOrder(t *testing.T) {
	m := NewPrefixMap()
	m.Add("b", "http://b/")
	m.Add("a", "http://a/")
	m.Add("b", "http://b2/") // re-add keeps position, updates namespace

	order := m.InOrder()
	if len(order) != 2 || order[0].Name != "b" || order[1].Name != "a" {
		t.Fatalf("InOrder = %+v, want [b a]", order)
	}
	if order[0].IRI != "http://b2/" {
		t.Fatalf("re-adding b should update its namespace, got %q", order[0].IRI)
	}
}

func TestNewValueConstraint(t *testing.T) {
	kind, single, multi := NewValueConstraint(nil)
	if kind != ConstraintNone {
		t.Fatalf("empty value set should be ConstraintNone, got %v", kind)
	}

	kind, single, multi = NewValueConstraint([]Value{NewIRIValue("http://a/")})
	if kind != ConstraintHasValue || single.IRI != "http://a/" {
		t.Fatalf("single value should be ConstraintHasValue, got %v %+v", kind, single)
	}

	kind, _, multi = NewValueConstraint([]Value{NewIRIValue("http://b/"), NewIRIValue("http://a/")})
	if kind != ConstraintInValues || len(multi) != 2 || multi[0].IRI != "http://a/" {
		t.Fatalf("multi-value set should sort into ConstraintInValues, got %v %+v", kind, multi)
	}
}

func TestNewClassConstraint(t *testing.T) {
	kind, single, multi := NewClassConstraint([]string{"http://schema.org/Person"})
	if kind != ConstraintClassRef || single != "http://schema.org/Person" {
		t.Fatalf("single class should be ConstraintClassRef, got %v %q", kind, single)
	}

	kind, _, multi = NewClassConstraint([]string{"http://schema.org/Person", "http://schema.org/Organization"})
	if kind != ConstraintClassRefOr || len(multi) != 2 || multi[0] != "http://schema.org/Organization" {
		t.Fatalf("multi-class set should sort into ConstraintClassRefOr, got %v %+v", kind, multi)
	}
}
