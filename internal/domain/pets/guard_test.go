package pets

import (
	"errors"
	"testing"
)

func TestDecide(t *testing.T) {
	open := Pet{OwnerID: "owner", Available: true, Adopters: NewAdopterSet("a1")}
	closed := open.Clone()
	closed.Available = false

	owner := Identity{UserID: "owner"}
	adopter := Identity{UserID: "a1"}
	stranger := Identity{UserID: "x"}
	anon := Identity{}

	cases := []struct {
		name   string
		op     Operation
		pet    Pet
		actor  Identity
		policy ConcludePolicy
		want   error // nil => allowed
		reason ConflictReason
	}{
		{"read is public", OpRead, open, anon, ConcludeAnyAuthenticated, nil, ""},
		{"create needs identity", OpCreate, Pet{}, anon, ConcludeAnyAuthenticated, ErrUnauthenticated, ""},
		{"create", OpCreate, Pet{}, stranger, ConcludeAnyAuthenticated, nil, ""},

		{"update owner", OpUpdate, open, owner, ConcludeAnyAuthenticated, nil, ""},
		{"update stranger hidden", OpUpdate, open, stranger, ConcludeAnyAuthenticated, ErrNotFound, ""},
		{"update adopter hidden", OpUpdate, open, adopter, ConcludeAnyAuthenticated, ErrNotFound, ""},
		{"delete owner", OpDelete, closed, owner, ConcludeAnyAuthenticated, nil, ""},
		{"delete stranger hidden", OpDelete, open, stranger, ConcludeAnyAuthenticated, ErrNotFound, ""},
		{"delete anon", OpDelete, open, anon, ConcludeAnyAuthenticated, ErrUnauthenticated, ""},

		{"schedule stranger", OpSchedule, open, stranger, ConcludeAnyAuthenticated, nil, ""},
		{"schedule owner", OpSchedule, open, owner, ConcludeAnyAuthenticated, ErrConflict, ReasonOwnPet},
		{"schedule owner closed", OpSchedule, closed, owner, ConcludeAnyAuthenticated, ErrConflict, ReasonOwnPet},
		{"schedule twice", OpSchedule, open, adopter, ConcludeAnyAuthenticated, ErrConflict, ReasonDuplicate},
		{"schedule twice closed", OpSchedule, closed, adopter, ConcludeAnyAuthenticated, ErrConflict, ReasonDuplicate},
		{"schedule closed", OpSchedule, closed, stranger, ConcludeAnyAuthenticated, ErrConflict, ReasonUnavailable},

		{"conclude any", OpConclude, open, stranger, ConcludeAnyAuthenticated, nil, ""},
		{"conclude anon", OpConclude, open, anon, ConcludeAnyAuthenticated, ErrUnauthenticated, ""},
		{"conclude restricted stranger", OpConclude, open, stranger, ConcludeOwnerOrAdopter, ErrNotFound, ""},
		{"conclude restricted owner", OpConclude, open, owner, ConcludeOwnerOrAdopter, nil, ""},
		{"conclude restricted adopter", OpConclude, open, adopter, ConcludeOwnerOrAdopter, nil, ""},

		{"unknown op", Operation("archive"), open, owner, ConcludeAnyAuthenticated, ErrInvalidInput, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := Decide(tc.op, tc.pet, tc.actor, tc.policy)
			if tc.want == nil {
				if !d.Allowed || d.Err != nil {
					t.Fatalf("expected allowed, got %+v", d)
				}
				return
			}
			if d.Allowed {
				t.Fatalf("expected denied with %v", tc.want)
			}
			if !errors.Is(d.Err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, d.Err)
			}
			if tc.reason != "" && !IsConflict(d.Err, tc.reason) {
				t.Fatalf("expected reason %s, got %v", tc.reason, d.Err)
			}
		})
	}
}

func TestParseConcludePolicy(t *testing.T) {
	if got := ParseConcludePolicy(" Owner_Or_Adopter "); got != ConcludeOwnerOrAdopter {
		t.Fatalf("got %q", got)
	}
	for _, in := range []string{"", "any", "whatever"} {
		if got := ParseConcludePolicy(in); got != ConcludeAnyAuthenticated {
			t.Fatalf("%q: got %q", in, got)
		}
	}
}

func TestAdopterSet(t *testing.T) {
	var s AdopterSet
	if s.Has("a") || s.Len() != 0 || len(s.IDs()) != 0 {
		t.Fatalf("zero value should be empty")
	}
	if !s.Add("b") || !s.Add("a") || s.Add("b") || s.Add("  ") {
		t.Fatalf("unexpected Add results")
	}
	ids := s.IDs()
	if len(ids) != 2 || ids[0] != "b" || ids[1] != "a" {
		t.Fatalf("insertion order lost: %v", ids)
	}

	ids[0] = "mutated"
	c := s.Clone()
	c.Add("z")
	if s.Len() != 2 || s.IDs()[0] != "b" || c.Len() != 3 {
		t.Fatalf("copies must not alias: %v / %v", s.IDs(), c.IDs())
	}
}
