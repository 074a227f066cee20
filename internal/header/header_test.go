package header

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Standard_Charge | Gross ", "standard_charge|gross"},
		{"Code|1|Type", "code|1|type"},
		{"Payer-Name", "payer_name"},
		{"billing   class", "billing class"},
		{"estimated\tamount", "estimated amount"},
		{"description  long", "description long"},
		{"standard_charge |  Aetna | PPO |negotiated_dollar", "standard_charge|aetna|ppo|negotiated_dollar"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"  Standard_Charge | Gross ",
		"A -  B | - C",
		"x | y",
		" lead and trail ",
		"Tab\tSeparated\nLines",
		"Ünïcödé-Name",
		"| leading pipe",
		"trailing pipe |",
		"a | | b",
		"vert\vtab",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestMakeUnique(t *testing.T) {
	got := MakeUnique([]string{"code", "description", "code", "code"})
	want := []string{"code", "description", "code#1", "code#2"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMakeUnique_SkipsExistingSuffix(t *testing.T) {
	got := MakeUnique([]string{"a", "a", "a#1"})
	want := []string{"a", "a#2", "a#1"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	assertDistinct(t, got)
}

func TestMakeUnique_Properties(t *testing.T) {
	inputs := [][]string{
		{},
		{"x"},
		{"a", "a", "a", "a"},
		{"a#1", "a", "a", "a#2", "a"},
		{"", "", ""},
		{"payer_name", "plan_name", "payer_name", "standard_charge|gross", "standard_charge|gross"},
	}
	for _, in := range inputs {
		once := MakeUnique(in)
		if len(once) != len(in) {
			t.Fatalf("MakeUnique(%v) changed length to %d", in, len(once))
		}
		assertDistinct(t, once)
		twice := MakeUnique(once)
		for i := range once {
			if once[i] != twice[i] {
				t.Errorf("not idempotent on %v: %v then %v", in, once, twice)
				break
			}
		}
	}
}

func assertDistinct(t *testing.T, names []string) {
	t.Helper()
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			t.Errorf("duplicate name %q in %v", n, names)
		}
		seen[n] = true
	}
}
