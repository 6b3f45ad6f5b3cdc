package utils

import "testing"

func TestNormalizeUsername(t *testing.T) {
	cases := map[string]string{
		"rafa":        "rafa",
		"@rafa":       "rafa",
		"  @Rafa  ":   "rafa",
		"RAFA_USER":   "rafa_user",
		"@@double":    "@double",
		"":            "",
		"  ":          "",
	}
	for in, want := range cases {
		if got := NormalizeUsername(in); got != want {
			t.Errorf("NormalizeUsername(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSameUsername(t *testing.T) {
	if !SameUsername("@Rafa", "rafa ") {
		t.Error("expected @Rafa and rafa to match")
	}
	if SameUsername("rafa", "rafael") {
		t.Error("expected rafa and rafael to differ")
	}
}

func TestDisplayUsername(t *testing.T) {
	if got := DisplayUsername(" @Rafa "); got != "@rafa" {
		t.Errorf("DisplayUsername = %q", got)
	}
	if got := DisplayUsername(""); got != "@usuario" {
		t.Errorf("DisplayUsername empty = %q", got)
	}
}
