package language

import "testing"

func TestNormalize_FallsBackToDefault(t *testing.T) {
	s := New([]string{"en", "hu", "de"}, "en")

	cases := map[string]string{
		"en":  "en",
		"HU":  "hu",
		" de": "de",
		"fr":  "en",
		"":    "en",
	}
	for in, want := range cases {
		if got := s.Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValid(t *testing.T) {
	s := New([]string{"en", "hu"}, "en")

	if !s.Valid("hu") || !s.Valid("EN") {
		t.Fatal("supported code rejected")
	}
	if s.Valid("xx") {
		t.Fatal("unsupported code accepted")
	}
}

func TestFallbackAlwaysMember(t *testing.T) {
	s := New([]string{"hu"}, "en")
	if !s.Valid("en") {
		t.Fatal("fallback not a member of the set")
	}
}
