package escape

import (
	"errors"
	"strings"
	"testing"
)

func TestIsValidName(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"a", true},
		{"A", true},
		{"_", true},
		{"_x", true},
		{"abc_123", true},
		{"textRoot", true},
		{strings.Repeat("a", 254), true},
		{strings.Repeat("a", 255), false},
		{"", false},
		{"3", false},
		{"3abc", false},
		{"á", false},
		{" ", false},
		{" a", false},
		{"a ", false},
		{"a-b", false},
		{"a/b", false},
	}
	for _, tc := range tests {
		if got := IsValidName(tc.name); got != tc.valid {
			t.Errorf("IsValidName(%q) = %v, want %v", tc.name, got, tc.valid)
		}
	}
}

func TestEscape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"abc", "abc"},
		{"a1", "a1"},
		{"_", "__"},
		{"a_b", "a__b"},
		{" ", "_0020"},
		{"á", "_00E1"},
		{"my file.txt", "my_0020file_002Etxt"},
		{"3", "_0033"},
		{"3abc", "_0033abc"},
		{"a3", "a3"},
		{"über", "_00FCber"},
		// Outside the basic multilingual plane: two code units.
		{"\U0001F600", "_D83D_DE00"},
	}
	for _, tc := range tests {
		if got := Escape(tc.in); got != tc.want {
			t.Errorf("Escape(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEscapeProducesValidNames(t *testing.T) {
	inputs := []string{
		"a", "_", "3", " ", "á", "my file", "3abc", "\U0001F600",
		"\x00", "\n", "a b c", "ключ", "名前",
	}
	for _, in := range inputs {
		esc := Escape(in)
		if !IsValidName(esc) {
			t.Errorf("IsValidName(Escape(%q)) = false (escaped: %q)", in, esc)
		}
	}
}

func TestEscapeIdempotentOnValidNames(t *testing.T) {
	for _, name := range []string{"a", "abc", "textRoot", "a1_b2", "A_Z"} {
		if got := Escape(name); got != name {
			t.Errorf("Escape(%q) = %q, want unchanged", name, got)
		}
	}
	// The introducer itself is the one exception.
	if got := Escape("_"); got != "__" {
		t.Errorf("Escape(\"_\") = %q, want \"__\"", got)
	}
}

func TestUnescapeRoundTrip(t *testing.T) {
	inputs := []string{
		"", "abc", "_", "__", "my file.txt", " leading", "trailing ",
		"á é í", "3", "under_score", "\x00\x01\x02", "\U0001F600 mixed",
		"ключи и значения", "a/b\\c\"d",
	}
	for _, in := range inputs {
		esc := Escape(in)
		got, err := Unescape(esc)
		if err != nil {
			t.Errorf("Unescape(Escape(%q)) error: %v", in, err)
			continue
		}
		if got != in {
			t.Errorf("Unescape(Escape(%q)) = %q", in, got)
		}
	}
}

func TestUnescapeRoundTripBMPSweep(t *testing.T) {
	// Every BMP rune below the surrogate range round-trips through a
	// single escape group.
	var b strings.Builder
	for r := rune(1); r < 0xD800; r += 37 {
		b.WriteRune(r)
	}
	in := b.String()
	got, err := Unescape(Escape(in))
	if err != nil {
		t.Fatalf("sweep round trip error: %v", err)
	}
	if got != in {
		t.Fatalf("sweep round trip mismatch")
	}
}

func TestUnescapeErrors(t *testing.T) {
	bad := []string{
		"_",
		"abc_",
		"_0",
		"_01",
		"_012",
		"_0X41",
		"_G123",
		"a_!bcd",
	}
	for _, in := range bad {
		_, err := Unescape(in)
		if err == nil {
			t.Errorf("Unescape(%q): expected error", in)
			continue
		}
		var fe *FormatError
		if !errors.As(err, &fe) {
			t.Errorf("Unescape(%q): error %v is not a *FormatError", in, err)
		}
	}
}

func TestUnescapeHexCaseInsensitive(t *testing.T) {
	for _, in := range []string{"_00e1", "_00E1"} {
		got, err := Unescape(in)
		if err != nil {
			t.Fatalf("Unescape(%q) error: %v", in, err)
		}
		if got != "á" {
			t.Errorf("Unescape(%q) = %q, want %q", in, got, "á")
		}
	}
}
