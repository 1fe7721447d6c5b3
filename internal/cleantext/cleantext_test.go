package cleantext

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello,  World!", "hello world"},
		{"  2.1   Results  ", "21 results"},
		{"UPPER case", "upper case"},
		{"", ""},
		{"---", ""},
		{"ﬁnding", "finding"}, // NFKC folds the ligature
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLineSet(t *testing.T) {
	set := NewLineSet([]string{"Introduction", "2.1 Results", "  "})

	if !set.Contains(Normalize("INTRODUCTION")) {
		t.Error("expected normalized membership for Introduction")
	}
	if !set.Contains(Normalize("2.1 Results")) {
		t.Error("expected membership for 2.1 Results")
	}
	if set.Contains(Normalize("Conclusion")) {
		t.Error("unexpected membership for absent line")
	}
	if set.Contains("") {
		t.Error("empty string must not be a member")
	}
}

func TestFullText(t *testing.T) {
	sig := NewFullText("Chapter One: Introduction.\nThis chapter covers the basics.")

	if !sig.Contains(Normalize("Introduction")) {
		t.Error("expected substring containment for Introduction")
	}
	if !sig.Contains(Normalize("chapter covers")) {
		t.Error("expected containment across whitespace normalization")
	}
	if sig.Contains(Normalize("Appendix")) {
		t.Error("unexpected containment for absent text")
	}
	if sig.Contains("") {
		t.Error("empty string must not be contained")
	}
}
