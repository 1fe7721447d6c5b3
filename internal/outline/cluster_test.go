package outline

import (
	"testing"

	"github.com/mgrims/doclens/internal/layout"
)

func TestClusterAssigner_RanksGroupsByProminence(t *testing.T) {
	a := &ClusterAssigner{}

	items := a.Assign([]layout.LineRecord{
		cand("Top Banner", 0, 24, 1.0),
		cand("Second Banner", 0, 23.5, 1.0),
		cand("Mid Heading", 0, 16, 0.5),
		cand("Another Mid", 1, 16.5, 0.5),
		cand("Small Label", 1, 12, 0),
	})

	if len(items) != 5 {
		t.Fatalf("expected 5 items, got %d", len(items))
	}
	wantLevels := map[string]Level{
		"Top Banner":    H1,
		"Second Banner": H1,
		"Mid Heading":   H2,
		"Another Mid":   H2,
		"Small Label":   H3,
	}
	for _, it := range items {
		if it.Level != wantLevels[it.Text] {
			t.Errorf("%q: got %s, want %s", it.Text, it.Level, wantLevels[it.Text])
		}
	}
}

func TestClusterAssigner_SingleSizeAllH1(t *testing.T) {
	a := &ClusterAssigner{}

	items := a.Assign([]layout.LineRecord{
		cand("One", 0, 14, 0),
		cand("Two", 0, 14, 0),
		cand("Three", 1, 14, 0),
	})
	for _, it := range items {
		if it.Level != H1 {
			t.Errorf("%q: got %s, want H1 when only one size exists", it.Text, it.Level)
		}
	}
}

func TestClusterAssigner_ExclamationPromotedToH1(t *testing.T) {
	a := &ClusterAssigner{}

	items := a.Assign([]layout.LineRecord{
		cand("Main Heading", 0, 24, 1.0),
		cand("Join Us Today!", 1, 12, 0),
		cand("Ordinary Label", 1, 12, 0),
	})

	for _, it := range items {
		switch it.Text {
		case "Join Us Today!":
			if it.Level != H1 {
				t.Errorf("exclamation line got %s, want H1", it.Level)
			}
		case "Ordinary Label":
			if it.Level == H1 {
				t.Error("ordinary small label unexpectedly H1")
			}
		}
	}
}

func TestClusterAssigner_EmptyInput(t *testing.T) {
	a := &ClusterAssigner{}
	if items := a.Assign(nil); items != nil {
		t.Errorf("expected nil for empty input, got %+v", items)
	}
}
