package outline

import (
	"reflect"
	"testing"
)

func TestValidateHierarchy_ClampsSkippedLevels(t *testing.T) {
	in := []Item{
		{Level: H2, Text: "starts deep", Page: 1},
		{Level: H1, Text: "top", Page: 1},
		{Level: H3, Text: "skips H2", Page: 2},
		{Level: H3, Text: "now legal", Page: 2},
	}
	out := ValidateHierarchy(in)

	want := []Level{H1, H1, H2, H3}
	for i, it := range out {
		if it.Level != want[i] {
			t.Errorf("item %d (%q): got %s, want %s", i, it.Text, it.Level, want[i])
		}
	}
}

func TestValidateHierarchy_NoJumpsUntouched(t *testing.T) {
	in := []Item{
		{Level: H1, Text: "a", Page: 1},
		{Level: H2, Text: "b", Page: 1},
		{Level: H3, Text: "c", Page: 1},
		{Level: H1, Text: "d", Page: 2},
	}
	out := ValidateHierarchy(append([]Item(nil), in...))
	if !reflect.DeepEqual(out, in) {
		t.Errorf("valid outline modified: %+v", out)
	}
}

func TestValidateHierarchy_ConsecutiveRankInvariant(t *testing.T) {
	in := []Item{
		{Level: H3, Text: "a", Page: 1},
		{Level: H3, Text: "b", Page: 1},
		{Level: H1, Text: "c", Page: 2},
		{Level: H3, Text: "d", Page: 2},
	}
	out := ValidateHierarchy(in)
	last := 0
	for i, it := range out {
		if it.Level.Rank() > last+1 {
			t.Errorf("item %d: rank %d after %d violates no-skip invariant", i, it.Level.Rank(), last)
		}
		last = it.Level.Rank()
	}
}

func TestDeduplicate_KeepsFirstOccurrence(t *testing.T) {
	in := []Item{
		{Level: H1, Text: "Overview", Page: 1},
		{Level: H2, Text: "Details", Page: 1},
		{Level: H1, Text: "Overview", Page: 1}, // exact dup
		{Level: H1, Text: "Overview", Page: 3}, // different page, kept
	}
	out := Deduplicate(in)
	if len(out) != 3 {
		t.Fatalf("expected 3 items, got %d: %+v", len(out), out)
	}
	if out[0].Text != "Overview" || out[1].Text != "Details" || out[2].Page != 3 {
		t.Errorf("unexpected order after dedup: %+v", out)
	}
}

func TestDeduplicate_Idempotent(t *testing.T) {
	in := []Item{
		{Level: H1, Text: "A", Page: 1},
		{Level: H1, Text: "A", Page: 1},
		{Level: H2, Text: "B", Page: 2},
	}
	once := Deduplicate(in)
	twice := Deduplicate(append([]Item(nil), once...))
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("dedup not idempotent: %+v vs %+v", once, twice)
	}
}
