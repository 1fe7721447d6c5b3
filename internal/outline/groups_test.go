package outline

import (
	"testing"

	"github.com/mgrims/doclens/internal/classify"
	"github.com/mgrims/doclens/internal/keywords"
	"github.com/mgrims/doclens/internal/layout"
)

func groupLine(text string, page int, y float64) layout.LineRecord {
	return layout.LineRecord{Text: text, Page: page, FontSize: 14, YCenter: y}
}

func TestExcludeNoisyGroups_DropsBlockWithNoiseMember(t *testing.T) {
	noise := classify.NewNoise(keywords.Default())

	// A tight block where one line is an address: the whole block goes.
	cands := []layout.LineRecord{
		groupLine("Community Barbecue", 0, 100),
		groupLine("123 Main Street, Springfield", 0, 112),
		groupLine("Saturday Afternoon", 0, 124),
		// A distant standalone heading survives.
		groupLine("Menu Highlights", 0, 300),
	}
	kept := ExcludeNoisyGroups(cands, noise)

	if len(kept) != 1 || kept[0].Text != "Menu Highlights" {
		t.Errorf("kept = %+v, want only Menu Highlights", kept)
	}
}

func TestExcludeNoisyGroups_MajorityShoutedDropped(t *testing.T) {
	noise := classify.NewNoise(keywords.Default())

	cands := []layout.LineRecord{
		groupLine("SEE YOU", 0, 100),
		groupLine("THERE", 0, 112),
		groupLine("Snack Table", 0, 124),
	}
	kept := ExcludeNoisyGroups(cands, noise)
	if len(kept) != 0 {
		t.Errorf("majority-shouted block kept: %+v", kept)
	}
}

func TestExcludeNoisyGroups_PageBoundarySplitsGroups(t *testing.T) {
	noise := classify.NewNoise(keywords.Default())

	cands := []layout.LineRecord{
		groupLine("Chapter One", 0, 780),
		// Next page: a fresh group even though the sequence is adjacent.
		groupLine("123 Main Street, Springfield", 1, 40),
		groupLine("Mail-In Details", 1, 52),
	}
	kept := ExcludeNoisyGroups(cands, noise)
	if len(kept) != 1 || kept[0].Text != "Chapter One" {
		t.Errorf("kept = %+v, want only Chapter One", kept)
	}
}

func TestExcludeNoisyGroups_SingletonNoiseKept(t *testing.T) {
	noise := classify.NewNoise(keywords.Default())

	// Group exclusion only judges blocks; lone lines pass through and are
	// left to the per-line filters.
	cands := []layout.LineRecord{groupLine("Standalone Heading", 0, 100)}
	kept := ExcludeNoisyGroups(cands, noise)
	if len(kept) != 1 {
		t.Errorf("singleton dropped: %+v", kept)
	}
}
