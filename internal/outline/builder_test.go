package outline

import (
	"testing"

	"github.com/mgrims/doclens/internal/cleantext"
	"github.com/mgrims/doclens/internal/keywords"
	"github.com/mgrims/doclens/internal/layout"
)

func newTestBuilder() *Builder {
	return NewBuilder(keywords.Default(), DefaultBuilderConfig(), nil)
}

func docLine(text string, page int, y, size, bold float64) layout.LineRecord {
	return layout.LineRecord{
		Text:      text,
		Page:      page,
		FontSize:  size,
		BoldRatio: bold,
		YCenter:   y,
		BBox:      layout.BBox{Y0: y, Y1: y + size*1.2},
	}
}

func onePageDoc(lines ...layout.LineRecord) *layout.Document {
	return &layout.Document{Pages: []layout.Page{{
		Number: 0, Width: 612, Height: 792,
		Lines: lines,
	}}}
}

func TestBuilder_NumberedHeadingsAndBodyText(t *testing.T) {
	doc := onePageDoc(
		docLine("1. Introduction", 0, 60, 18, 1.0),
		docLine("This is body text.", 0, 200, 11, 0),
		docLine("1.1 Background", 0, 260, 15, 1.0),
		docLine("More body prose follows here with plenty of additional words to anchor the average.", 0, 320, 11, 0),
	)

	out := newTestBuilder().Build(doc, nil)

	if len(out.Items) != 2 {
		t.Fatalf("expected 2 items, got %d: %+v", len(out.Items), out.Items)
	}
	if out.Items[0].Level != H1 || out.Items[0].Text != "1. Introduction" {
		t.Errorf("item 0 = %+v, want H1 1. Introduction", out.Items[0])
	}
	if out.Items[1].Level != H2 || out.Items[1].Text != "1.1 Background" {
		t.Errorf("item 1 = %+v, want H2 1.1 Background", out.Items[1])
	}
	for _, it := range out.Items {
		if it.Page != 1 {
			t.Errorf("%q page = %d, want 1-based page 1", it.Text, it.Page)
		}
	}
}

func TestBuilder_EmptyDocument(t *testing.T) {
	b := newTestBuilder()

	out := b.Build(nil, nil)
	if out.Title != "" || out.Items == nil || len(out.Items) != 0 {
		t.Errorf("nil doc: got %+v, want empty outline with non-nil items", out)
	}

	out = b.Build(&layout.Document{}, nil)
	if out.Title != "" || out.Items == nil || len(out.Items) != 0 {
		t.Errorf("pageless doc: got %+v, want empty outline", out)
	}
}

func TestBuilder_TitleVetoEmptiesOutline(t *testing.T) {
	doc := onePageDoc(
		docLine("Application for Grant of LTC Advance", 0, 50, 22, 1.0),
		docLine("Name of Employee", 0, 200, 14, 1.0),
		docLine("Designation Held", 0, 260, 14, 1.0),
	)

	out := newTestBuilder().Build(doc, nil)

	if out.Title != "Application for Grant of LTC Advance" {
		t.Errorf("title = %q, want the vetoed title kept", out.Title)
	}
	if len(out.Items) != 0 {
		t.Errorf("vetoed document kept outline items: %+v", out.Items)
	}
}

func TestBuilder_CrossValidationRemovesBoxedText(t *testing.T) {
	doc := onePageDoc(
		docLine("Maintenance Manual", 0, 40, 22, 1.0),
		docLine("Safety Procedures", 0, 200, 16, 1.0),
		docLine("Torque Values", 0, 400, 16, 1.0), // lives only inside a table
	)
	// The clean signal knows everything except the table cell label.
	sig := cleantext.NewFullText("Maintenance Manual. Safety Procedures and general upkeep notes.")

	out := newTestBuilder().Build(doc, sig)

	for _, it := range out.Items {
		if it.Text == "Torque Values" {
			t.Error("item absent from clean text survived cross-validation")
		}
	}
	found := false
	for _, it := range out.Items {
		if it.Text == "Safety Procedures" {
			found = true
		}
	}
	if !found {
		t.Errorf("item present in clean text was removed: %+v", out.Items)
	}
	if out.Title != "Maintenance Manual" {
		t.Errorf("title = %q, want Maintenance Manual", out.Title)
	}
}

func TestBuilder_HierarchyRepairedAfterCrossValidation(t *testing.T) {
	doc := onePageDoc(
		docLine("1. Alpha Overview", 0, 60, 20, 1.0),
		docLine("1.1 Beta Notes", 0, 200, 16, 1.0), // lives only inside a table
		docLine("1.1.1 Gamma Details", 0, 300, 13, 1.0),
		docLine("Ordinary body prose sits between the headings to anchor the average.", 0, 400, 11, 0),
	)
	// The clean signal is missing the intermediate heading.
	sig := cleantext.NewFullText("1. Alpha Overview\nOrdinary body prose sits between the headings to anchor the average.\n1.1.1 Gamma Details")

	out := newTestBuilder().Build(doc, sig)

	if len(out.Items) != 2 {
		t.Fatalf("expected 2 items, got %+v", out.Items)
	}
	if out.Items[0].Text != "1. Alpha Overview" || out.Items[0].Level != H1 {
		t.Errorf("item 0 = %+v, want H1 1. Alpha Overview", out.Items[0])
	}
	// With its parent removed, the deep heading must be clamped back up.
	if out.Items[1].Text != "1.1.1 Gamma Details" || out.Items[1].Level != H2 {
		t.Errorf("item 1 = %+v, want H2 1.1.1 Gamma Details", out.Items[1])
	}
	lastRank := 0
	for _, it := range out.Items {
		if it.Level.Rank() > lastRank+1 {
			t.Errorf("level jump to %s at %q", it.Level, it.Text)
		}
		lastRank = it.Level.Rank()
	}
}

func TestBuilder_TitleDroppedWhenOutsideCleanText(t *testing.T) {
	doc := onePageDoc(
		docLine("Watermark Stamp Text", 0, 40, 22, 1.0),
		docLine("Operating Instructions", 0, 200, 16, 1.0),
	)
	sig := cleantext.NewFullText("Operating Instructions and everything that follows them.")

	out := newTestBuilder().Build(doc, sig)
	if out.Title != "" {
		t.Errorf("title = %q, want empty for title outside clean text", out.Title)
	}
}

func TestBuilder_ClusterStrategySelectable(t *testing.T) {
	cfg := DefaultBuilderConfig()
	cfg.Strategy = StrategyCluster
	b := NewBuilder(keywords.Default(), cfg, nil)

	doc := onePageDoc(
		docLine("Spring Festival Guide", 0, 40, 24, 1.0),
		docLine("Food Stalls", 0, 200, 16, 0.5),
		docLine("Come Celebrate With Us!", 0, 400, 22, 1.0),
	)

	out := b.Build(doc, nil)
	found := false
	for _, it := range out.Items {
		if it.Text == "Come Celebrate With Us!" {
			found = true
			if it.Level != H1 {
				t.Errorf("exclamation line got %s, want H1 under cluster strategy", it.Level)
			}
		}
	}
	if !found {
		t.Errorf("exclamation banner missing from outline: %+v", out.Items)
	}
}
