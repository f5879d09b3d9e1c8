package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/dgallion1/steelbid/internal/drawing"
)

func pagedDrawing(pages int, text string) *drawing.Drawing {
	d := &drawing.Drawing{Title: "Set", Pages: pages}
	for i := 1; i <= pages; i++ {
		d.Sheets = append(d.Sheets, &drawing.Sheet{
			Title: fmt.Sprintf("Page %d", i),
			Text:  text,
			Page:  i,
		})
	}
	return d
}

func TestBatches_SmallDrawingFitsOneBatch(t *testing.T) {
	d := pagedDrawing(3, "B1 W8X31 2 @ 20'")
	batches := Batches(d, Config{MaxChars: 10000, MaxSheets: 5})

	if len(batches) != 1 {
		t.Fatalf("expected 1 batch, got %d", len(batches))
	}
	b := batches[0]
	if b.Index != 0 || b.PageStart != 1 || b.PageEnd != 3 {
		t.Errorf("unexpected batch bounds %+v", b)
	}
	for i := 1; i <= 3; i++ {
		if !strings.Contains(b.Text, fmt.Sprintf("=== Page %d ===", i)) {
			t.Errorf("expected page %d marker in %q", i, b.Text)
		}
	}
}

func TestBatches_SheetCap(t *testing.T) {
	d := pagedDrawing(12, "W8X31")
	batches := Batches(d, Config{MaxChars: 80000, MaxSheets: 5})

	if len(batches) != 3 {
		t.Fatalf("expected 3 batches for 12 sheets at 5 per batch, got %d", len(batches))
	}
	want := [][2]int{{1, 5}, {6, 10}, {11, 12}}
	for i, b := range batches {
		if b.Index != i {
			t.Errorf("batch %d: expected index %d, got %d", i, i, b.Index)
		}
		if b.PageStart != want[i][0] || b.PageEnd != want[i][1] {
			t.Errorf("batch %d: pages %d-%d, want %d-%d", i, b.PageStart, b.PageEnd, want[i][0], want[i][1])
		}
	}
}

func TestBatches_CharBudget(t *testing.T) {
	d := pagedDrawing(4, strings.Repeat("x", 400))
	batches := Batches(d, Config{MaxChars: 1000, MaxSheets: 10})

	if len(batches) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(batches))
	}
	for i, b := range batches {
		if len(b.Text) > 1000 {
			t.Errorf("batch %d has %d chars, over budget", i, len(b.Text))
		}
	}
}

func TestBatches_OversizeSheetSplits(t *testing.T) {
	var paras []string
	for i := 0; i < 50; i++ {
		paras = append(paras, fmt.Sprintf("B%d W8X31 beam at gridline %d.", i, i))
	}
	d := &drawing.Drawing{Sheets: []*drawing.Sheet{{Title: "Page 1", Page: 1, Text: strings.Join(paras, "\n\n")}}}
	batches := Batches(d, Config{MaxChars: 300, MaxSheets: 1})

	if len(batches) < 2 {
		t.Fatalf("expected oversize sheet to split, got %d batches", len(batches))
	}
	var joined strings.Builder
	for i, b := range batches {
		if len(b.Text) > 300 {
			t.Errorf("batch %d has %d chars", i, len(b.Text))
		}
		if !strings.HasPrefix(b.Text, "=== Page 1 ===\n") {
			t.Errorf("batch %d missing page header: %q", i, b.Text[:20])
		}
		joined.WriteString(b.Text)
	}
	for _, p := range paras {
		if !strings.Contains(joined.String(), p) {
			t.Errorf("paragraph lost in split: %q", p)
		}
	}
}

func TestBatches_AttachmentsStandAlone(t *testing.T) {
	d := &drawing.Drawing{Sheets: []*drawing.Sheet{
		{Title: "Notes", Text: "General notes"},
		{Title: "S-101", Page: 2, Attachment: &drawing.Attachment{MIMEType: "image/png", Data: []byte{1}}},
		{Title: "Schedule", Text: "B1 W8X31"},
	}}
	batches := Batches(d, DefaultConfig())

	if len(batches) != 3 {
		t.Fatalf("expected 3 batches, got %d", len(batches))
	}
	if !batches[1].HasAttachment() || batches[1].Text != "" || batches[1].PageStart != 2 {
		t.Errorf("unexpected attachment batch %+v", batches[1])
	}
	if batches[0].HasAttachment() || batches[2].HasAttachment() {
		t.Error("text batches should not carry attachments")
	}
}

func TestBatches_AttachmentPageRange(t *testing.T) {
	pdf := &drawing.Attachment{MIMEType: "application/pdf", Data: []byte("%PDF")}
	d := &drawing.Drawing{Sheets: []*drawing.Sheet{
		{Title: "Pages 1-5", Page: 1, PageEnd: 5, Attachment: pdf},
		{Title: "Pages 6-7", Page: 6, PageEnd: 7, Attachment: pdf},
		{Title: "scan", Page: 1, Attachment: pdf},
	}}
	batches := Batches(d, DefaultConfig())

	want := [][2]int{{1, 5}, {6, 7}, {1, 1}}
	if len(batches) != len(want) {
		t.Fatalf("expected %d batches, got %d", len(want), len(batches))
	}
	for i, w := range want {
		if batches[i].PageStart != w[0] || batches[i].PageEnd != w[1] {
			t.Errorf("batch %d covers %d-%d, want %d-%d", i, batches[i].PageStart, batches[i].PageEnd, w[0], w[1])
		}
	}
}

func TestBatches_NestedBreadcrumbs(t *testing.T) {
	d := &drawing.Drawing{Sheets: []*drawing.Sheet{
		{Title: "Framing", Children: []*drawing.Sheet{
			{Title: "Lintels", Text: "L4X4X1/4"},
		}},
	}}
	batches := Batches(d, DefaultConfig())
	if len(batches) != 1 {
		t.Fatalf("expected 1 batch, got %d", len(batches))
	}
	if got := strings.Join(batches[0].Breadcrumb, "/"); got != "Framing/Lintels" {
		t.Errorf("unexpected breadcrumb %q", got)
	}
	if !strings.HasPrefix(batches[0].Text, "=== Framing > Lintels ===\nL4X4X1/4") {
		t.Errorf("unexpected text %q", batches[0].Text)
	}
}

func TestBatches_EmptyDrawing(t *testing.T) {
	if got := Batches(&drawing.Drawing{}, Config{}); len(got) != 0 {
		t.Errorf("expected no batches, got %d", len(got))
	}
}

func TestSplitText_HardSplitRespectsRunes(t *testing.T) {
	text := strings.Repeat("½", 10) // 2 bytes each
	parts := splitText(text, 5)
	if strings.Join(parts, "") != text {
		t.Fatal("split lost content")
	}
	for _, p := range parts {
		if len(p) > 5 || !strings.HasPrefix(p, "½") {
			t.Errorf("bad part %q", p)
		}
	}
}

func TestEstimateTokens(t *testing.T) {
	if EstimateTokens("   ") != 0 {
		t.Error("expected 0 for blank text")
	}
	if got := EstimateTokens(strings.Repeat("a", 400)); got != 100 {
		t.Errorf("expected 100, got %d", got)
	}
	if got := EstimateTokens("a b c d e f"); got != 6 {
		t.Errorf("expected word count to win, got %d", got)
	}
}
