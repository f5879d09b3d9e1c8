package parser

import (
	"strings"
	"testing"
)

func TestMarkdownParser_HeadingHierarchy(t *testing.T) {
	input := `# S-201 Framing Plan

Roof framing.

## Beams

W8X31 typical.

### Lintels

L4X4X1/4 at openings.

## Columns

HSS6X6X1/4 at grid lines.
`
	p := &MarkdownParser{}
	d, err := p.Parse(strings.NewReader(input), "framing.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Title != "framing" {
		t.Errorf("expected title %q, got %q", "framing", d.Title)
	}
	if len(d.Sheets) != 1 {
		t.Fatalf("expected 1 top-level sheet, got %d", len(d.Sheets))
	}

	h1 := d.Sheets[0]
	if h1.Title != "S-201 Framing Plan" || h1.Text != "Roof framing." {
		t.Errorf("unexpected h1 %q / %q", h1.Title, h1.Text)
	}
	if len(h1.Children) != 2 {
		t.Fatalf("expected 2 h2 children, got %d", len(h1.Children))
	}
	beams := h1.Children[0]
	if beams.Title != "Beams" || beams.Text != "W8X31 typical." {
		t.Errorf("unexpected beams sheet %q / %q", beams.Title, beams.Text)
	}
	if len(beams.Children) != 1 || beams.Children[0].Title != "Lintels" {
		t.Fatalf("expected Lintels under Beams, got %+v", beams.Children)
	}
	if h1.Children[1].Title != "Columns" {
		t.Errorf("expected Columns, got %q", h1.Children[1].Title)
	}
}

func TestMarkdownParser_NoHeadings(t *testing.T) {
	input := "Just some plain text.\n\nAnother paragraph here."
	p := &MarkdownParser{}
	d, err := p.Parse(strings.NewReader(input), "plain.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d.Sheets) != 1 {
		t.Fatalf("expected 1 sheet for headingless markdown, got %d", len(d.Sheets))
	}
	want := "Just some plain text.\n\nAnother paragraph here."
	if d.Sheets[0].Text != want {
		t.Errorf("expected %q, got %q", want, d.Sheets[0].Text)
	}
}

func TestMarkdownParser_PreambleKept(t *testing.T) {
	input := "Project 2231\n\n# Beams\n\nW8X31\n"
	p := &MarkdownParser{}
	d, err := p.Parse(strings.NewReader(input), "notes.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d.Sheets) != 2 {
		t.Fatalf("expected preamble plus one heading, got %d sheets", len(d.Sheets))
	}
	if d.Sheets[0].Text != "Project 2231" || d.Sheets[1].Title != "Beams" {
		t.Errorf("unexpected sheets %q, %q", d.Sheets[0].Text, d.Sheets[1].Title)
	}
}

func TestMarkdownParser_TableRows(t *testing.T) {
	input := "# Schedule\n\n| Mark | Size | Qty |\n|---|---|---|\n| B1 | W8X31 | 2 |\n| C1 | HSS6X6X1/4 | 4 |\n"
	p := &MarkdownParser{}
	d, err := p.Parse(strings.NewReader(input), "schedule.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Mark | Size | Qty\nB1 | W8X31 | 2\nC1 | HSS6X6X1/4 | 4"
	if d.Sheets[0].Text != want {
		t.Errorf("expected %q, got %q", want, d.Sheets[0].Text)
	}
}

func TestMarkdownParser_CodeBlock(t *testing.T) {
	input := "# Notes\n\n```\nB1 W8X31\nB2 W8X35\n```\n"
	p := &MarkdownParser{}
	d, err := p.Parse(strings.NewReader(input), "code.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(d.Sheets[0].Text, "B1 W8X31\nB2 W8X35") {
		t.Errorf("expected code block lines, got %q", d.Sheets[0].Text)
	}
}

func TestMarkdownParser_TitleStripping(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"readme.md", "readme"},
		{"notes.markdown", "notes"},
		{"uploads/plain.md", "plain"},
	}
	p := &MarkdownParser{}
	for _, tt := range tests {
		d, err := p.Parse(strings.NewReader("text"), tt.filename)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", tt.filename, err)
		}
		if d.Title != tt.want {
			t.Errorf("filename=%q: expected title %q, got %q", tt.filename, tt.want, d.Title)
		}
	}
}
