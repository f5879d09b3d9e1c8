package parser

import (
	"strings"

	"github.com/dgallion1/steelbid/internal/drawing"
)

// outline nests sheets by heading level for formats that have headings
// (markdown, HTML, DOCX). Body text attaches to the innermost open heading.
type outline struct {
	root  *drawing.Sheet
	stack []outlineLevel
	body  strings.Builder
}

type outlineLevel struct {
	sheet *drawing.Sheet
	level int
}

func newOutline(title string) *outline {
	root := &drawing.Sheet{Title: title}
	return &outline{
		root:  root,
		stack: []outlineLevel{{sheet: root, level: 0}},
	}
}

func (o *outline) heading(level int, title string) {
	o.flush()
	s := &drawing.Sheet{Title: title}
	for len(o.stack) > 1 && o.stack[len(o.stack)-1].level >= level {
		o.stack = o.stack[:len(o.stack)-1]
	}
	parent := o.stack[len(o.stack)-1].sheet
	parent.Children = append(parent.Children, s)
	o.stack = append(o.stack, outlineLevel{sheet: s, level: level})
}

func (o *outline) text(t string) {
	t = strings.TrimSpace(t)
	if t == "" {
		return
	}
	if o.body.Len() > 0 {
		o.body.WriteString("\n\n")
	}
	o.body.WriteString(t)
}

func (o *outline) flush() {
	t := o.body.String()
	o.body.Reset()
	if t == "" {
		return
	}
	top := o.stack[len(o.stack)-1].sheet
	if top.Text != "" {
		top.Text += "\n\n" + t
	} else {
		top.Text = t
	}
}

// sheets returns the top-level sheets. Text before the first heading, or a
// document with no headings at all, becomes a leading untitled sheet.
func (o *outline) sheets() []*drawing.Sheet {
	o.flush()
	out := o.root.Children
	if o.root.Text != "" {
		out = append([]*drawing.Sheet{{Text: o.root.Text}}, out...)
	}
	return out
}
