package chunker

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/steelbid/internal/drawing"
)

// Config controls batching.
type Config struct {
	MaxChars  int // Text budget per batch.
	MaxSheets int // Most sheets combined into one batch.
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxChars:  80000,
		MaxSheets: 5,
	}
}

// unit is one sheet flattened out of the drawing tree.
type unit struct {
	header     string
	text       string
	breadcrumb []string
	page       int
	pageEnd    int
	attachment *drawing.Attachment
}

// Batches groups a drawing's sheets into extraction batches. Text sheets are
// packed up to MaxChars and MaxSheets; a sheet larger than MaxChars is split
// on paragraph, then line, then word boundaries. Attachment sheets always
// get a batch of their own.
func Batches(d *drawing.Drawing, cfg Config) []drawing.Batch {
	def := DefaultConfig()
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = def.MaxChars
	}
	if cfg.MaxSheets <= 0 {
		cfg.MaxSheets = def.MaxSheets
	}

	var units []unit
	for _, s := range d.Sheets {
		units = flatten(s, nil, units)
	}

	b := &builder{cfg: cfg}
	for _, u := range units {
		if u.attachment != nil {
			b.flush()
			b.out = append(b.out, drawing.Batch{
				Breadcrumb: u.breadcrumb,
				PageStart:  u.page,
				PageEnd:    max(u.page, u.pageEnd),
				Attachment: u.attachment,
			})
			continue
		}
		block := u.text
		if u.header != "" {
			block = u.header + "\n" + u.text
		}
		if len(block) <= cfg.MaxChars {
			b.add(block, u)
			continue
		}
		for _, part := range splitText(u.text, cfg.MaxChars-len(u.header)-1) {
			if u.header != "" {
				part = u.header + "\n" + part
			}
			b.add(part, u)
		}
	}
	b.flush()

	for i := range b.out {
		b.out[i].Index = i
	}
	return b.out
}

func flatten(s *drawing.Sheet, breadcrumb []string, units []unit) []unit {
	bc := copyBreadcrumb(breadcrumb)
	if s.Title != "" {
		bc = append(bc, s.Title)
	}
	text := strings.TrimSpace(s.Text)
	if text != "" || s.Attachment != nil {
		units = append(units, unit{
			header:     sheetHeader(bc, s.Page),
			text:       text,
			breadcrumb: bc,
			page:       s.Page,
			pageEnd:    s.PageEnd,
			attachment: s.Attachment,
		})
	}
	for _, c := range s.Children {
		units = flatten(c, bc, units)
	}
	return units
}

// sheetHeader marks where a block came from so page references survive
// batching, e.g. "=== Page 3 ===" or "=== Beams > Lintels ===".
func sheetHeader(breadcrumb []string, page int) string {
	label := strings.Join(breadcrumb, " > ")
	switch {
	case page > 0 && !strings.HasPrefix(label, "Page "):
		if label != "" {
			return fmt.Sprintf("=== Page %d: %s ===", page, label)
		}
		return fmt.Sprintf("=== Page %d ===", page)
	case label != "":
		return "=== " + label + " ==="
	}
	return ""
}

type builder struct {
	cfg    Config
	out    []drawing.Batch
	parts  []string
	chars  int
	sheets int
	cur    drawing.Batch
}

func (b *builder) add(block string, u unit) {
	next := b.chars + len(block)
	if len(b.parts) > 0 {
		next += 2
	}
	if len(b.parts) > 0 && (next > b.cfg.MaxChars || b.sheets >= b.cfg.MaxSheets) {
		b.flush()
	}
	if len(b.parts) == 0 {
		b.cur = drawing.Batch{Breadcrumb: u.breadcrumb, PageStart: u.page, PageEnd: u.page}
	} else {
		b.chars += 2
	}
	b.parts = append(b.parts, block)
	b.chars += len(block)
	b.sheets++
	if u.page > 0 {
		if b.cur.PageStart == 0 || u.page < b.cur.PageStart {
			b.cur.PageStart = u.page
		}
		if u.page > b.cur.PageEnd {
			b.cur.PageEnd = u.page
		}
	}
}

func (b *builder) flush() {
	if len(b.parts) == 0 {
		return
	}
	b.cur.Text = strings.Join(b.parts, "\n\n")
	b.out = append(b.out, b.cur)
	b.parts = nil
	b.chars = 0
	b.sheets = 0
	b.cur = drawing.Batch{}
}

// splitText breaks text into pieces of at most limit bytes, preferring
// paragraph breaks, then line breaks, then spaces.
func splitText(text string, limit int) []string {
	if limit < 1 {
		limit = 1
	}
	if len(text) <= limit {
		return []string{text}
	}
	for _, sep := range []string{"\n\n", "\n", " "} {
		if !strings.Contains(text, sep) {
			continue
		}
		return packPieces(strings.Split(text, sep), sep, limit)
	}
	return hardSplit(text, limit)
}

// packPieces greedily rejoins pieces with sep, splitting any piece that is
// still too large on the next separator down.
func packPieces(pieces []string, sep string, limit int) []string {
	var out []string
	var cur strings.Builder
	for _, p := range pieces {
		if len(p) > limit {
			if cur.Len() > 0 {
				out = append(out, cur.String())
				cur.Reset()
			}
			out = append(out, splitText(p, limit)...)
			continue
		}
		if cur.Len() > 0 && cur.Len()+len(sep)+len(p) > limit {
			out = append(out, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteString(sep)
		}
		cur.WriteString(p)
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

// hardSplit cuts on rune boundaries.
func hardSplit(text string, limit int) []string {
	var out []string
	for len(text) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		if cut == 0 {
			_, cut = utf8.DecodeRuneInString(text)
		}
		out = append(out, text[:cut])
		text = text[cut:]
	}
	if text != "" {
		out = append(out, text)
	}
	return out
}

func copyBreadcrumb(bc []string) []string {
	if len(bc) == 0 {
		return nil
	}
	out := make([]string, len(bc), len(bc)+1)
	copy(out, bc)
	return out
}
