package drawing

import "strings"

// Drawing is a parsed upload: a drawing set, a schedule, or a single image.
type Drawing struct {
	Title  string   // From document metadata or the filename
	Pages  int      // Page count when the format has pages, else 0
	Sheets []*Sheet // Top-level sheets or sections
}

// Sheet is one page or section of a drawing. A scanned or image sheet has
// no text and carries its raw bytes as an Attachment instead.
type Sheet struct {
	Title      string
	Text       string
	Page       int // 1-based source page, 0 if N/A
	PageEnd    int // Last page of a multi-page attachment, else 0
	Attachment *Attachment
	Children   []*Sheet
}

// Attachment is raw file content sent to the extractor as-is.
type Attachment struct {
	MIMEType string
	Data     []byte
}

// Batch is one extraction request's worth of drawing content.
type Batch struct {
	Index      int
	Text       string
	Breadcrumb []string // Sheet title hierarchy, e.g. ["S-201", "Framing Plan"]
	PageStart  int
	PageEnd    int
	Attachment *Attachment
}

// HasAttachment reports whether the batch carries binary content.
func (b Batch) HasAttachment() bool {
	return b.Attachment != nil && len(b.Attachment.Data) > 0
}

// Text returns all sheet text joined by newlines, depth first.
func (d *Drawing) Text() string {
	var sb strings.Builder
	var walk func([]*Sheet)
	walk = func(sheets []*Sheet) {
		for _, s := range sheets {
			if s.Text != "" {
				if sb.Len() > 0 {
					sb.WriteString("\n")
				}
				sb.WriteString(s.Text)
			}
			walk(s.Children)
		}
	}
	walk(d.Sheets)
	return sb.String()
}

// Scanned reports whether any sheet is an attachment rather than text.
func (d *Drawing) Scanned() bool {
	var found bool
	var walk func([]*Sheet)
	walk = func(sheets []*Sheet) {
		for _, s := range sheets {
			if s.Attachment != nil {
				found = true
				return
			}
			walk(s.Children)
		}
	}
	walk(d.Sheets)
	return found
}
