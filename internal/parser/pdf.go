package parser

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/dgallion1/steelbid/internal/drawing"
	pdflib "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

const (
	// MaxScannedPDFBytes caps a scanned PDF sent whole as a document
	// attachment. Larger scans are split into page chunks.
	MaxScannedPDFBytes = 30 << 20

	scannedPagesPerChunk = 5
)

// PDFParser handles drawing sets. Pages with a text layer become one sheet
// each. A PDF with too little text (a scan, or vector drawings with no text
// layer) becomes an attachment sheet for the extractor to read, split into
// five-page chunks when it is over MaxAttachmentBytes.
type PDFParser struct {
	FallbackPdftotext  bool
	MinTextChars       int
	MaxAttachmentBytes int // Defaults to MaxScannedPDFBytes
}

func (p *PDFParser) Parse(r io.Reader, filename string) (*drawing.Drawing, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	title := titleFromFilename(filename)
	pages, numPages, err := pdfPages(data)
	if err != nil && p.FallbackPdftotext {
		pages, err = pdftotextPages(data)
		numPages = len(pages)
	}
	if err != nil {
		// No usable text layer; let the extractor read the file itself.
		pages = nil
	}

	minChars := p.MinTextChars
	if minChars <= 0 {
		minChars = DefaultMinTextChars
	}
	if textLen(pages) < minChars {
		maxBytes := p.MaxAttachmentBytes
		if maxBytes <= 0 {
			maxBytes = MaxScannedPDFBytes
		}
		if len(data) > maxBytes {
			return splitScanned(data, title)
		}
		return &drawing.Drawing{
			Title: title,
			Pages: numPages,
			Sheets: []*drawing.Sheet{{
				Title:      title,
				Page:       1,
				Attachment: &drawing.Attachment{MIMEType: "application/pdf", Data: data},
			}},
		}, nil
	}

	d := &drawing.Drawing{Title: title, Pages: numPages}
	for i, text := range pages {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		d.Sheets = append(d.Sheets, &drawing.Sheet{
			Title: fmt.Sprintf("Page %d", i+1),
			Text:  text,
			Page:  i + 1,
		})
	}
	return d, nil
}

var disableConfigDir sync.Once

// splitScanned cuts an oversize scan into attachment sheets of
// scannedPagesPerChunk pages, each titled with its page range.
func splitScanned(data []byte, title string) (*drawing.Drawing, error) {
	disableConfigDir.Do(api.DisableConfigDir)

	n, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return nil, fmt.Errorf("count scanned pdf pages: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("scanned pdf has no pages")
	}

	d := &drawing.Drawing{Title: title, Pages: n}
	for start := 1; start <= n; start += scannedPagesPerChunk {
		end := min(start+scannedPagesPerChunk-1, n)
		var buf bytes.Buffer
		sel := []string{fmt.Sprintf("%d-%d", start, end)}
		if err := api.Trim(bytes.NewReader(data), &buf, sel, nil); err != nil {
			return nil, fmt.Errorf("split scanned pdf pages %d-%d: %w", start, end, err)
		}
		name := fmt.Sprintf("Pages %d-%d", start, end)
		if start == end {
			name = fmt.Sprintf("Page %d", start)
		}
		d.Sheets = append(d.Sheets, &drawing.Sheet{
			Title:      name,
			Page:       start,
			PageEnd:    end,
			Attachment: &drawing.Attachment{MIMEType: "application/pdf", Data: buf.Bytes()},
		})
	}
	return d, nil
}

// pdfPages returns the plain text of every page; unreadable pages are empty.
func pdfPages(data []byte) ([]string, int, error) {
	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, 0, err
	}
	n := reader.NumPage()
	pages := make([]string, n)
	for i := 1; i <= n; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages[i-1] = text
	}
	return pages, n, nil
}

func pdftotextPages(data []byte) ([]string, error) {
	tmp, err := os.CreateTemp("", "steelbid-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	out, err := exec.Command("pdftotext", "-layout", tmp.Name(), "-").Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	// pdftotext separates pages with form feeds.
	return strings.Split(strings.TrimSuffix(string(out), "\f"), "\f"), nil
}

func textLen(pages []string) int {
	n := 0
	for _, p := range pages {
		n += len(strings.TrimSpace(p))
	}
	return n
}
