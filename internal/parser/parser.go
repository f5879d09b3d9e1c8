package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/steelbid/internal/drawing"
)

// Parser converts an uploaded file into a Drawing.
type Parser interface {
	Parse(r io.Reader, filename string) (*drawing.Drawing, error)
}

// Options tune the parsers that have knobs.
type Options struct {
	// PDFFallbackPdftotext retries text extraction with the pdftotext binary.
	PDFFallbackPdftotext bool
	// MinTextChars is the least extracted text a PDF needs to be read as
	// text; below it the PDF is treated as scanned.
	MinTextChars int
}

// DefaultMinTextChars is the scanned-PDF threshold.
const DefaultMinTextChars = 100

var mimeTypes = map[string]string{
	".pdf":      "application/pdf",
	".txt":      "text/plain",
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".csv":      "text/csv",
	".html":     "text/html",
	".htm":      "text/html",
	".docx":     "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".png":      "image/png",
	".jpg":      "image/jpeg",
	".jpeg":     "image/jpeg",
	".gif":      "image/gif",
	".webp":     "image/webp",
}

// ForFile returns the parser for a filename's extension.
func ForFile(filename string, opts Options) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return &PDFParser{FallbackPdftotext: opts.PDFFallbackPdftotext, MinTextChars: opts.MinTextChars}, nil
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".csv":
		return &CSVParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".docx":
		return &DOCXParser{}, nil
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
		return &ImageParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %q", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	_, ok := mimeTypes[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// MIMEType returns the content type for a filename, or
// application/octet-stream when the extension is unknown.
func MIMEType(filename string) string {
	if t, ok := mimeTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return t
	}
	return "application/octet-stream"
}

func titleFromFilename(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
