package parser

import (
	"fmt"
	"io"

	"github.com/dgallion1/steelbid/internal/drawing"
)

// ImageParser wraps a photographed or scanned sheet as a single attachment.
type ImageParser struct{}

func (p *ImageParser) Parse(r io.Reader, filename string) (*drawing.Drawing, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image: %s", filename)
	}
	title := titleFromFilename(filename)
	return &drawing.Drawing{
		Title: title,
		Pages: 1,
		Sheets: []*drawing.Sheet{{
			Title:      title,
			Page:       1,
			Attachment: &drawing.Attachment{MIMEType: MIMEType(filename), Data: data},
		}},
	}, nil
}
