package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/steelbid/internal/drawing"
)

// TextParser handles plain-text takeoffs and notes. Blank lines separate
// sheets.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*drawing.Drawing, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	d := &drawing.Drawing{Title: titleFromFilename(filename)}
	var block []string
	flush := func() {
		if len(block) > 0 {
			d.Sheets = append(d.Sheets, &drawing.Sheet{Text: strings.Join(block, "\n")})
			block = block[:0]
		}
	}
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		block = append(block, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()
	return d, nil
}
