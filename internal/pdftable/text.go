package pdftable

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExtractText returns the reading-order text of the requested pages,
// one line per visual row. Pages that fail to decode contribute nothing.
func (e *Extractor) ExtractText(path, pages string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return "", fmt.Errorf("%w: %s", ErrInvalidFormat, path)
	}

	src, err := OpenPDF(path)
	if err != nil {
		return "", nil
	}
	defer src.Close()

	return TextFrom(src, pages), nil
}

// TextFrom assembles page text from a page source's word geometry.
func TextFrom(src PageSource, pages string) string {
	var b strings.Builder
	for _, idx := range ParsePageSpec(pages, src.NumPages()) {
		page, err := src.Page(idx)
		if err != nil {
			continue
		}
		for _, row := range wordRows(page.Words, rowTolerance) {
			for i, w := range row {
				if i > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(w.Text)
			}
			b.WriteByte('\n')
		}
	}
	return b.String()
}
