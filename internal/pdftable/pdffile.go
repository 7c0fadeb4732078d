package pdftable

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pdfSource adapts a ledongthuc/pdf reader to the PageSource interface,
// converting glyph runs into placed words and thin rectangles into
// ruling lines.
type pdfSource struct {
	file   *os.File
	reader *pdf.Reader
}

// OpenPDF opens a PDF file as a PageSource.
func OpenPDF(path string) (*pdfSource, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	return &pdfSource{file: f, reader: r}, nil
}

func (s *pdfSource) Close() error {
	return s.file.Close()
}

func (s *pdfSource) NumPages() int {
	return s.reader.NumPage()
}

// Page extracts geometry for the 0-indexed page. Coordinates are
// converted from PDF bottom-up space to top-left origin.
func (s *pdfSource) Page(idx int) (PageObjects, error) {
	p := s.reader.Page(idx + 1)
	if p.V.IsNull() {
		return PageObjects{}, fmt.Errorf("page %d not found", idx)
	}

	width, height := pageSize(p)

	var content pdf.Content
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("page %d content: %v", idx, r)
			}
		}()
		content = p.Content()
		return nil
	}()
	if err != nil {
		return PageObjects{}, err
	}

	out := PageObjects{Width: width, Height: height}
	out.Words = mergeGlyphs(content.Text, height)

	for _, r := range content.Rect {
		x0, y0 := r.Min.X, height-r.Max.Y
		x1, y1 := r.Max.X, height-r.Min.Y
		w, h := x1-x0, y1-y0
		switch {
		case h <= 2:
			out.HRules = append(out.HRules, Rule{X0: x0, Y0: (y0 + y1) / 2, X1: x1, Y1: (y0 + y1) / 2})
		case w <= 2:
			out.VRules = append(out.VRules, Rule{X0: (x0 + x1) / 2, Y0: y0, X1: (x0 + x1) / 2, Y1: y1})
		default:
			// Cell borders: both edge pairs become rules.
			out.HRules = append(out.HRules,
				Rule{X0: x0, Y0: y0, X1: x1, Y1: y0},
				Rule{X0: x0, Y0: y1, X1: x1, Y1: y1})
			out.VRules = append(out.VRules,
				Rule{X0: x0, Y0: y0, X1: x0, Y1: y1},
				Rule{X0: x1, Y0: y0, X1: x1, Y1: y1})
		}
	}
	return out, nil
}

func pageSize(p pdf.Page) (w, h float64) {
	mb := p.V.Key("MediaBox")
	if mb.IsNull() || mb.Len() < 4 {
		return 612, 792
	}
	w = mb.Index(2).Float64() - mb.Index(0).Float64()
	h = mb.Index(3).Float64() - mb.Index(1).Float64()
	return w, h
}

// mergeGlyphs joins adjacent glyph runs on the same baseline into words.
func mergeGlyphs(texts []pdf.Text, pageHeight float64) []PlacedWord {
	var words []PlacedWord
	var cur *PlacedWord
	var prevEnd, prevY float64

	flush := func() {
		if cur != nil && strings.TrimSpace(cur.Text) != "" {
			cur.Text = strings.TrimSpace(cur.Text)
			words = append(words, *cur)
		}
		cur = nil
	}

	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" {
			flush()
			continue
		}
		top := pageHeight - t.Y - t.FontSize
		bottom := pageHeight - t.Y

		sameLine := cur != nil && abs(t.Y-prevY) < 0.5
		adjacent := sameLine && t.X-prevEnd < t.FontSize*0.35
		if adjacent {
			cur.Text += t.S
			if t.X+t.W > cur.X1 {
				cur.X1 = t.X + t.W
			}
		} else {
			flush()
			cur = &PlacedWord{Text: t.S, X0: t.X, Y0: top, X1: t.X + t.W, Y1: bottom}
		}
		prevEnd = t.X + t.W
		prevY = t.Y
	}
	flush()
	return words
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
