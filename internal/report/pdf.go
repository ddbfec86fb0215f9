package report

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/signintech/gopdf"
)

// ErrFontUnavailable means no configured TrueType font could be loaded.
var ErrFontUnavailable = errors.New("report: no usable font")

const (
	fontName     = "DejaVu"
	pageMargin   = 40.0
	textWidth    = 515.0
	pageBottom   = 800.0
	lineHeight   = 14.0
	headingSize  = 14
	titleSize    = 18
	bodySize     = 10
	headingAfter = 20.0
)

// DefaultFontPaths are common DejaVu Sans locations on Debian and Alpine.
var DefaultFontPaths = []string{
	"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
}

// Renderer draws snapshots as A4 PDF documents.
type Renderer struct {
	fontPaths []string
}

// NewRenderer searches fontPaths in order, or DefaultFontPaths when none are given.
func NewRenderer(fontPaths ...string) *Renderer {
	if len(fontPaths) == 0 {
		fontPaths = DefaultFontPaths
	}
	return &Renderer{fontPaths: fontPaths}
}

func (r *Renderer) PDF(s Snapshot) ([]byte, error) {
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})

	var fontErr error
	loaded := false
	for _, path := range r.fontPaths {
		if err := pdf.AddTTFFont(fontName, path); err != nil {
			fontErr = err
			continue
		}
		loaded = true
		break
	}
	if !loaded {
		return nil, fmt.Errorf("%w: %v", ErrFontUnavailable, fontErr)
	}

	pdf.AddPage()
	pdf.SetMargins(pageMargin, pageMargin, pageMargin, pageMargin)
	pdf.SetY(pageMargin)

	for i, l := range s.lines() {
		size := bodySize
		switch {
		case i == 0:
			size = titleSize
		case l.heading:
			size = headingSize
		}
		if err := pdf.SetFont(fontName, "", size); err != nil {
			return nil, err
		}

		text := pdfSafe(l.text)
		if strings.TrimSpace(text) == "" {
			pdf.Br(lineHeight / 2)
			continue
		}

		wrapped, err := pdf.SplitText(text, textWidth)
		if err != nil {
			wrapped = []string{text}
		}
		for _, w := range wrapped {
			if pdf.GetY() > pageBottom {
				pdf.AddPage()
				pdf.SetY(pageMargin)
			}
			pdf.SetX(pageMargin)
			if err := pdf.Cell(nil, w); err != nil {
				return nil, fmt.Errorf("failed to draw text: %w", err)
			}
			if l.heading {
				pdf.Br(headingAfter)
			} else {
				pdf.Br(lineHeight)
			}
		}
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// pdfSafe drops runes outside the Basic Multilingual Plane; the embedded
// font has no emoji glyphs.
func pdfSafe(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if r > 0xFFFF {
			return -1
		}
		return r
	}, s))
}
