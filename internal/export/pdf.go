// Package export renders boards to printable formats.
package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/inamate/whiteboard/internal/geometry"
	"github.com/inamate/whiteboard/internal/shape"
)

const (
	pageWidth  = 297.0 // A4 landscape, mm
	pageHeight = 210.0
	pageMargin = 10.0
)

// fallbackFill is used for shapes whose color does not parse.
var fallbackFill = colorful.Color{R: 0.85, G: 0.85, B: 0.85}

// PDF writes a one-page A4 landscape document with every shape drawn as a
// filled rectangle with a grey outline, in z-order. The board is scaled
// uniformly to fit the page inside the margin.
func PDF(w io.Writer, shapes []shape.Shape) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Whiteboard", false)
	pdf.AddPage()
	pdf.SetLineWidth(0.3)
	pdf.SetDrawColor(128, 128, 128)

	page := geometry.Rect{
		X:      pageMargin,
		Y:      pageMargin,
		Width:  pageWidth - 2*pageMargin,
		Height: pageHeight - 2*pageMargin,
	}
	fit := geometry.Fit(Bounds(shapes), page)

	for _, sh := range shapes {
		r := fit.ApplyRect(sh.Normalize())
		setFillColor(pdf, sh.Color)
		pdf.Rect(r.X, r.Y, r.Width, r.Height, "FD")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// Bounds returns the smallest rect enclosing every shape.
func Bounds(shapes []shape.Shape) geometry.Rect {
	var b geometry.Rect
	for _, sh := range shapes {
		b = b.Union(sh.Normalize())
	}
	return b
}

func setFillColor(pdf *gofpdf.Fpdf, hex string) {
	c, err := colorful.Hex(hex)
	if err != nil {
		c = fallbackFill
	}
	r, g, b := c.RGB255()
	pdf.SetFillColor(int(r), int(g), int(b))
}
