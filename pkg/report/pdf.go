package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/vit0-9/breachsignal_api/models"
)

type fontSpec struct {
	family string
	style  string
	size   float64
}

var fonts = map[Style]fontSpec{
	StyleTitle:   {"Helvetica", "B", 16},
	StyleHeading: {"Helvetica", "B", 12},
	StyleBody:    {"Helvetica", "", 10},
	StyleSmall:   {"Helvetica", "", 8},
}

// pdfMeasurer wraps text with the PDF's own font metrics. Lines come back
// already translated to the core fonts' code page.
type pdfMeasurer struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (m pdfMeasurer) SplitLines(text string, width float64, style Style) []string {
	f := fonts[style]
	m.pdf.SetFont(f.family, f.style, f.size)

	var out []string
	for _, para := range strings.Split(text, "\n") {
		lines := m.pdf.SplitText(m.tr(para), width)
		if len(lines) == 0 {
			lines = []string{""}
		}
		out = append(out, lines...)
	}
	return out
}

// PDF lays out breaches on A4 pages and writes the document to w.
func PDF(w io.Writer, breaches []models.BreachRecord, opts LayoutOptions) error {
	if opts.Spec == (PageSpec{}) {
		opts.Spec = A4()
	}
	spec := opts.Spec

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: spec.Width, Ht: spec.Height},
	})
	pdf.SetMargins(spec.Margin, spec.Margin, spec.Margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle("Breach Report", true)
	pdf.SetCreator(opts.Identity.CompanyName, true)

	doc := Layout(breaches, opts, pdfMeasurer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")})

	for _, page := range doc.Pages {
		pdf.AddPage()

		pdf.SetTextColor(8, 58, 93)
		drawBlocks(pdf, spec, page.Header)
		pdf.SetDrawColor(14, 165, 233)
		pdf.Line(spec.Margin, spec.bodyTop()-3, spec.Width-spec.Margin, spec.bodyTop()-3)

		pdf.SetTextColor(34, 34, 34)
		drawBlocks(pdf, spec, page.Body)

		pdf.Line(spec.Margin, spec.footerTop()-2, spec.Width-spec.Margin, spec.footerTop()-2)
		pdf.SetTextColor(14, 165, 233)
		drawBlocks(pdf, spec, page.Footer)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func drawBlocks(pdf *fpdf.Fpdf, spec PageSpec, blocks []Block) {
	for _, b := range blocks {
		f := fonts[b.Style]
		pdf.SetFont(f.family, f.style, f.size)
		lh := b.Style.LineHeight()
		for i, line := range b.Lines {
			pdf.SetXY(spec.Margin, b.Y+float64(i)*lh)
			pdf.CellFormat(spec.contentWidth(), lh, line, "", 0, "L", false, 0, b.Link)
		}
	}
}
