package report

import (
	"fmt"
	"strings"

	"github.com/vit0-9/breachsignal_api/models"
)

// Style selects font and line height for a block.
type Style int

const (
	StyleBody Style = iota
	StyleHeading
	StyleTitle
	StyleSmall
)

// LineHeight is the vertical advance of one line in page units (mm).
func (s Style) LineHeight() float64 {
	switch s {
	case StyleTitle:
		return 9
	case StyleHeading:
		return 7
	case StyleSmall:
		return 4
	default:
		return 5
	}
}

// PageSpec describes page geometry in millimetres.
type PageSpec struct {
	Width, Height float64
	Margin        float64
	HeaderHeight  float64
	FooterHeight  float64
	BlockSpacing  float64
}

// A4 is the default print geometry.
func A4() PageSpec {
	return PageSpec{Width: 210, Height: 297, Margin: 15, HeaderHeight: 24, FooterHeight: 14, BlockSpacing: 1.5}
}

func (p PageSpec) contentWidth() float64 { return p.Width - 2*p.Margin }
func (p PageSpec) bodyTop() float64      { return p.Margin + p.HeaderHeight }
func (p PageSpec) bodyBottom() float64   { return p.Height - p.Margin - p.FooterHeight }
func (p PageSpec) footerTop() float64    { return p.bodyBottom() }

// Measurer wraps text to a width in a given style.
type Measurer interface {
	SplitLines(text string, width float64, style Style) []string
}

// Block is a run of wrapped lines placed at Y (top edge) on a page.
type Block struct {
	Style Style
	Lines []string
	Y     float64
	Link  string
}

// Height is the vertical space the block's lines occupy.
func (b Block) Height() float64 {
	return float64(len(b.Lines)) * b.Style.LineHeight()
}

// Page holds the placed blocks of one printed page.
type Page struct {
	Number int
	Header []Block
	Body   []Block
	Footer []Block
}

// Document is the result of laying out a report.
type Document struct {
	Spec  PageSpec
	Pages []*Page
}

// LayoutOptions carries everything printed besides the breaches.
type LayoutOptions struct {
	Spec       PageSpec
	Identity   Identity
	Email      string
	BookingURL string
}

// Layout paginates breaches. Before each block is placed the remaining space
// on the page is checked; when it is insufficient the page is closed with
// its footer and a new page is opened with the header redrawn. A block taller
// than a whole page body is split line by line under the same rule.
func Layout(breaches []models.BreachRecord, opts LayoutOptions, m Measurer) *Document {
	if opts.Spec == (PageSpec{}) {
		opts.Spec = A4()
	}
	l := &layouter{opts: opts, m: m, doc: &Document{Spec: opts.Spec}}
	l.newPage()

	title := "Breach Report"
	if opts.Email != "" {
		title += " for " + opts.Email
	}
	l.place(StyleTitle, title, "")
	l.place(StyleBody, summaryLine(len(breaches)), "")

	for i, b := range breaches {
		e := NewEntry(b)
		l.place(StyleHeading, fmt.Sprintf("%d. %s", i+1, e.Title), "")
		for _, f := range e.Fields[1:] {
			l.place(StyleBody, f.Label+": "+f.Value, "")
		}
		badges := make([]string, 0, len(e.Badges))
		for _, bd := range e.Badges {
			badges = append(badges, bd.Label+": "+yesNo(bd.On))
		}
		l.place(StyleSmall, strings.Join(badges, "  |  "), "")
	}

	l.closePage()
	return l.doc
}

func summaryLine(n int) string {
	switch n {
	case 0:
		return "Good news! No breaches were found for your email address."
	case 1:
		return "We found 1 breach associated with your email."
	default:
		return fmt.Sprintf("We found %d breaches associated with your email.", n)
	}
}

type layouter struct {
	opts LayoutOptions
	m    Measurer
	doc  *Document
	page *Page
	y    float64
}

func (l *layouter) spec() PageSpec { return l.opts.Spec }

func (l *layouter) newPage() {
	l.page = &Page{Number: len(l.doc.Pages) + 1}
	l.doc.Pages = append(l.doc.Pages, l.page)

	y := l.spec().Margin
	for _, h := range []struct {
		style Style
		text  string
	}{
		{StyleHeading, l.opts.Identity.CompanyName},
		{StyleSmall, l.opts.Identity.Tagline},
		{StyleSmall, l.opts.Identity.ContactLine()},
	} {
		b := Block{Style: h.style, Lines: l.m.SplitLines(h.text, l.spec().contentWidth(), h.style), Y: y}
		l.page.Header = append(l.page.Header, b)
		y += b.Height()
	}
	l.y = l.spec().bodyTop()
}

func (l *layouter) closePage() {
	y := l.spec().footerTop()
	cta := "Book a Security Audit"
	if l.opts.BookingURL != "" {
		cta += ": " + l.opts.BookingURL
	}
	for _, f := range []struct {
		style Style
		text  string
		link  string
	}{
		{StyleSmall, cta, l.opts.BookingURL},
		{StyleSmall, fmt.Sprintf("Page %d", l.page.Number), ""},
	} {
		b := Block{Style: f.style, Lines: l.m.SplitLines(f.text, l.spec().contentWidth(), f.style), Y: y, Link: f.link}
		l.page.Footer = append(l.page.Footer, b)
		y += b.Height()
	}
}

func (l *layouter) breakPage() {
	l.closePage()
	l.newPage()
}

func (l *layouter) atTop() bool {
	return l.y == l.spec().bodyTop()
}

func (l *layouter) remaining() float64 {
	return l.spec().bodyBottom() - l.y
}

func (l *layouter) place(style Style, text, link string) {
	lines := l.m.SplitLines(text, l.spec().contentWidth(), style)
	if len(lines) == 0 {
		return
	}
	lh := style.LineHeight()
	height := float64(len(lines)) * lh

	if height > l.remaining() {
		if height <= l.spec().bodyBottom()-l.spec().bodyTop() {
			l.breakPage()
		} else {
			// Oversized block: fill the page, then continue on fresh pages.
			for len(lines) > 0 {
				fit := int(l.remaining() / lh)
				if fit <= 0 {
					if !l.atTop() {
						l.breakPage()
						continue
					}
					// The body is shorter than one line; place one per page.
					fit = 1
				}
				if fit > len(lines) {
					fit = len(lines)
				}
				l.emit(Block{Style: style, Lines: lines[:fit], Link: link})
				lines = lines[fit:]
			}
			return
		}
	}
	l.emit(Block{Style: style, Lines: lines, Link: link})
}

func (l *layouter) emit(b Block) {
	b.Y = l.y
	l.page.Body = append(l.page.Body, b)
	l.y += b.Height() + l.spec().BlockSpacing
}
