// Package report renders breach lists as plain text, HTML and paginated
// print documents. Every rendering lists a breach's fields in the same order
// and keeps the breach list in the order it was given.
package report

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/vit0-9/breachsignal_api/models"
)

// Field labels, in rendering order.
const (
	LabelTitle        = "Title"
	LabelDomain       = "Domain"
	LabelBreachDate   = "Breach date"
	LabelAddedDate    = "Added to HIBP"
	LabelModifiedDate = "Last modified"
	LabelAccounts     = "Accounts affected"
	LabelExposedData  = "Exposed data"
	LabelDescription  = "Description"
)

// Field is one labelled line of a breach entry.
type Field struct {
	Label string
	Value string
}

// Badge is one boolean flag of a breach entry.
type Badge struct {
	Label string
	On    bool
}

// Entry is a breach prepared for rendering.
type Entry struct {
	Title  string
	Fields []Field
	Badges []Badge
	// DescriptionHTML is the upstream description with its markup intact.
	// Run it through SanitizeHTML before writing it into a page.
	DescriptionHTML string
}

var printer = message.NewPrinter(language.English)

// NewEntry lays out b's fields in the fixed rendering order. The description
// field holds plain text; the markup is kept separately in DescriptionHTML.
func NewEntry(b models.BreachRecord) Entry {
	title := b.DisplayTitle()
	return Entry{
		Title: title,
		Fields: []Field{
			{LabelTitle, title},
			{LabelDomain, orNA(b.Domain)},
			{LabelBreachDate, formatDate(b.BreachDate)},
			{LabelAddedDate, formatDate(b.AddedDate)},
			{LabelModifiedDate, formatDate(b.ModifiedDate)},
			{LabelAccounts, printer.Sprintf("%d", b.PwnCount)},
			{LabelExposedData, orNA(strings.Join(b.DataClasses, ", "))},
			{LabelDescription, StripHTML(b.Description)},
		},
		Badges: []Badge{
			{"Verified", b.IsVerified},
			{"Sensitive", b.IsSensitive},
			{"Fabricated", b.IsFabricated},
			{"Retired", b.IsRetired},
			{"Spam list", b.IsSpamList},
			{"Malware", b.IsMalware},
			{"Subscription-free", b.IsSubscriptionFree},
			{"Stealer log", b.IsStealerLog},
		},
		DescriptionHTML: b.Description,
	}
}

// StripHTML returns the text content of an HTML snippet with whitespace
// collapsed.
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// formatDate shortens full timestamps to their date; other values pass
// through unchanged.
func formatDate(s string) string {
	if s == "" {
		return "N/A"
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC().Format("2006-01-02")
	}
	return s
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func yesNo(on bool) string {
	if on {
		return "Yes"
	}
	return "No"
}
