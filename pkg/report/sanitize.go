package report

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// inlineTags survive sanitizing; their attributes do not, except a link's href.
var inlineTags = map[string]bool{
	"a":      true,
	"b":      true,
	"br":     true,
	"em":     true,
	"i":      true,
	"p":      true,
	"strong": true,
}

// droppedTags are removed together with their content.
var droppedTags = map[string]bool{
	"script":   true,
	"style":    true,
	"iframe":   true,
	"object":   true,
	"embed":    true,
	"template": true,
	"noscript": true,
	"svg":      true,
	"math":     true,
}

var linkSchemes = map[string]bool{"http": true, "https": true, "mailto": true}

// SanitizeHTML reduces an HTML snippet to a small set of inline tags. Text is
// escaped, other elements are unwrapped and links keep only http, https and
// mailto targets.
func SanitizeHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return html.EscapeString(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return html.EscapeString(StripHTML(s))
	}

	var b strings.Builder
	for _, body := range doc.Find("body").Nodes {
		for c := body.FirstChild; c != nil; c = c.NextSibling {
			writeSanitized(&b, c)
		}
	}
	return b.String()
}

func writeSanitized(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(html.EscapeString(n.Data))
	case html.ElementNode:
		if droppedTags[n.Data] {
			return
		}
		keep := inlineTags[n.Data]
		if keep {
			b.WriteString("<" + n.Data)
			if n.Data == "a" {
				if href, ok := safeHref(n); ok {
					b.WriteString(` href="` + html.EscapeString(href) + `" target="_blank" rel="noopener noreferrer"`)
				}
			}
			b.WriteString(">")
			if n.Data == "br" {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeSanitized(b, c)
		}
		if keep {
			b.WriteString("</" + n.Data + ">")
		}
	}
}

func safeHref(n *html.Node) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace != "" || a.Key != "href" {
			continue
		}
		u, err := url.Parse(strings.TrimSpace(a.Val))
		if err != nil || !linkSchemes[strings.ToLower(u.Scheme)] {
			return "", false
		}
		return u.String(), true
	}
	return "", false
}
