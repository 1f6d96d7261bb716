package report

import (
	"strings"

	"github.com/vit0-9/breachsignal_api/models"
)

// Text renders one paragraph per breach, separated by a blank line, for
// copying to the clipboard.
func Text(breaches []models.BreachRecord) string {
	paragraphs := make([]string, 0, len(breaches))
	for _, b := range breaches {
		paragraphs = append(paragraphs, entryText(NewEntry(b)))
	}
	return strings.Join(paragraphs, "\n\n")
}

func entryText(e Entry) string {
	var sb strings.Builder
	for i, f := range e.Fields {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(f.Label + ": " + f.Value)
	}

	badges := make([]string, 0, len(e.Badges))
	for _, b := range e.Badges {
		badges = append(badges, b.Label+": "+yesNo(b.On))
	}
	sb.WriteString("\n")
	sb.WriteString(strings.Join(badges, ", "))
	return sb.String()
}
