package report

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/vit0-9/breachsignal_api/models"
)

var fragmentTmpl = template.Must(template.New("breaches").Funcs(template.FuncMap{
	"yesNo": yesNo,
	"safeHTML": func(s string) template.HTML { return template.HTML(SanitizeHTML(s)) },
}).Parse(`<div class="breach-report">
{{- range $entry := . }}
<div class="breach" style="margin-bottom:16px;padding:12px;border:1px solid #e2e8f0;border-radius:8px;">
{{- range .Fields }}
{{- if eq .Label "Title" }}
<h3 style="margin:0 0 8px 0;color:#083a5d;">{{ .Value }}</h3>
{{- else if eq .Label "Description" }}
<div><strong>{{ .Label }}:</strong> {{ safeHTML $entry.Description }}</div>
{{- else }}
<div><strong>{{ .Label }}:</strong> {{ .Value }}</div>
{{- end }}
{{- end }}
<div class="badges" style="margin-top:8px;">
{{- range .Badges }}
<span class="badge badge-{{ if .On }}yes{{ else }}no{{ end }}" style="display:inline-block;margin:2px 4px 2px 0;padding:2px 8px;border-radius:9999px;font-size:12px;background:{{ if .On }}#dcfce7{{ else }}#f1f5f9{{ end }};">{{ .Label }}: {{ yesNo .On }}</span>
{{- end }}
</div>
</div>
{{- end }}
</div>`))

type htmlEntry struct {
	Entry
	Description string
}

// HTML renders the breaches as an inline fragment for pages and emails.
// The fragment carries its own inline styles.
func HTML(breaches []models.BreachRecord) (template.HTML, error) {
	entries := make([]htmlEntry, 0, len(breaches))
	for _, b := range breaches {
		e := NewEntry(b)
		entries = append(entries, htmlEntry{Entry: e, Description: e.DescriptionHTML})
	}

	var buf bytes.Buffer
	if err := fragmentTmpl.Execute(&buf, entries); err != nil {
		return "", fmt.Errorf("render breach html: %w", err)
	}
	return template.HTML(buf.String()), nil
}
