package mailer

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/vit0-9/breachsignal_api/models"
	"github.com/vit0-9/breachsignal_api/pkg/report"
	"github.com/vit0-9/breachsignal_api/pkg/utils"
)

// BreachSubject is the subject line of the breach-check email.
const BreachSubject = "Your Breach Check Results"

// linkTags marks clicks that come from the result email.
var linkTags = utils.UTMParams{Source: "breachsignal", Medium: "email", Campaign: "breach_check"}

// BreachEmail holds what the breach-check email shows.
type BreachEmail struct {
	Email      string
	Name       string
	Breaches   []models.BreachRecord
	BaseURL    string
	BookingURL string
	Identity   report.Identity
}

var breachTmpl = template.Must(template.New("breach-email").Funcs(template.FuncMap{
	"plural": func(n int) string {
		if n == 1 {
			return ""
		}
		return "es"
	},
}).Parse(`<div style="max-width:600px;margin:0 auto;font-family:Segoe UI,Tahoma,Geneva,Verdana,sans-serif;background:#fff;border-radius:12px;padding:32px 24px;">
  <div style="margin-bottom:16px;">
    <img src="{{ .LogoURL }}" alt="{{ .Identity.CompanyName }} Logo" style="height:48px;width:48px;margin-right:16px;border-radius:8px;" />
    <div style="font-size:1.5rem;font-weight:bold;color:#083a5d;">{{ .Identity.CompanyName }}</div>
    <div style="font-size:1rem;color:#0ea5e9;">{{ .Identity.Tagline }}</div>
    <div style="font-size:0.9rem;color:#222;margin-top:2px;">{{ .Identity.ContactLine }}</div>
  </div>
  <hr style="border:0;border-top:1.5px solid #0ea5e9;margin:16px 0;" />
  <h2 style="color:#083a5d;margin-bottom:0.5em;">Your Breach Check Results</h2>
  <p style="font-size:1.1rem;">Hello {{ if .Name }}{{ .Name }}{{ else }}there{{ end }},</p>
  <p>We've completed your breach check for <b>{{ .Email }}</b>.</p>
{{- if .Breaches }}
  <div style="margin:18px 0 10px 0;font-weight:bold;color:#0ea5e9;">We found {{ len .Breaches }} breach{{ plural (len .Breaches) }} associated with your email:</div>
  <table style="width:100%;border-collapse:collapse;margin-bottom:18px;">
    <thead>
      <tr style="background:#f1f5f9;color:#083a5d;font-size:1rem;">
        <th style="padding:8px 4px;text-align:left;">Breach</th>
        <th style="padding:8px 4px;text-align:left;">Date</th>
        <th style="padding:8px 4px;text-align:left;">Domain</th>
      </tr>
    </thead>
    <tbody>
{{- range .Breaches }}
      <tr style="border-bottom:1px solid #e5e7eb;">
        <td style="padding:6px 4px;font-weight:bold;">{{ .DisplayTitle }}</td>
        <td style="padding:6px 4px;">{{ if .BreachDate }}{{ .BreachDate }}{{ else }}Unknown{{ end }}</td>
        <td style="padding:6px 4px;">{{ .Domain }}</td>
      </tr>
{{- end }}
    </tbody>
  </table>
  {{ .Details }}
{{- else }}
  <p style="color:#16a34a;font-weight:bold;">Good news! No breaches were found for your email address.</p>
{{- end }}
  <div style="margin:18px 0 10px 0;">
    <a href="{{ .ReportURL }}" style="display:inline-block;padding:10px 20px;background:#083a5d;color:#fff;text-decoration:none;border-radius:4px;font-weight:bold;margin-right:12px;">Download PDF Report</a>
{{- if .BookingURL }}
    <a href="{{ .BookingURL }}" style="display:inline-block;padding:10px 20px;background:#dc2626;color:#fff;text-decoration:none;border-radius:4px;font-weight:bold;">Book a Security Audit</a>
{{- end }}
  </div>
  <hr style="border:0;border-top:1.5px solid #0ea5e9;margin:24px 0 12px 0;" />
  <div style="font-size:0.95rem;color:#0ea5e9;text-align:center;">{{ .Identity.Tagline }}</div>
  <div style="font-size:0.85rem;color:#222;text-align:center;margin-top:2px;">{{ .Identity.CompanyName }} | {{ .Identity.ContactLine }}</div>
</div>`))

type breachView struct {
	BreachEmail
	Details   template.HTML
	LogoURL   string
	ReportURL string
}

// BuildBreachMessage renders the breach-check email for e.Email.
func BuildBreachMessage(e BreachEmail) (Message, error) {
	if e.Identity == (report.Identity{}) {
		e.Identity = report.DefaultIdentity
	}

	details, err := report.HTML(e.Breaches)
	if err != nil {
		return Message{}, err
	}

	view := breachView{
		BreachEmail: e,
		Details:     details,
		LogoURL:     e.BaseURL + "/logo.png",
	}
	if view.ReportURL, err = tagLink(e.BaseURL+"/", "report"); err != nil {
		return Message{}, err
	}
	if e.BookingURL != "" {
		if view.BookingURL, err = tagLink(e.BookingURL, "book_audit"); err != nil {
			return Message{}, err
		}
	}

	var buf bytes.Buffer
	if err := breachTmpl.Execute(&buf, view); err != nil {
		return Message{}, fmt.Errorf("render breach email: %w", err)
	}
	return Message{To: e.Email, Subject: BreachSubject, HTML: buf.String()}, nil
}

func tagLink(link, content string) (string, error) {
	tags := linkTags
	tags.Content = content
	out, err := utils.GenerateUTMLink(link, tags)
	if err != nil {
		return "", fmt.Errorf("tag link %q: %w", link, err)
	}
	return out, nil
}
