package utils

import (
	"net/url"
	"strings"
)

// UTMParams are the campaign tags appended to outbound links.
type UTMParams struct {
	Source   string
	Medium   string
	Campaign string
	Term     string
	Content  string
}

// FormatUTMValue lowercases value and replaces spaces with underscores.
func FormatUTMValue(value string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(value)), " ", "_")
}

// GenerateUTMLink returns baseURL with the non-empty params set as utm_*
// query parameters. Existing query parameters are kept.
func GenerateUTMLink(baseURL string, params UTMParams) (string, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}

	query := parsed.Query()
	for key, val := range map[string]string{
		"utm_source":   params.Source,
		"utm_medium":   params.Medium,
		"utm_campaign": params.Campaign,
		"utm_term":     params.Term,
		"utm_content":  params.Content,
	} {
		if v := FormatUTMValue(val); v != "" {
			query.Set(key, v)
		}
	}

	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}
