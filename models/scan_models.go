package models

// ScanRequest asks for a unified lookup across every source its fields select.
type ScanRequest struct {
	Email          string `json:"email,omitempty"`
	Domain         string `json:"domain,omitempty"`
	IP             string `json:"ip,omitempty"`
	Name           string `json:"name,omitempty"`
	Company        string `json:"company,omitempty"`
	RecaptchaToken string `json:"recaptchaToken,omitempty"`
	Debug          bool   `json:"debug,omitempty"`
}

// HasTarget reports whether at least one of email, domain or ip is set.
func (r ScanRequest) HasTarget() bool {
	return r.Email != "" || r.Domain != "" || r.IP != ""
}

// BreachSummary is the breach part of a unified scan.
type BreachSummary struct {
	BreachCount int            `json:"breachCount"`
	Breaches    []BreachRecord `json:"breaches"`
}

// ScanResult carries one entry per triggered source. Sources that were not
// requested are nil and left out of the JSON body.
type ScanResult struct {
	HIBP         *BreachSummary      `json:"hibp,omitempty"`
	Whois        *WhoisRecord        `json:"whois,omitempty"`
	IPReputation *IPReputationRecord `json:"ipReputation,omitempty"`
	SiteSecurity *SiteSecurityRecord `json:"siteSecurity,omitempty"`
	Errors       map[string]string   `json:"errors,omitempty"`
}
