package models

// BreachRecord is one breach incident as returned by the breach database.
// Field names follow the upstream payload so stored breach details decode
// back into the same shape.
type BreachRecord struct {
	Name               string   `json:"Name"`
	Title              string   `json:"Title"`
	Domain             string   `json:"Domain"`
	BreachDate         string   `json:"BreachDate"`
	AddedDate          string   `json:"AddedDate"`
	ModifiedDate       string   `json:"ModifiedDate"`
	PwnCount           int64    `json:"PwnCount"`
	Description        string   `json:"Description,omitempty"`
	LogoPath           string   `json:"LogoPath,omitempty"`
	DataClasses        []string `json:"DataClasses"`
	IsVerified         bool     `json:"IsVerified"`
	IsFabricated       bool     `json:"IsFabricated"`
	IsSensitive        bool     `json:"IsSensitive"`
	IsRetired          bool     `json:"IsRetired"`
	IsSpamList         bool     `json:"IsSpamList"`
	IsMalware          bool     `json:"IsMalware"`
	IsSubscriptionFree bool     `json:"IsSubscriptionFree"`
	IsStealerLog       bool     `json:"IsStealerLog"`
}

// DisplayTitle prefers the human title and falls back to the canonical name.
func (b BreachRecord) DisplayTitle() string {
	if b.Title != "" {
		return b.Title
	}
	return b.Name
}

// BreachCheckRequest is the body of POST /check-breach.
type BreachCheckRequest struct {
	Email          string `json:"email" example:"someone@example.com"`
	Name           string `json:"name,omitempty"`
	Company        string `json:"company,omitempty"`
	RecaptchaToken string `json:"recaptchaToken"`
}

// BreachCheckResponse is returned after a completed breach check.
type BreachCheckResponse struct {
	Success     bool           `json:"success"`
	BreachCount int            `json:"breachCount"`
	Breaches    []BreachRecord `json:"breaches"`
}

// BreachReportRequest asks for a rendering of an already fetched breach list.
type BreachReportRequest struct {
	Email    string         `json:"email,omitempty"`
	Name     string         `json:"name,omitempty"`
	Breaches []BreachRecord `json:"breaches"`
}
