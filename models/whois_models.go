package models

// WhoisLookupRequest represents the request for WHOIS lookup
type WhoisLookupRequest struct {
	Domain string `json:"domain" example:"example.com"`
}

// WhoisRecord is registration metadata for a domain. Dates are kept in
// whatever format the registry reported them.
type WhoisRecord struct {
	Registrar   string   `json:"registrar"`
	CreatedDate string   `json:"createdDate"`
	ExpiresDate string   `json:"expiresDate"`
	UpdatedDate string   `json:"updatedDate"`
	NameServers []string `json:"nameServers"`
	Status      string   `json:"status"`
	RawData     string   `json:"rawData"`
}
