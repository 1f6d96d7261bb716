package models

// IPReputationRequest is the body of POST /ip-reputation.
type IPReputationRequest struct {
	IP string `json:"ip" example:"8.8.8.8"`
}

// IPReputationRecord is the reshaped abuse report for one address.
type IPReputationRecord struct {
	AbuseConfidenceScore int      `json:"abuseConfidenceScore"`
	LastReportedAt       *string  `json:"lastReportedAt"`
	TotalReports         int      `json:"totalReports"`
	CountryCode          string   `json:"countryCode"`
	ISP                  string   `json:"isp"`
	Domain               string   `json:"domain"`
	UsageType            string   `json:"usageType"`
	Hostnames            []string `json:"hostnames"`
	Geo                  *GeoInfo `json:"geo,omitempty"`
}

// GeoInfo is filled from local MaxMind databases when they are configured.
type GeoInfo struct {
	CountryName    string  `json:"countryName,omitempty"`
	CityName       string  `json:"cityName,omitempty"`
	Latitude       float64 `json:"latitude,omitempty"`
	Longitude      float64 `json:"longitude,omitempty"`
	TimeZone       string  `json:"timeZone,omitempty"`
	ASN            uint    `json:"asn,omitempty"`
	ASOrganization string  `json:"asOrganization,omitempty"`
}
