package models

import "time"

// LeadRecord is one stored breach-check submission.
type LeadRecord struct {
	ID            string         `json:"id"`
	Email         string         `json:"email"`
	Name          string         `json:"name"`
	Company       string         `json:"company"`
	BreachCount   int            `json:"breachCount"`
	BreachDetails []BreachRecord `json:"breachDetails"`
	Timestamp     time.Time      `json:"timestamp"`
}

// LeadsResponse is returned by GET /leads.
type LeadsResponse struct {
	Leads []LeadRecord `json:"leads"`
}
