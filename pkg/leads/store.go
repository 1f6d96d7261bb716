// Package leads persists breach-check submissions and lists them for the
// admin dashboard. Records are append-only.
package leads

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/vit0-9/breachsignal_api/models"
)

// Store is an append-only lead log.
type Store interface {
	Append(ctx context.Context, lead models.LeadRecord) (models.LeadRecord, error)
	List(ctx context.Context) ([]models.LeadRecord, error)
}

// ParseBreachDetails decodes stored breach details. Anything that is not a
// JSON array of breaches yields an empty list.
func ParseBreachDetails(raw string) []models.BreachRecord {
	var out []models.BreachRecord
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out == nil {
		return []models.BreachRecord{}
	}
	return out
}

// EncodeBreachDetails serializes breaches for storage as a JSON string.
func EncodeBreachDetails(breaches []models.BreachRecord) (string, error) {
	if breaches == nil {
		breaches = []models.BreachRecord{}
	}
	b, err := json.Marshal(breaches)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// SortNewestFirst orders leads by timestamp, latest first.
func SortNewestFirst(leads []models.LeadRecord) {
	sort.SliceStable(leads, func(i, j int) bool {
		return leads[i].Timestamp.After(leads[j].Timestamp)
	})
}

// Filter keeps leads whose email, name or company contains q, ignoring case.
// An empty query keeps everything.
func Filter(leads []models.LeadRecord, q string) []models.LeadRecord {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return leads
	}
	out := make([]models.LeadRecord, 0, len(leads))
	for _, l := range leads {
		if strings.Contains(strings.ToLower(l.Email), q) ||
			strings.Contains(strings.ToLower(l.Name), q) ||
			strings.Contains(strings.ToLower(l.Company), q) {
			out = append(out, l)
		}
	}
	return out
}
