package leads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/vit0-9/breachsignal_api/models"
	"github.com/vit0-9/breachsignal_api/pkg/utils"
)

const DefaultAirtableURL = "https://api.airtable.com/v0"

// fieldTimestamp is the column rows are sorted by.
const fieldTimestamp = "Timestamp"

// AirtableError is returned for failed Airtable calls.
type AirtableError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *AirtableError) Error() string {
	switch {
	case e.Type != "" && e.Message != "":
		return e.Type + ": " + e.Message
	case e.Message != "":
		return e.Message
	case e.Type != "":
		return e.Type
	default:
		return fmt.Sprintf("status %d", e.StatusCode)
	}
}

// AirtableStore appends leads as rows of an Airtable table.
type AirtableStore struct {
	baseURL string
	apiKey  string
	baseID  string
	table   string
	client  *http.Client
	now     func() time.Time
}

func NewAirtableStore(apiKey, baseID, table string, client *http.Client) *AirtableStore {
	return &AirtableStore{
		baseURL: DefaultAirtableURL,
		apiKey:  apiKey,
		baseID:  baseID,
		table:   table,
		client:  client,
		now:     time.Now,
	}
}

// WithBaseURL points the store at a different API root, e.g. a test server.
func (s *AirtableStore) WithBaseURL(u string) *AirtableStore {
	s.baseURL = u
	return s
}

type airtableFields struct {
	Email         string `json:"Email"`
	Name          string `json:"Name"`
	Company       string `json:"Company"`
	BreachCount   int    `json:"Breach Count"`
	BreachDetails string `json:"Breach Details"`
	Timestamp     string `json:"Timestamp"`
}

type airtableRecord struct {
	ID          string         `json:"id,omitempty"`
	CreatedTime string         `json:"createdTime,omitempty"`
	Fields      airtableFields `json:"fields"`
}

type airtablePage struct {
	Records []airtableRecord `json:"records"`
	Offset  string           `json:"offset,omitempty"`
}

type airtableErrorBody struct {
	Error json.RawMessage `json:"error"`
}

func (s *AirtableStore) tableURL() string {
	return fmt.Sprintf("%s/%s/%s", s.baseURL, url.PathEscape(s.baseID), url.PathEscape(s.table))
}

func (s *AirtableStore) Append(ctx context.Context, lead models.LeadRecord) (models.LeadRecord, error) {
	if lead.Timestamp.IsZero() {
		lead.Timestamp = s.now().UTC()
	}
	details, err := EncodeBreachDetails(lead.BreachDetails)
	if err != nil {
		return lead, fmt.Errorf("encode breach details: %w", err)
	}

	payload, err := json.Marshal(airtablePage{Records: []airtableRecord{{Fields: airtableFields{
		Email:         lead.Email,
		Name:          lead.Name,
		Company:       lead.Company,
		BreachCount:   lead.BreachCount,
		BreachDetails: details,
		Timestamp:     lead.Timestamp.Format(time.RFC3339Nano),
	}}}})
	if err != nil {
		return lead, fmt.Errorf("encode airtable record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tableURL(), bytes.NewReader(payload))
	if err != nil {
		return lead, fmt.Errorf("build airtable request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var page airtablePage
	if err := s.do(req, &page); err != nil {
		return lead, err
	}
	if len(page.Records) > 0 {
		lead.ID = page.Records[0].ID
	}
	return lead, nil
}

// List reads every row, following pagination, newest first.
func (s *AirtableStore) List(ctx context.Context) ([]models.LeadRecord, error) {
	var out []models.LeadRecord
	offset := ""
	for {
		q := url.Values{}
		q.Set("sort[0][field]", fieldTimestamp)
		q.Set("sort[0][direction]", "desc")
		if offset != "" {
			q.Set("offset", offset)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.tableURL()+"?"+q.Encode(), nil)
		if err != nil {
			return nil, fmt.Errorf("build airtable request: %w", err)
		}

		var page airtablePage
		if err := s.do(req, &page); err != nil {
			return nil, err
		}
		for _, r := range page.Records {
			out = append(out, toLead(r))
		}
		if page.Offset == "" {
			break
		}
		offset = page.Offset
	}

	if out == nil {
		out = []models.LeadRecord{}
	}
	SortNewestFirst(out)
	return out, nil
}

func (s *AirtableStore) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	res, err := utils.Do(s.client, req)
	if err != nil {
		return &AirtableError{Message: err.Error()}
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return parseAirtableError(res.StatusCode, res.Body)
	}
	if err := json.Unmarshal(res.Body, out); err != nil {
		return &AirtableError{StatusCode: res.StatusCode, Message: "malformed response: " + err.Error()}
	}
	return nil
}

// parseAirtableError handles both {"error":"NOT_FOUND"} and
// {"error":{"type":"...","message":"..."}} bodies.
func parseAirtableError(status int, body []byte) *AirtableError {
	e := &AirtableError{StatusCode: status}

	var wrapper airtableErrorBody
	if err := json.Unmarshal(body, &wrapper); err != nil || len(wrapper.Error) == 0 {
		e.Message = http.StatusText(status)
		return e
	}

	var detail struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(wrapper.Error, &detail); err == nil {
		e.Type, e.Message = detail.Type, detail.Message
		return e
	}
	var code string
	if err := json.Unmarshal(wrapper.Error, &code); err == nil {
		e.Type = code
	}
	return e
}

func toLead(r airtableRecord) models.LeadRecord {
	ts, err := time.Parse(time.RFC3339Nano, r.Fields.Timestamp)
	if err != nil {
		ts, _ = time.Parse(time.RFC3339, r.CreatedTime)
	}
	return models.LeadRecord{
		ID:            r.ID,
		Email:         r.Fields.Email,
		Name:          r.Fields.Name,
		Company:       r.Fields.Company,
		BreachCount:   r.Fields.BreachCount,
		BreachDetails: ParseBreachDetails(r.Fields.BreachDetails),
		Timestamp:     ts,
	}
}
