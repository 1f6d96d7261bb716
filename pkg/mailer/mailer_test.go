package mailer

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vit0-9/breachsignal_api/models"
	"github.com/vit0-9/breachsignal_api/pkg/logger"
)

func TestResendSender_Send(t *testing.T) {
	var got resendRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &got))
		_, _ = w.Write([]byte(`{"id":"49a3999c-0ce1-4ea6-ab68-afcd6dc2e794"}`))
	}))
	defer srv.Close()

	s := NewResendSender("re_123", "BreachSignal.io <noreply@breachsignal.io>", srv.Client()).WithURL(srv.URL)
	err := s.Send(context.Background(), Message{To: "jane@acme.io", Subject: BreachSubject, HTML: "<p>hi</p>"})
	require.NoError(t, err)

	assert.Equal(t, "Bearer re_123", auth)
	assert.Equal(t, "BreachSignal.io <noreply@breachsignal.io>", got.From)
	assert.Equal(t, []string{"jane@acme.io"}, got.To)
	assert.Equal(t, "Your Breach Check Results", got.Subject)
	assert.Equal(t, "<p>hi</p>", got.HTML)
}

func TestResendSender_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"Invalid to field."}`))
	}))
	defer srv.Close()

	err := NewResendSender("k", "from@example.com", srv.Client()).WithURL(srv.URL).
		Send(context.Background(), Message{To: "bad"})
	var sendErr *SendError
	require.ErrorAs(t, err, &sendErr)
	assert.Equal(t, 422, sendErr.StatusCode)
	assert.Equal(t, "validation_error", sendErr.Name)
	assert.Contains(t, err.Error(), "Invalid to field.")
}

func TestLogSender(t *testing.T) {
	assert.NoError(t, NewLogSender(logger.NewNop()).Send(context.Background(), Message{To: "a@b.co"}))
}

func TestBuildBreachMessage_WithBreaches(t *testing.T) {
	msg, err := BuildBreachMessage(BreachEmail{
		Email: "jane@acme.io",
		Name:  "Jane",
		Breaches: []models.BreachRecord{
			{Name: "Adobe", Title: "Adobe", BreachDate: "2013-10-04", Domain: "adobe.com"},
			{Name: "Collection1"},
		},
		BaseURL:    "https://breachsignal.io",
		BookingURL: "https://calendly.com/breachsignal/audit",
	})
	require.NoError(t, err)

	assert.Equal(t, "jane@acme.io", msg.To)
	assert.Equal(t, BreachSubject, msg.Subject)
	assert.Contains(t, msg.HTML, "Hello Jane,")
	assert.Contains(t, msg.HTML, "We found 2 breaches associated with your email:")
	assert.Contains(t, msg.HTML, ">Adobe</td>")
	assert.Contains(t, msg.HTML, ">Collection1</td>")
	assert.Contains(t, msg.HTML, ">Unknown</td>")
	assert.Contains(t, msg.HTML, `class="breach-report"`)
	assert.Contains(t, msg.HTML, `href="https://breachsignal.io/?utm_campaign=breach_check`)
	assert.Contains(t, msg.HTML, `href="https://calendly.com/breachsignal/audit?utm_campaign=breach_check`)
	assert.Contains(t, msg.HTML, "utm_content=book_audit")
	assert.Contains(t, msg.HTML, "Your Early Warning System for Digital Threats.")
	assert.NotContains(t, msg.HTML, "Good news!")
}

func TestBuildBreachMessage_NoBreaches(t *testing.T) {
	msg, err := BuildBreachMessage(BreachEmail{Email: "clean@example.com"})
	require.NoError(t, err)

	assert.Contains(t, msg.HTML, "Hello there,")
	assert.Contains(t, msg.HTML, "Good news! No breaches were found for your email address.")
	assert.NotContains(t, msg.HTML, "<table")
	assert.NotContains(t, msg.HTML, "Book a Security Audit")
}

func TestBuildBreachMessage_OneBreachIsSingular(t *testing.T) {
	msg, err := BuildBreachMessage(BreachEmail{Email: "a@b.co", Breaches: []models.BreachRecord{{Name: "Adobe"}}})
	require.NoError(t, err)
	assert.Contains(t, msg.HTML, "We found 1 breach associated with your email:")
}
