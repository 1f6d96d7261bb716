// Package breachcheck runs the lead-capture flow behind POST /check-breach:
// verify the caller, look the address up, record the lead, email the result.
package breachcheck

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/vit0-9/breachsignal_api/models"
	"github.com/vit0-9/breachsignal_api/pkg/leads"
	"github.com/vit0-9/breachsignal_api/pkg/logger"
	"github.com/vit0-9/breachsignal_api/pkg/mailer"
	"github.com/vit0-9/breachsignal_api/pkg/providers"
	"github.com/vit0-9/breachsignal_api/pkg/report"
)

// ErrPersistence wraps lead store failures. The email is never sent after it.
var ErrPersistence = errors.New("lead store failed")

// ErrMail wraps delivery failures of the result email.
var ErrMail = errors.New("email delivery failed")

// BreachLookup returns the breaches an address appears in.
type BreachLookup interface {
	Lookup(ctx context.Context, email string) ([]models.BreachRecord, error)
}

// Config carries the links and identity printed in the result email.
type Config struct {
	BaseURL    string
	BookingURL string
	Identity   report.Identity
}

type Service struct {
	verifier providers.Verifier
	breaches BreachLookup
	store    leads.Store
	sender   mailer.Sender
	cfg      Config
	log      logger.Logger
}

func NewService(verifier providers.Verifier, breaches BreachLookup, store leads.Store, sender mailer.Sender, cfg Config, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	if cfg.Identity == (report.Identity{}) {
		cfg.Identity = report.DefaultIdentity
	}
	return &Service{verifier: verifier, breaches: breaches, store: store, sender: sender, cfg: cfg, log: log}
}

// Check runs the flow for one submission. Each step runs only when the
// previous one succeeded.
func (s *Service) Check(ctx context.Context, req models.BreachCheckRequest) (*models.BreachCheckResponse, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", providers.ErrInvalidInput)
	}
	// Only a bare address is accepted; display names and angle brackets are not.
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, fmt.Errorf("%w: email is not a valid address", providers.ErrInvalidInput)
	}

	if err := s.verifier.Verify(ctx, req.RecaptchaToken); err != nil {
		return nil, err
	}

	breaches, err := s.breaches.Lookup(ctx, email)
	if err != nil {
		return nil, err
	}
	if breaches == nil {
		breaches = []models.BreachRecord{}
	}

	lead, err := s.store.Append(ctx, models.LeadRecord{
		Email:         email,
		Name:          req.Name,
		Company:       req.Company,
		BreachCount:   len(breaches),
		BreachDetails: breaches,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	s.log.Info("lead recorded",
		logger.String("lead_id", lead.ID),
		logger.Int("breach_count", len(breaches)),
	)

	msg, err := mailer.BuildBreachMessage(mailer.BreachEmail{
		Email:      email,
		Name:       req.Name,
		Breaches:   breaches,
		BaseURL:    s.cfg.BaseURL,
		BookingURL: s.cfg.BookingURL,
		Identity:   s.cfg.Identity,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMail, err)
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMail, err)
	}

	return &models.BreachCheckResponse{
		Success:     true,
		BreachCount: len(breaches),
		Breaches:    breaches,
	}, nil
}
