package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const DefaultRecaptchaURL = "https://www.google.com/recaptcha/api/siteverify"

// Verifier checks a client-side captcha token.
type Verifier interface {
	Verify(ctx context.Context, token string) error
}

// RecaptchaVerifier validates tokens with Google's siteverify endpoint.
type RecaptchaVerifier struct {
	baseURL  string
	secret   string
	client   *http.Client
	observer Observer
}

func NewRecaptchaVerifier(secret string, client *http.Client, opts ...Option) *RecaptchaVerifier {
	o := applyOptions(DefaultRecaptchaURL, opts)
	return &RecaptchaVerifier{baseURL: o.baseURL, secret: secret, client: client, observer: o.observer}
}

type siteVerifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify returns ErrVerificationFailed when the token is missing or
// rejected, and *UpstreamError when the service could not be asked.
func (v *RecaptchaVerifier) Verify(ctx context.Context, token string) (err error) {
	if strings.TrimSpace(token) == "" {
		return ErrVerificationFailed
	}

	defer func() {
		if errors.Is(err, ErrVerificationFailed) {
			v.observer.ObserveUpstream(SourceRecaptcha, nil)
			return
		}
		v.observer.ObserveUpstream(SourceRecaptcha, err)
	}()

	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build recaptcha request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := send(v.client, req, SourceRecaptcha)
	if err != nil {
		return err
	}
	if !isSuccess(res.StatusCode) {
		return statusError(SourceRecaptcha, res)
	}

	var body siteVerifyResponse
	if err := decode(SourceRecaptcha, res.Body, &body); err != nil {
		return err
	}
	if !body.Success {
		return ErrVerificationFailed
	}
	return nil
}

// AllowAllVerifier accepts every token. It stands in for reCAPTCHA in local
// development when no secret is configured.
type AllowAllVerifier struct{}

func (AllowAllVerifier) Verify(context.Context, string) error { return nil }
