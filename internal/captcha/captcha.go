package captcha

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultEndpoint = "https://www.google.com/recaptcha/api/siteverify"

type Result struct {
	Success bool
	Score   float64
}

// Verifier is what the login handler depends on; tests fake it.
type Verifier interface {
	Verify(ctx context.Context, token string) (Result, error)
}

// Google calls the reCAPTCHA v3 siteverify endpoint. A verdict only counts
// as a pass when Google says success and the score clears the threshold.
type Google struct {
	secret   string
	minScore float64
	endpoint string
	client   *http.Client
}

func NewGoogle(secret string, minScore float64) *Google {
	return &Google{
		secret:   secret,
		minScore: minScore,
		endpoint: defaultEndpoint,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// WithEndpoint overrides the siteverify URL. Tests point this at httptest.
func (g *Google) WithEndpoint(endpoint string) *Google {
	g.endpoint = endpoint
	return g
}

func (g *Google) Verify(ctx context.Context, token string) (Result, error) {
	// no secret configured: local dev without Google credentials
	if g.secret == "" {
		return Result{Success: true, Score: 1}, nil
	}

	if token == "" {
		return Result{}, nil
	}

	form := url.Values{}
	form.Set("secret", g.secret)
	form.Set("response", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, strings.NewReader(form.Encode()))

	if err != nil {
		return Result{}, err
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)

	if err != nil {
		return Result{}, err
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	if err != nil {
		return Result{}, err
	}

	var data struct {
		Success bool    `json:"success"`
		Score   float64 `json:"score"`
	}

	if err := json.Unmarshal(body, &data); err != nil {
		return Result{}, err
	}

	return Result{
		Success: data.Success && data.Score >= g.minScore,
		Score:   data.Score,
	}, nil
}
