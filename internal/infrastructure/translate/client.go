package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	requestTimeout = 5 * time.Second
	probeTimeout   = 2 * time.Second
)

// Client talks to a LibreTranslate-compatible API.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout:   requestTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type translateRequest struct {
	Query  string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error"`
}

// Translate converts text from sourceLang to targetLang. Use "auto" as the
// source language to let the API detect it.
func (c *Client) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	payload, err := json.Marshal(translateRequest{
		Query:  text,
		Source: sourceLang,
		Target: targetLang,
	})
	if err != nil {
		return "", fmt.Errorf("marshal translate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/translate", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("translation request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode translation response: %w", err)
	}

	if decoded.TranslatedText == "" {
		if decoded.Error != "" {
			return "", fmt.Errorf("translation API error: %s", decoded.Error)
		}
		return "", fmt.Errorf("translation API returned no result")
	}

	return decoded.TranslatedText, nil
}

// TranslateAuto detects the source language.
func (c *Client) TranslateAuto(ctx context.Context, text, targetLang string) (string, error) {
	return c.Translate(ctx, text, "auto", targetLang)
}

// IsAvailable probes the languages endpoint with a short deadline.
func (c *Client) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/languages", nil)
	if err != nil {
		return false
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
