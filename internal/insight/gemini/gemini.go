// Package gemini implements the insight.Provider against the Google Gemini
// generateContent REST API.
package gemini

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ecotrace/ecotrace-server/internal/insight"
)

// DefaultBaseURL is the public Gemini API endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

// Client calls the Gemini generateContent endpoint. A client with an empty
// API key reports itself unconfigured and is never called.
type Client struct {
	http   *resty.Client
	apiKey string
	model  string
}

// New builds a Gemini client. baseURL may be empty to use the public API;
// tests point it at a local server.
func New(baseURL, apiKey, model string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	return &Client{http: c, apiKey: apiKey, model: model}
}

func (c *Client) Name() string { return "Gemini AI" }

// Configured reports whether an API key is present.
func (c *Client) Configured() bool { return c.apiKey != "" }

type generateRequest struct {
	Contents []content `json:"contents"`
	Config   genConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type genConfig struct {
	// Low temperature keeps the structured output close to deterministic.
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Generate issues one generateContent request and returns the first
// candidate's text. No retries.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.Configured() {
		return "", insight.ErrNotConfigured
	}

	req := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		Config:   genConfig{Temperature: 0.1},
	}

	var out generateResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(&req).
		SetResult(&out).
		Post(fmt.Sprintf("/v1beta/models/%s:generateContent", c.model))
	if err != nil {
		return "", &insight.ProviderError{Provider: c.Name(), Err: err}
	}
	if resp.StatusCode() != http.StatusOK {
		return "", &insight.ProviderError{
			Provider: c.Name(),
			Err:      fmt.Errorf("status %d: %s", resp.StatusCode(), resp.String()),
		}
	}
	if out.Error != nil {
		return "", &insight.ProviderError{
			Provider: c.Name(),
			Err:      fmt.Errorf("api error %d: %s", out.Error.Code, out.Error.Message),
		}
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", &insight.ProviderError{
			Provider: c.Name(),
			Err:      fmt.Errorf("empty candidate list"),
		}
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}
