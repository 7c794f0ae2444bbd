package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

type ClientOpts struct {
	BaseURL string
	AnonKey string
}

// Client talks to a Supabase-compatible backend: GoTrue auth under
// /auth/v1 and PostgREST tables under /rest/v1.
type Client struct {
	httpClient *resty.Client
	baseURL    string
	anonKey    string
}

func NewClient(opts ClientOpts) *Client {
	c := &Client{baseURL: opts.BaseURL, anonKey: opts.AnonKey}
	c.httpClient = resty.New().
		SetBaseURL(c.baseURL).
		SetTimeout(15 * time.Second).
		SetHeaders(map[string]string{
			"apikey": c.anonKey,
			"Accept": "application/json",
		})
	return c
}

// req builds a request authorized as the given user. An empty access
// token falls back to the anon key, which is what row level security
// expects for unauthenticated calls.
func (c *Client) req(ctx context.Context, accessToken string, result any) *resty.Request {
	request := c.httpClient.
		NewRequest().
		SetContext(ctx)

	token := accessToken
	if token == "" {
		token = c.anonKey
	}
	request.SetHeader("Authorization", "Bearer "+token)

	if result != nil {
		request.SetResult(result)
	}
	return request
}

type apiError struct {
	Message          string `json:"message"`
	Msg              string `json:"msg"`
	ErrorField       string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (e apiError) text() string {
	for _, s := range []string{e.Message, e.Msg, e.ErrorDescription, e.ErrorField} {
		if s != "" {
			return s
		}
	}
	return ""
}

// handleError turns failing responses (>399) into errors carrying the
// backend's own message when one can be decoded.
func handleError(res *resty.Response, err error) (*resty.Response, error) {
	if err != nil {
		return res, err
	}
	if res.IsError() {
		var body apiError
		if decodeErr := json.Unmarshal(res.Body(), &body); decodeErr == nil {
			if msg := body.text(); msg != "" {
				return res, fmt.Errorf("supabase: %s (status: %d)", msg, res.StatusCode())
			}
		}
		return res, fmt.Errorf("request failed: %s %s (status: %d)", res.Request.Method, res.Request.URL, res.StatusCode())
	}
	return res, nil
}
