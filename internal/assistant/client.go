package assistant

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"declutteredWeb/internal/models"
)

type ClientOpts struct {
	BaseURL string
}

// Client talks to the seller assistant service. Replies to chat
// messages arrive as a plain text stream; drafts are a single JSON
// response.
type Client struct {
	httpClient *resty.Client
}

func NewClient(opts ClientOpts) *Client {
	c := &Client{}
	// No client-wide timeout: chat streams stay open for as long as the
	// model talks. Callers bound individual requests through ctx.
	c.httpClient = resty.New().
		SetBaseURL(opts.BaseURL)
	return c
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type MessageRequest struct {
	Message string         `json:"message"`
	Context ContextPayload `json:"context"`
	History []ChatMessage  `json:"history"`
}

// StreamMessage posts a prompt and feeds the text/plain response to
// onChunk as it arrives.
func (c *Client) StreamMessage(ctx context.Context, req MessageRequest, onChunk func(string)) error {
	res, err := c.httpClient.
		NewRequest().
		SetContext(ctx).
		SetBody(req).
		SetDoNotParseResponse(true).
		Post("/api/chat/message")
	if err != nil {
		return fmt.Errorf("assistant request: %w", err)
	}
	body := res.RawBody()
	defer body.Close()

	if res.StatusCode() > 399 {
		data, _ := io.ReadAll(io.LimitReader(body, 2048))
		return fmt.Errorf("%w: status %d: %s", models.ErrAssistantUnavailable, res.StatusCode(), strings.TrimSpace(string(data)))
	}

	buf := make([]byte, 512)
	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			onChunk(string(buf[:n]))
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return fmt.Errorf("read assistant stream: %w", readErr)
		}
	}
}

type DraftRequest struct {
	BuyerName   string        `json:"buyerName"`
	ItemTitle   string        `json:"itemTitle"`
	OfferAmount float64       `json:"offerAmount,omitempty"`
	Messages    []ChatMessage `json:"messages,omitempty"`
}

type draftResponse struct {
	Draft string `json:"draft"`
}

// GenerateDraft asks for a suggested reply to a buyer. When the
// service is down or answers empty, the caller still gets a usable
// canned reply rather than an error.
func (c *Client) GenerateDraft(ctx context.Context, req DraftRequest) (string, error) {
	result := &draftResponse{}

	res, err := c.httpClient.
		NewRequest().
		SetContext(ctx).
		SetBody(req).
		SetResult(result).
		Post("/api/chat/generate-draft")
	if err != nil || res.IsError() || result.Draft == "" {
		return FallbackDraft(req.BuyerName, req.ItemTitle), nil
	}
	return result.Draft, nil
}

func FallbackDraft(buyerName, itemTitle string) string {
	return fmt.Sprintf("Hi %s, thanks for your interest in the %s. Is the price negotiable?", buyerName, itemTitle)
}

// DraftTimeout bounds a single draft request.
const DraftTimeout = 15 * time.Second
