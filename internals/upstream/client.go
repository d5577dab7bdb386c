package upstream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
)

var (
	// ErrEmptyResponse is returned when the provider answers 2xx with no usable payload.
	ErrEmptyResponse = errors.New("upstream returned an empty response")
)

// Message is a single chat turn in the provider's wire format.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ImageResult is the artifact of one image generation.
type ImageResult struct {
	B64JSON string `json:"b64_json"`
}

// Client talks to an OpenAI-compatible provider for the two expensive
// operations behind the gate: image generation and chat completion. Errors
// surfaced to callers are short and generic; the detail goes to the log so
// upstream failures never leak to end users.
type Client struct {
	BaseURL    string
	APIKey     string
	ImageModel string
	ChatModel  string
	HTTPClient *http.Client
}

// NewClient initializes a provider client with a hard request timeout. Calls
// also honor the caller's context, whichever cancels first.
func NewClient(baseURL, apiKey, imageModel, chatModel string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		ImageModel: imageModel,
		ChatModel:  chatModel,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

type imageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	Steps          int    `json:"steps,omitempty"`
	ResponseFormat string `json:"response_format"`
}

type imageResponse struct {
	Data []ImageResult `json:"data"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// post sends a JSON payload and decodes a JSON reply, treating any non-2xx
// status as a failure with the body detail kept server-side.
func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	body, err := sonic.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("Upstream: %s returned status %d: %s", path, resp.StatusCode, truncate(raw, 512))
		return fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	if err := sonic.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// GenerateImage produces one image for the prompt and returns it base64
// encoded. steps <= 0 leaves the provider default in place.
func (c *Client) GenerateImage(ctx context.Context, prompt string, steps int) (*ImageResult, error) {
	reqBody := imageRequest{
		Model:          c.ImageModel,
		Prompt:         prompt,
		ResponseFormat: "b64_json",
	}
	if steps > 0 {
		reqBody.Steps = steps
	}

	var out imageResponse
	if err := c.post(ctx, "/v1/images/generations", reqBody, &out); err != nil {
		return nil, err
	}
	if len(out.Data) == 0 || out.Data[0].B64JSON == "" {
		return nil, ErrEmptyResponse
	}
	return &out.Data[0], nil
}

// ChatCompletion runs one chat exchange and returns the assistant reply.
func (c *Client) ChatCompletion(ctx context.Context, messages []Message) (string, error) {
	var out chatResponse
	if err := c.post(ctx, "/v1/chat/completions", chatRequest{Model: c.ChatModel, Messages: messages}, &out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}
	return out.Choices[0].Message.Content, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
