// Package anthropic streams completions from the Anthropic Messages API.
// The API speaks its own SSE event vocabulary, so this adapter parses the
// raw event stream instead of pulling in an SDK.
package anthropic

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ai-chat-be/pkg/llm"
)

const (
	apiVersion       = "2023-06-01"
	defaultMaxTokens = 1024
)

type Provider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

var _ llm.StreamingProvider = &Provider{}

func New(cfg llm.ClientConfig) *Provider {
	return &Provider{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: 5 * time.Minute},
	}
}

type messageRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	Messages    []chatMessage `json:"messages"`
	System      string        `json:"system,omitempty"`
	Temperature *float64      `json:"temperature,omitempty"`
	Stream      bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (p *Provider) Stream(ctx context.Context, model string, history []llm.Message, opts llm.Options) (<-chan llm.StreamChunk, error) {
	messages := make([]chatMessage, 0, len(history))
	for _, msg := range history {
		// Anthropic only accepts user/assistant turns; system goes in its
		// own field.
		if msg.Role == "system" {
			continue
		}
		messages = append(messages, chatMessage{Role: msg.Role, Content: msg.Content})
	}

	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	reqBody := messageRequest{
		Model:     model,
		MaxTokens: maxTokens,
		Messages:  messages,
		System:    opts.System,
		Stream:    true,
	}
	if opts.Temperature > 0 {
		temp := opts.Temperature
		reqBody.Temperature = &temp
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("anthropic request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("anthropic error: status %d, body: %s", resp.StatusCode, string(body))
	}

	chunks := make(chan llm.StreamChunk)
	go func() {
		defer close(chunks)
		defer resp.Body.Close()
		parseSSEStream(ctx, resp.Body, chunks)
	}()

	return chunks, nil
}

// parseSSEStream reads Anthropic SSE events and forwards text deltas.
func parseSSEStream(ctx context.Context, r io.Reader, chunks chan<- llm.StreamChunk) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimPrefix(line, "data: ")

		var raw struct {
			Type  string `json:"type"`
			Delta struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"delta"`
			Error struct {
				Type    string `json:"type"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.Unmarshal([]byte(data), &raw); err != nil {
			continue
		}

		switch raw.Type {
		case "content_block_delta":
			if raw.Delta.Type == "text_delta" && raw.Delta.Text != "" {
				select {
				case chunks <- llm.StreamChunk{Delta: raw.Delta.Text}:
				case <-ctx.Done():
					return
				}
			}
		case "error":
			select {
			case chunks <- llm.StreamChunk{Err: fmt.Errorf("anthropic stream error: %s: %s", raw.Error.Type, raw.Error.Message)}:
			case <-ctx.Done():
			}
			return
		case "message_stop":
			select {
			case chunks <- llm.StreamChunk{Done: true}:
			case <-ctx.Done():
			}
			return
		}
	}

	if err := scanner.Err(); err != nil {
		select {
		case chunks <- llm.StreamChunk{Err: fmt.Errorf("read stream: %w", err)}:
		case <-ctx.Done():
		}
		return
	}
	// Stream ended without message_stop; report completion rather than
	// hanging the caller.
	select {
	case chunks <- llm.StreamChunk{Done: true}:
	case <-ctx.Done():
	}
}
