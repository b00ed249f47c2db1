// Package google streams completions from the Gemini API via the genai SDK.
package google

import (
	"context"
	"fmt"

	"ai-chat-be/pkg/llm"

	"google.golang.org/genai"
)

type Provider struct {
	apiKey  string
	baseURL string
}

var _ llm.StreamingProvider = &Provider{}

func New(cfg llm.ClientConfig) *Provider {
	return &Provider{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
	}
}

func (p *Provider) Stream(ctx context.Context, model string, history []llm.Message, opts llm.Options) (<-chan llm.StreamChunk, error) {
	clientConfig := &genai.ClientConfig{
		APIKey:  p.apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if p.baseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: p.baseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		role := genai.RoleUser
		if msg.Role == "assistant" || msg.Role == "model" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(msg.Content, genai.Role(role)))
	}

	config := &genai.GenerateContentConfig{}
	if opts.Temperature > 0 {
		config.Temperature = genai.Ptr(float32(opts.Temperature))
	}
	if opts.MaxTokens > 0 {
		config.MaxOutputTokens = int32(opts.MaxTokens)
	}
	if opts.System != "" {
		config.SystemInstruction = genai.NewContentFromText(opts.System, genai.RoleUser)
	}

	chunks := make(chan llm.StreamChunk)
	go func() {
		defer close(chunks)

		for resp, err := range client.Models.GenerateContentStream(ctx, model, contents, config) {
			if err != nil {
				select {
				case chunks <- llm.StreamChunk{Err: fmt.Errorf("gemini stream error: %w", err)}:
				case <-ctx.Done():
				}
				return
			}
			if text := resp.Text(); text != "" {
				select {
				case chunks <- llm.StreamChunk{Delta: text}:
				case <-ctx.Done():
					return
				}
			}
		}
		select {
		case chunks <- llm.StreamChunk{Done: true}:
		case <-ctx.Done():
		}
	}()

	return chunks, nil
}
