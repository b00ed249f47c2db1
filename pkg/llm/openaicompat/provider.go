// Package openaicompat streams chat completions from any OpenAI-compatible
// API (openai, grok, deepseek differ only in base URL and key).
package openaicompat

import (
	"context"
	"errors"
	"fmt"
	"io"

	"ai-chat-be/pkg/llm"

	openai "github.com/sashabaranov/go-openai"
)

type Provider struct {
	client *openai.Client
}

var _ llm.StreamingProvider = &Provider{}

func New(cfg llm.ClientConfig) *Provider {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &Provider{client: openai.NewClientWithConfig(clientConfig)}
}

func (p *Provider) Stream(ctx context.Context, model string, history []llm.Message, opts llm.Options) (<-chan llm.StreamChunk, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	if opts.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: opts.System,
		})
	}
	for _, msg := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	req := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   opts.MaxTokens,
		Temperature: float32(opts.Temperature),
		Stream:      true,
	}

	stream, err := p.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("open completion stream: %w", err)
	}

	chunks := make(chan llm.StreamChunk)
	go func() {
		defer close(chunks)
		defer stream.Close()

		for {
			response, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				select {
				case chunks <- llm.StreamChunk{Done: true}:
				case <-ctx.Done():
				}
				return
			}
			if err != nil {
				select {
				case chunks <- llm.StreamChunk{Err: fmt.Errorf("stream error: %w", err)}:
				case <-ctx.Done():
				}
				return
			}

			if len(response.Choices) > 0 {
				content := response.Choices[0].Delta.Content
				if content != "" {
					select {
					case chunks <- llm.StreamChunk{Delta: content}:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()

	return chunks, nil
}
