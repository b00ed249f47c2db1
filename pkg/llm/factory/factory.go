package factory

import (
	"fmt"

	"ai-chat-be/pkg/llm"
	"ai-chat-be/pkg/llm/anthropic"
	"ai-chat-be/pkg/llm/google"
	"ai-chat-be/pkg/llm/ollama"
	"ai-chat-be/pkg/llm/openaicompat"
)

// New constructs the adapter for a registry provider. openai, grok and
// deepseek share the OpenAI wire format and differ only in ClientConfig.
func New(providerName string, cfg llm.ClientConfig) (llm.StreamingProvider, error) {
	switch providerName {
	case llm.ProviderOpenAI, llm.ProviderGrok, llm.ProviderDeepSeek:
		return openaicompat.New(cfg), nil
	case llm.ProviderAnthropic:
		return anthropic.New(cfg), nil
	case llm.ProviderGoogle:
		return google.New(cfg), nil
	case llm.ProviderOllama:
		return ollama.New(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", providerName)
	}
}
