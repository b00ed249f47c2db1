package llm

// Definition describes one entry of the fixed provider registry. The set is
// closed and known at build time; nothing mutates it at runtime.
type Definition struct {
	Name           string
	Keyless        bool
	DefaultBaseURL string
	Models         []string
}

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGoogle    = "google"
	ProviderGrok      = "grok"
	ProviderDeepSeek  = "deepseek"
	ProviderOllama    = "ollama"
)

var registry = map[string]Definition{
	ProviderOpenAI: {
		Name:           ProviderOpenAI,
		DefaultBaseURL: "https://api.openai.com/v1",
		Models:         []string{"gpt-4o", "gpt-4o-mini", "gpt-4-turbo", "o1-mini"},
	},
	ProviderAnthropic: {
		Name:           ProviderAnthropic,
		DefaultBaseURL: "https://api.anthropic.com",
		Models:         []string{"claude-sonnet-4-20250514", "claude-3-5-sonnet-20241022", "claude-3-5-haiku-20241022"},
	},
	ProviderGoogle: {
		Name:           ProviderGoogle,
		DefaultBaseURL: "https://generativelanguage.googleapis.com",
		Models:         []string{"gemini-2.0-flash", "gemini-1.5-pro", "gemini-1.5-flash"},
	},
	ProviderGrok: {
		Name:           ProviderGrok,
		DefaultBaseURL: "https://api.x.ai/v1",
		Models:         []string{"grok-2-latest", "grok-beta"},
	},
	ProviderDeepSeek: {
		Name:           ProviderDeepSeek,
		DefaultBaseURL: "https://api.deepseek.com/v1",
		Models:         []string{"deepseek-chat", "deepseek-reasoner"},
	},
	ProviderOllama: {
		Name:           ProviderOllama,
		Keyless:        true,
		DefaultBaseURL: "http://localhost:11434",
		Models:         []string{"llama3", "qwen2.5", "mistral"},
	},
}

// Lookup returns the registry entry for name.
func Lookup(name string) (Definition, bool) {
	def, ok := registry[name]
	return def, ok
}

// IsSupported reports whether name is in the provider set.
func IsSupported(name string) bool {
	_, ok := registry[name]
	return ok
}

// Supported returns the provider names in a stable order.
func Supported() []string {
	return []string{
		ProviderOpenAI,
		ProviderAnthropic,
		ProviderGoogle,
		ProviderGrok,
		ProviderDeepSeek,
		ProviderOllama,
	}
}
