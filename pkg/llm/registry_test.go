package llm

import "testing"

func TestOllamaIsTheOnlyKeylessProvider(t *testing.T) {
	for _, name := range Supported() {
		def, ok := Lookup(name)
		if !ok {
			t.Fatalf("Supported() lists %q but Lookup misses it", name)
		}
		if def.Keyless != (name == ProviderOllama) {
			t.Errorf("provider %q keyless = %v", name, def.Keyless)
		}
	}
}

func TestEveryProviderHasDefaultBaseURLAndModels(t *testing.T) {
	for _, name := range Supported() {
		def, _ := Lookup(name)
		if def.DefaultBaseURL == "" {
			t.Errorf("provider %q has no default base url", name)
		}
		if len(def.Models) == 0 {
			t.Errorf("provider %q has no builtin models", name)
		}
	}
}

func TestUnknownProvider(t *testing.T) {
	if IsSupported("huggingface") {
		t.Error("huggingface should not be in the registry")
	}
	if _, ok := Lookup(""); ok {
		t.Error("empty name should not resolve")
	}
}
