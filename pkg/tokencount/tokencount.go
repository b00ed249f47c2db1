// Package tokencount estimates token usage for a model+text pair. Counts are
// advisory (stored for accounting), so an approximate count is always
// preferred over failing the turn.
package tokencount

import (
	"strings"

	gocache "github.com/patrickmn/go-cache"
	"github.com/tiktoken-go/tokenizer"
)

type Counter interface {
	Count(model, text string) int
}

type tiktokenCounter struct {
	// Codec construction loads an embedded vocabulary, so built codecs are
	// kept for the process lifetime, keyed by encoding name.
	codecs *gocache.Cache
}

func NewCounter() Counter {
	return &tiktokenCounter{
		codecs: gocache.New(gocache.NoExpiration, gocache.NoExpiration),
	}
}

func (c *tiktokenCounter) Count(model, text string) int {
	if text == "" {
		return 0
	}

	codec, err := c.codecFor(model)
	if err != nil {
		return approximate(text)
	}

	n, err := codec.Count(text)
	if err != nil || n < 0 {
		return approximate(text)
	}
	return n
}

func (c *tiktokenCounter) codecFor(model string) (tokenizer.Codec, error) {
	enc := encodingFor(model)
	if cached, ok := c.codecs.Get(string(enc)); ok {
		return cached.(tokenizer.Codec), nil
	}

	codec, err := tokenizer.Get(enc)
	if err != nil {
		return nil, err
	}
	c.codecs.Set(string(enc), codec, gocache.NoExpiration)
	return codec, nil
}

// encodingFor maps a model family to its encoding. Unrecognized models fall
// back to cl100k_base.
func encodingFor(model string) tokenizer.Encoding {
	m := strings.ToLower(model)
	switch {
	case strings.HasPrefix(m, "gpt-4o"),
		strings.HasPrefix(m, "gpt-4.1"),
		strings.HasPrefix(m, "gpt-5"),
		strings.HasPrefix(m, "o1"),
		strings.HasPrefix(m, "o3"),
		strings.HasPrefix(m, "o4"):
		return tokenizer.O200kBase
	case strings.HasPrefix(m, "gpt-4"),
		strings.HasPrefix(m, "gpt-3.5"),
		strings.HasPrefix(m, "text-embedding"):
		return tokenizer.Cl100kBase
	default:
		return tokenizer.Cl100kBase
	}
}

// approximate is the last-resort estimate: ~4 characters per token, never
// zero for non-empty text.
func approximate(text string) int {
	n := (len(text) + 3) / 4
	if n < 1 {
		n = 1
	}
	return n
}
