package chunk

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// Tokenizer measures and truncates text in the same units the embedding
// provider bills and limits by. The chunker never advances past a raw
// whitespace split without going through this interface, so chunk bounds
// (spec.md I3) are enforced against real tokens, not words.
type Tokenizer interface {
	// Count returns the number of tokens text encodes to.
	Count(text string) int
	// Truncate returns the longest prefix of text whose token count is
	// <= maxTokens, without splitting a token.
	Truncate(text string, maxTokens int) string
	// TailTokens returns the trailing n tokens of text, decoded back to a
	// string. Used to seed chunk-to-chunk overlap (spec.md §4.1).
	TailTokens(text string, n int) string
}

// TikTokenTokenizer wraps tiktoken-go's BPE encoder, matching the
// provider's own tokenization so chunk bounds track real billing units.
type TikTokenTokenizer struct {
	enc *tiktoken.Tiktoken
}

// NewTikTokenTokenizer builds a tokenizer for the given chat/embedding
// model name, falling back to cl100k_base when the model isn't recognized.
func NewTikTokenTokenizer(model string) (*TikTokenTokenizer, error) {
	if model == "" {
		model = "gpt-4o-mini"
	}
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, fmt.Errorf("failed to load tokenizer encoding: %w", err)
		}
	}
	return &TikTokenTokenizer{enc: enc}, nil
}

func (t *TikTokenTokenizer) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(t.enc.Encode(text, nil, nil))
}

func (t *TikTokenTokenizer) Truncate(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}
	ids := t.enc.Encode(text, nil, nil)
	if len(ids) <= maxTokens {
		return text
	}
	return t.enc.Decode(ids[:maxTokens])
}

func (t *TikTokenTokenizer) TailTokens(text string, n int) string {
	if n <= 0 {
		return ""
	}
	ids := t.enc.Encode(text, nil, nil)
	if len(ids) <= n {
		return text
	}
	return t.enc.Decode(ids[len(ids)-n:])
}
