package chunk

import (
	"fmt"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/data"
)

// SentenceSplitter breaks a block of text into sentences. It backs the
// "sentence break" tier of the chunker's paragraph > sentence > whitespace
// > hard-cut tie-break (spec.md §4.1).
type SentenceSplitter interface {
	Sentences(text string) []string
}

// NeurosnapSplitter detects sentence boundaries using neurosnap/sentences'
// Punkt-style tokenizer, trained on its bundled English data.
type NeurosnapSplitter struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

// NewNeurosnapSplitter loads the bundled English training data and builds a
// ready-to-use sentence splitter.
func NewNeurosnapSplitter() (*NeurosnapSplitter, error) {
	b, err := data.Asset("english.json")
	if err != nil {
		return nil, fmt.Errorf("failed to load sentence training data: %w", err)
	}
	training, err := sentences.LoadTraining(b)
	if err != nil {
		return nil, fmt.Errorf("failed to parse sentence training data: %w", err)
	}
	return &NeurosnapSplitter{tokenizer: sentences.NewSentenceTokenizer(training)}, nil
}

func (n *NeurosnapSplitter) Sentences(text string) []string {
	sents := n.tokenizer.Tokenize(text)
	out := make([]string, len(sents))
	for i, sent := range sents {
		out[i] = sent.Text
	}
	return out
}
