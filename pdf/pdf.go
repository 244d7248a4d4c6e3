// Package pdf defines the boundary between the RAG engine and the external
// PDF/OCR extractor (spec.md §6, §9 "PDF extraction and OCR" design note).
// The engine never parses PDF bytes itself; it accepts already-extracted
// pages through the Extractor interface.
package pdf

import "context"

// Table is a single extracted table block within a Page.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Page is one page of extracted PDF content: 1-based ordinal, prose text,
// and zero or more table blocks.
type Page struct {
	Number int
	Text   string
	Tables []Table
}

// Extractor turns raw PDF bytes into an ordered sequence of pages. It is
// implemented outside this module (a real extractor, OCR pipeline, etc.);
// the engine only depends on this interface.
type Extractor interface {
	Extract(ctx context.Context, data []byte) ([]Page, error)
}

// StaticExtractor returns a fixed, precomputed set of pages regardless of
// input. It exists for tests and examples that already have Page values in
// hand and don't want to depend on a real PDF parser.
type StaticExtractor struct {
	Pages []Page
}

func (s StaticExtractor) Extract(ctx context.Context, data []byte) ([]Page, error) {
	return s.Pages, nil
}
