// Package chunk turns extracted PDF pages into token-bounded, overlap-aware
// chunks (spec.md §4.1). It is the Go-native reworking of the teacher's
// textsplitter package, generalized from plain paragraph/sentence wrapping
// to the spec's page-aware, table-aware, metadata-tagged Chunk model.
package chunk

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aqua777/pdfrag/pdf"
)

// ContentType discriminates prose text from serialized table data.
type ContentType string

const (
	ContentProse ContentType = "prose"
	ContentTable ContentType = "table"
)

// Chunk is the fundamental retrievable unit (spec.md §3).
type Chunk struct {
	ID          string
	DocumentID  string
	PageNumber  int
	ChunkIndex  int
	ContentType ContentType
	Text        string
	TokenCount  int
}

// Config bounds chunk sizing (spec.md I3). Recommended floor/ceiling are
// 700/1200 tokens with 100-150 tokens of overlap between prose chunks.
// The chunker enforces MaxTokens and OverlapTokens only: it does not read
// MinTokens or TargetTokens, so a prose chunk anywhere on a page can come
// out shorter than MinTokens.
type Config struct {
	TargetTokens  int
	MinTokens     int
	MaxTokens     int
	OverlapTokens int
}

// Chunker splits page text/tables into Chunks.
type Chunker struct {
	tokenizer Tokenizer
	sentences SentenceSplitter
	cfg       Config
	logger    *slog.Logger
}

func New(tokenizer Tokenizer, sentenceSplitter SentenceSplitter, cfg Config, logger *slog.Logger) *Chunker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chunker{tokenizer: tokenizer, sentences: sentenceSplitter, cfg: cfg, logger: logger}
}

var paragraphSep = regexp.MustCompile(`\n\s*\n`)

// Chunk splits every page of the document into an ordered sequence of
// Chunks. Empty input yields zero chunks; a page with no extractable prose
// text contributes only its table chunks (if any) and logs a warning
// rather than aborting the whole document.
func (c *Chunker) Chunk(documentID string, pages []pdf.Page) []Chunk {
	var out []Chunk
	idx := 0
	for _, page := range pages {
		for _, t := range page.Tables {
			out = append(out, c.chunkTable(documentID, page.Number, &idx, t)...)
		}
		if strings.TrimSpace(page.Text) == "" {
			c.logger.Warn("page has no extractable text, skipping", "page", page.Number)
			continue
		}
		out = append(out, c.chunkProse(documentID, page.Number, &idx, page.Text)...)
	}
	return out
}

func (c *Chunker) chunkProse(documentID string, pageNumber int, idx *int, text string) []Chunk {
	var chunks []Chunk
	var buf []string

	emit := func() {
		if len(buf) == 0 {
			return
		}
		full := strings.TrimSpace(strings.Join(buf, " "))
		if full == "" {
			buf = nil
			return
		}
		tc := c.tokenizer.Count(full)
		chunks = append(chunks, Chunk{
			ID:          fmt.Sprintf("%s-%d", documentID, *idx),
			DocumentID:  documentID,
			PageNumber:  pageNumber,
			ChunkIndex:  *idx,
			ContentType: ContentProse,
			Text:        full,
			TokenCount:  tc,
		})
		*idx++

		overlap := strings.TrimSpace(c.tokenizer.TailTokens(full, c.cfg.OverlapTokens))
		if overlap == "" {
			buf = nil
		} else {
			buf = []string{overlap}
		}
	}

	var addUnit func(u string)
	addUnit = func(u string) {
		if strings.TrimSpace(u) == "" {
			return
		}
		trial := strings.TrimSpace(strings.Join(append(append([]string{}, buf...), u), " "))
		if len(buf) > 0 && c.tokenizer.Count(trial) > c.cfg.MaxTokens {
			emit()
			// emit() just re-seeded buf with overlap text; overlap+u can
			// still be oversized on its own (e.g. a near-MaxTokens unit
			// right after another), and deferring that check to the next
			// addUnit call would flush overlap+u verbatim as an
			// over-budget chunk. Drop the overlap rather than carry a
			// combination that doesn't fit (spec.md I3).
			trial = strings.TrimSpace(strings.Join(append(append([]string{}, buf...), u), " "))
			if len(buf) > 0 && c.tokenizer.Count(trial) > c.cfg.MaxTokens {
				buf = nil
			}
		}
		buf = append(buf, u)
		if len(buf) == 1 && c.tokenizer.Count(u) > c.cfg.MaxTokens {
			// A single atomic unit is still oversized (pathological input,
			// e.g. an unsplittable run of non-whitespace); hard-cut it on
			// token boundaries instead of emitting an over-budget chunk.
			buf = nil
			for _, piece := range c.hardCut(u) {
				addUnit(piece)
			}
		}
	}

	for _, p := range splitParagraphs(text) {
		for _, unit := range c.splitParagraphIntoUnits(p) {
			addUnit(unit)
		}
	}
	emit()
	return chunks
}

func (c *Chunker) splitParagraphIntoUnits(p string) []string {
	if c.tokenizer.Count(p) <= c.cfg.MaxTokens {
		return []string{p}
	}

	sents := c.sentences.Sentences(p)
	if len(sents) <= 1 {
		sents = []string{p}
	}

	var out []string
	for _, s := range sents {
		if c.tokenizer.Count(s) <= c.cfg.MaxTokens {
			out = append(out, s)
			continue
		}
		out = append(out, c.splitOversizedSentence(s)...)
	}
	return out
}

func (c *Chunker) splitOversizedSentence(s string) []string {
	words := strings.Fields(s)
	var out []string
	var batch []string
	for _, w := range words {
		if c.tokenizer.Count(w) > c.cfg.MaxTokens {
			if len(batch) > 0 {
				out = append(out, strings.Join(batch, " "))
				batch = nil
			}
			out = append(out, c.hardCut(w)...)
			continue
		}
		trial := strings.Join(append(batch, w), " ")
		if len(batch) > 0 && c.tokenizer.Count(trial) > c.cfg.MaxTokens {
			out = append(out, strings.Join(batch, " "))
			batch = nil
		}
		batch = append(batch, w)
	}
	if len(batch) > 0 {
		out = append(out, strings.Join(batch, " "))
	}
	return out
}

// hardCut is the last-resort "hard cut" tie-break: it never splits a token,
// only ever a run of text with nowhere else to break.
func (c *Chunker) hardCut(text string) []string {
	var out []string
	remaining := text
	for remaining != "" {
		piece := c.tokenizer.Truncate(remaining, c.cfg.MaxTokens)
		if piece == "" {
			break
		}
		out = append(out, piece)
		remaining = strings.TrimPrefix(remaining, piece)
	}
	return out
}

func splitParagraphs(text string) []string {
	parts := paragraphSep.Split(text, -1)
	var out []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

// chunkTable serializes a table block deterministically (header row + data
// rows, pipe-delimited, newline-separated) and keeps it whole when it fits
// within MaxTokens, otherwise splits it on row boundaries with the header
// repeated in every piece. Table chunks never carry cross-chunk overlap.
func (c *Chunker) chunkTable(documentID string, pageNumber int, idx *int, t pdf.Table) []Chunk {
	if len(t.Headers) == 0 && len(t.Rows) == 0 {
		return nil
	}

	serialize := func(rows [][]string) string {
		var sb strings.Builder
		sb.WriteString(strings.Join(t.Headers, " | "))
		for _, row := range rows {
			sb.WriteString("\n")
			sb.WriteString(strings.Join(row, " | "))
		}
		return sb.String()
	}

	newChunk := func(text string) Chunk {
		ch := Chunk{
			ID:          fmt.Sprintf("%s-%d", documentID, *idx),
			DocumentID:  documentID,
			PageNumber:  pageNumber,
			ChunkIndex:  *idx,
			ContentType: ContentTable,
			Text:        text,
			TokenCount:  c.tokenizer.Count(text),
		}
		*idx++
		return ch
	}

	full := serialize(t.Rows)
	if c.tokenizer.Count(full) <= c.cfg.MaxTokens {
		return []Chunk{newChunk(full)}
	}

	var chunks []Chunk
	var batch [][]string
	for _, row := range t.Rows {
		trial := serialize(append(append([][]string{}, batch...), row))
		if len(batch) > 0 && c.tokenizer.Count(trial) > c.cfg.MaxTokens {
			chunks = append(chunks, newChunk(serialize(batch)))
			batch = nil
		}
		batch = append(batch, row)
	}
	if len(batch) > 0 {
		chunks = append(chunks, newChunk(serialize(batch)))
	}
	return chunks
}
