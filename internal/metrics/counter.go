// Package metrics provides byte and token accounting for the flattened
// output, reported as a summary at the end of a run.
package metrics

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// Counter counts bytes and tokens in a piece of text.
type Counter interface {
	Count(text string) (bytes, tokens int)
}

// SimpleCounter estimates tokens as bytes/4, the rough average for English
// text. It needs no model data and is the default.
type SimpleCounter struct{}

func (SimpleCounter) Count(text string) (int, int) {
	return len(text), len(text) / 4
}

// TiktokenCounter counts tokens with a real tokenizer for a specific model.
type TiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

// NewTiktokenCounter creates a TiktokenCounter for the given model.
func NewTiktokenCounter(model string) (*TiktokenCounter, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("unsupported model for tiktoken: %s", model)
	}
	return &TiktokenCounter{enc: enc}, nil
}

func (c *TiktokenCounter) Count(text string) (int, int) {
	return len(text), len(c.enc.Encode(text, nil, nil))
}

// Totals accumulates per-block counts as blocks stream through the pipeline.
// Accumulation is inline and sequential, matching the pipeline's one-file-at-
// a-time discipline.
type Totals struct {
	ctr Counter

	Files  int
	Bytes  int
	Tokens int
}

// NewTotals creates a Totals backed by the given counter.
func NewTotals(ctr Counter) *Totals {
	return &Totals{ctr: ctr}
}

// Add counts one block's text into the running totals.
func (t *Totals) Add(text string) {
	b, tok := t.ctr.Count(text)
	t.Files++
	t.Bytes += b
	t.Tokens += tok
}
