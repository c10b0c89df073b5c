// Package repocat flattens the textual contents of a source tree into a
// single output file. The input may be a local directory or a remote GitHub
// repository, which is shallow-cloned into a temporary directory first.
//
// The pipeline is strictly sequential and streaming: the gitignore-aware
// walker yields one file at a time, the selection rules decide whether it is
// kept, its content is normalized into a Block, and the block is written and
// flushed before the next file is visited. At most one file's content is
// resident in memory at any point.
package repocat

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/hayeah/repocat/ignore"
	"github.com/hayeah/repocat/internal/metrics"
	"github.com/hayeah/repocat/internal/selection"
)

// Sentinel errors for the failure classes of a run. Callers match them with
// errors.Is; every occurrence is wrapped with the file or phase it came from.
var (
	// ErrConfig indicates malformed configuration input: bad glob syntax or
	// an unparsable config file.
	ErrConfig = errors.New("invalid configuration")

	// ErrAcquire indicates the input could not be resolved into a local root
	// directory: a missing or unreadable local path, or both remote fetch
	// strategies failing.
	ErrAcquire = errors.New("source acquisition failed")

	// ErrDecode indicates file content that is not valid UTF-8.
	ErrDecode = errors.New("invalid text encoding")
)

// Flattener streams selected files from a root directory into one output file.
type Flattener struct {
	Rules  *selection.Rules
	Totals *metrics.Totals
	Logger *zap.Logger
}

// NewFlattener creates a Flattener. The logger must not be nil; pass
// zap.NewNop() to discard progress output explicitly.
func NewFlattener(rules *selection.Rules, counter metrics.Counter, logger *zap.Logger) *Flattener {
	return &Flattener{
		Rules:  rules,
		Totals: metrics.NewTotals(counter),
		Logger: logger,
	}
}

// Flatten walks root and writes one block per selected file to outPath, in
// traversal order. The output file is created (truncating any existing
// content) before the walk begins. The first error aborts the run; a failure
// after writing has begun leaves the truncated output file in place.
func (f *Flattener) Flatten(root, outPath string) (*metrics.Totals, error) {
	walker, err := ignore.NewWalker(root)
	if err != nil {
		return nil, err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %s: %w", outPath, err)
	}
	defer out.Close()

	w := bufio.NewWriter(out)

	err = walker.Files(func(rel string) error {
		if !f.Rules.Match(rel) {
			return nil
		}
		return f.writeFile(w, root, rel)
	})
	if err != nil {
		return nil, err
	}

	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("failed to write output file %s: %w", outPath, err)
	}
	if err := out.Close(); err != nil {
		return nil, fmt.Errorf("failed to close output file %s: %w", outPath, err)
	}
	return f.Totals, nil
}

// writeFile normalizes one selected file and appends its block to w. The
// buffer is flushed per file so the output is current when a later file
// fails the run.
func (f *Flattener) writeFile(w *bufio.Writer, root, rel string) error {
	content, err := os.ReadFile(filepath.Join(root, rel))
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", rel, err)
	}

	block, err := NewBlock(rel, content)
	if err != nil {
		return err
	}

	text := block.String()
	if _, err := w.WriteString(text); err != nil {
		return fmt.Errorf("failed to write block for %s: %w", rel, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write block for %s: %w", rel, err)
	}

	f.Totals.Add(text)
	f.Logger.Info("flattened file", zap.String("path", rel))
	return nil
}
