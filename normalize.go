package repocat

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Block is one unit of output: a path header plus the normalized content of a
// single file. A block is produced per selected file and written immediately,
// never accumulated.
type Block struct {
	Path string
	Body string
}

// NewBlock reads content as strict UTF-8 text and normalizes it. Content that
// is not valid UTF-8 fails with ErrDecode.
func NewBlock(path string, content []byte) (Block, error) {
	if !utf8.Valid(content) {
		return Block{}, fmt.Errorf("failed to decode file %s: %w", path, ErrDecode)
	}
	return Block{Path: path, Body: Normalize(string(content))}, nil
}

// String encodes the block as it appears in the output file:
// "*** <path>\n<body>\n". The body may be empty, in which case the header is
// followed by a single blank line.
func (b Block) String() string {
	return "*** " + b.Path + "\n" + b.Body + "\n"
}

// Normalize collapses incidental whitespace noise: each line is right-trimmed,
// lines that are empty after trimming are dropped, and the survivors are
// rejoined with single newlines. Splitting on "\n" and right-trimming also
// strips "\r", so CRLF input normalizes the same as LF input.
//
// Normalize is idempotent: applying it to its own output is a no-op.
func Normalize(content string) string {
	var kept []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, " \t\r\f\v")
		if line == "" {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
