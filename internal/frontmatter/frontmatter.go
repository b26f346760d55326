// Package frontmatter separates the YAML header of a content file from its
// markdown body.
//
// A document must open with a line consisting of exactly "---" and the
// header ends at the next such line. Both LF and CRLF line endings are
// accepted.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

var (
	// ErrMalformedDocument is returned for any document whose header cannot
	// be isolated or decoded.
	ErrMalformedDocument = errors.New("malformed document")
	// ErrMissingOpeningDelimiter means the first line is not "---".
	ErrMissingOpeningDelimiter = fmt.Errorf("%w: front matter must start with %q on the first line", ErrMalformedDocument, delimiter)
	// ErrMissingClosingDelimiter means the header was never closed.
	ErrMissingClosingDelimiter = fmt.Errorf("%w: closing %q delimiter not found", ErrMalformedDocument, delimiter)
)

// Block is a document split at its header delimiters.
type Block struct {
	// YAML is the text strictly between the two delimiter lines.
	YAML []byte
	// Body is everything after the closing delimiter line.
	Body []byte
	// Newline is the line ending of the opening delimiter.
	Newline string
	// CloseNewline is the line ending of the closing delimiter; empty when
	// the file ends right after it.
	CloseNewline string
}

type scanState int

const (
	outsideHeader scanState = iota
	insideHeader
)

// Split scans content line by line. It never backtracks, so malformed input
// costs a single pass.
func Split(content []byte) (Block, error) {
	var (
		state     = outsideHeader
		pos       int
		yamlStart int
		block     Block
	)
	for pos < len(content) || state == outsideHeader {
		line, ending, next := nextLine(content, pos)
		switch state {
		case outsideHeader:
			if !isDelimiter(line) {
				return Block{}, ErrMissingOpeningDelimiter
			}
			block.Newline = ending
			yamlStart = next
			state = insideHeader
		case insideHeader:
			if isDelimiter(line) {
				block.YAML = content[yamlStart:pos]
				block.Body = content[next:]
				block.CloseNewline = ending
				return block, nil
			}
		}
		if next == pos {
			break
		}
		pos = next
	}
	return Block{}, ErrMissingClosingDelimiter
}

// nextLine returns the line starting at pos without its ending, the ending
// itself and the offset of the following line.
func nextLine(content []byte, pos int) (line []byte, ending string, next int) {
	rest := content[pos:]
	idx := bytes.IndexByte(rest, '\n')
	if idx < 0 {
		return rest, "", len(content)
	}
	line = rest[:idx]
	ending = "\n"
	if len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
		ending = "\r\n"
	}
	return line, ending, pos + idx + 1
}

func isDelimiter(line []byte) bool {
	return string(line) == delimiter
}

// Join reassembles a block. Join(Split(x)) reproduces x byte for byte.
func Join(b Block) []byte {
	nl := b.Newline
	if nl == "" {
		nl = "\n"
	}
	out := make([]byte, 0, 2*len(delimiter)+len(nl)+len(b.CloseNewline)+len(b.YAML)+len(b.Body))
	out = append(out, delimiter...)
	out = append(out, nl...)
	out = append(out, b.YAML...)
	out = append(out, delimiter...)
	out = append(out, b.CloseNewline...)
	out = append(out, b.Body...)
	return out
}

// Header returns the delimited header block as it appears in the file.
func (b Block) Header() []byte {
	return Join(Block{YAML: b.YAML, Newline: b.Newline, CloseNewline: b.CloseNewline})
}

// ParseYAML parses the header payload into a map. A payload that is not a
// mapping is malformed.
func ParseYAML(payload []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return map[string]any{}, nil
	}
	var fields map[string]any
	if err := yaml.Unmarshal(payload, &fields); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}
