package frontmatter

import "time"

// Parsed is a document after header extraction.
type Parsed struct {
	Fields map[string]any
	Body   []byte
	Block  Block
}

// Parser splits documents and evaluates header substitutions.
type Parser struct {
	// Now is the clock used by substitutions. Defaults to time.Now.
	Now func() time.Time

	// Strict rejects any {{ ... }} expression that is not a known call.
	// Builds leave such text alone; archetypes are strict.
	Strict bool
}

// Parse splits content, applies the first substitution in the header and
// decodes the YAML.
func (p Parser) Parse(content []byte) (*Parsed, error) {
	block, err := Split(content)
	if err != nil {
		return nil, err
	}
	header := block.YAML
	if p.Strict {
		header, _, err = Substitute(header, p.now())
		if err != nil {
			return nil, err
		}
	} else {
		header, _ = SubstituteKnown(header, p.now())
	}
	fields, err := ParseYAML(header)
	if err != nil {
		return nil, err
	}
	return &Parsed{Fields: fields, Body: block.Body, Block: block}, nil
}

func (p Parser) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}
