package markdown

import (
	"errors"
	"fmt"
	"io"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// ErrUnsupportedLanguage is returned when no lexer exists for a code block's
// language. Renderers fall back to plain escaped code.
var ErrUnsupportedLanguage = errors.New("unsupported highlight language")

// Highlighter writes highlighted HTML for code in lang.
type Highlighter interface {
	Highlight(w io.Writer, code, lang string) error
}

// ChromaHighlighter highlights with inline styles so pages need no extra CSS.
type ChromaHighlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// NewChromaHighlighter uses the named style, or chroma's fallback style when
// the name is unknown.
func NewChromaHighlighter(styleName string) *ChromaHighlighter {
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}
	return &ChromaHighlighter{
		style:     style,
		formatter: chromahtml.New(chromahtml.TabWidth(2)),
	}
}

// Highlight implements Highlighter.
func (h *ChromaHighlighter) Highlight(w io.Writer, code, lang string) error {
	lexer := lexers.Get(lang)
	if lexer == nil {
		return fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
	}
	it, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return err
	}
	return h.formatter.Format(w, h.style, it)
}
