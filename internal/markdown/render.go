package markdown

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// nodeRenderer overrides headings, code and raw HTML. Every other node
// falls through to goldmark's HTML renderer.
type nodeRenderer struct {
	unsafe      bool
	highlighter Highlighter
}

func newNodeRenderer(opts Options) renderer.NodeRenderer {
	return &nodeRenderer{unsafe: opts.Unsafe, highlighter: opts.Highlighter}
}

func (r *nodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindHeading, r.renderHeading)
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCode)
	reg.Register(ast.KindCodeBlock, r.renderCodeBlock)
	reg.Register(ast.KindHTMLBlock, r.renderHTMLBlock)
	reg.Register(ast.KindRawHTML, r.renderRawHTML)
}

func (r *nodeRenderer) renderHeading(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Heading)
	if entering {
		slug := template.HTMLEscapeString(Slug(plainText(n, source)))
		_, _ = fmt.Fprintf(w, `<a class="anchor" id="%s" href="#%s"></a><h%d>`, slug, slug, n.Level)
		return ast.WalkContinue, nil
	}
	_, _ = fmt.Fprintf(w, "</h%d>\n", n.Level)
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderFencedCode(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)
	code := linesOf(n, source)
	if lang := string(n.Language(source)); lang != "" && r.highlighter != nil {
		var buf bytes.Buffer
		if err := r.highlighter.Highlight(&buf, string(code), lang); err == nil {
			_, _ = w.Write(buf.Bytes())
			return ast.WalkSkipChildren, nil
		}
	}
	writePlainCode(w, code)
	return ast.WalkSkipChildren, nil
}

func (r *nodeRenderer) renderCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		writePlainCode(w, linesOf(node, source))
	}
	return ast.WalkSkipChildren, nil
}

func (r *nodeRenderer) renderHTMLBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.HTMLBlock)
	if entering {
		r.writeRaw(w, linesOf(n, source))
	} else if n.HasClosure() {
		r.writeRaw(w, n.ClosureLine.Value(source))
	}
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderRawHTML(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkSkipChildren, nil
	}
	n := node.(*ast.RawHTML)
	for i := 0; i < n.Segments.Len(); i++ {
		seg := n.Segments.At(i)
		r.writeRaw(w, seg.Value(source))
	}
	return ast.WalkSkipChildren, nil
}

func (r *nodeRenderer) writeRaw(w util.BufWriter, b []byte) {
	if r.unsafe {
		_, _ = w.Write(b)
		return
	}
	_, _ = w.Write(util.EscapeHTML(b))
}

func writePlainCode(w util.BufWriter, code []byte) {
	_, _ = w.WriteString("<pre><code>")
	_, _ = w.Write(util.EscapeHTML(code))
	_, _ = w.WriteString("</code></pre>\n")
}

func linesOf(n ast.Node, source []byte) []byte {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.Bytes()
}

// plainText concatenates the literal text below n.
func plainText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		case *ast.CodeSpan:
			for ch := t.FirstChild(); ch != nil; ch = ch.NextSibling() {
				if txt, ok := ch.(*ast.Text); ok {
					buf.Write(txt.Segment.Value(source))
				}
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}
