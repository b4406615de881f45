// Package markdown renders content pages stored as markdown with YAML front
// matter into minified HTML fragments.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// Page is a rendered document.
type Page struct {
	Meta map[string]any
	HTML []byte
}

// Title returns the front matter title, or fallback.
func (p *Page) Title(fallback string) string {
	return p.metaString("title", fallback)
}

// Updated returns the front matter "updated" value, or "".
func (p *Page) Updated() string {
	return p.metaString("updated", "")
}

func (p *Page) metaString(key, fallback string) string {
	v, ok := p.Meta[key]
	if !ok || v == nil {
		return fallback
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

type Renderer struct {
	md       goldmark.Markdown
	minifier *minify.M
}

func New() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
			meta.Meta,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)

	m := minify.New()
	m.AddFunc("text/html", html.Minify)

	return &Renderer{md: md, minifier: m}
}

// Render converts src and strips insignificant whitespace from the output.
// Raw HTML in the source is escaped.
func (r *Renderer) Render(src []byte) (*Page, error) {
	ctx := parser.NewContext()

	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf, parser.WithContext(ctx)); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}

	minified, err := r.minifier.Bytes("text/html", buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("minify html: %w", err)
	}

	metaData, err := meta.TryGet(ctx)
	if err != nil {
		return nil, fmt.Errorf("front matter: %w", err)
	}
	if metaData == nil {
		metaData = map[string]any{}
	}

	return &Page{Meta: metaData, HTML: minified}, nil
}
