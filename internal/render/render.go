// Package render turns journal markdown into sanitised HTML.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/starford/folio/internal/journal"
)

// Renderer converts markdown to HTML. Raw HTML in the source is dropped by
// the sanitiser; embedded data-URI images are kept.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// New creates a Renderer with GitHub-flavoured markdown.
func New() *Renderer {
	policy := bluemonday.UGCPolicy()
	policy.AllowDataURIImages()
	return &Renderer{
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy: policy,
	}
}

// Markdown renders a single markdown source.
func (r *Renderer) Markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render: convert: %w", err)
	}
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes())), nil //nolint:gosec // sanitised above
}

type pageView struct {
	ChapterID int
	ID        int
	HTML      template.HTML
}

type chapterView struct {
	ID    int
	Title string
	Pages []pageView
}

var documentTmpl = template.Must(template.New("journal").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<h1>{{.Title}}</h1>
{{range .Chapters}}<section id="chapter-{{.ID}}">
<h2>{{.Title}}</h2>
{{range .Pages}}<article id="chapter-{{.ChapterID}}-page-{{.ID}}" class="page">
{{.HTML}}
</article>
{{end}}</section>
{{end}}</body>
</html>
`))

// Document writes the whole journal as a standalone HTML page.
func (r *Renderer) Document(w io.Writer, title string, doc *journal.Document) error {
	view := struct {
		Title    string
		Chapters []chapterView
	}{Title: title}

	for _, c := range doc.Chapters {
		cv := chapterView{ID: c.ID, Title: c.Title}
		for _, e := range c.Entries {
			h, err := r.Markdown(e.Content)
			if err != nil {
				return fmt.Errorf("render: chapter %d page %d: %w", c.ID, e.ID, err)
			}
			cv.Pages = append(cv.Pages, pageView{ChapterID: c.ID, ID: e.ID, HTML: h})
		}
		view.Chapters = append(view.Chapters, cv)
	}

	if err := documentTmpl.Execute(w, view); err != nil {
		return fmt.Errorf("render: document: %w", err)
	}
	return nil
}
