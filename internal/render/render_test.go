package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/starford/folio/internal/journal"
)

func TestMarkdown_Basic(t *testing.T) {
	r := New()
	out, err := r.Markdown("# Day one\n\nIt was **fine**.")
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, "<h1") || !strings.Contains(s, "<strong>fine</strong>") {
		t.Errorf("unexpected html: %s", s)
	}
}

func TestMarkdown_KeepsDataURIImages(t *testing.T) {
	img, err := journal.NewImage("dot.gif", []byte("GIF89a\x01\x00\x01\x00"))
	if err != nil {
		t.Fatal(err)
	}
	out, err := New().Markdown(img.Markdown())
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	if !strings.Contains(string(out), `src="data:image/gif;base64,`) {
		t.Errorf("data uri image dropped: %s", out)
	}
	if !strings.Contains(string(out), `alt="dot.gif"`) {
		t.Errorf("alt text missing: %s", out)
	}
}

func TestMarkdown_StripsScripts(t *testing.T) {
	out, err := New().Markdown("hi <script>alert(1)</script> [x](javascript:alert(1))")
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	if strings.Contains(string(out), "<script") || strings.Contains(string(out), "javascript:") {
		t.Errorf("unsafe content kept: %s", out)
	}
}

func TestDocument(t *testing.T) {
	doc := journal.NewDocument()
	doc.Chapters[0].Entries[0].Content = "first page"
	doc.Chapters = append(doc.Chapters, journal.Chapter{
		ID:      2,
		Title:   "Chapter 2",
		Entries: []journal.Entry{{ID: 1, Content: "a"}, {ID: 2, Content: "b"}},
	})

	var buf bytes.Buffer
	if err := New().Document(&buf, "My <Journal>", doc); err != nil {
		t.Fatalf("Document: %v", err)
	}
	s := buf.String()
	for _, want := range []string{
		"<title>My &lt;Journal&gt;</title>",
		`<section id="chapter-2">`,
		`id="chapter-2-page-2"`,
		"<p>first page</p>",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("missing %q in:\n%s", want, s)
		}
	}
}
