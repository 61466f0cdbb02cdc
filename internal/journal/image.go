package journal

import (
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/folio/internal/apperr"
)

// Image is a locally selected picture to embed in a page.
type Image struct {
	Name     string
	MIMEType string
	Data     []byte
}

// LoadImage reads the file at path.
func LoadImage(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("journal: read image: %w", err)
	}
	return NewImage(filepath.Base(path), data)
}

// NewImage detects the MIME type of data from the name's extension, falling
// back to content sniffing. Non-image types are rejected.
func NewImage(name string, data []byte) (*Image, error) {
	mt := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if mt == "" {
		mt = http.DetectContentType(data)
	}
	mt = strings.TrimSpace(strings.Split(mt, ";")[0])
	if !strings.HasPrefix(mt, "image/") {
		return nil, fmt.Errorf("journal: %s is %s: %w", name, mt, apperr.ErrUnsupportedImage)
	}
	return &Image{Name: name, MIMEType: mt, Data: data}, nil
}

// DataURI encodes the image as a base64 data URI.
func (img *Image) DataURI() string {
	return "data:" + img.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

// Markdown returns the image reference inserted into a page, followed by a
// blank line.
func (img *Image) Markdown() string {
	return fmt.Sprintf("![%s](%s)\n\n", img.Name, img.DataURI())
}

// InsertText replaces the rune range [start, end) of content with text.
// Offsets are clamped to the content and swapped if reversed. It returns the
// new content and the rune offset just after the inserted text.
func InsertText(content string, start, end int, text string) (string, int) {
	runes := []rune(content)
	start = clamp(start, 0, len(runes))
	end = clamp(end, 0, len(runes))
	if end < start {
		start, end = end, start
	}
	out := string(runes[:start]) + text + string(runes[end:])
	return out, start + len([]rune(text))
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
