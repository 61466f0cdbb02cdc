// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the journal to LLM clients via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/folio/internal/journal"
)

// DocumentURI is the resource exposing the whole journal document.
const DocumentURI = "journal://document"

// Server wraps the MCP server with journal tools. Tool calls are serialised
// because the navigator is not safe for concurrent use.
type Server struct {
	mcp    *server.MCPServer
	logger *slog.Logger

	mu  sync.Mutex
	nav *journal.Navigator
}

// New creates a new MCP server with all journal tools registered.
func New(nav *journal.Navigator, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{nav: nav, logger: logger}

	s.mcp = server.NewMCPServer(
		"Folio Journal",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("read_page",
		mcp.WithDescription("Read a journal page. Without arguments returns the page under the cursor."),
		mcp.WithNumber("chapter", mcp.Description("Chapter id (defaults to the current chapter)")),
		mcp.WithNumber("page", mcp.Description("Page id within the chapter (defaults to the current page)")),
	), s.readPage)

	s.mcp.AddTool(mcp.NewTool("write_page",
		mcp.WithDescription("Replace the markdown content of the current page. The journal is saved immediately."),
		mcp.WithString("content", mcp.Required(), mcp.Description("New markdown content")),
	), s.writePage)

	s.mcp.AddTool(mcp.NewTool("next_page",
		mcp.WithDescription("Move to the next page, crossing into the next chapter at the end of a chapter."),
	), s.nextPage)

	s.mcp.AddTool(mcp.NewTool("previous_page",
		mcp.WithDescription("Move to the previous page, crossing into the previous chapter at the start of a chapter."),
	), s.previousPage)

	s.mcp.AddTool(mcp.NewTool("new_page",
		mcp.WithDescription("Append an empty page to the current chapter and move to it."),
	), s.newPage)

	s.mcp.AddTool(mcp.NewTool("new_chapter",
		mcp.WithDescription("Append a new chapter with one empty page and move to it."),
	), s.newChapter)

	s.mcp.AddTool(mcp.NewTool("select_chapter",
		mcp.WithDescription("Jump to the first page of a chapter."),
		mcp.WithNumber("chapter", mcp.Required(), mcp.Description("Chapter id")),
	), s.selectChapter)

	s.mcp.AddTool(mcp.NewTool("list_chapters",
		mcp.WithDescription("List chapters with their page counts and the current position."),
	), s.listChapters)

	s.mcp.AddTool(mcp.NewTool("insert_image",
		mcp.WithDescription("Embed an image in the current page as a base64 data URI. "+
			"The source may be a local file path, a data URI or an http(s) URL."),
		mcp.WithString("source", mcp.Required(), mcp.Description("File path, data URI or URL of the image")),
		mcp.WithString("name", mcp.Description("Alt text and file name (derived from the source when empty)")),
		mcp.WithNumber("start", mcp.Description("Selection start in characters (defaults to the end of the page)")),
		mcp.WithNumber("end", mcp.Description("Selection end in characters (defaults to start)")),
	), s.insertImage)

	s.mcp.AddTool(mcp.NewTool("summarize_chapter",
		mcp.WithDescription("Summarise the current chapter."),
	), s.summarizeChapter)

	s.mcp.AddResource(
		mcp.NewResource(DocumentURI, "Journal Document",
			mcp.WithResourceDescription("The whole journal as stored: chapters with their pages."),
			mcp.WithMIMEType("application/json"),
		),
		s.readDocumentResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// pageView is the JSON shape returned by page tools.
type pageView struct {
	Chapter int    `json:"chapter"`
	Page    int    `json:"page"`
	Title   string `json:"title"`
	Pages   int    `json:"pages"`
	Content string `json:"content"`
	Moved   *bool  `json:"moved,omitempty"`
	Cursor  *int   `json:"cursor,omitempty"`
}

func (s *Server) current() pageView {
	c, e := s.nav.Current()
	return pageView{Chapter: c.ID, Page: e.ID, Title: c.Title, Pages: len(c.Entries), Content: e.Content}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readPage(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.current()
	chapterID := req.GetInt("chapter", cur.Chapter)
	c, ok := s.nav.Store().Chapter(chapterID)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("chapter not found: %d", chapterID)), nil
	}
	pageID := c.Entries[0].ID
	if chapterID == cur.Chapter {
		pageID = cur.Page
	}
	pageID = req.GetInt("page", pageID)
	for _, e := range c.Entries {
		if e.ID == pageID {
			return jsonResult(pageView{Chapter: c.ID, Page: e.ID, Title: c.Title, Pages: len(c.Entries), Content: e.Content})
		}
	}
	return mcp.NewToolResultError(fmt.Sprintf("page not found: chapter %d page %d", chapterID, pageID)), nil
}

func (s *Server) writePage(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.nav.Edit(content); err != nil {
		s.logger.Error("mcp: write page", slog.String("error", err.Error()))
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.current())
}

func (s *Server) move(step func() bool) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	moved := step()
	v := s.current()
	v.Moved = &moved
	return jsonResult(v)
}

func (s *Server) nextPage(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.move(s.nav.NextPage)
}

func (s *Server) previousPage(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.move(s.nav.PreviousPage)
}

func (s *Server) create(add func() error) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := add(); err != nil {
		s.logger.Error("mcp: save", slog.String("error", err.Error()))
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.current())
}

func (s *Server) newPage(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.create(s.nav.NewPage)
}

func (s *Server) newChapter(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.create(s.nav.NewChapter)
}

func (s *Server) selectChapter(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("chapter")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.nav.SelectChapter(id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.current())
}

type chapterInfo struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Pages int    `json:"pages"`
}

func (s *Server) listChapters(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.nav.Store().Document()
	chapters := make([]chapterInfo, 0, len(doc.Chapters))
	for _, c := range doc.Chapters {
		chapters = append(chapters, chapterInfo{ID: c.ID, Title: c.Title, Pages: len(c.Entries)})
	}
	chapterID, pageID := s.nav.Position()
	return jsonResult(map[string]any{
		"chapters":        chapters,
		"current_chapter": chapterID,
		"current_page":    pageID,
	})
}

func (s *Server) insertImage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source, err := req.RequireString("source")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	img, err := loadImage(ctx, source, req.GetString("name", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	length := len([]rune(s.nav.Content()))
	start := req.GetInt("start", length)
	end := req.GetInt("end", start)

	cursor, err := s.nav.InsertImage(img, start, end)
	if err != nil {
		s.logger.Error("mcp: insert image", slog.String("name", img.Name), slog.String("error", err.Error()))
		return mcp.NewToolResultError(err.Error()), nil
	}
	v := s.current()
	v.Cursor = &cursor
	return jsonResult(v)
}

func (s *Server) summarizeChapter(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return mcp.NewToolResultText(s.nav.Summary()), nil
}

func (s *Server) readDocumentResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	s.mu.Lock()
	data, err := s.nav.Store().Document().Encode()
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("encode journal document: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      DocumentURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
