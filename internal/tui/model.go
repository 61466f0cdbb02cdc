// Package tui is the terminal journal editor.
package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/runeutil"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/starford/folio/internal/journal"
)

type mode int

const (
	modeEdit mode = iota
	modePreview
	modeSelectChapter
	modeInsertImage
	modeSummary
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	// rows taken by the header, status and help lines
	chromeHeight = 4
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("212")).
			Padding(1, 2)
)

// Model is the bubbletea model for the journal editor. Every change to the
// text area is written through the navigator before the next key is handled.
type Model struct {
	nav    *journal.Navigator
	keys   KeyMap
	help   help.Model
	editor textarea.Model
	prompt textinput.Model
	// san mirrors the clean-up the text area applies to loaded text.
	san runeutil.Sanitizer
	now func() time.Time

	mode    mode
	preview string
	status  string
	failed  bool

	width  int
	height int
}

// New creates the editor positioned at the navigator's cursor.
func New(nav *journal.Navigator) Model {
	ta := textarea.New()
	ta.Placeholder = "Start writing…"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.Focus()

	ti := textinput.New()
	ti.CharLimit = 4096

	m := Model{
		nav:    nav,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		editor: ta,
		prompt: ti,
		san:    runeutil.NewSanitizer(),
		now:    time.Now,
		width:  defaultWidth,
		height: defaultHeight,
	}
	m.resize(defaultWidth, defaultHeight)
	m.loadPage()
	return m
}

// Run starts the editor on the terminal's alternate screen.
func Run(nav *journal.Navigator, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	_, err := tea.NewProgram(New(nav), opts...).Run()
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		if m.mode == modePreview {
			m.renderPreview()
		}
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		switch m.mode {
		case modeSelectChapter, modeInsertImage:
			return m.updatePrompt(msg)
		case modeSummary:
			if key.Matches(msg, m.keys.Cancel, m.keys.Confirm, m.keys.Summary) {
				m.mode = m.baseMode()
			}
			return m, nil
		}
		if handled, cmd := m.handleKey(msg); handled {
			return m, cmd
		}
		if m.mode == modePreview {
			return m, nil
		}
	}

	before := m.editor.Value()
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	if after := m.editor.Value(); after != before {
		m.recordSave(m.nav.Edit(m.splice(before, after)))
	}
	return m, cmd
}

// splice applies the editor change from before to after onto the stored page
// text. Tabs, carriage returns and control characters the text area rewrote
// on load stay as stored outside the edited range.
func (m *Model) splice(before, after string) string {
	raw := m.nav.Content()
	if raw == before {
		return after
	}
	rr := []rune(raw)
	// offs[i] is the editor offset where stored rune i starts.
	offs := make([]int, len(rr)+1)
	shown := make([]rune, 0, len(rr))
	for i, r := range rr {
		out := m.san.Sanitize([]rune{r})
		shown = append(shown, out...)
		offs[i+1] = offs[i] + len(out)
	}
	if string(shown) != before {
		return after
	}
	b, a := []rune(before), []rune(after)

	p := 0
	for p < len(b) && p < len(a) && b[p] == a[p] {
		p++
	}
	s := 0
	for s < len(b)-p && s < len(a)-p && b[len(b)-1-s] == a[len(a)-1-s] {
		s++
	}
	end := len(b) - s

	lo := 0
	for lo < len(rr) && offs[lo+1] <= p {
		lo++
	}
	hi := lo
	for hi < len(rr) && offs[hi] < end {
		hi++
	}
	return string(rr[:lo]) + string(a[offs[lo]:len(a)-(len(b)-offs[hi])]) + string(rr[hi:])
}

func (m *Model) handleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.NextPage):
		if m.nav.NextPage() {
			m.loadPage()
		}
	case key.Matches(msg, m.keys.PreviousPage):
		if m.nav.PreviousPage() {
			m.loadPage()
		}
	case key.Matches(msg, m.keys.NewPage):
		m.recordSave(m.nav.NewPage())
		m.loadPage()
	case key.Matches(msg, m.keys.NewChapter):
		m.recordSave(m.nav.NewChapter())
		m.loadPage()
	case key.Matches(msg, m.keys.Preview):
		m.togglePreview()
	case key.Matches(msg, m.keys.Cancel):
		if m.mode == modePreview {
			m.togglePreview()
		}
	case key.Matches(msg, m.keys.Summary):
		m.mode = modeSummary
	case key.Matches(msg, m.keys.SelectChapter):
		return true, m.openPrompt(modeSelectChapter, "chapter: ", m.chapterIDs())
	case key.Matches(msg, m.keys.InsertImage):
		if m.mode == modePreview {
			return true, nil
		}
		return true, m.openPrompt(modeInsertImage, "image: ", "path to image file")
	default:
		return false, nil
	}
	return true, nil
}

// chapterIDs lists the existing chapter ids, which need not be contiguous.
func (m *Model) chapterIDs() string {
	chapters := m.nav.Store().Document().Chapters
	ids := make([]string, 0, len(chapters))
	for _, c := range chapters {
		ids = append(ids, strconv.Itoa(c.ID))
	}
	return strings.Join(ids, ", ")
}

func (m *Model) openPrompt(md mode, label, placeholder string) tea.Cmd {
	m.mode = md
	m.editor.Blur()
	m.prompt.Prompt = label
	m.prompt.Placeholder = placeholder
	m.prompt.SetValue("")
	return m.prompt.Focus()
}

func (m *Model) closePrompt() tea.Cmd {
	m.prompt.Blur()
	m.mode = m.baseMode()
	if m.mode == modePreview {
		m.renderPreview()
		return nil
	}
	return m.editor.Focus()
}

// baseMode is the mode to return to when a prompt or overlay closes.
func (m *Model) baseMode() mode {
	if m.nav.Cursor().Preview {
		return modePreview
	}
	return modeEdit
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		return m, m.closePrompt()
	case key.Matches(msg, m.keys.Confirm):
		value := strings.TrimSpace(m.prompt.Value())
		if m.mode == modeSelectChapter {
			m.selectChapter(value)
		} else {
			m.insertImage(value)
		}
		return m, m.closePrompt()
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *Model) selectChapter(value string) {
	id, err := strconv.Atoi(value)
	if err != nil {
		m.setErr(fmt.Errorf("not a chapter number: %q", value))
		return
	}
	if err := m.nav.SelectChapter(id); err != nil {
		m.setErr(err)
		return
	}
	m.loadPage()
}

func (m *Model) insertImage(path string) {
	if path == "" {
		return
	}
	img, err := journal.LoadImage(path)
	if err != nil {
		m.setErr(err)
		return
	}
	before := m.editor.Value()
	m.editor.InsertString(img.Markdown())
	if err := m.nav.Edit(m.splice(before, m.editor.Value())); err != nil {
		m.setErr(err)
		return
	}
	m.recordSave(nil)
	m.status = "inserted " + img.Name + ", " + m.status
}

func (m *Model) togglePreview() {
	if m.nav.TogglePreview() {
		m.mode = modePreview
		m.editor.Blur()
		m.renderPreview()
		return
	}
	m.mode = modeEdit
	m.editor.Focus()
}

// loadPage copies the current page into the editor.
func (m *Model) loadPage() {
	m.editor.SetValue(m.nav.Content())
	if m.mode == modePreview {
		m.renderPreview()
	}
}

func (m *Model) renderPreview() {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(max(m.width-4, 20)),
	)
	if err != nil {
		m.preview = "preview unavailable: " + err.Error()
		return
	}
	out, err := r.Render(m.nav.Content())
	if err != nil {
		m.preview = "preview unavailable: " + err.Error()
		return
	}
	m.preview = out
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.editor.SetWidth(width)
	m.editor.SetHeight(max(height-chromeHeight, 1))
	m.prompt.Width = max(width-12, 10)
	m.help.Width = width
}

func (m *Model) setErr(err error) {
	if err != nil {
		m.status = err.Error()
		m.failed = true
		return
	}
	m.status = ""
	m.failed = false
}

// recordSave reports the outcome of a write in the status line.
func (m *Model) recordSave(err error) {
	if err != nil {
		m.setErr(err)
		return
	}
	m.failed = false
	m.status = "saved at " + m.now().Format(time.TimeOnly)
}

// View implements tea.Model.
func (m Model) View() string {
	var body string
	switch m.mode {
	case modePreview:
		body = m.preview
	case modeSummary:
		body = overlayStyle.Render(m.nav.Summary())
	default:
		body = m.editor.View()
	}

	lines := []string{m.header(), body, m.statusLine()}
	if m.mode == modeSelectChapter || m.mode == modeInsertImage {
		lines = append(lines, m.prompt.View())
	} else {
		lines = append(lines, m.help.ShortHelpView(m.keys.shortHelp()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) header() string {
	c, e := m.nav.Current()
	page := 0
	for i, entry := range c.Entries {
		if entry.ID == e.ID {
			page = i + 1
		}
	}
	title := titleStyle.Render(c.Title)
	pos := mutedStyle.Render(fmt.Sprintf("page %d/%d", page, len(c.Entries)))
	arrows := mutedStyle.Render(arrow(m.nav.HasPrevious(), "◀") + " " + arrow(m.nav.HasNext(), "▶"))
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", pos, "  ", arrows)
}

func (m Model) statusLine() string {
	if m.status == "" {
		return ""
	}
	if m.failed {
		return errorStyle.Render(m.status)
	}
	return mutedStyle.Render(m.status)
}

func arrow(ok bool, s string) string {
	if ok {
		return s
	}
	return " "
}
