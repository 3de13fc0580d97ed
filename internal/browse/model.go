// Package browse is the interactive status tree browser.
package browse

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	log "github.com/chmouel/git-tree/internal/log"
	"github.com/chmouel/git-tree/internal/models"
	"github.com/chmouel/git-tree/internal/tree"
	"github.com/muesli/reflow/truncate"
)

const (
	cursorMark = "› "
	cursorNone = "  "
	// lines outside the row list: title, selection and help
	chromeLines = 3
)

// Options configures the browser.
type Options struct {
	Tree tree.Options
	// Reload rebuilds the tree; nil disables reloading.
	Reload func(ctx context.Context) (*tree.Node, error)
	// Changes triggers a reload on every receive, e.g. a watch.Watcher.
	Changes <-chan struct{}
}

type (
	changedMsg  struct{}
	reloadedMsg struct {
		root *tree.Node
		err  error
	}
)

// Model is the bubbletea model of the browser.
type Model struct {
	ctx      context.Context
	state    *State
	opts     Options
	keys     keyMap
	help     help.Model
	showHelp bool
	width    int
	height   int
	offset   int
	err      error
	quitting bool
}

// NewModel creates a browser for root.
func NewModel(ctx context.Context, root *tree.Node, opts Options) *Model {
	return &Model{
		ctx:   ctx,
		state: NewState(root, opts.Tree),
		opts:  opts,
		keys:  defaultKeyMap(),
		help:  help.New(),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.waitForChange()
}

func (m *Model) waitForChange() tea.Cmd {
	if m.opts.Changes == nil {
		return nil
	}
	changes, ctx := m.opts.Changes, m.ctx
	return func() tea.Msg {
		select {
		case <-changes:
			return changedMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m *Model) reload() tea.Cmd {
	if m.opts.Reload == nil {
		return nil
	}
	reload, ctx := m.opts.Reload, m.ctx
	return func() tea.Msg {
		root, err := reload(ctx)
		return reloadedMsg{root: root, err: err}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.scroll()
		return m, nil

	case changedMsg:
		log.Printf("browse: working tree changed, reloading")
		return m, tea.Batch(m.reload(), m.waitForChange())

	case reloadedMsg:
		m.err = msg.err
		if msg.err == nil && msg.root != nil {
			m.state.SetRoot(msg.root)
		}
		m.scroll()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	case key.Matches(msg, m.keys.Up):
		m.state.Move(-1)
	case key.Matches(msg, m.keys.Down):
		m.state.Move(1)
	case key.Matches(msg, m.keys.PageUp):
		m.state.Move(-m.pageSize())
	case key.Matches(msg, m.keys.PageDown):
		m.state.Move(m.pageSize())
	case key.Matches(msg, m.keys.Top):
		m.state.Index = 0
	case key.Matches(msg, m.keys.Bottom):
		m.state.Index = len(m.state.Rows) - 1
		m.state.ClampIndex()
	case key.Matches(msg, m.keys.Toggle):
		m.state.ToggleCollapse()
	case key.Matches(msg, m.keys.Collapse):
		m.state.Collapse()
	case key.Matches(msg, m.keys.Expand):
		m.state.Expand()
	case key.Matches(msg, m.keys.Reload):
		m.scroll()
		return m, m.reload()
	}
	m.scroll()
	return m, nil
}

// pageSize is the number of rows that fit on screen.
func (m *Model) pageSize() int {
	if m.height <= 0 {
		return len(m.state.Rows)
	}
	n := m.height - chromeLines
	if m.err != nil {
		n--
	}
	if m.showHelp {
		n -= len(m.keys.FullHelp()[0]) - 1
	}
	if n < 1 {
		n = 1
	}
	return n
}

// scroll keeps the cursor inside the visible window.
func (m *Model) scroll() {
	page := m.pageSize()
	if m.state.Index < m.offset {
		m.offset = m.state.Index
	}
	if m.state.Index >= m.offset+page {
		m.offset = m.state.Index - page + 1
	}
	if maxOffset := len(m.state.Rows) - page; m.offset > maxOffset {
		m.offset = maxOffset
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	styles := m.opts.Tree.Styles

	var b strings.Builder
	title := "."
	if m.state.Root != nil && m.state.Root.Name != "" {
		title = m.state.Root.Name
	}
	title = styles.Header(title)
	if counts := countsLine(m.state.Root); counts != "" {
		title += "  " + styles.Faint(counts)
	}
	b.WriteString(m.fit(title))
	b.WriteString("\n")

	if len(m.state.Rows) == 0 {
		b.WriteString(m.fit(styles.Faint(cursorNone + "nothing to show")))
		b.WriteString("\n")
	}
	end := m.offset + m.pageSize()
	if end > len(m.state.Rows) {
		end = len(m.state.Rows)
	}
	for i := m.offset; i < end; i++ {
		b.WriteString(m.fit(m.row(i)))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(m.fit(fmt.Sprintf("reload failed: %v", m.err)))
		b.WriteString("\n")
	}
	if sel := m.selection(); sel != "" {
		b.WriteString(m.fit(styles.Faint(sel)))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// selection describes the row under the cursor, e.g. "src/a.go  modified".
func (m *Model) selection() string {
	path := m.Selected()
	if path == "" || m.state.Index >= len(m.state.Rows) {
		return path
	}
	entry := m.state.Rows[m.state.Index].Node.Entry
	if entry == nil {
		return path
	}
	if entry.OrigPath != "" {
		return fmt.Sprintf("%s  %s from %s", path, entry.Status.Label(), entry.OrigPath)
	}
	return path + "  " + entry.Status.Label()
}

// countsLine tallies the files of root per kind, e.g. "2 untracked, 1 modified".
func countsLine(root *tree.Node) string {
	if root == nil {
		return ""
	}
	counts := models.Counts(root.Entries())
	var parts []string
	for k := models.KindUnmodified; k <= models.KindTypeChanged; k++ {
		if n := counts[k]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, k))
		}
	}
	return strings.Join(parts, ", ")
}

func (m *Model) row(i int) string {
	styles := m.opts.Tree.Styles
	r := m.state.Rows[i]

	text := r.Text
	if m.state.Collapsed[r.Path] && r.Node.HasChildren() {
		text += styles.Faint(" " + tree.Ellipsis)
	}
	if i == m.state.Index {
		return cursorMark + styles.Faint(r.Prefix) + styles.Selected(text)
	}
	return cursorNone + styles.Faint(r.Prefix) + text
}

func (m *Model) fit(line string) string {
	if m.width <= 0 {
		return line
	}
	return truncate.StringWithTail(line, uint(m.width), tree.Ellipsis)
}

// Selected returns the path under the cursor.
func (m *Model) Selected() string {
	return m.state.SelectedPath()
}

// Run starts the browser on in/out and blocks until the user quits or ctx
// is done.
func Run(ctx context.Context, root *tree.Node, opts Options, in io.Reader, out io.Writer) error {
	p := tea.NewProgram(
		NewModel(ctx, root, opts),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
