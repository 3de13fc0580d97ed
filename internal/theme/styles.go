package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/chmouel/git-tree/internal/models"
)

// Styles paints the parts of a rendered tree. A nil *Styles, or one built
// with Plain, leaves text untouched.
type Styles struct {
	plain bool

	Modified   lipgloss.Style
	Added      lipgloss.Style
	Deleted    lipgloss.Style
	Renamed    lipgloss.Style
	Conflicted lipgloss.Style
	Ignored    lipgloss.Style
	Text       lipgloss.Style
	Directory  lipgloss.Style
	Muted      lipgloss.Style
	Branch     lipgloss.Style
	Insertions lipgloss.Style
	Deletions  lipgloss.Style
	Files      lipgloss.Style
}

// Plain returns styles that never emit escape sequences.
func Plain() *Styles {
	return &Styles{plain: true}
}

// NewStyles builds the styles for t on renderer r. The renderer decides the
// colour profile, so the same theme degrades on 16 colour terminals.
func NewStyles(t *Theme, r *lipgloss.Renderer) *Styles {
	if t == nil {
		t = ANSI()
	}
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	fg := func(c lipgloss.Color) lipgloss.Style {
		return r.NewStyle().Foreground(c)
	}
	return &Styles{
		Modified:   fg(t.Modified),
		Added:      fg(t.Added),
		Deleted:    fg(t.Deleted),
		Renamed:    fg(t.Renamed),
		Conflicted: fg(t.Conflicted),
		Ignored:    fg(t.Ignored),
		Text:       fg(t.TextFg),
		Directory:  fg(t.Directory),
		Muted:      fg(t.MutedFg),
		Branch:     fg(t.Branch),
		Insertions: fg(t.Insertions),
		Deletions:  fg(t.Deletions),
		Files:      fg(t.Files),
	}
}

// Enabled reports whether the styles emit colours.
func (s *Styles) Enabled() bool {
	return s != nil && !s.plain
}

func (s *Styles) paint(pick func(*Styles) lipgloss.Style, text string) string {
	if !s.Enabled() {
		return text
	}
	return pick(s).Render(text)
}

// ForStatus picks the style of a file name. Changes already in the index are
// bold.
func (s *Styles) ForStatus(st models.Status) lipgloss.Style {
	var style lipgloss.Style
	switch st.Kind() {
	case models.KindModified, models.KindTypeChanged:
		style = s.Modified
	case models.KindAdded, models.KindUntracked:
		style = s.Added
	case models.KindDeleted:
		style = s.Deleted
	case models.KindRenamed, models.KindCopied:
		style = s.Renamed
	case models.KindConflicted:
		style = s.Conflicted
	case models.KindIgnored:
		style = s.Ignored
	default:
		style = s.Text
	}
	if st.Staged() && !st.WorktreeChanged() {
		style = style.Bold(true)
	}
	return style
}

// Name paints a file name according to its status.
func (s *Styles) Name(name string, st models.Status) string {
	if !s.Enabled() {
		return name
	}
	return s.ForStatus(st).Render(name)
}

// Marker paints the two column status marker.
func (s *Styles) Marker(marker string) string {
	return s.paint(func(s *Styles) lipgloss.Style { return s.Muted }, marker)
}

// Dir paints a directory name.
func (s *Styles) Dir(name string) string {
	return s.paint(func(s *Styles) lipgloss.Style { return s.Directory }, name)
}

// BranchName paints a "[branch]" label.
func (s *Styles) BranchName(text string) string {
	return s.paint(func(s *Styles) lipgloss.Style { return s.Branch }, text)
}

// InsertionCount paints an insertion count.
func (s *Styles) InsertionCount(text string) string {
	return s.paint(func(s *Styles) lipgloss.Style { return s.Insertions }, text)
}

// DeletionCount paints a deletion count.
func (s *Styles) DeletionCount(text string) string {
	return s.paint(func(s *Styles) lipgloss.Style { return s.Deletions }, text)
}

// FileCount paints a changed files count.
func (s *Styles) FileCount(text string) string {
	return s.paint(func(s *Styles) lipgloss.Style { return s.Files }, text)
}

// Header paints a title line.
func (s *Styles) Header(text string) string {
	return s.paint(func(s *Styles) lipgloss.Style { return s.Directory.Bold(true) }, text)
}

// Faint paints secondary text such as hints and guides.
func (s *Styles) Faint(text string) string {
	return s.paint(func(s *Styles) lipgloss.Style { return s.Muted }, text)
}

// Selected highlights the row under the cursor.
func (s *Styles) Selected(text string) string {
	return s.paint(func(s *Styles) lipgloss.Style { return s.Text.Reverse(true) }, text)
}
