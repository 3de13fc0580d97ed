// Package theme provides the colour palettes used to render status trees.
package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines all colors used when printing a tree.
type Theme struct {
	Modified   lipgloss.Color // worktree and index modifications
	Added      lipgloss.Color // untracked and newly added files
	Deleted    lipgloss.Color
	Renamed    lipgloss.Color // renames and copies
	Conflicted lipgloss.Color
	Ignored    lipgloss.Color
	Directory  lipgloss.Color
	MutedFg    lipgloss.Color // markers and tree guides
	TextFg     lipgloss.Color // unmodified entries
	Branch     lipgloss.Color
	Insertions lipgloss.Color
	Deletions  lipgloss.Color
	Files      lipgloss.Color
}

// Theme names.
const (
	ANSIName            = "ansi"
	DraculaName         = "dracula"
	DraculaLightName    = "dracula-light"
	NordName            = "nord"
	GruvboxDarkName     = "gruvbox-dark"
	SolarizedLightName  = "solarized-light"
	CatppuccinMochaName = "catppuccin-mocha"
)

// ANSI uses the 16 colour terminal palette plus grey 244, so the output
// follows the user's terminal colours.
func ANSI() *Theme {
	return &Theme{
		Modified:   lipgloss.Color("1"),   // Red
		Added:      lipgloss.Color("2"),   // Green
		Deleted:    lipgloss.Color("1"),   // Red
		Renamed:    lipgloss.Color("5"),   // Magenta
		Conflicted: lipgloss.Color("3"),   // Yellow
		Ignored:    lipgloss.Color("4"),   // Blue
		Directory:  lipgloss.Color("7"),   // White
		MutedFg:    lipgloss.Color("244"), // Grey
		TextFg:     lipgloss.Color("7"),
		Branch:     lipgloss.Color("244"),
		Insertions: lipgloss.Color("2"),
		Deletions:  lipgloss.Color("1"),
		Files:      lipgloss.Color("3"),
	}
}

// Dracula returns the Dracula theme (dark background, vibrant colors).
func Dracula() *Theme {
	return &Theme{
		Modified:   lipgloss.Color("#FF5555"), // Red
		Added:      lipgloss.Color("#50FA7B"), // Green
		Deleted:    lipgloss.Color("#FF5555"),
		Renamed:    lipgloss.Color("#FF79C6"), // Pink
		Conflicted: lipgloss.Color("#FFB86C"), // Orange
		Ignored:    lipgloss.Color("#8BE9FD"), // Cyan
		Directory:  lipgloss.Color("#BD93F9"), // Purple
		MutedFg:    lipgloss.Color("#6272A4"), // Comment
		TextFg:     lipgloss.Color("#F8F8F2"),
		Branch:     lipgloss.Color("#6272A4"),
		Insertions: lipgloss.Color("#50FA7B"),
		Deletions:  lipgloss.Color("#FF5555"),
		Files:      lipgloss.Color("#F1FA8C"), // Yellow
	}
}

// DraculaLight returns the Dracula theme adapted for light backgrounds.
func DraculaLight() *Theme {
	return &Theme{
		Modified:   lipgloss.Color("#DC2626"),
		Added:      lipgloss.Color("#059669"),
		Deleted:    lipgloss.Color("#DC2626"),
		Renamed:    lipgloss.Color("#DB2777"),
		Conflicted: lipgloss.Color("#D97706"),
		Ignored:    lipgloss.Color("#0891B2"),
		Directory:  lipgloss.Color("#7C3AED"),
		MutedFg:    lipgloss.Color("#6E7781"),
		TextFg:     lipgloss.Color("#24292F"),
		Branch:     lipgloss.Color("#6E7781"),
		Insertions: lipgloss.Color("#059669"),
		Deletions:  lipgloss.Color("#DC2626"),
		Files:      lipgloss.Color("#CA8A04"),
	}
}

// Nord returns the Nord theme.
func Nord() *Theme {
	return &Theme{
		Modified:   lipgloss.Color("#BF616A"), // nord11
		Added:      lipgloss.Color("#A3BE8C"), // nord14
		Deleted:    lipgloss.Color("#BF616A"),
		Renamed:    lipgloss.Color("#B48EAD"), // nord15
		Conflicted: lipgloss.Color("#EBCB8B"), // nord13
		Ignored:    lipgloss.Color("#81A1C1"), // nord9
		Directory:  lipgloss.Color("#88C0D0"), // nord8
		MutedFg:    lipgloss.Color("#4C566A"), // nord3
		TextFg:     lipgloss.Color("#D8DEE9"),
		Branch:     lipgloss.Color("#4C566A"),
		Insertions: lipgloss.Color("#A3BE8C"),
		Deletions:  lipgloss.Color("#BF616A"),
		Files:      lipgloss.Color("#EBCB8B"),
	}
}

// GruvboxDark returns the Gruvbox dark theme.
func GruvboxDark() *Theme {
	return &Theme{
		Modified:   lipgloss.Color("#FB4934"),
		Added:      lipgloss.Color("#B8BB26"),
		Deleted:    lipgloss.Color("#FB4934"),
		Renamed:    lipgloss.Color("#D3869B"),
		Conflicted: lipgloss.Color("#FE8019"),
		Ignored:    lipgloss.Color("#83A598"),
		Directory:  lipgloss.Color("#FABD2F"),
		MutedFg:    lipgloss.Color("#928374"),
		TextFg:     lipgloss.Color("#EBDBB2"),
		Branch:     lipgloss.Color("#928374"),
		Insertions: lipgloss.Color("#B8BB26"),
		Deletions:  lipgloss.Color("#FB4934"),
		Files:      lipgloss.Color("#FABD2F"),
	}
}

// SolarizedLight returns the Solarized light theme.
func SolarizedLight() *Theme {
	return &Theme{
		Modified:   lipgloss.Color("#DC322F"),
		Added:      lipgloss.Color("#859900"),
		Deleted:    lipgloss.Color("#DC322F"),
		Renamed:    lipgloss.Color("#D33682"),
		Conflicted: lipgloss.Color("#CB4B16"),
		Ignored:    lipgloss.Color("#268BD2"),
		Directory:  lipgloss.Color("#6C71C4"),
		MutedFg:    lipgloss.Color("#93A1A1"),
		TextFg:     lipgloss.Color("#586E75"),
		Branch:     lipgloss.Color("#93A1A1"),
		Insertions: lipgloss.Color("#859900"),
		Deletions:  lipgloss.Color("#DC322F"),
		Files:      lipgloss.Color("#B58900"),
	}
}

// CatppuccinMocha returns the Catppuccin Mocha theme.
func CatppuccinMocha() *Theme {
	return &Theme{
		Modified:   lipgloss.Color("#F38BA8"), // Red
		Added:      lipgloss.Color("#A6E3A1"), // Green
		Deleted:    lipgloss.Color("#F38BA8"),
		Renamed:    lipgloss.Color("#F5C2E7"), // Pink
		Conflicted: lipgloss.Color("#FAB387"), // Peach
		Ignored:    lipgloss.Color("#89B4FA"), // Blue
		Directory:  lipgloss.Color("#CBA6F7"), // Mauve
		MutedFg:    lipgloss.Color("#6C7086"), // Overlay0
		TextFg:     lipgloss.Color("#CDD6F4"),
		Branch:     lipgloss.Color("#6C7086"),
		Insertions: lipgloss.Color("#A6E3A1"),
		Deletions:  lipgloss.Color("#F38BA8"),
		Files:      lipgloss.Color("#F9E2AF"), // Yellow
	}
}

// GetTheme returns a theme by name, or ANSI if not found.
func GetTheme(name string) *Theme {
	switch name {
	case DraculaName:
		return Dracula()
	case DraculaLightName:
		return DraculaLight()
	case NordName:
		return Nord()
	case GruvboxDarkName:
		return GruvboxDark()
	case SolarizedLightName:
		return SolarizedLight()
	case CatppuccinMochaName:
		return CatppuccinMocha()
	default:
		return ANSI()
	}
}

// Default returns the default theme name.
func Default() string {
	return ANSIName
}

// AvailableThemes returns a list of available theme names.
func AvailableThemes() []string {
	return []string{
		ANSIName,
		DraculaName,
		DraculaLightName,
		NordName,
		GruvboxDarkName,
		SolarizedLightName,
		CatppuccinMochaName,
	}
}

// Normalize returns the canonical theme name, or "" when unknown.
func Normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, n := range AvailableThemes() {
		if n == name {
			return n
		}
	}
	return ""
}
