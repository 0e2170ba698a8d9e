package render

import "strings"

// Markdown style names understood by the renderer
const (
	StyleDark       = "dark"
	StyleLight      = "light"
	StyleTokyoNight = "tokyonight"
	StyleDracula    = "dracula"
	StylePink       = "pink"
	StyleNoTTY      = "notty"
	StyleASCII      = "ascii"
	StyleAuto       = "auto"
)

// glamour spells some standard styles differently
var glamourStyleNames = map[string]string{
	StyleTokyoNight: "tokyo-night",
	"tokyo_night":   "tokyo-night",
}

// StyleInfo describes a markdown style for display purposes.
type StyleInfo struct {
	Name        string
	Description string
}

// AvailableStyles returns the built-in markdown styles.
func AvailableStyles() []StyleInfo {
	return []StyleInfo{
		{Name: StyleDark, Description: "Dark theme (default)"},
		{Name: StyleTokyoNight, Description: "Tokyo Night color scheme"},
		{Name: StyleDracula, Description: "Dracula color scheme"},
		{Name: StyleLight, Description: "Light theme for bright terminals"},
		{Name: StylePink, Description: "Pink accents"},
		{Name: StyleNoTTY, Description: "Plain text (no styling)"},
		{Name: StyleASCII, Description: "ASCII-only output"},
		{Name: StyleAuto, Description: "Pick dark or light from the terminal background"},
	}
}

// IsBuiltinStyle reports whether style names a built-in style rather than a file path.
func IsBuiltinStyle(style string) bool {
	name := strings.ToLower(strings.TrimSpace(style))
	if _, ok := glamourStyleNames[name]; ok {
		return true
	}
	for _, s := range AvailableStyles() {
		if s.Name == name {
			return true
		}
	}
	return false
}

// glamourStyle maps a configured style to the name or path glamour expects.
func glamourStyle(style string) string {
	if style == "" {
		return StyleDark
	}
	name := strings.ToLower(strings.TrimSpace(style))
	if mapped, ok := glamourStyleNames[name]; ok {
		return mapped
	}
	if IsBuiltinStyle(name) {
		return name
	}
	return style
}
