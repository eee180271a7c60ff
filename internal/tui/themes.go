package tui

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
)

// CHATWRAPPED_THEME_DIR can list extra theme directories, separated like PATH.
const themeDirEnvVar = "CHATWRAPPED_THEME_DIR"

// Theme is the color token set of the TUI. Theme files are JSON objects with
// the same snake_case keys.
type Theme struct {
	Name string `json:"name"`
	Icon string `json:"icon"`

	Base     lipgloss.Color `json:"base"`
	Mantle   lipgloss.Color `json:"mantle"`
	Surface0 lipgloss.Color `json:"surface0"`
	Surface1 lipgloss.Color `json:"surface1"`

	Text    lipgloss.Color `json:"text"`
	Subtext lipgloss.Color `json:"subtext"`
	Dim     lipgloss.Color `json:"dim"`

	Accent   lipgloss.Color `json:"accent"`
	Blue     lipgloss.Color `json:"blue"`
	Sapphire lipgloss.Color `json:"sapphire"`
	Green    lipgloss.Color `json:"green"`
	Yellow   lipgloss.Color `json:"yellow"`
	Red      lipgloss.Color `json:"red"`
	Peach    lipgloss.Color `json:"peach"`
	Teal     lipgloss.Color `json:"teal"`
	Lavender lipgloss.Color `json:"lavender"`
	Sky      lipgloss.Color `json:"sky"`
	Flamingo lipgloss.Color `json:"flamingo"`
}

const defaultThemeName = "Gruvbox"

var (
	themeMu        sync.RWMutex
	themes         []Theme
	activeThemeIdx int
)

func init() {
	themes = builtinThemes()
	activeThemeIdx = defaultThemeIndex(themes)
	applyTheme(themes[activeThemeIdx])
}

func builtinThemes() []Theme {
	return []Theme{
		{
			Name: "Gruvbox", Icon: "🌻",
			Base: "#282828", Mantle: "#1D2021", Surface0: "#3C3836", Surface1: "#504945",
			Text: "#EBDBB2", Subtext: "#D5C4A1", Dim: "#665C54",
			Accent: "#D3869B", Blue: "#83A598", Sapphire: "#83A598",
			Green: "#B8BB26", Yellow: "#FABD2F", Red: "#FB4934",
			Peach: "#FE8019", Teal: "#8EC07C", Lavender: "#D3869B", Sky: "#83A598", Flamingo: "#D3869B",
		},
		{
			Name: "WhatsApp", Icon: "💬",
			Base: "#0B141A", Mantle: "#111B21", Surface0: "#202C33", Surface1: "#2A3942",
			Text: "#E9EDEF", Subtext: "#AEBAC1", Dim: "#667781",
			Accent: "#25D366", Blue: "#53BDEB", Sapphire: "#128C7E",
			Green: "#25D366", Yellow: "#FFD93D", Red: "#FF6B6B",
			Peach: "#F7A05B", Teal: "#20C997", Lavender: "#6C63FF", Sky: "#53BDEB", Flamingo: "#FF6B6B",
		},
		{
			Name: "Catppuccin Mocha", Icon: "🐱",
			Base: "#1E1E2E", Mantle: "#181825", Surface0: "#313244", Surface1: "#45475A",
			Text: "#CDD6F4", Subtext: "#A6ADC8", Dim: "#585B70",
			Accent: "#CBA6F7", Blue: "#89B4FA", Sapphire: "#74C7EC",
			Green: "#A6E3A1", Yellow: "#F9E2AF", Red: "#F38BA8",
			Peach: "#FAB387", Teal: "#94E2D5", Lavender: "#B4BEFE", Sky: "#89DCEB", Flamingo: "#F2CDCD",
		},
		{
			Name: "Dracula", Icon: "🧛",
			Base: "#282A36", Mantle: "#21222C", Surface0: "#44475A", Surface1: "#6272A4",
			Text: "#F8F8F2", Subtext: "#BFBFBF", Dim: "#6272A4",
			Accent: "#BD93F9", Blue: "#8BE9FD", Sapphire: "#8BE9FD",
			Green: "#50FA7B", Yellow: "#F1FA8C", Red: "#FF5555",
			Peach: "#FFB86C", Teal: "#8BE9FD", Lavender: "#BD93F9", Sky: "#8BE9FD", Flamingo: "#FF79C6",
		},
		{
			Name: "Nord", Icon: "❄",
			Base: "#2E3440", Mantle: "#242933", Surface0: "#3B4252", Surface1: "#434C5E",
			Text: "#ECEFF4", Subtext: "#D8DEE9", Dim: "#4C566A",
			Accent: "#B48EAD", Blue: "#81A1C1", Sapphire: "#88C0D0",
			Green: "#A3BE8C", Yellow: "#EBCB8B", Red: "#BF616A",
			Peach: "#D08770", Teal: "#8FBCBB", Lavender: "#B48EAD", Sky: "#88C0D0", Flamingo: "#B48EAD",
		},
		{
			Name: "Tokyo Night", Icon: "🌃",
			Base: "#1A1B26", Mantle: "#16161E", Surface0: "#24283B", Surface1: "#414868",
			Text: "#C0CAF5", Subtext: "#A9B1D6", Dim: "#565F89",
			Accent: "#BB9AF7", Blue: "#7AA2F7", Sapphire: "#7DCFFF",
			Green: "#9ECE6A", Yellow: "#E0AF68", Red: "#F7768E",
			Peach: "#FF9E64", Teal: "#73DACA", Lavender: "#BB9AF7", Sky: "#7DCFFF", Flamingo: "#FF007C",
		},
	}
}

func applyTheme(t Theme) {
	colorBase = t.Base
	colorMantle = t.Mantle
	colorSurface0 = t.Surface0
	colorSurface1 = t.Surface1
	colorText = t.Text
	colorSubtext = t.Subtext
	colorDim = t.Dim
	colorAccent = t.Accent
	colorBlue = t.Blue
	colorSapphire = t.Sapphire
	colorGreen = t.Green
	colorYellow = t.Yellow
	colorRed = t.Red
	colorPeach = t.Peach
	colorTeal = t.Teal
	colorLavender = t.Lavender
	colorSky = t.Sky
	colorFlamingo = t.Flamingo
	rebuildStyles()
}

func defaultThemeIndex(all []Theme) int {
	_, idx, ok := lo.FindIndexOf(all, func(t Theme) bool {
		return strings.EqualFold(t.Name, defaultThemeName)
	})
	if !ok {
		return 0
	}
	return idx
}

func (t Theme) colors() []struct {
	name  string
	value *lipgloss.Color
} {
	return []struct {
		name  string
		value *lipgloss.Color
	}{
		{"base", &t.Base}, {"mantle", &t.Mantle}, {"surface0", &t.Surface0}, {"surface1", &t.Surface1},
		{"text", &t.Text}, {"subtext", &t.Subtext}, {"dim", &t.Dim},
		{"accent", &t.Accent}, {"blue", &t.Blue}, {"sapphire", &t.Sapphire},
		{"green", &t.Green}, {"yellow", &t.Yellow}, {"red", &t.Red},
		{"peach", &t.Peach}, {"teal", &t.Teal}, {"lavender", &t.Lavender},
		{"sky", &t.Sky}, {"flamingo", &t.Flamingo},
	}
}

func (t Theme) validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("missing required field: name")
	}
	var missing []string
	for _, c := range t.colors() {
		if strings.TrimSpace(string(*c.value)) == "" {
			missing = append(missing, c.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required color fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

func themeSearchDirs(configDir string) []string {
	var dirs []string
	if strings.TrimSpace(configDir) != "" {
		dirs = append(dirs, filepath.Join(configDir, "themes"))
	}
	if env := strings.TrimSpace(os.Getenv(themeDirEnvVar)); env != "" {
		dirs = append(dirs, filepath.SplitList(env)...)
	}
	dirs = lo.Map(lo.Compact(lo.Map(dirs, func(d string, _ int) string {
		return strings.TrimSpace(d)
	})), func(d string, _ int) string { return filepath.Clean(d) })
	return lo.Uniq(dirs)
}

func loadThemesFromDir(dir string) ([]Theme, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read theme dir %s: %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Name()) < strings.ToLower(entries[j].Name())
	})

	var loaded []Theme
	var errs []error
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("read %s: %w", path, err))
			continue
		}
		var t Theme
		if err := json.Unmarshal(data, &t); err != nil {
			errs = append(errs, fmt.Errorf("parse %s: %w", path, err))
			continue
		}
		t.Name = strings.TrimSpace(t.Name)
		if t.Icon == "" {
			t.Icon = "🎨"
		}
		if err := t.validate(); err != nil {
			errs = append(errs, fmt.Errorf("validate %s: %w", path, err))
			continue
		}
		loaded = append(loaded, t)
	}
	return loaded, errors.Join(errs...)
}

// mergeThemes overrides built-ins by case-insensitive name and appends the rest.
func mergeThemes(base, extra []Theme) []Theme {
	merged := append([]Theme(nil), base...)
	for _, t := range extra {
		_, i, ok := lo.FindIndexOf(merged, func(b Theme) bool {
			return strings.EqualFold(b.Name, t.Name)
		})
		if ok {
			merged[i] = t
			continue
		}
		merged = append(merged, t)
	}
	return merged
}

func setActiveThemeByNameLocked(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	_, i, ok := lo.FindIndexOf(themes, func(t Theme) bool {
		return strings.EqualFold(t.Name, name)
	})
	if !ok {
		return false
	}
	activeThemeIdx = i
	applyTheme(themes[i])
	return true
}

// LoadThemes rebuilds the catalog from the built-ins plus JSON files found in
// <configDir>/themes and CHATWRAPPED_THEME_DIR. Broken files are skipped and
// reported together in the returned error.
func LoadThemes(configDir string) error {
	themeMu.Lock()
	defer themeMu.Unlock()

	current := themes[activeThemeIdx].Name
	next := builtinThemes()
	var errs []error
	for _, dir := range themeSearchDirs(configDir) {
		loaded, err := loadThemesFromDir(dir)
		if err != nil {
			errs = append(errs, err)
		}
		next = mergeThemes(next, loaded)
	}
	themes = next
	if !setActiveThemeByNameLocked(current) {
		activeThemeIdx = defaultThemeIndex(themes)
		applyTheme(themes[activeThemeIdx])
	}
	return errors.Join(errs...)
}

func AvailableThemes() []Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return append([]Theme(nil), themes...)
}

func ActiveTheme() Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return themes[activeThemeIdx]
}

// CycleTheme switches to the next theme for this session only.
func CycleTheme() string {
	themeMu.Lock()
	defer themeMu.Unlock()
	activeThemeIdx = (activeThemeIdx + 1) % len(themes)
	applyTheme(themes[activeThemeIdx])
	return themes[activeThemeIdx].Name
}

func ThemeName() string {
	t := ActiveTheme()
	if t.Icon == "" {
		return t.Name
	}
	return t.Icon + " " + t.Name
}

func SetThemeByName(name string) bool {
	themeMu.Lock()
	defer themeMu.Unlock()
	return setActiveThemeByNameLocked(name)
}
