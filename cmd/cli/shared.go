package cli

import (
	"time"

	"github.com/charmbracelet/lipgloss"
	"irremote/internal/remote"
)

// Common styles
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true)

	remoteButtonStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(0, 1).
				Margin(0, 1).
				Background(lipgloss.Color("#44475A")).
				Foreground(lipgloss.Color("#F8F8F2"))

	remoteButtonActiveStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(0, 1).
				Margin(0, 1).
				Background(lipgloss.Color("#FF79C6")).
				Foreground(lipgloss.Color("#FAFAFA"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5555")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#50FA7B")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6272A4"))
)

// remoteButton is one key of the on-screen remote
type remoteButton struct {
	token byte
	label string
	face  string
}

// buttons follow the command table order of a physical remote
var buttons = []remoteButton{
	{remote.TokenPower, "POWER", " PWR  "},
	{remote.TokenMute, "MUTE", "MUTE  "},
	{remote.TokenVolumeUp, "VOL UP", "VOL + "},
	{remote.TokenVolumeDown, "VOL DOWN", "VOL - "},
	{remote.TokenChNext, "CH NEXT", "CH +  "},
	{remote.TokenChPrev, "CH PREV", "CH -  "},
	{remote.TokenInput, "SOURCE", "SRC   "},
}

// keyTokens maps key presses onto command tokens
var keyTokens = map[string]byte{
	"p":     remote.TokenPower,
	"P":     remote.TokenPower,
	"m":     remote.TokenMute,
	"M":     remote.TokenMute,
	"+":     remote.TokenVolumeUp,
	"=":     remote.TokenVolumeUp,
	"up":    remote.TokenVolumeUp,
	"U":     remote.TokenVolumeUp,
	"-":     remote.TokenVolumeDown,
	"down":  remote.TokenVolumeDown,
	"D":     remote.TokenVolumeDown,
	"right": remote.TokenChNext,
	"n":     remote.TokenChNext,
	"N":     remote.TokenChNext,
	"left":  remote.TokenChPrev,
	"l":     remote.TokenChPrev,
	"L":     remote.TokenChPrev,
	"s":     remote.TokenInput,
	"S":     remote.TokenInput,
	"i":     remote.TokenInput,
}

func buttonFor(token byte) (remoteButton, bool) {
	for _, b := range buttons {
		if b.token == token {
			return b, true
		}
	}
	return remoteButton{}, false
}

// LogEntry represents a log entry for display
type LogEntry struct {
	Timestamp time.Time
	Level     string // INF, ERR
	Message   string
}
