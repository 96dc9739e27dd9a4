// Copyright 2025 Arion Yau
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"irremote/internal/link"
	"irremote/internal/logger"
)

// sentMsg reports the outcome of one token write
type sentMsg struct {
	token byte
	err   error
	at    time.Time
}

// RemoteModel handles the remote control screen
type RemoteModel struct {
	sender link.Sender
	target string

	// Remote control state
	lastToken       byte
	lastButtonPress time.Time
	lastErr         error
	sentCount       int

	// Flags
	debugMode bool
	testMode  bool

	width  int
	height int

	logBuffer   []LogEntry
	maxLogLines int
}

// NewRemoteModel creates the remote screen for a connected sender
func NewRemoteModel(sender link.Sender, target string, debug, test bool) RemoteModel {
	return RemoteModel{
		sender:      sender,
		target:      target,
		debugMode:   debug,
		testMode:    test,
		logBuffer:   []LogEntry{},
		maxLogLines: 3,
	}
}

// Update handles remote control screen messages
func (m RemoteModel) Update(msg tea.Msg) (RemoteModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if token, ok := keyTokens[msg.String()]; ok {
			return m.pressButton(token)
		}

	case sentMsg:
		return m.handleSent(msg), nil
	}

	return m, nil
}

// pressButton highlights the button and sends its token in the background
func (m RemoteModel) pressButton(token byte) (RemoteModel, tea.Cmd) {
	if m.sender == nil {
		return m, nil
	}
	m.lastToken = token
	m.lastButtonPress = time.Now()

	sender := m.sender
	return m, func() tea.Msg {
		err := sender.Send(token)
		return sentMsg{token: token, err: err, at: time.Now()}
	}
}

func (m RemoteModel) handleSent(msg sentMsg) RemoteModel {
	label := string([]byte{msg.token})
	if b, ok := buttonFor(msg.token); ok {
		label = b.label
	}

	log := logger.New()
	if msg.err != nil {
		m.lastErr = msg.err
		m.addLogEntry(msg.at, "ERR", fmt.Sprintf("%s failed: %v", label, msg.err))
		log.Error().Err(msg.err).Str("token", string([]byte{msg.token})).Msg("Failed to send token")
		return m
	}

	m.lastErr = nil
	m.sentCount++
	m.addLogEntry(msg.at, "INF", fmt.Sprintf("Sent %c (%s)", msg.token, label))
	log.Info().Str("token", string([]byte{msg.token})).Str("label", label).Msg("Remote button pressed")
	return m
}

// View renders the remote control screen
func (m RemoteModel) View() string {
	var sections []string

	sections = append(sections, titleStyle.Render("irremote - TV Remote"))

	target := successStyle.Render("📺 " + m.target)
	if m.testMode {
		target += " " + lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB86C")).Render("(Test)")
	}
	sections = append(sections, target)

	sections = append(sections, m.renderButtons())

	if status := m.renderStatusBar(); status != "" {
		sections = append(sections, status)
	}

	if m.debugMode || m.testMode {
		if logDisplay := m.renderLogDisplay(); logDisplay != "" {
			sections = append(sections, logDisplay)
		}
	}

	sections = append(sections, m.renderHelpText())

	return strings.Join(sections, "\n\n")
}

func (m RemoteModel) renderButtons() string {
	style := func(token byte) lipgloss.Style {
		if m.lastToken == token && time.Since(m.lastButtonPress) < 200*time.Millisecond {
			return remoteButtonActiveStyle
		}
		return remoteButtonStyle
	}

	var row []string
	for _, b := range buttons {
		row = append(row, style(b.token).Render(b.face))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, row...)
}

func (m RemoteModel) renderStatusBar() string {
	if m.lastErr != nil {
		return errorStyle.Render("✗ " + m.lastErr.Error())
	}
	if m.sentCount > 0 {
		return successStyle.Render(fmt.Sprintf("✓ %d commands sent", m.sentCount))
	}
	return ""
}

// renderLogDisplay shows the most recent log lines
func (m RemoteModel) renderLogDisplay() string {
	if len(m.logBuffer) == 0 {
		return ""
	}

	start := 0
	if len(m.logBuffer) > m.maxLogLines {
		start = len(m.logBuffer) - m.maxLogLines
	}

	lines := []string{lipgloss.NewStyle().Foreground(lipgloss.Color("#6272A4")).Render("─── LOGS ───")}
	for _, entry := range m.logBuffer[start:] {
		levelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#50FA7B"))
		if entry.Level == "ERR" {
			levelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555"))
		}
		lines = append(lines, fmt.Sprintf("%s [%s] %s",
			entry.Timestamp.Format("15:04:05"),
			levelStyle.Render(entry.Level),
			entry.Message))
	}
	return strings.Join(lines, "\n")
}

func (m *RemoteModel) addLogEntry(at time.Time, level, message string) {
	m.logBuffer = append(m.logBuffer, LogEntry{
		Timestamp: at,
		Level:     level,
		Message:   message,
	})
	if len(m.logBuffer) > 20 {
		m.logBuffer = m.logBuffer[1:]
	}
}

func (m RemoteModel) renderHelpText() string {
	help := "P: Power • M: Mute • +/-: Volume • ←/→: Channel • S: Source • q: Quit"
	return helpStyle.Render(help)
}
