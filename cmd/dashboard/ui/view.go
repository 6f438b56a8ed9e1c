package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/LuminariMUD/LuminariGUI-sub002/internal/telemetry"
)

func (m Model) View() string {
	inputHeight := 3
	bodyHeight := m.height - inputHeight
	if bodyHeight < 8 {
		bodyHeight = 8
	}
	statusWidth := 34
	logWidth := m.width - statusWidth
	if logWidth < 20 {
		logWidth = 20
	}

	panelStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1)

	statusPanel := panelStyle.
		Width(statusWidth - 2).
		Height(bodyHeight - 2)

	logPanel := panelStyle.
		Width(logWidth - 4).
		Height(bodyHeight - 2)

	inputStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1).
		Width(m.width - 4)

	status := statusPanel.Render(m.statusContent(statusWidth - 4))
	log := logPanel.Render(m.logContent(logWidth-6, bodyHeight-2))
	body := lipgloss.JoinHorizontal(lipgloss.Top, status, log)
	input := inputStyle.Render(m.input + "│")

	return body + "\n" + input
}

func (m Model) statusContent(width int) string {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("7")).Bold(true)
	walkStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	char := m.sess.Character()
	room := m.sess.Room()

	var s strings.Builder

	if char.Name != "" {
		s.WriteString(valueStyle.Render(char.Name))
		s.WriteString(labelStyle.Render(fmt.Sprintf("  L%d %s %s", char.Level, char.Race, char.Class)))
		s.WriteString("\n")
	}

	s.WriteString(gauge("hp", char.Health, char.HealthMax, char.HealthPercent(), width) + "\n")
	s.WriteString(gauge("psp", char.PSP, char.PSPMax, char.PSPPercent(), width) + "\n")
	s.WriteString(gauge("mv", char.Movement, char.MovementMax, char.MovementPercent(), width) + "\n")
	s.WriteString("\n")

	if room.Mappable() {
		s.WriteString(valueStyle.Render(room.Name) + "\n")
		s.WriteString(labelStyle.Render(room.Area) + "\n")
		s.WriteString(labelStyle.Render("exits: "+exitLine(room.Exits)) + "\n")
	} else {
		s.WriteString(labelStyle.Render("somewhere unmapped") + "\n")
	}
	s.WriteString("\n")

	if affects := m.sess.Affects(); len(affects) > 0 {
		s.WriteString(labelStyle.Render("affects") + "\n")
		for _, aff := range affects {
			s.WriteString("  " + aff.Name + "\n")
		}
	}

	if group := m.sess.Group(); len(group) > 0 {
		s.WriteString(labelStyle.Render("group") + "\n")
		for _, member := range group {
			name := member.Name
			if member.Leader {
				name += "*"
			}
			s.WriteString(fmt.Sprintf("  %-12s %3d%% %3d%%\n", name, member.HealthPercent, member.MovementPercent))
		}
	}

	if m.walking {
		s.WriteString("\n" + walkStyle.Render("speedwalking…") + "\n")
	}

	return s.String()
}

func (m Model) logContent(width, height int) string {
	messageStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	userStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	debugStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	maxMessages := height - 2
	if maxMessages < 1 {
		maxMessages = 1
	}
	visible := m.messages
	if len(visible) > maxMessages {
		visible = visible[len(visible)-maxMessages:]
	}

	var s strings.Builder
	for _, message := range visible {
		wrapped := wrapAndIndent(message, width, " ")
		switch {
		case strings.HasPrefix(message, "> "):
			s.WriteString(userStyle.Render(wrapped) + "\n")
		case strings.HasPrefix(message, "[DEBUG] "):
			s.WriteString(debugStyle.Render(wrapped) + "\n")
		default:
			s.WriteString(messageStyle.Render(wrapped) + "\n")
		}
	}
	return s.String()
}

// gauge renders one stat bar; the percentage is always computed from the raw
// values, never cached.
func gauge(label string, value, max, pct, width int) string {
	barWidth := width - 16
	if barWidth < 4 {
		barWidth = 4
	}
	filled := barWidth * pct / 100
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	return fmt.Sprintf("%-3s %s %d/%d", label, bar, value, max)
}

func exitLine(exits map[telemetry.Direction]int) string {
	if len(exits) == 0 {
		return "none"
	}
	dirs := make([]telemetry.Direction, 0, len(exits))
	for dir := range exits {
		dirs = append(dirs, dir)
	}
	telemetry.SortDirections(dirs)
	parts := make([]string, len(dirs))
	for i, dir := range dirs {
		parts[i] = string(dir)
	}
	return strings.Join(parts, " ")
}

func wrapAndIndent(text string, width int, indent string) string {
	if len(text) <= width {
		return indent + text
	}

	var result strings.Builder
	words := strings.Fields(text)
	if len(words) == 0 {
		return indent + text
	}

	currentLine := indent + words[0]

	for _, word := range words[1:] {
		if len(currentLine)+1+len(word) <= width {
			currentLine += " " + word
		} else {
			result.WriteString(currentLine + "\n")
			currentLine = indent + word
		}
	}

	result.WriteString(currentLine)
	return result.String()
}
