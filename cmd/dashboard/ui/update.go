package ui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/LuminariMUD/LuminariGUI-sub002/internal/atlas"
	"github.com/LuminariMUD/LuminariGUI-sub002/internal/session"
	"github.com/LuminariMUD/LuminariGUI-sub002/internal/speedwalk"
	"github.com/LuminariMUD/LuminariGUI-sub002/internal/telemetry"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case sessionEventMsg:
		m = m.applyEvent(msg.event)
		return m, waitForEvent(m.sess)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "enter":
			if strings.TrimSpace(m.input) != "" {
				input := m.input
				m.input = ""
				m = m.handleInput(input)
			}
			return m, nil

		case "backspace":
			if len(m.input) > 0 {
				m.input = m.input[:len(m.input)-1]
			}
			return m, nil

		default:
			if len(msg.String()) == 1 {
				m.input += msg.String()
			}
			return m, nil
		}
	}

	return m, nil
}

func (m Model) applyEvent(ev session.Event) Model {
	switch ev.Kind {
	case session.EventWalkFinished:
		m.walking = false
		m.messages = append(m.messages, walkResultLine(ev.Walk))
	case session.EventDiagnostic:
		m.messages = append(m.messages, ev.Message)
	case session.EventStateUpdated:
		// Snapshots are re-read in View; nothing to record.
	}
	return m
}

func walkResultLine(r *speedwalk.Result) string {
	if r == nil {
		return "walk finished"
	}
	switch r.State {
	case speedwalk.Succeeded:
		return fmt.Sprintf("Arrived after %d rooms.", r.HopsWalked)
	case speedwalk.Cancelled:
		return "Walk cancelled."
	default:
		return fmt.Sprintf("Walk failed: %s.", r.Reason)
	}
}

func (m Model) handleInput(input string) Model {
	m.messages = append(m.messages, "> "+input)

	if dir, ok := telemetry.NormalizeDirection(input); ok {
		m.sess.Move(dir)
		return m
	}

	fields := strings.Fields(input)
	switch fields[0] {
	case "/help":
		m.messages = append(m.messages,
			"/walk <vnum>   speedwalk to a mapped room",
			"/path <vnum>   preview the route without walking",
			"/stop          cancel the current walk",
			"/where         show the current room",
			"movement: n s e w ne nw se sw u d (or long names)",
			"anything else is sent to the game as-is")

	case "/walk":
		vnum, ok := vnumArg(fields)
		if !ok {
			m.messages = append(m.messages, "usage: /walk <vnum>")
			return m
		}
		status := m.sess.WalkTo(vnum)
		if status == session.WalkPending {
			m.walking = true
			m.messages = append(m.messages, fmt.Sprintf("Walking to %d...", vnum))
		} else {
			m.messages = append(m.messages, string(status))
		}

	case "/path":
		vnum, ok := vnumArg(fields)
		if !ok {
			m.messages = append(m.messages, "usage: /path <vnum>")
			return m
		}
		path, status := m.sess.PreviewPath(vnum)
		if status != session.WalkPending {
			m.messages = append(m.messages, string(status))
			return m
		}
		m.messages = append(m.messages, "route: "+formatPath(path))

	case "/stop":
		m.sess.CancelWalk()

	case "/where":
		room := m.sess.WhereAmI()
		if !room.Mappable() {
			m.messages = append(m.messages, "Somewhere unmapped.")
		} else {
			m.messages = append(m.messages, fmt.Sprintf("%s (%s) vnum %d", room.Name, room.Area, room.Vnum))
		}

	default:
		m.sess.SendCommand(input)
	}

	return m
}

func vnumArg(fields []string) (int, bool) {
	if len(fields) < 2 {
		return 0, false
	}
	vnum, err := strconv.Atoi(fields[1])
	if err != nil || vnum == 0 {
		return 0, false
	}
	return vnum, true
}

func formatPath(path atlas.Path) string {
	if path.Len() == 0 {
		return "(already there)"
	}
	dirs := make([]string, len(path.Hops))
	for i, hop := range path.Hops {
		dirs[i] = string(hop.Direction)
	}
	line := strings.Join(dirs, " ")
	if path.Speculative {
		line += " (speculative)"
	}
	return line
}
