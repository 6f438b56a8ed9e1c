package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/LuminariMUD/LuminariGUI-sub002/internal/debug"
	"github.com/LuminariMUD/LuminariGUI-sub002/internal/session"
)

// Model is the bubbletea model for the dashboard. It never touches world or
// map state directly: it re-reads the session's snapshots whenever an event
// says something changed.
type Model struct {
	sess     *session.Session
	debugLog *debug.Logger

	messages []string
	input    string
	width    int
	height   int
	walking  bool
	debug    bool
}

func NewModel(sess *session.Session, debugLog *debug.Logger, debugMode bool) Model {
	messages := []string{"Connected. /walk <vnum> to speedwalk, /help for commands."}
	if debugMode {
		messages = append(messages, "[DEBUG] diagnostics are written to dashboard-debug.log")
	}

	return Model{
		sess:     sess,
		debugLog: debugLog,
		messages: messages,
		debug:    debugMode,
	}
}

func (m Model) Init() tea.Cmd {
	return waitForEvent(m.sess)
}

type sessionEventMsg struct {
	event session.Event
}

// waitForEvent blocks on the session's event stream and surfaces the next
// event as a bubbletea message.
func waitForEvent(sess *session.Session) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-sess.Events()
		if !ok {
			return nil
		}
		return sessionEventMsg{event: ev}
	}
}
