package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

func NewApp(mode string) *Model {
	client := NewWSClient()

	return &Model{
		state:   StateWelcome,
		mode:    mode,
		welcome: NewWelcome(mode),
		chat:    NewChatModel(client),
		client:  client,
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// only quit from welcome screen, not from chat
		if msg.String() == "ctrl+c" && m.state == StateWelcome {
			return m, tea.Quit
		}

		// in chat, ctrl+c disconnects and goes back to welcome
		if msg.String() == "ctrl+c" && m.state == StateChat {
			m.client.Close()
			m.state = StateWelcome
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		if m.state == StateChat {
			m.chat, _ = m.chat.Update(msg)
		}

	case ErrorMsg:
		m.err = msg.err
		return m, nil

	case EnterChatMsg:
		return m, m.client.ConnectCmd()

	case WSConnectedMsg:
		m.state = StateChat
		return m, m.chat.Init()

	case WSConnectErrorMsg:
		m.err = msg.err
		return m, nil

	case DisconnectedMsg:
		m.client.Close()
		m.state = StateWelcome
		m.err = msg.err
		return m, nil
	}

	switch m.state {
	case StateWelcome:
		return m.updateWelcome(msg)

	case StateChat:
		return m.updateChat(msg)

	default:
		return m, nil
	}
}

func (m *Model) View() string {
	if m.err != nil {
		return errorView(m.err)
	}

	switch m.state {
	case StateWelcome:
		return m.welcome.View()

	case StateChat:
		return m.chat.View()

	default:
		return "Unknown state"
	}
}

func (m *Model) updateWelcome(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.welcome, cmd = m.welcome.Update(msg)

	return m, cmd
}

func (m *Model) updateChat(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.chat, cmd = m.chat.Update(msg)

	return m, cmd
}

func errorView(err error) string {
	return fmt.Sprintf("\n  Error: %v\n\n  Press Ctrl+C to exit\n", err)
}
